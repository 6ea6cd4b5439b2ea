package surveyhdl

import (
	basehdl "engagement_survey/internal/api/base/handler"
	surveydto "engagement_survey/internal/api/survey/dto"
	models "engagement_survey/internal/api/survey/models"
	surveysvc "engagement_survey/internal/api/survey/service"
	"engagement_survey/internal/session"
)

// SnippetHandler xử lý CRUD snippet (dùng chung, không giới hạn công ty)
type SnippetHandler struct {
	*basehdl.BaseHandler[models.Snippet, surveydto.SnippetCreateInput, surveydto.SnippetUpdateInput]
}

// NewSnippetHandler tạo SnippetHandler
func NewSnippetHandler(svc *surveysvc.SnippetService) *SnippetHandler {
	return &SnippetHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Snippet, surveydto.SnippetCreateInput, surveydto.SnippetUpdateInput](svc, "", snippetFromInput),
	}
}

func snippetFromInput(_ session.Session, input *surveydto.SnippetCreateInput) (models.Snippet, error) {
	return surveysvc.NewSnippet(input.Factor, input.MinScore, input.MaxScore, input.Text)
}
