package surveyhdl

import (
	"strings"

	basehdl "engagement_survey/internal/api/base/handler"
	surveydto "engagement_survey/internal/api/survey/dto"
	models "engagement_survey/internal/api/survey/models"
	surveysvc "engagement_survey/internal/api/survey/service"
	"engagement_survey/internal/session"
)

// SurveyHandler xử lý CRUD khảo sát (giới hạn theo companyId)
type SurveyHandler struct {
	*basehdl.BaseHandler[models.Survey, surveydto.SurveyCreateInput, surveydto.SurveyUpdateInput]
}

// NewSurveyHandler tạo SurveyHandler
func NewSurveyHandler(svc *surveysvc.SurveyService) *SurveyHandler {
	return &SurveyHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Survey, surveydto.SurveyCreateInput, surveydto.SurveyUpdateInput](svc, "companyId", surveyFromInput),
	}
}

func surveyFromInput(s session.Session, input *surveydto.SurveyCreateInput) (models.Survey, error) {
	companyID, err := basehdl.ScopeCompanyID(s, input.CompanyID)
	if err != nil {
		return models.Survey{}, err
	}
	status := input.Status
	if status == "" {
		status = models.SurveyStatusDraft
	}
	return models.Survey{
		CompanyID:   companyID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		OpensAt:     input.OpensAt,
		ClosesAt:    input.ClosesAt,
	}, nil
}
