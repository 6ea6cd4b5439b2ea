package surveyhdl

import (
	"context"

	basehdl "engagement_survey/internal/api/base/handler"
	basesvc "engagement_survey/internal/api/base/service"
	surveydto "engagement_survey/internal/api/survey/dto"
	models "engagement_survey/internal/api/survey/models"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/session"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionService là các thao tác handler cần từ surveysvc.QuestionService
type QuestionService interface {
	basesvc.BaseServiceMongo[models.Question]
	Create(ctx context.Context, sess session.Session, surveyID, factor, text string, order int) (models.Question, error)
	ForSurvey(ctx context.Context, surveyID primitive.ObjectID, includeDisabled bool) ([]models.Question, error)
}

// SurveyAccess kiểm tra quyền truy cập khảo sát theo session
type SurveyAccess interface {
	ForSession(ctx context.Context, sess session.Session, surveyID string) (models.Survey, error)
}

// QuestionHandler xử lý CRUD câu hỏi và danh sách câu hỏi của một khảo sát
type QuestionHandler struct {
	*basehdl.BaseHandler[models.Question, surveydto.QuestionCreateInput, surveydto.QuestionUpdateInput]
	questions QuestionService
	surveys   SurveyAccess
}

// NewQuestionHandler tạo QuestionHandler
func NewQuestionHandler(questions QuestionService, surveys SurveyAccess) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Question, surveydto.QuestionCreateInput, surveydto.QuestionUpdateInput](questions, "companyId", nil),
		questions:   questions,
		surveys:     surveys,
	}
}

// InsertOne tạo câu hỏi. companyId lấy từ khảo sát chứ không từ body
func (h *QuestionHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input surveydto.QuestionCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		question, err := h.questions.Create(c.Context(), s, input.SurveyID, input.Factor, input.Text, input.Order)
		if err == nil {
			logger.LogCRUD("insert", "questions", question.ID.Hex(), c, nil)
		}
		h.HandleResponse(c, question, err)
		return nil
	})
}

// HandleSurveyQuestions trả về câu hỏi đang bật của khảo sát :id theo thứ tự.
// Admin có thể thêm ?includeDisabled=true
func (h *QuestionHandler) HandleSurveyQuestions(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		survey, err := h.surveys.ForSession(c.Context(), s, c.Params("id"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		includeDisabled := s.Role != session.RoleEmployee && c.Query("includeDisabled") == "true"
		questions, err := h.questions.ForSurvey(c.Context(), survey.ID, includeDisabled)
		h.HandleResponse(c, questions, err)
		return nil
	})
}
