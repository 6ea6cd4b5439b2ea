package responsehdl

import (
	"context"

	basehdl "engagement_survey/internal/api/base/handler"
	basesvc "engagement_survey/internal/api/base/service"
	responsedto "engagement_survey/internal/api/response/dto"
	models "engagement_survey/internal/api/response/models"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/session"

	"github.com/gofiber/fiber/v3"
)

// ResponseService là các thao tác handler cần từ responsesvc.ResponseService
type ResponseService interface {
	SubmitResponse(ctx context.Context, sess session.Session, input *responsedto.SubmitResponseInput) (*responsedto.SubmissionResult, error)
	SubmitRanking(ctx context.Context, sess session.Session, input *responsedto.SubmitRankingInput) (*models.FactorRanking, error)
	MyResult(ctx context.Context, sess session.Session, surveyID string) (*responsedto.SubmissionResult, error)
}

// readOnly là DTO rỗng cho các collection chỉ đọc qua API
type readOnly struct{}

// ResponseHandler xử lý đọc câu trả lời và các thao tác nộp bài của nhân viên
type ResponseHandler struct {
	*basehdl.BaseHandler[models.SurveyResponse, readOnly, readOnly]
	svc ResponseService
}

// NewResponseHandler tạo ResponseHandler. Câu trả lời chỉ ghi qua /response/submit
func NewResponseHandler(responses basesvc.BaseServiceMongo[models.SurveyResponse], svc ResponseService) *ResponseHandler {
	return &ResponseHandler{
		BaseHandler: basehdl.NewBaseHandler[models.SurveyResponse, readOnly, readOnly](responses, "companyId", nil),
		svc:         svc,
	}
}

// NewAverageResultHandler tạo handler chỉ đọc cho điểm trung bình
func NewAverageResultHandler(svc basesvc.BaseServiceMongo[models.AverageResult]) *basehdl.BaseHandler[models.AverageResult, readOnly, readOnly] {
	return basehdl.NewBaseHandler[models.AverageResult, readOnly, readOnly](svc, "companyId", nil)
}

// NewFactorRankingHandler tạo handler chỉ đọc cho xếp hạng factor
func NewFactorRankingHandler(svc basesvc.BaseServiceMongo[models.FactorRanking]) *basehdl.BaseHandler[models.FactorRanking, readOnly, readOnly] {
	return basehdl.NewBaseHandler[models.FactorRanking, readOnly, readOnly](svc, "companyId", nil)
}

// HandleSubmitResponse nộp câu trả lời, trả về điểm trung bình và snippet
func (h *ResponseHandler) HandleSubmitResponse(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input responsedto.SubmitResponseInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.svc.SubmitResponse(c.Context(), s, &input)
		if err == nil {
			logger.LogAction("submit_response", c, map[string]interface{}{"survey_id": input.SurveyID})
		}
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleSubmitRanking nộp xếp hạng năm factor
func (h *ResponseHandler) HandleSubmitRanking(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input responsedto.SubmitRankingInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		ranking, err := h.svc.SubmitRanking(c.Context(), s, &input)
		if err == nil {
			logger.LogAction("submit_ranking", c, map[string]interface{}{"survey_id": input.SurveyID})
		}
		h.HandleResponse(c, ranking, err)
		return nil
	})
}

// HandleMyResult trả về kết quả của người gọi cho khảo sát :surveyId
func (h *ResponseHandler) HandleMyResult(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		result, err := h.svc.MyResult(c.Context(), s, c.Params("surveyId"))
		h.HandleResponse(c, result, err)
		return nil
	})
}
