package analyticshdl

import (
	"context"

	models "engagement_survey/internal/api/analytics/models"
	basehdl "engagement_survey/internal/api/base/handler"
	"engagement_survey/internal/scoring"
	"engagement_survey/internal/session"

	"github.com/gofiber/fiber/v3"
)

// AnalyticsService là các thao tác handler cần từ analyticssvc.AnalyticsService
type AnalyticsService interface {
	Snapshot(ctx context.Context, sess session.Session, surveyID string) (models.AnalyticsSnapshot, error)
	AveragesFor(ctx context.Context, sess session.Session, surveyID string) (models.FactorAverages, error)
	ImportanceFor(ctx context.Context, sess session.Session, surveyID string) (scoring.ImportanceReport, error)
}

// AnalyticsHandler phục vụ số liệu tổng hợp của khảo sát
type AnalyticsHandler struct {
	svc AnalyticsService
}

// NewAnalyticsHandler tạo AnalyticsHandler
func NewAnalyticsHandler(svc AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) serve(c fiber.Ctx, fn func(ctx context.Context, s session.Session, surveyID string) (interface{}, error)) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		data, err := fn(c.Context(), s, c.Params("surveyId"))
		basehdl.HandleResponse(c, data, err)
		return nil
	})
}

// HandleSnapshot trả về snapshot (tính ngay nếu cũ)
func (h *AnalyticsHandler) HandleSnapshot(c fiber.Ctx) error {
	return h.serve(c, func(ctx context.Context, s session.Session, surveyID string) (interface{}, error) {
		return h.svc.Snapshot(ctx, s, surveyID)
	})
}

// HandleFactorAverages tính điểm trung bình theo factor
func (h *AnalyticsHandler) HandleFactorAverages(c fiber.Ctx) error {
	return h.serve(c, func(ctx context.Context, s session.Session, surveyID string) (interface{}, error) {
		return h.svc.AveragesFor(ctx, s, surveyID)
	})
}

// HandleFactorImportance tính thống kê mức độ quan trọng
func (h *AnalyticsHandler) HandleFactorImportance(c fiber.Ctx) error {
	return h.serve(c, func(ctx context.Context, s session.Session, surveyID string) (interface{}, error) {
		return h.svc.ImportanceFor(ctx, s, surveyID)
	})
}
