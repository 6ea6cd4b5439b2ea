// Package router đăng ký các route analytics.
package router

import (
	"github.com/gofiber/fiber/v3"

	analyticshdl "engagement_survey/internal/api/analytics/handler"
	"engagement_survey/internal/api/auth/permission"
	"engagement_survey/internal/api/middleware"
	apirouter "engagement_survey/internal/api/router"
)

// Register trả về hàm đăng ký /analytics/survey/:surveyId[/averages|/importance]
func Register(h *analyticshdl.AnalyticsHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, _ *apirouter.Router) error {
		read := []fiber.Handler{middleware.AuthMiddleware(permission.AnalyticsRead)}
		apirouter.RegisterRouteWithMiddleware(v1, "/analytics", fiber.MethodGet, "/survey/:surveyId", read, h.HandleSnapshot)
		apirouter.RegisterRouteWithMiddleware(v1, "/analytics", fiber.MethodGet, "/survey/:surveyId/averages", read, h.HandleFactorAverages)
		apirouter.RegisterRouteWithMiddleware(v1, "/analytics", fiber.MethodGet, "/survey/:surveyId/importance", read, h.HandleFactorImportance)
		return nil
	}
}
