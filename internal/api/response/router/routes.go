// Package router đăng ký các route nộp bài và kết quả.
package router

import (
	"github.com/gofiber/fiber/v3"

	"engagement_survey/internal/api/auth/permission"
	"engagement_survey/internal/api/middleware"
	responsehdl "engagement_survey/internal/api/response/handler"
	apirouter "engagement_survey/internal/api/router"
)

// Register trả về hàm đăng ký /response, /average-result, /factor-ranking (chỉ đọc) và các route nộp bài
func Register(responses *responsehdl.ResponseHandler, averages, rankings apirouter.CRUDHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		r.RegisterCRUDRoutes(v1, "/response", responses, apirouter.ReadOnlyConfig, permission.SurveyResponse)
		r.RegisterCRUDRoutes(v1, "/average-result", averages, apirouter.ReadOnlyConfig, permission.AverageResult)
		r.RegisterCRUDRoutes(v1, "/factor-ranking", rankings, apirouter.ReadOnlyConfig, permission.FactorRanking)

		submit := []fiber.Handler{middleware.AuthMiddleware(permission.ResponseSubmit)}
		apirouter.RegisterRouteWithMiddleware(v1, "/response", fiber.MethodPost, "/submit", submit, responses.HandleSubmitResponse)
		apirouter.RegisterRouteWithMiddleware(v1, "/ranking", fiber.MethodPost, "/submit", submit, responses.HandleSubmitRanking)
		apirouter.RegisterRouteWithMiddleware(v1, "/result", fiber.MethodGet, "/my/:surveyId", submit, responses.HandleMyResult)
		return nil
	}
}
