// Package router đăng ký các route nhập hàng loạt.
package router

import (
	"github.com/gofiber/fiber/v3"

	"engagement_survey/internal/api/auth/permission"
	bulkhdl "engagement_survey/internal/api/bulk/handler"
	"engagement_survey/internal/api/middleware"
	apirouter "engagement_survey/internal/api/router"
)

// Register trả về hàm đăng ký /bulk/*
func Register(h *bulkhdl.BulkHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, _ *apirouter.Router) error {
		employees := []fiber.Handler{middleware.AuthMiddleware(permission.BulkEmployees)}
		questions := []fiber.Handler{middleware.AuthMiddleware(permission.BulkQuestions)}
		snippets := []fiber.Handler{middleware.AuthMiddleware(permission.BulkSnippets)}

		apirouter.RegisterRouteWithMiddleware(v1, "/bulk", fiber.MethodPost, "/employees", employees, h.HandleBulkCreateEmployees)
		apirouter.RegisterRouteWithMiddleware(v1, "/bulk", fiber.MethodPost, "/employees/csv", employees, h.HandleEmployeesCSV)
		apirouter.RegisterRouteWithMiddleware(v1, "/bulk", fiber.MethodPost, "/questions", questions, h.HandleBulkCreateQuestions)
		apirouter.RegisterRouteWithMiddleware(v1, "/bulk", fiber.MethodPost, "/questions/csv", questions, h.HandleQuestionsCSV)
		apirouter.RegisterRouteWithMiddleware(v1, "/bulk", fiber.MethodPost, "/questions/disable", questions, h.HandleBulkDisableQuestions)
		apirouter.RegisterRouteWithMiddleware(v1, "/bulk", fiber.MethodPost, "/snippets", snippets, h.HandleBulkCreateSnippets)
		return nil
	}
}
