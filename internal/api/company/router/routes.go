// Package router đăng ký các route thuộc domain company.
package router

import (
	"github.com/gofiber/fiber/v3"

	"engagement_survey/internal/api/auth/permission"
	companyhdl "engagement_survey/internal/api/company/handler"
	apirouter "engagement_survey/internal/api/router"
)

// Register trả về hàm đăng ký CRUD /company
func Register(h *companyhdl.CompanyHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		r.RegisterCRUDRoutes(v1, "/company", h, apirouter.ReadWriteConfig, permission.Company)
		return nil
	}
}
