// Package router đăng ký các route thuộc domain auth: đăng ký, đăng nhập, hồ sơ, quản lý user.
package router

import (
	"github.com/gofiber/fiber/v3"

	authhdl "engagement_survey/internal/api/auth/handler"
	"engagement_survey/internal/api/auth/permission"
	basehdl "engagement_survey/internal/api/base/handler"
	apirouter "engagement_survey/internal/api/router"
	"engagement_survey/internal/api/middleware"
	"engagement_survey/internal/session"
)

// Register trả về hàm đăng ký route auth, user và system lên v1
func Register(userHandler *authhdl.UserHandler, systemHandler *basehdl.SystemHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		registerSystemRoutes(v1, systemHandler)
		registerAuthRoutes(v1, userHandler)
		registerUserRoutes(v1, r, userHandler)
		return nil
	}
}

func registerSystemRoutes(router fiber.Router, systemHandler *basehdl.SystemHandler) {
	router.Get("/system/health", systemHandler.HandleHealth)
}

func registerAuthRoutes(router fiber.Router, userHandler *authhdl.UserHandler) {
	router.Post("/auth/signup", userHandler.HandleSignUp)
	router.Post("/auth/confirm", userHandler.HandleConfirmSignUp)
	router.Post("/auth/confirm/resend", userHandler.HandleResendCode)
	router.Post("/auth/login", userHandler.HandleSignIn)
	router.Post("/auth/login/firebase", userHandler.HandleLoginWithFirebase)

	authOnlyMiddleware := []fiber.Handler{middleware.AuthMiddleware("")}
	apirouter.RegisterRouteWithMiddleware(router, "/auth", fiber.MethodPost, "/logout", authOnlyMiddleware, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", fiber.MethodGet, "/profile", authOnlyMiddleware, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", fiber.MethodPut, "/profile", authOnlyMiddleware, userHandler.HandleUpdateProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", fiber.MethodGet, "/permissions", authOnlyMiddleware, handlePermissions)
}

func registerUserRoutes(router fiber.Router, r *apirouter.Router, userHandler *authhdl.UserHandler) {
	r.RegisterCRUDRoutes(router, "/user", userHandler, apirouter.ReadWriteConfig, permission.User)

	blockMiddleware := []fiber.Handler{middleware.AuthMiddleware(permission.User + ".Update")}
	apirouter.RegisterRouteWithMiddleware(router, "/admin/user", fiber.MethodPost, "/block", blockMiddleware, userHandler.HandleBlockUser)
	apirouter.RegisterRouteWithMiddleware(router, "/admin/user", fiber.MethodPost, "/unblock", blockMiddleware, userHandler.HandleUnBlockUser)
}

// handlePermissions trả về role và danh sách quyền của người đang đăng nhập
func handlePermissions(c fiber.Ctx) error {
	s, ok := session.From(c.Context())
	if !ok {
		basehdl.HandleResponse(c, nil, nil)
		return nil
	}
	basehdl.HandleResponse(c, fiber.Map{"role": s.Role, "permissions": permission.Of(s.Role)}, nil)
	return nil
}
