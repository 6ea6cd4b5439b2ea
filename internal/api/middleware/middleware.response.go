package middleware

import (
	basehdl "engagement_survey/internal/api/base/handler"
	"engagement_survey/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// HandleErrorResponse trả về error response theo envelope chuẩn
func HandleErrorResponse(c fiber.Ctx, err error) {
	basehdl.HandleErrorResponse(c, err)
}

// RequestContextMiddleware đưa request id (do requestid middleware sinh) vào Locals và context để log theo request.
// Phải đăng ký sau requestid.New.
func RequestContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if rid := requestid.FromContext(c); rid != "" {
			c.Locals("requestid", rid)
			c.SetContext(session.WithRequestID(c.Context(), rid))
		}
		return c.Next()
	}
}
