package logger

import (
	"context"

	"engagement_survey/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// WithContext trả về logger entry kèm request id và session trong context
func WithContext(ctx context.Context) *logrus.Entry {
	entry := GetAppLogger().WithContext(ctx)

	if rid := session.RequestID(ctx); rid != "" {
		entry = entry.WithField("request_id", rid)
	}
	if s, ok := session.From(ctx); ok {
		entry = entry.WithFields(logrus.Fields{
			"user_id":    s.UserID,
			"company_id": s.CompanyID,
			"role":       s.Role,
		})
	}
	return entry
}

// WithRequest trả về logger entry với thông tin request Fiber
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})

	if rid := requestIDOf(c); rid != "" {
		entry = entry.WithField("request_id", rid)
	}
	if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
		entry = entry.WithField("user_id", uid)
	}
	return entry
}

// requestIDOf lấy request id từ Locals (requestid middleware) hoặc header
func requestIDOf(c fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		return rid
	}
	if rid := c.Get("X-Request-ID"); rid != "" {
		return rid
	}
	return c.GetRespHeader("X-Request-ID")
}

// WithFields trả về logger entry với các fields bổ sung
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields(fields))
}

// WithError trả về logger entry với error
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}

// WithModule trả về logger entry với tên module (auth, bulk, analytics, ...)
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}

// WithCollection trả về logger entry với tên collection MongoDB
func WithCollection(collection string) *logrus.Entry {
	return GetAppLogger().WithField("collection", collection)
}
