package main

import (
	"strings"
	"time"

	"engagement_survey/config"
	"engagement_survey/internal/api/middleware"
	apirouter "engagement_survey/internal/api/router"
	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

// errorCodeFor map HTTP status sang mã lỗi nghiệp vụ
func errorCodeFor(status int) common.ErrorCode {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
		return common.ErrCodeValidationInput
	case fiber.StatusUnauthorized:
		return common.ErrCodeAuthToken
	case fiber.StatusForbidden:
		return common.ErrCodeAuthRole
	case fiber.StatusNotFound, fiber.StatusConflict:
		return common.ErrCodeDatabaseQuery
	case fiber.StatusMethodNotAllowed:
		return common.ErrCodeBusinessOperation
	}
	return common.ErrCodeInternalServer
}

// fiberErrorHandler trả lỗi của Fiber (route không tồn tại, body quá lớn, ...) theo envelope chuẩn
func fiberErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	errorCode := errorCodeFor(code)

	entry := logger.WithRequest(c).WithFields(map[string]interface{}{
		"code":      code,
		"errorCode": errorCode.Code,
		"message":   message,
	})
	if code >= fiber.StatusInternalServerError {
		entry.Error("Request error")
	} else {
		entry.Debug("Request error")
	}

	return c.Status(code).JSON(fiber.Map{
		"code":    errorCode.Code,
		"message": message,
		"status":  "error",
	})
}

func splitOrigins(origins string) []string {
	if origins == "*" || origins == "" {
		return []string{"*"}
	}
	out := strings.Split(origins, ",")
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

// InitFiberApp khởi tạo ứng dụng Fiber với các middleware cần thiết và route của các domain
func InitFiberApp(cfg *config.Configuration, regs ...apirouter.RegisterFunc) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:       "Engagement Survey API",
		ServerHeader:  "Engagement Survey API",
		StrictRouting: true,
		CaseSensitive: true,
		UnescapePath:  true,

		// Bulk CSV có thể lớn
		BodyLimit:       20 * 1024 * 1024,
		Concurrency:     256 * 1024,
		ReadBufferSize:  8192,
		WriteBufferSize: 4096,

		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: fiberErrorHandler,
	})

	// 1. Request ID
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))
	app.Use(middleware.RequestContextMiddleware())

	// 2. CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: splitOrigins(cfg.CORS_Origins),
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Request-ID",
			"X-Requested-With",
		},
		AllowCredentials: cfg.CORS_AllowCredentials && cfg.CORS_Origins != "*",
		ExposeHeaders:    []string{"Content-Length", "Content-Range", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg.EnableTLS {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		return c.Next()
	})

	// 4. Rate limit theo IP
	log := logger.GetAppLogger()
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": "Quá nhiều yêu cầu, vui lòng thử lại sau",
					"status":  "error",
				})
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/api/v1/system/health" || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 5. Recover
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	if err := apirouter.SetupRoutes(app, regs...); err != nil {
		return nil, err
	}
	return app, nil
}
