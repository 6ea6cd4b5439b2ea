package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// HandleResponse chuẩn hoá response trả về cho client.
// Thành công: {code, message, data, status:"success"}; lỗi: {code, message, details, status:"error"}
func HandleResponse(c fiber.Ctx, data interface{}, err error) {
	if err != nil {
		HandleErrorResponse(c, err)
		return
	}
	JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// HandleErrorResponse trả về error response. Lỗi không phải *common.Error được coi là lỗi hệ thống
func HandleErrorResponse(c fiber.Ctx, err error) {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		if customErr.StatusCode >= common.StatusInternalServerError {
			logger.WithRequest(c).WithError(err).Error("Request thất bại")
		}
		details := customErr.Details
		if inner, ok := details.(error); ok {
			details = inner.Error()
		}
		JSONResponse(c, customErr.StatusCode, fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": details,
			"status":  "error",
		})
		return
	}

	logger.WithRequest(c).WithError(err).Error("Request thất bại")
	JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeDatabase.Code,
		"message": err.Error(),
		"status":  "error",
	})
}

// SafeHandlerWrapper chạy fn với recover để server luôn trả response kể cả khi panic.
// Dùng bởi các domain handler không embed BaseHandler.
func SafeHandlerWrapper(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			debug.PrintStack()
			logger.WithRequest(c).Errorf("❌ Panic trong handler: %v", r)
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("Lỗi hệ thống không mong muốn: %v", r),
				common.StatusInternalServerError,
				nil,
			))
			err = nil
		}
	}()
	return fn()
}

// SafeHandler bọc handler với recover
func (h *BaseHandler[T, CreateInput, UpdateInput]) SafeHandler(c fiber.Ctx, handler func() error) error {
	return SafeHandlerWrapper(c, handler)
}

// HandleResponse xử lý và chuẩn hóa response trả về cho client
func (h *BaseHandler[T, CreateInput, UpdateInput]) HandleResponse(c fiber.Ctx, data interface{}, err error) {
	HandleResponse(c, data, err)
}
