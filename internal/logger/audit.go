package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// LogAction ghi một dòng audit cho hành động của người dùng
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}

	fields := logrus.Fields{
		"action":     action,
		"ip":         c.IP(),
		"user_agent": c.Get("User-Agent"),
		"details":    details,
		"timestamp":  time.Now().UnixMilli(),
	}
	if uid, ok := c.Locals("user_id").(string); ok {
		fields["user_id"] = uid
	}
	if cid, ok := c.Locals("company_id").(string); ok && cid != "" {
		fields["company_id"] = cid
	}
	if rid := requestIDOf(c); rid != "" {
		fields["request_id"] = rid
	}

	GetAuditLogger().WithFields(fields).Info("Audit log")
}

// LogCRUD log các thao tác CRUD
func LogCRUD(operation, resourceType, resourceID string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["operation"] = operation
	details["resource_type"] = resourceType
	details["resource_id"] = resourceID
	LogAction("crud_"+operation, c, details)
}

// LogAuth log các thao tác đăng ký / đăng nhập / đăng xuất
func LogAuth(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["auth_action"] = action
	LogAction("auth_"+action, c, details)
}

// LogBulk log kết quả một lệnh bulk (số dòng gửi lên, số ghi thành công, số lỗi)
func LogBulk(kind string, c fiber.Ctx, total, count, failed int) {
	LogAction("bulk_"+kind, c, map[string]interface{}{
		"total":  total,
		"count":  count,
		"failed": failed,
	})
}
