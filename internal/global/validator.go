package global

import (
	"reflect"
	"strings"
	"unicode"

	"engagement_survey/internal/scoring"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	InitValidator()
}

// InitValidator khởi tạo validator và đăng ký các custom tag
func InitValidator() {
	Validate = validator.New()

	// Dùng tên json trong thông báo lỗi
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("factor", validateFactor)
	_ = Validate.RegisterValidation("object_id", validateObjectID)
	_ = Validate.RegisterValidation("strong_password", validateStrongPassword)
}

// validateNoXSS từ chối chuỗi chứa mẫu script nguy hiểm
func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	for _, pattern := range []string{
		"<script", "javascript:", "onerror=", "onload=", "onclick=", "onmouseover=",
		"eval(", "document.cookie", "document.write", "innerhtml", "<iframe", "<object", "<embed",
	} {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateFactor yêu cầu nhãn factor hợp lệ (không phân biệt hoa thường)
func validateFactor(fl validator.FieldLevel) bool {
	_, ok := scoring.NormalizeFactor(fl.Field().String())
	return ok
}

// validateObjectID yêu cầu chuỗi hex ObjectID (rỗng được chấp nhận, dùng kèm required nếu bắt buộc)
func validateObjectID(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" {
		return true
	}
	return primitive.IsValidObjectID(v)
}

// validateStrongPassword: tối thiểu 8 ký tự, có chữ và số
func validateStrongPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) < 8 {
		return false
	}
	var hasLetter, hasNumber bool
	for _, r := range value {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}
	return hasLetter && hasNumber
}
