package utility

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoProtect chạy f và bắt panic để goroutine không làm sập server
func GoProtect(f func()) {
	defer func() {
		if err := recover(); err != nil {
			logger.GetErrorLogger().Errorf("Đã bắt lỗi panic: %v", err)
		}
	}()
	f()
}

// CurrentTimeInMilli trả về thời gian hiện tại tính bằng mili giây
func CurrentTimeInMilli() int64 {
	return time.Now().UnixMilli()
}

// NormalizeEmail cắt khoảng trắng và chuyển về chữ thường
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail kiểm tra định dạng email
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return common.ErrInvalidEmail
	}
	return nil
}

// RandomDigits sinh chuỗi n chữ số ngẫu nhiên (dùng cho mã xác nhận)
func RandomDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("random digits: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

// String2ObjectID chuyển chuỗi hex thành ObjectID, sai định dạng trả về ErrInvalidFormat
func String2ObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat,
			fmt.Sprintf("ID không hợp lệ: %q", id), common.StatusBadRequest, err)
	}
	return oid, nil
}

// StringArray2ObjectIDArray chuyển mảng chuỗi hex thành mảng ObjectID, dừng ở phần tử sai đầu tiên
func StringArray2ObjectIDArray(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := String2ObjectID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}
