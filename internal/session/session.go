// Package session mang thông tin người gọi (user, role, company) qua context.
// Các service nhận Session tường minh thay vì đọc trạng thái toàn cục.
package session

import (
	"context"
	"errors"
)

// Các role trong hệ thống
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleEmployee   = "employee"
)

// Session là danh tính của người gọi đã xác thực
type Session struct {
	UserID    string
	Role      string
	CompanyID string
	Email     string
}

// IsSuperAdmin trả về true nếu session có quyền trên mọi công ty
func (s Session) IsSuperAdmin() bool {
	return s.Role == RoleSuperAdmin
}

// CanAccessCompany kiểm tra session có được thao tác dữ liệu của companyID không
func (s Session) CanAccessCompany(companyID string) bool {
	if s.IsSuperAdmin() {
		return true
	}
	return companyID != "" && s.CompanyID == companyID
}

type ctxKey struct{}

type requestIDKey struct{}

// ErrNoSession trả về khi context không mang session
var ErrNoSession = errors.New("session: no session in context")

// With gắn session vào context
func With(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// From lấy session từ context
func From(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// MustFrom lấy session hoặc trả về ErrNoSession
func MustFrom(ctx context.Context) (Session, error) {
	s, ok := From(ctx)
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// WithRequestID gắn request id vào context (dùng cho log)
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID lấy request id từ context
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
