package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	"engagement_survey/internal/api/auth/permission"
	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/session"
	"engagement_survey/internal/utility"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// Authenticator chuyển bearer token thành Session (do auth service triển khai)
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (session.Session, error)
}

// AuthManager giữ authenticator và cache token → session
type AuthManager struct {
	authenticator Authenticator
	cache         *utility.Cache
}

var (
	authManager   *AuthManager
	authManagerMu sync.RWMutex
)

// SetAuthenticator đăng ký authenticator dùng cho mọi AuthMiddleware. Gọi khi khởi động
func SetAuthenticator(a Authenticator, cacheTTL time.Duration) {
	authManagerMu.Lock()
	defer authManagerMu.Unlock()
	if authManager != nil && authManager.cache != nil {
		authManager.cache.Stop()
	}
	var cache *utility.Cache
	if cacheTTL > 0 {
		cache = utility.NewCache(cacheTTL, 2*cacheTTL)
	}
	authManager = &AuthManager{authenticator: a, cache: cache}
}

// ShutdownAuth dừng cache của AuthManager
func ShutdownAuth() {
	authManagerMu.Lock()
	defer authManagerMu.Unlock()
	if authManager != nil && authManager.cache != nil {
		authManager.cache.Stop()
	}
	authManager = nil
}

// InvalidateToken xoá token khỏi cache (gọi khi đăng xuất)
func InvalidateToken(token string) {
	authManagerMu.RLock()
	defer authManagerMu.RUnlock()
	if authManager != nil && authManager.cache != nil {
		authManager.cache.Delete(token)
	}
}

func getAuthManager() *AuthManager {
	authManagerMu.RLock()
	defer authManagerMu.RUnlock()
	return authManager
}

func (am *AuthManager) resolve(ctx context.Context, token string) (session.Session, error) {
	if am.cache != nil {
		if cached, ok := am.cache.Get(token); ok {
			return cached.(session.Session), nil
		}
	}
	s, err := am.authenticator.Authenticate(ctx, token)
	if err != nil {
		return session.Session{}, err
	}
	if am.cache != nil {
		am.cache.Set(token, s)
	}
	return s, nil
}

// BearerToken lấy token từ header Authorization dạng "Bearer <token>"
func BearerToken(c fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", common.ErrTokenMissing
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", common.ErrTokenInvalid
	}
	return parts[1], nil
}

// AuthMiddleware xác thực bearer token, gắn session vào context và kiểm tra quyền.
// requirePermission rỗng: chỉ cần đăng nhập.
func AuthMiddleware(requirePermission string) fiber.Handler {
	return func(c fiber.Ctx) error {
		am := getAuthManager()
		if am == nil || am.authenticator == nil {
			HandleErrorResponse(c, common.NewError(common.ErrCodeInternalServer, "Auth chưa được khởi tạo", common.StatusInternalServerError, nil))
			return nil
		}

		token, err := BearerToken(c)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing or malformed Authorization header")
			HandleErrorResponse(c, err)
			return nil
		}

		s, err := am.resolve(c.Context(), token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Token rejected")
			HandleErrorResponse(c, err)
			return nil
		}

		c.Locals("user_id", s.UserID)
		c.Locals("company_id", s.CompanyID)
		c.Locals("role", s.Role)
		c.SetContext(session.With(c.Context(), s))

		if !permission.Has(s.Role, requirePermission) {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id":    s.UserID,
				"role":       s.Role,
				"path":       c.Path(),
				"permission": requirePermission,
			}).Warn("❌ [AUTH] Permission denied")
			HandleErrorResponse(c, common.ErrPermissionDenied)
			return nil
		}
		return c.Next()
	}
}
