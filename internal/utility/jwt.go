package utility

import (
	"errors"
	"fmt"
	"time"

	"engagement_survey/internal/common"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims là claims của JWT phiên đăng nhập
type TokenClaims struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	CompanyID string `json:"companyId,omitempty"`
	Hwid      string `json:"hwid,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager ký và xác minh JWT HS256
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager tạo manager với secret và thời gian sống
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue ký token mới cho người dùng
func (m *TokenManager) Issue(userID, role, companyID, hwid string) (string, error) {
	now := m.now()
	claims := TokenClaims{
		UserID:    userID,
		Role:      role,
		CompanyID: companyID,
		Hwid:      hwid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse xác minh chữ ký/hạn và trả về claims
func (m *TokenManager) Parse(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.NewError(common.ErrCodeAuthToken, "Token không hợp lệ", common.StatusUnauthorized, err)
	}
	if !parsed.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
