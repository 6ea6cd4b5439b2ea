package utility

import (
	"errors"

	"engagement_survey/internal/common"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword băm mật khẩu bằng bcrypt
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", common.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword so sánh mật khẩu với hash, sai trả về ErrInvalidCredentials
func CheckPassword(hash, password string) error {
	if hash == "" {
		return common.ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrInvalidCredentials
	}
	return err
}
