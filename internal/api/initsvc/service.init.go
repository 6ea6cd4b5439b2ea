// Package initsvc chứa InitService dùng để khởi tạo dữ liệu ban đầu (super admin, snippet mặc định).
// Tách ra package riêng để tránh import cycle giữa auth/service và survey/service.
package initsvc

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	authmodels "engagement_survey/internal/api/auth/models"
	basesvc "engagement_survey/internal/api/base/service"
	surveymodels "engagement_survey/internal/api/survey/models"
	surveysvc "engagement_survey/internal/api/survey/service"
	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/session"
	"engagement_survey/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed là dữ liệu mặc định đọc từ YAML
type Seed struct {
	Snippets []SeedSnippet `yaml:"snippets"`
}

// SeedSnippet là một snippet mặc định
type SeedSnippet struct {
	Factor string  `yaml:"factor"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Text   string  `yaml:"text"`
}

// ParseSeed đọc seed YAML
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &seed, nil
}

// InitService khởi tạo dữ liệu ban đầu cho hệ thống
type InitService struct {
	users    basesvc.BaseServiceMongo[authmodels.User]
	snippets basesvc.BaseServiceMongo[surveymodels.Snippet]
	seed     *Seed
}

// NewInitService tạo InitService với seed nhúng sẵn
func NewInitService(users basesvc.BaseServiceMongo[authmodels.User], snippets basesvc.BaseServiceMongo[surveymodels.Snippet]) (*InitService, error) {
	seed, err := ParseSeed(defaultSeed)
	if err != nil {
		return nil, err
	}
	return &InitService{users: users, snippets: snippets, seed: seed}, nil
}

func (h *InitService) log() *logrus.Entry {
	return logger.WithModule("init")
}

// InitSuperAdmin tạo tài khoản super admin nếu email chưa tồn tại. email rỗng thì bỏ qua
func (h *InitService) InitSuperAdmin(ctx context.Context, email, password string) error {
	email = utility.NormalizeEmail(email)
	if email == "" {
		h.log().Info("🔄 [INIT] SUPER_ADMIN_EMAIL not set, skip super admin")
		return nil
	}
	if err := utility.ValidateEmail(email); err != nil {
		return err
	}
	if strings.TrimSpace(password) == "" {
		return common.ErrRequiredField
	}

	existing, err := h.users.FindOne(ctx, bson.M{"email": email}, nil)
	if err == nil {
		if existing.Role != session.RoleSuperAdmin {
			h.log().WithField("email", email).Warn("🔄 [INIT] Email super admin đã thuộc về user khác role, bỏ qua")
		}
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	hash, err := utility.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := h.users.InsertOne(ctx, authmodels.User{
		FirstName:    "Super",
		LastName:     "Admin",
		Email:        email,
		Role:         session.RoleSuperAdmin,
		Status:       authmodels.UserStatusActive,
		PasswordHash: hash,
		Tokens:       []authmodels.Token{},
	}); err != nil {
		return err
	}
	h.log().WithField("email", email).Info("✅ [INIT] Super admin created")
	return nil
}

// InitSnippets tạo snippet mặc định khi chưa có snippet nào. Trả về số snippet đã tạo
func (h *InitService) InitSnippets(ctx context.Context) (int, error) {
	count, err := h.snippets.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, s := range h.seed.Snippets {
		snippet, err := surveysvc.NewSnippet(s.Factor, s.Min, s.Max, s.Text)
		if err != nil {
			return created, fmt.Errorf("seed snippet %s [%v, %v]: %w", s.Factor, s.Min, s.Max, err)
		}
		if _, err := h.snippets.InsertOne(ctx, snippet); err != nil {
			return created, err
		}
		created++
	}
	h.log().WithField("count", created).Info("✅ [INIT] Default snippets created")
	return created, nil
}
