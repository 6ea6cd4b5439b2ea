package authhdl

import (
	"context"

	authdto "engagement_survey/internal/api/auth/dto"
	models "engagement_survey/internal/api/auth/models"
	basehdl "engagement_survey/internal/api/base/handler"
	basesvc "engagement_survey/internal/api/base/service"
	"engagement_survey/internal/api/middleware"
	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/session"
	"engagement_survey/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService là các thao tác handler cần từ authsvc.UserService
type UserService interface {
	basesvc.BaseServiceMongo[models.User]
	SignUp(ctx context.Context, input *authdto.SignUpInput) (*models.User, error)
	ResendConfirmCode(ctx context.Context, email string) error
	ConfirmSignUp(ctx context.Context, input *authdto.ConfirmSignUpInput) (*models.User, error)
	SignIn(ctx context.Context, input *authdto.SignInInput) (*models.User, error)
	SignInWithFirebase(ctx context.Context, input *authdto.FirebaseLoginInput) (*models.User, error)
	SignOut(ctx context.Context, userID primitive.ObjectID, hwid string) error
	FetchAttributes(ctx context.Context, s session.Session) (*models.User, error)
	UpdateProfile(ctx context.Context, s session.Session, input *authdto.UserChangeInfoInput) (*models.User, error)
	SetBlocked(ctx context.Context, s session.Session, email string, blocked bool, note string) (*models.User, []string, error)
}

// UserHandler xử lý các request xác thực và quản lý người dùng
type UserHandler struct {
	*basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput]
	userService UserService
}

// NewUserHandler tạo instance mới của UserHandler. CRUD user giới hạn theo companyId của session
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: basehdl.NewBaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput](userService, "companyId", userFromInput).
			WithHiddenFields(models.SecretFields...),
		userService: userService,
	}
}

// userFromInput tạo user được mời (status invited) trong công ty của người gọi
func userFromInput(s session.Session, input *authdto.UserCreateInput) (models.User, error) {
	companyID, err := basehdl.ScopeCompanyID(s, input.CompanyID)
	if err != nil {
		return models.User{}, err
	}
	role := input.Role
	if role == "" {
		role = session.RoleEmployee
	}
	return models.User{
		CompanyID: companyID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     utility.NormalizeEmail(input.Email),
		Role:      role,
		Status:    models.UserStatusInvited,
		Tokens:    []models.Token{},
	}, nil
}

// HandleSignUp đăng ký tài khoản, gửi mã xác nhận qua email
func (h *UserHandler) HandleSignUp(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.SignUpInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.SignUp(c.Context(), &input)
		if err == nil {
			logger.LogAuth("signup", c, map[string]interface{}{"email": user.Email})
		}
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleConfirmSignUp xác nhận tài khoản bằng mã 6 số
func (h *UserHandler) HandleConfirmSignUp(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.ConfirmSignUpInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.ConfirmSignUp(c.Context(), &input)
		if err == nil {
			logger.LogAuth("confirm", c, map[string]interface{}{"email": user.Email})
		}
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleResendCode gửi lại mã xác nhận
func (h *UserHandler) HandleResendCode(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.ResendCodeInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, nil, h.userService.ResendConfirmCode(c.Context(), input.Email))
		return nil
	})
}

// HandleSignIn đăng nhập bằng email/mật khẩu
func (h *UserHandler) HandleSignIn(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.SignInInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.SignIn(c.Context(), &input)
		if err != nil {
			logger.LogAuth("login_failed", c, map[string]interface{}{"email": utility.NormalizeEmail(input.Email)})
			h.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogAuth("login", c, map[string]interface{}{"user_id": user.ID.Hex(), "hwid": input.Hwid})
		h.HandleResponse(c, authdto.SignInResult{Token: user.Token, User: user}, nil)
		return nil
	})
}

// HandleLoginWithFirebase đăng nhập bằng Firebase ID token
func (h *UserHandler) HandleLoginWithFirebase(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.FirebaseLoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.SignInWithFirebase(c.Context(), &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		logger.LogAuth("login_firebase", c, map[string]interface{}{"user_id": user.ID.Hex(), "hwid": input.Hwid})
		h.HandleResponse(c, authdto.SignInResult{Token: user.Token, User: user}, nil)
		return nil
	})
}

// HandleLogout xử lý đăng xuất người dùng
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input authdto.UserLogoutInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		userID, err := utility.String2ObjectID(s.UserID)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}
		if err := h.userService.SignOut(c.Context(), userID, input.Hwid); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if token, err := middleware.BearerToken(c); err == nil {
			middleware.InvalidateToken(token)
		}
		logger.LogAuth("logout", c, map[string]interface{}{"hwid": input.Hwid})
		h.HandleResponse(c, nil, nil)
		return nil
	})
}

// HandleGetProfile trả về hồ sơ của người đang đăng nhập
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.FetchAttributes(c.Context(), s)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleUpdateProfile cập nhật họ tên của người đang đăng nhập
func (h *UserHandler) HandleUpdateProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input authdto.UserChangeInfoInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, err := h.userService.UpdateProfile(c.Context(), s, &input)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleBlockUser khoá người dùng (thu hồi mọi token)
func (h *UserHandler) HandleBlockUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input authdto.BlockUserInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, revoked, err := h.userService.SetBlocked(c.Context(), s, input.Email, true, input.Note)
		for _, token := range revoked {
			middleware.InvalidateToken(token)
		}
		if err == nil {
			logger.LogAction("block_user", c, map[string]interface{}{"email": user.Email, "note": input.Note})
		}
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleUnBlockUser mở khoá người dùng
func (h *UserHandler) HandleUnBlockUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input authdto.UnBlockUserInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		user, _, err := h.userService.SetBlocked(c.Context(), s, input.Email, false, "")
		if err == nil {
			logger.LogAction("unblock_user", c, map[string]interface{}{"email": user.Email})
		}
		h.HandleResponse(c, user, err)
		return nil
	})
}
