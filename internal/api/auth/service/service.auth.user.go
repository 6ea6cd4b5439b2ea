// Package authsvc - service người dùng (User): đăng ký, xác nhận, đăng nhập, đăng xuất và xác thực token.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdto "engagement_survey/internal/api/auth/dto"
	models "engagement_survey/internal/api/auth/models"
	basesvc "engagement_survey/internal/api/base/service"
	"engagement_survey/internal/common"
	"engagement_survey/internal/delivery/channels"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/session"
	"engagement_survey/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConfirmCodeTTL là thời gian sống của mã xác nhận đăng ký
const ConfirmCodeTTL = 24 * time.Hour

// FirebaseVerifier xác minh Firebase ID token (utility.FirebaseVerifier triển khai)
type FirebaseVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*utility.FirebaseIdentity, error)
}

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	basesvc.BaseServiceMongo[models.User]
	tokens   *utility.TokenManager
	mailer   channels.Mailer
	firebase FirebaseVerifier
	now      func() time.Time
}

// NewUserService tạo mới UserService. firebase có thể nil (đăng nhập Firebase bị tắt)
func NewUserService(users basesvc.BaseServiceMongo[models.User], tokens *utility.TokenManager, mailer channels.Mailer, firebase FirebaseVerifier) *UserService {
	if mailer == nil {
		mailer = channels.NoopMailer{}
	}
	return &UserService{
		BaseServiceMongo: users,
		tokens:           tokens,
		mailer:           mailer,
		firebase:         firebase,
		now:              time.Now,
	}
}

func (s *UserService) log() *logrus.Entry {
	return logger.WithModule("auth")
}

// findByEmail trả về (nil, nil) nếu chưa có user với email này
func (s *UserService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.FindOne(ctx, bson.M{"email": utility.NormalizeEmail(email)}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) newConfirmCode() (string, int64, error) {
	code, err := utility.RandomDigits(6)
	if err != nil {
		return "", 0, err
	}
	return code, s.now().Add(ConfirmCodeTTL).UnixMilli(), nil
}

// SignUp tạo tài khoản chưa xác nhận (hoặc hoàn tất tài khoản đã được mời) và gửi mã xác nhận qua email
func (s *UserService) SignUp(ctx context.Context, input *authdto.SignUpInput) (*models.User, error) {
	email := utility.NormalizeEmail(input.Email)
	if err := utility.ValidateEmail(email); err != nil {
		return nil, err
	}

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == models.UserStatusActive {
		return nil, common.NewError(common.ErrCodeValidationInput, "Email đã được đăng ký", common.StatusConflict, nil)
	}

	hash, err := utility.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	code, expiresAt, err := s.newConfirmCode()
	if err != nil {
		return nil, err
	}

	var user models.User
	if existing != nil {
		user, err = s.UpdateById(ctx, existing.ID, &basesvc.UpdateData{Set: map[string]interface{}{
			"firstName":        input.FirstName,
			"lastName":         input.LastName,
			"passwordHash":     hash,
			"status":           models.UserStatusUnconfirmed,
			"confirmCode":      code,
			"confirmExpiresAt": expiresAt,
		}})
	} else {
		user, err = s.InsertOne(ctx, models.User{
			FirstName:        input.FirstName,
			LastName:         input.LastName,
			Email:            email,
			Role:             session.RoleEmployee,
			Status:           models.UserStatusUnconfirmed,
			PasswordHash:     hash,
			ConfirmCode:      code,
			ConfirmExpiresAt: expiresAt,
			Tokens:           []models.Token{},
		})
	}
	if err != nil {
		return nil, err
	}

	if err := s.mailer.Send(ctx, channels.ConfirmCodeEmail(email, code)); err != nil {
		s.log().WithError(err).WithField("email", email).Error("SignUp: Không gửi được email xác nhận")
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Không gửi được email xác nhận", common.StatusServiceUnavailable, err)
	}
	s.log().WithField("email", email).Info("SignUp: Đã tạo tài khoản chờ xác nhận")
	return &user, nil
}

// ResendConfirmCode sinh mã mới cho tài khoản chưa xác nhận
func (s *UserService) ResendConfirmCode(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || user.Status != models.UserStatusUnconfirmed {
		return common.NewError(common.ErrCodeBusinessState, "Tài khoản không ở trạng thái chờ xác nhận", common.StatusBadRequest, nil)
	}
	code, expiresAt, err := s.newConfirmCode()
	if err != nil {
		return err
	}
	if _, err := s.UpdateById(ctx, user.ID, &basesvc.UpdateData{Set: map[string]interface{}{
		"confirmCode":      code,
		"confirmExpiresAt": expiresAt,
	}}); err != nil {
		return err
	}
	return s.mailer.Send(ctx, channels.ConfirmCodeEmail(user.Email, code))
}

// ConfirmSignUp kích hoạt tài khoản nếu mã đúng và chưa hết hạn
func (s *UserService) ConfirmSignUp(ctx context.Context, input *authdto.ConfirmSignUpInput) (*models.User, error) {
	user, err := s.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrConfirmCode
	}
	if user.Status == models.UserStatusActive {
		return user, nil
	}
	if user.ConfirmCode == "" || user.ConfirmCode != input.Code || s.now().UnixMilli() > user.ConfirmExpiresAt {
		return nil, common.ErrConfirmCode
	}

	updated, err := s.UpdateById(ctx, user.ID, &basesvc.UpdateData{
		Set:   map[string]interface{}{"status": models.UserStatusActive},
		Unset: map[string]interface{}{"confirmCode": "", "confirmExpiresAt": ""},
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SignIn đăng nhập bằng email/mật khẩu và cấp token cho thiết bị hwid
func (s *UserService) SignIn(ctx context.Context, input *authdto.SignInInput) (*models.User, error) {
	user, err := s.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, common.ErrInvalidCredentials
	}
	if err := utility.CheckPassword(user.PasswordHash, input.Password); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		return nil, common.ErrUserNotConfirmed
	}
	if user.IsBlock {
		return nil, common.ErrUserBlocked
	}
	return s.issueToken(ctx, user, input.Hwid)
}

// SignInWithFirebase đăng nhập bằng Firebase ID token. User được tìm theo firebaseUid; nếu chưa có thì
// theo email đã xác minh (chỉ tài khoản được mời chưa có mật khẩu), không có nữa thì tạo mới ở trạng thái active
func (s *UserService) SignInWithFirebase(ctx context.Context, input *authdto.FirebaseLoginInput) (*models.User, error) {
	if s.firebase == nil {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Đăng nhập Firebase chưa được cấu hình", common.StatusServiceUnavailable, nil)
	}
	identity, err := s.firebase.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		s.log().WithError(err).Error("SignInWithFirebase: Lỗi verify Firebase ID token")
		return nil, common.NewError(common.ErrCodeAuthCredentials, "Token không hợp lệ", common.StatusUnauthorized, err)
	}

	email := utility.NormalizeEmail(identity.Email)
	var existing *models.User
	if found, err := s.FindOne(ctx, bson.M{"firebaseUid": identity.UID}, nil); err == nil {
		existing = &found
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing == nil {
		if email == "" {
			return nil, common.NewError(common.ErrCodeAuthCredentials, "Tài khoản Firebase không có email", common.StatusBadRequest, nil)
		}
		// Chỉ dùng email khi Firebase đã xác minh email đó
		if !identity.EmailVerified {
			return nil, common.NewError(common.ErrCodeAuthCredentials, "Email của tài khoản Firebase chưa được xác minh", common.StatusForbidden, nil)
		}
		if existing, err = s.findByEmail(ctx, email); err != nil {
			return nil, err
		}
		// Không gắn Firebase vào tài khoản đã có mật khẩu hoặc đã gắn UID khác
		if existing != nil && (existing.FirebaseUID != "" || existing.PasswordHash != "") {
			s.log().WithFields(logrus.Fields{
				"user_id":          existing.ID.Hex(),
				"has_password":     existing.PasswordHash != "",
				"new_firebase_uid": identity.UID,
			}).Warn("SignInWithFirebase: Conflict")
			return nil, common.NewError(common.ErrCodeAuthCredentials, fmt.Sprintf("Email '%s' đã được sử dụng bởi tài khoản khác", email), common.StatusConflict, nil)
		}
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"firebaseUid": identity.UID,
			"status":      models.UserStatusActive,
		},
		SetOnInsert: map[string]interface{}{
			"email":     email,
			"role":      session.RoleEmployee,
			"firstName": identity.Name,
			"lastName":  "",
			"isBlock":   false,
			"tokens":    []models.Token{},
		},
	}
	filter := bson.M{"firebaseUid": identity.UID}
	if existing != nil {
		filter = bson.M{"_id": existing.ID}
		update.SetOnInsert = nil
	}

	user, err := s.Upsert(ctx, filter, update)
	if err != nil {
		s.log().WithFields(logrus.Fields{"filter": filter, "error": err.Error()}).Error("SignInWithFirebase: Lỗi khi gọi Upsert")
		return nil, err
	}
	if user.IsBlock {
		return nil, common.ErrUserBlocked
	}
	return s.issueToken(ctx, &user, input.Hwid)
}

// issueToken ký JWT mới, gắn vào thiết bị hwid và lưu lại
func (s *UserService) issueToken(ctx context.Context, user *models.User, hwid string) (*models.User, error) {
	token, err := s.tokens.Issue(user.ID.Hex(), user.Role, user.CompanyHex(), hwid)
	if err != nil {
		return nil, err
	}
	user.SetDeviceToken(hwid, token)

	updated, err := s.UpdateById(ctx, user.ID, &basesvc.UpdateData{Set: map[string]interface{}{
		"token":  user.Token,
		"tokens": user.Tokens,
	}})
	if err != nil {
		s.log().WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("issueToken: Lỗi khi cập nhật token vào user")
		return nil, err
	}
	updated.Token = token
	return &updated, nil
}

// SignOut xoá token của thiết bị hwid
func (s *UserService) SignOut(ctx context.Context, userID primitive.ObjectID, hwid string) error {
	user, err := s.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	user.RemoveDeviceToken(hwid)
	_, err = s.UpdateById(ctx, userID, &basesvc.UpdateData{Set: map[string]interface{}{
		"token":  user.Token,
		"tokens": user.Tokens,
	}})
	return err
}

// FetchAttributes trả về hồ sơ của người gọi
func (s *UserService) FetchAttributes(ctx context.Context, sess session.Session) (*models.User, error) {
	id, err := utility.String2ObjectID(sess.UserID)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}
	user, err := s.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile cập nhật họ tên của người gọi
func (s *UserService) UpdateProfile(ctx context.Context, sess session.Session, input *authdto.UserChangeInfoInput) (*models.User, error) {
	id, err := utility.String2ObjectID(sess.UserID)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}
	update, err := basesvc.ToUpdateData(input)
	if err != nil {
		return nil, err
	}
	if len(update.Set) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil)
	}
	user, err := s.UpdateById(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetBlocked khoá/mở khoá người dùng trong phạm vi công ty của người gọi.
// Khoá thì thu hồi mọi token; revoked là các token vừa bị thu hồi (để xoá khỏi cache xác thực)
func (s *UserService) SetBlocked(ctx context.Context, sess session.Session, email string, blocked bool, note string) (*models.User, []string, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, common.ErrNotFound
	}
	if !sess.CanAccessCompany(user.CompanyHex()) {
		return nil, nil, common.ErrCompanyScope
	}
	if user.ID.Hex() == sess.UserID {
		return nil, nil, common.NewError(common.ErrCodeBusinessOperation, "Không thể tự khoá tài khoản của mình", common.StatusBadRequest, nil)
	}

	set := map[string]interface{}{"isBlock": blocked, "blockNote": note}
	var revoked []string
	if blocked {
		revoked = user.ActiveTokens()
		set["token"] = ""
		set["tokens"] = []models.Token{}
	}
	updated, err := s.UpdateById(ctx, user.ID, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, nil, err
	}
	return &updated, revoked, nil
}

// Authenticate chuyển bearer token thành Session. Token phải hợp lệ và còn gắn với user chưa bị khoá
func (s *UserService) Authenticate(ctx context.Context, token string) (session.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return session.Session{}, err
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return session.Session{}, common.ErrTokenInvalid
	}
	user, err := s.FindOneById(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return session.Session{}, common.ErrTokenInvalid
		}
		return session.Session{}, err
	}
	if !user.HasToken(token) {
		return session.Session{}, common.ErrTokenInvalid
	}
	if user.IsBlock {
		return session.Session{}, common.ErrUserBlocked
	}
	return session.Session{
		UserID:    user.ID.Hex(),
		Role:      user.Role,
		CompanyID: user.CompanyHex(),
		Email:     user.Email,
	}, nil
}
