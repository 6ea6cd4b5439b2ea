package authsvc

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	authdto "engagement_survey/internal/api/auth/dto"
	models "engagement_survey/internal/api/auth/models"
	basesvc "engagement_survey/internal/api/base/service"
	"engagement_survey/internal/api/base/service/mocks"
	"engagement_survey/internal/common"
	"engagement_survey/internal/delivery/channels"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/session"
	"engagement_survey/internal/utility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Level: "panic", Format: "text", Output: "none"})
	os.Exit(m.Run())
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []channels.Email
}

func (r *recordingMailer) Send(_ context.Context, mail channels.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, mail)
	return nil
}

func newService(t *testing.T) (*UserService, *mocks.Mongo[models.User], *recordingMailer) {
	t.Helper()
	users := mocks.NewMongo[models.User](t)
	mailer := &recordingMailer{}
	svc := NewUserService(users, utility.NewTokenManager("secret", time.Hour), mailer, nil)
	return svc, users, mailer
}

func activeUser(t *testing.T, password string) models.User {
	t.Helper()
	hash, err := utility.HashPassword(password)
	require.NoError(t, err)
	return models.User{
		ID:           primitive.NewObjectID(),
		CompanyID:    primitive.NewObjectID(),
		FirstName:    "An",
		LastName:     "Nguyen",
		Email:        "an@acme.io",
		Role:         session.RoleAdmin,
		Status:       models.UserStatusActive,
		PasswordHash: hash,
	}
}

func TestSignIn(t *testing.T) {
	svc, users, _ := newService(t)
	user := activeUser(t, "Secret123")

	users.On("FindOne", mock.Anything, bson.M{"email": "an@acme.io"}, mock.Anything).Return(user, nil)
	var saved *basesvc.UpdateData
	users.On("UpdateById", mock.Anything, user.ID, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).(*basesvc.UpdateData) }).
		Return(user, nil).Once()

	got, err := svc.SignIn(context.Background(), &authdto.SignInInput{Email: " AN@acme.io ", Password: "Secret123", Hwid: "laptop"})
	require.NoError(t, err)
	require.NotEmpty(t, got.Token)
	require.NotNil(t, saved)
	assert.Equal(t, got.Token, saved.Set["token"])
	tokens := saved.Set["tokens"].([]models.Token)
	require.Len(t, tokens, 1)
	assert.Equal(t, "laptop", tokens[0].Hwid)

	// token vừa cấp phải xác thực được
	stored := user
	stored.Token = got.Token
	stored.Tokens = tokens
	users.On("FindOneById", mock.Anything, user.ID).Return(stored, nil)
	s, err := svc.Authenticate(context.Background(), got.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), s.UserID)
	assert.Equal(t, session.RoleAdmin, s.Role)
	assert.Equal(t, user.CompanyID.Hex(), s.CompanyID)
}

func TestSignIn_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(u *models.User)
		pass    string
		wantErr error
	}{
		{"wrong password", func(u *models.User) {}, "Wrong1234", common.ErrInvalidCredentials},
		{"unconfirmed", func(u *models.User) { u.Status = models.UserStatusUnconfirmed }, "Secret123", common.ErrUserNotConfirmed},
		{"blocked", func(u *models.User) { u.IsBlock = true }, "Secret123", common.ErrUserBlocked},
		{"invited without password", func(u *models.User) { u.PasswordHash = "" }, "Secret123", common.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _ := newService(t)
			user := activeUser(t, "Secret123")
			tt.mutate(&user)
			users.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(user, nil)

			_, err := svc.SignIn(context.Background(), &authdto.SignInInput{Email: user.Email, Password: tt.pass, Hwid: "x"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSignUp_NewUser(t *testing.T) {
	svc, users, mailer := newService(t)

	users.On("FindOne", mock.Anything, bson.M{"email": "binh@acme.io"}, mock.Anything).Return(models.User{}, common.ErrNotFound)
	var inserted models.User
	users.On("InsertOne", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(models.User) }).
		Return(models.User{Email: "binh@acme.io"}, nil)

	_, err := svc.SignUp(context.Background(), &authdto.SignUpInput{Email: "Binh@acme.io", Password: "Secret123", FirstName: "Binh", LastName: "Tran"})
	require.NoError(t, err)

	assert.Equal(t, "binh@acme.io", inserted.Email)
	assert.Equal(t, models.UserStatusUnconfirmed, inserted.Status)
	assert.Equal(t, session.RoleEmployee, inserted.Role)
	assert.Len(t, inserted.ConfirmCode, 6)
	assert.NoError(t, utility.CheckPassword(inserted.PasswordHash, "Secret123"))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "binh@acme.io", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].HTML, inserted.ConfirmCode)
}

func TestSignUp_CompletesInvitedUser(t *testing.T) {
	svc, users, _ := newService(t)
	invited := models.User{ID: primitive.NewObjectID(), Email: "c@acme.io", Status: models.UserStatusInvited, Role: session.RoleEmployee}

	users.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(invited, nil)
	users.On("UpdateById", mock.Anything, invited.ID, mock.MatchedBy(func(u *basesvc.UpdateData) bool {
		return u.Set["status"] == models.UserStatusUnconfirmed && u.Set["passwordHash"] != ""
	})).Return(invited, nil)

	_, err := svc.SignUp(context.Background(), &authdto.SignUpInput{Email: "c@acme.io", Password: "Secret123", FirstName: "C", LastName: "D"})
	require.NoError(t, err)
}

func TestSignUp_AlreadyActive(t *testing.T) {
	svc, users, mailer := newService(t)
	users.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(activeUser(t, "Secret123"), nil)

	_, err := svc.SignUp(context.Background(), &authdto.SignUpInput{Email: "an@acme.io", Password: "Secret123", FirstName: "A", LastName: "N"})
	require.Error(t, err)
	assert.Equal(t, common.StatusConflict, common.StatusOf(err))
	assert.Empty(t, mailer.sent)
}

func TestConfirmSignUp(t *testing.T) {
	now := time.Now()
	pending := models.User{
		ID:               primitive.NewObjectID(),
		Email:            "d@acme.io",
		Status:           models.UserStatusUnconfirmed,
		ConfirmCode:      "123456",
		ConfirmExpiresAt: now.Add(time.Hour).UnixMilli(),
	}

	t.Run("wrong code", func(t *testing.T) {
		svc, users, _ := newService(t)
		users.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(pending, nil)
		_, err := svc.ConfirmSignUp(context.Background(), &authdto.ConfirmSignUpInput{Email: "d@acme.io", Code: "654321"})
		assert.ErrorIs(t, err, common.ErrConfirmCode)
	})

	t.Run("expired", func(t *testing.T) {
		svc, users, _ := newService(t)
		svc.now = func() time.Time { return now.Add(2 * time.Hour) }
		users.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(pending, nil)
		_, err := svc.ConfirmSignUp(context.Background(), &authdto.ConfirmSignUpInput{Email: "d@acme.io", Code: "123456"})
		assert.ErrorIs(t, err, common.ErrConfirmCode)
	})

	t.Run("ok", func(t *testing.T) {
		svc, users, _ := newService(t)
		users.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(pending, nil)
		active := pending
		active.Status = models.UserStatusActive
		users.On("UpdateById", mock.Anything, pending.ID, mock.MatchedBy(func(u *basesvc.UpdateData) bool {
			_, unset := u.Unset["confirmCode"]
			return u.Set["status"] == models.UserStatusActive && unset
		})).Return(active, nil)

		got, err := svc.ConfirmSignUp(context.Background(), &authdto.ConfirmSignUpInput{Email: "d@acme.io", Code: "123456"})
		require.NoError(t, err)
		assert.Equal(t, models.UserStatusActive, got.Status)
	})
}

func TestAuthenticate_Rejected(t *testing.T) {
	svc, users, _ := newService(t)
	user := activeUser(t, "Secret123")

	token, err := svc.tokens.Issue(user.ID.Hex(), user.Role, user.CompanyHex(), "laptop")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "not-a-jwt")
	assert.Equal(t, common.StatusUnauthorized, common.StatusOf(err))

	// token đã bị thu hồi (đăng xuất)
	users.On("FindOneById", mock.Anything, user.ID).Return(user, nil).Once()
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)

	blocked := user
	blocked.IsBlock = true
	blocked.SetDeviceToken("laptop", token)
	users.On("FindOneById", mock.Anything, user.ID).Return(blocked, nil).Once()
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrUserBlocked)
}

func TestSetBlocked_CompanyScope(t *testing.T) {
	svc, users, _ := newService(t)
	target := activeUser(t, "Secret123")
	users.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(target, nil)

	other := session.Session{UserID: primitive.NewObjectID().Hex(), Role: session.RoleAdmin, CompanyID: primitive.NewObjectID().Hex()}
	_, _, err := svc.SetBlocked(context.Background(), other, target.Email, true, "spam")
	assert.ErrorIs(t, err, common.ErrCompanyScope)

	same := session.Session{UserID: primitive.NewObjectID().Hex(), Role: session.RoleAdmin, CompanyID: target.CompanyHex()}
	users.On("UpdateById", mock.Anything, target.ID, mock.MatchedBy(func(u *basesvc.UpdateData) bool {
		return u.Set["isBlock"] == true && u.Set["token"] == ""
	})).Return(target, nil)
	_, revoked, err := svc.SetBlocked(context.Background(), same, target.Email, true, "spam")
	require.NoError(t, err)
	assert.Empty(t, revoked)
}

func TestSetBlocked_ReturnsRevokedTokens(t *testing.T) {
	svc, users, _ := newService(t)
	target := activeUser(t, "Secret123")
	target.SetDeviceToken("laptop", "t-laptop")
	target.SetDeviceToken("phone", "t-phone")
	users.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(target, nil)
	users.On("UpdateById", mock.Anything, target.ID, mock.Anything).Return(target, nil)

	admin := session.Session{UserID: primitive.NewObjectID().Hex(), Role: session.RoleAdmin, CompanyID: target.CompanyHex()}
	_, revoked, err := svc.SetBlocked(context.Background(), admin, target.Email, true, "left")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t-laptop", "t-phone"}, revoked)

	_, revoked, err = svc.SetBlocked(context.Background(), admin, target.Email, false, "")
	require.NoError(t, err)
	assert.Empty(t, revoked)
}

func TestDeviceTokens(t *testing.T) {
	u := models.User{}
	u.SetDeviceToken("a", "t1")
	u.SetDeviceToken("b", "t2")
	u.SetDeviceToken("a", "t3")
	require.Len(t, u.Tokens, 2)
	assert.Equal(t, "t3", u.Token)
	assert.True(t, u.HasToken("t2"))
	assert.False(t, u.HasToken("t1"))

	u.RemoveDeviceToken("a")
	assert.Equal(t, "", u.Token)
	assert.Len(t, u.Tokens, 1)
	assert.False(t, u.HasToken("t3"))
	assert.False(t, u.HasToken(""))
}

type fakeFirebase struct {
	identity utility.FirebaseIdentity
}

func (f fakeFirebase) VerifyIDToken(context.Context, string) (*utility.FirebaseIdentity, error) {
	id := f.identity
	return &id, nil
}

func TestSignInWithFirebase_Linking(t *testing.T) {
	const uid = "fb-uid-1"
	invited := models.User{
		ID:        primitive.NewObjectID(),
		CompanyID: primitive.NewObjectID(),
		Email:     "an@acme.io",
		Role:      session.RoleEmployee,
		Status:    models.UserStatusInvited,
	}
	withPassword := activeUser(t, "Secret123")
	withPassword.Role = session.RoleSuperAdmin

	tests := []struct {
		name       string
		verified   bool
		existing   *models.User
		wantStatus int
	}{
		{"unverified email", false, nil, common.StatusForbidden},
		{"password account", true, &withPassword, common.StatusConflict},
		{"other firebase uid", true, &models.User{ID: primitive.NewObjectID(), Email: "an@acme.io", FirebaseUID: "fb-uid-2"}, common.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := mocks.NewMongo[models.User](t)
			svc := NewUserService(users, utility.NewTokenManager("secret", time.Hour), &recordingMailer{},
				fakeFirebase{identity: utility.FirebaseIdentity{UID: uid, Email: "AN@acme.io", EmailVerified: tt.verified}})
			users.On("FindOne", mock.Anything, bson.M{"firebaseUid": uid}, mock.Anything).Return(models.User{}, common.ErrNotFound)
			if tt.existing != nil {
				users.On("FindOne", mock.Anything, bson.M{"email": "an@acme.io"}, mock.Anything).Return(*tt.existing, nil)
			}

			_, err := svc.SignInWithFirebase(context.Background(), &authdto.FirebaseLoginInput{IDToken: "t", Hwid: "web"})
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, common.StatusOf(err))
			users.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("invited account is linked", func(t *testing.T) {
		users := mocks.NewMongo[models.User](t)
		svc := NewUserService(users, utility.NewTokenManager("secret", time.Hour), &recordingMailer{},
			fakeFirebase{identity: utility.FirebaseIdentity{UID: uid, Email: "an@acme.io", EmailVerified: true}})
		users.On("FindOne", mock.Anything, bson.M{"firebaseUid": uid}, mock.Anything).Return(models.User{}, common.ErrNotFound)
		users.On("FindOne", mock.Anything, bson.M{"email": "an@acme.io"}, mock.Anything).Return(invited, nil)
		linked := invited
		linked.FirebaseUID = uid
		linked.Status = models.UserStatusActive
		users.On("Upsert", mock.Anything, bson.M{"_id": invited.ID}, mock.Anything).Return(linked, nil)
		users.On("UpdateById", mock.Anything, invited.ID, mock.Anything).Return(linked, nil)

		got, err := svc.SignInWithFirebase(context.Background(), &authdto.FirebaseLoginInput{IDToken: "t", Hwid: "web"})
		require.NoError(t, err)
		assert.NotEmpty(t, got.Token)
		assert.Equal(t, session.RoleEmployee, got.Role)
	})
}
