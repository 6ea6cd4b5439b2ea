package authhdl

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	authdto "engagement_survey/internal/api/auth/dto"
	models "engagement_survey/internal/api/auth/models"
	"engagement_survey/internal/api/base/service/mocks"
	"engagement_survey/internal/api/middleware"
	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Level: "panic", Format: "text", Output: "none"})
	os.Exit(m.Run())
}

type mockUserService struct {
	*mocks.Mongo[models.User]
}

func (m *mockUserService) SignUp(ctx context.Context, input *authdto.SignUpInput) (*models.User, error) {
	args := m.Called(ctx, input)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserService) ResendConfirmCode(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockUserService) ConfirmSignUp(ctx context.Context, input *authdto.ConfirmSignUpInput) (*models.User, error) {
	args := m.Called(ctx, input)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserService) SignIn(ctx context.Context, input *authdto.SignInInput) (*models.User, error) {
	args := m.Called(ctx, input)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserService) SignInWithFirebase(ctx context.Context, input *authdto.FirebaseLoginInput) (*models.User, error) {
	args := m.Called(ctx, input)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserService) SignOut(ctx context.Context, userID primitive.ObjectID, hwid string) error {
	return m.Called(ctx, userID, hwid).Error(0)
}

func (m *mockUserService) FetchAttributes(ctx context.Context, s session.Session) (*models.User, error) {
	args := m.Called(ctx, s)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, s session.Session, input *authdto.UserChangeInfoInput) (*models.User, error) {
	args := m.Called(ctx, s, input)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserService) SetBlocked(ctx context.Context, s session.Session, email string, blocked bool, note string) (*models.User, []string, error) {
	args := m.Called(ctx, s, email, blocked, note)
	u, _ := args.Get(0).(*models.User)
	revoked, _ := args.Get(1).([]string)
	return u, revoked, args.Error(2)
}

type stubAuth struct {
	s session.Session
}

func (a stubAuth) Authenticate(_ context.Context, token string) (session.Session, error) {
	if token != "good" {
		return session.Session{}, common.ErrTokenInvalid
	}
	return a.s, nil
}

func setup(t *testing.T, s session.Session) (*fiber.App, *mockUserService) {
	t.Helper()
	svc := &mockUserService{Mongo: mocks.NewMongo[models.User](t)}
	h := NewUserHandler(svc)
	middleware.SetAuthenticator(stubAuth{s: s}, 0)
	t.Cleanup(middleware.ShutdownAuth)

	app := fiber.New()
	app.Post("/auth/login", h.HandleSignIn)
	app.Post("/auth/signup", h.HandleSignUp)
	app.Get("/auth/profile", middleware.AuthMiddleware(""), h.HandleGetProfile)
	app.Post("/auth/logout", middleware.AuthMiddleware(""), h.HandleLogout)
	return app, svc
}

func call(t *testing.T, app *fiber.App, method, path, body, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestHandleSignIn(t *testing.T) {
	app, svc := setup(t, session.Session{})
	user := &models.User{ID: primitive.NewObjectID(), Email: "an@acme.io", Token: "jwt-token", PasswordHash: "secret-hash"}
	svc.On("SignIn", mock.Anything, &authdto.SignInInput{Email: "an@acme.io", Password: "Secret123", Hwid: "web"}).Return(user, nil)

	status, body := call(t, app, "POST", "/auth/login", `{"email":"an@acme.io","password":"Secret123","hwid":"web"}`, "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "success", body["status"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token", data["token"])
	profile := data["user"].(map[string]interface{})
	assert.Equal(t, "an@acme.io", profile["email"])
	assert.NotContains(t, profile, "passwordHash")
}

func TestHandleSignIn_Errors(t *testing.T) {
	app, svc := setup(t, session.Session{})

	status, body := call(t, app, "POST", "/auth/login", `{"email":"not-an-email","password":"x","hwid":"web"}`, "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "VAL_001", body["code"])

	status, body = call(t, app, "POST", "/auth/login", `{bad json`, "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "VAL_002", body["code"])

	svc.On("SignIn", mock.Anything, mock.Anything).Return(nil, common.ErrInvalidCredentials)
	status, body = call(t, app, "POST", "/auth/login", `{"email":"an@acme.io","password":"Wrong1234","hwid":"web"}`, "")
	assert.Equal(t, 401, status)
	assert.Equal(t, "AUTH_002", body["code"])
}

func TestHandleSignUp_WeakPassword(t *testing.T) {
	app, _ := setup(t, session.Session{})
	status, body := call(t, app, "POST", "/auth/signup", `{"email":"a@acme.io","password":"short","firstName":"A","lastName":"B"}`, "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "error", body["status"])
}

func TestHandleProfileAndLogout(t *testing.T) {
	uid := primitive.NewObjectID()
	s := session.Session{UserID: uid.Hex(), Role: session.RoleEmployee, CompanyID: primitive.NewObjectID().Hex()}
	app, svc := setup(t, s)

	status, _ := call(t, app, "GET", "/auth/profile", "", "")
	assert.Equal(t, 401, status)

	svc.On("FetchAttributes", mock.Anything, s).Return(&models.User{ID: uid, FirstName: "An"}, nil)
	status, body := call(t, app, "GET", "/auth/profile", "", "good")
	assert.Equal(t, 200, status)
	assert.Equal(t, "An", body["data"].(map[string]interface{})["firstName"])

	svc.On("SignOut", mock.Anything, uid, "web").Return(nil)
	status, _ = call(t, app, "POST", "/auth/logout", `{"hwid":"web"}`, "good")
	assert.Equal(t, 200, status)
}

func TestUserFromInput(t *testing.T) {
	company := primitive.NewObjectID()
	admin := session.Session{UserID: "u", Role: session.RoleAdmin, CompanyID: company.Hex()}

	u, err := userFromInput(admin, &authdto.UserCreateInput{FirstName: "A", LastName: "B", Email: " A@Acme.io "})
	require.NoError(t, err)
	assert.Equal(t, company, u.CompanyID)
	assert.Equal(t, session.RoleEmployee, u.Role)
	assert.Equal(t, models.UserStatusInvited, u.Status)
	assert.Equal(t, "a@acme.io", u.Email)

	_, err = userFromInput(admin, &authdto.UserCreateInput{CompanyID: primitive.NewObjectID().Hex(), Email: "x@acme.io"})
	assert.ErrorIs(t, err, common.ErrCompanyScope)

	root := session.Session{UserID: "r", Role: session.RoleSuperAdmin}
	_, err = userFromInput(root, &authdto.UserCreateInput{Email: "x@acme.io"})
	assert.Error(t, err)
}

// tokenTable là authenticator theo bảng token → session, token có thể bị gỡ giữa chừng
type tokenTable struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func (a *tokenTable) Authenticate(_ context.Context, token string) (session.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[token]
	if !ok {
		return session.Session{}, common.ErrTokenInvalid
	}
	return s, nil
}

func (a *tokenTable) revoke(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, token)
}

func TestHandleBlockUser_EvictsCachedTokens(t *testing.T) {
	company := primitive.NewObjectID().Hex()
	admin := session.Session{UserID: primitive.NewObjectID().Hex(), Role: session.RoleAdmin, CompanyID: company}
	victim := session.Session{UserID: primitive.NewObjectID().Hex(), Role: session.RoleEmployee, CompanyID: company}
	auth := &tokenTable{sessions: map[string]session.Session{"admin-token": admin, "victim-token": victim}}

	svc := &mockUserService{Mongo: mocks.NewMongo[models.User](t)}
	h := NewUserHandler(svc)
	middleware.SetAuthenticator(auth, time.Minute)
	t.Cleanup(middleware.ShutdownAuth)

	app := fiber.New()
	app.Get("/auth/profile", middleware.AuthMiddleware(""), h.HandleGetProfile)
	app.Post("/admin/user/block", middleware.AuthMiddleware(""), h.HandleBlockUser)

	svc.On("FetchAttributes", mock.Anything, victim).Return(&models.User{FirstName: "An"}, nil).Once()
	status, _ := call(t, app, "GET", "/auth/profile", "", "victim-token")
	require.Equal(t, 200, status)

	svc.On("SetBlocked", mock.Anything, admin, "an@acme.io", true, "left").
		Return(&models.User{Email: "an@acme.io", IsBlock: true}, []string{"victim-token"}, nil).
		Run(func(mock.Arguments) { auth.revoke("victim-token") })
	status, _ = call(t, app, "POST", "/admin/user/block", `{"email":"an@acme.io","note":"left"}`, "admin-token")
	require.Equal(t, 200, status)

	status, body := call(t, app, "GET", "/auth/profile", "", "victim-token")
	assert.Equal(t, 401, status)
	assert.Equal(t, "AUTH_001", body["code"])
}
