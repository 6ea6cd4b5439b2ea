package basehdl

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"engagement_survey/internal/api/base/service/mocks"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/session"

	"github.com/gofiber/fiber/v3"
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

type widget struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID primitive.ObjectID `json:"companyId" bson:"companyId"`
	Name      string             `json:"name" bson:"name"`
}

type widgetCreate struct {
	CompanyID string `json:"companyId"`
	Name      string `json:"name" validate:"required"`
}

type widgetUpdate struct {
	Name string `json:"name,omitempty" bson:"name,omitempty"`
}

func widgetFromInput(s session.Session, in *widgetCreate) (widget, error) {
	companyID, err := ScopeCompanyID(s, in.CompanyID)
	if err != nil {
		return widget{}, err
	}
	return widget{CompanyID: companyID, Name: in.Name}, nil
}

func newWidgetApp(t *testing.T, s session.Session) (*fiber.App, *mocks.Mongo[widget]) {
	t.Helper()
	svc := mocks.NewMongo[widget](t)
	h := NewBaseHandler[widget, widgetCreate, widgetUpdate](svc, "companyId", widgetFromInput)

	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		c.SetContext(session.With(c.Context(), s))
		return c.Next()
	})
	app.Get("/find", h.Find)
	app.Get("/find-by-id/:id", h.FindOneById)
	app.Get("/find-with-cursor", h.FindWithCursor)
	app.Post("/insert-one", h.InsertOne)
	app.Put("/update-by-id/:id", h.UpdateById)
	return app, svc
}

func send(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func withFilter(path, filter string) string {
	return path + "?" + url.Values{"filter": {filter}}.Encode()
}

func TestFind_CompanyScope(t *testing.T) {
	mine := primitive.NewObjectID()
	admin := session.Session{UserID: "u1", Role: session.RoleAdmin, CompanyID: mine.Hex()}
	app, svc := newWidgetApp(t, admin)

	svc.On("Find", mock.Anything, bson.M{"name": "x", "companyId": mine}, mock.Anything).Return([]widget{{Name: "x"}}, nil).Once()
	status, body := send(t, app, "GET", withFilter("/find", `{"name":"x"}`), "")
	assert.Equal(t, 200, status)
	assert.Len(t, body["data"], 1)

	// companyId của công ty khác không được ghi đè mà bị AND với công ty của session
	other := primitive.NewObjectID()
	svc.On("Find", mock.Anything, bson.M{"$and": bson.A{bson.M{"companyId": other}, bson.M{"companyId": mine}}}, mock.Anything).Return([]widget{}, nil).Once()
	status, _ = send(t, app, "GET", withFilter("/find", `{"companyId":"`+other.Hex()+`"}`), "")
	assert.Equal(t, 200, status)
}

func TestFind_SuperAdminUnscoped(t *testing.T) {
	app, svc := newWidgetApp(t, session.Session{UserID: "root", Role: session.RoleSuperAdmin})
	svc.On("Find", mock.Anything, bson.M{"name": "x"}, mock.Anything).Return([]widget{}, nil)

	status, _ := send(t, app, "GET", withFilter("/find", `{"name":"x"}`), "")
	assert.Equal(t, 200, status)
}

func TestFind_RejectsBadFilters(t *testing.T) {
	app, _ := newWidgetApp(t, session.Session{UserID: "root", Role: session.RoleSuperAdmin})

	status, body := send(t, app, "GET", withFilter("/find", `{"$where":"sleep(1000)"}`), "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "VAL_001", body["code"])

	status, body = send(t, app, "GET", withFilter("/find", `{not json`), "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "VAL_002", body["code"])

	status, _ = send(t, app, "GET", "/find?"+url.Values{"options": {`{"sort":{"name":2}}`}}.Encode(), "")
	assert.Equal(t, 400, status)
}

func TestFindOneById_Scoped(t *testing.T) {
	mine := primitive.NewObjectID()
	app, svc := newWidgetApp(t, session.Session{UserID: "u1", Role: session.RoleEmployee, CompanyID: mine.Hex()})
	id := primitive.NewObjectID()

	svc.On("FindOne", mock.Anything, bson.M{"_id": id, "companyId": mine}, mock.Anything).Return(widget{ID: id}, nil)
	status, _ := send(t, app, "GET", "/find-by-id/"+id.Hex(), "")
	assert.Equal(t, 200, status)

	status, body := send(t, app, "GET", "/find-by-id/not-an-id", "")
	assert.Equal(t, 400, status)
	assert.Equal(t, "VAL_002", body["code"])
}

func TestFindWithCursor_PassesCursor(t *testing.T) {
	app, svc := newWidgetApp(t, session.Session{UserID: "root", Role: session.RoleSuperAdmin})
	svc.On("FindWithCursor", mock.Anything, bson.M{}, "abc", int64(5)).Return(nil, nil)

	status, _ := send(t, app, "GET", "/find-with-cursor?cursor=abc&limit=5", "")
	assert.Equal(t, 200, status)

	status, _ = send(t, app, "GET", "/find-with-cursor?limit=five", "")
	assert.Equal(t, 400, status)
}

func TestInsertOne_UsesSessionCompany(t *testing.T) {
	mine := primitive.NewObjectID()
	app, svc := newWidgetApp(t, session.Session{UserID: "u1", Role: session.RoleAdmin, CompanyID: mine.Hex()})

	svc.On("InsertOne", mock.Anything, widget{CompanyID: mine, Name: "w"}).Return(widget{ID: primitive.NewObjectID(), CompanyID: mine, Name: "w"}, nil)
	status, body := send(t, app, "POST", "/insert-one", `{"name":"w"}`)
	assert.Equal(t, 200, status)
	assert.Equal(t, "w", body["data"].(map[string]interface{})["name"])

	status, body = send(t, app, "POST", "/insert-one", `{"name":"w","companyId":"`+primitive.NewObjectID().Hex()+`"}`)
	assert.Equal(t, 403, status)
	assert.Equal(t, "AUTH_003", body["code"])

	status, _ = send(t, app, "POST", "/insert-one", `{}`)
	assert.Equal(t, 400, status)
}

func TestUpdateById_EmptyBody(t *testing.T) {
	app, _ := newWidgetApp(t, session.Session{UserID: "root", Role: session.RoleSuperAdmin})
	status, body := send(t, app, "PUT", "/update-by-id/"+primitive.NewObjectID().Hex(), `{}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, "VAL_001", body["code"])
}

func TestFind_RejectsHiddenFields(t *testing.T) {
	svc := mocks.NewMongo[widget](t)
	h := NewBaseHandler[widget, widgetCreate, widgetUpdate](svc, "companyId", widgetFromInput).
		WithHiddenFields("token", "tokens", "passwordHash")
	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		c.SetContext(session.With(c.Context(), session.Session{UserID: "u1", Role: session.RoleAdmin, CompanyID: primitive.NewObjectID().Hex()}))
		return c.Next()
	})
	app.Get("/find", h.Find)

	tests := []struct {
		name  string
		query url.Values
	}{
		{"regex on token", url.Values{"filter": {`{"token":{"$regex":"^eyJa"}}`}}},
		{"nested token field", url.Values{"filter": {`{"tokens.jwtToken":{"$regex":"^eyJ"}}`}}},
		{"inside $or", url.Values{"filter": {`{"$or":[{"name":"x"},{"passwordHash":{"$exists":true}}]}`}}},
		{"elemMatch", url.Values{"filter": {`{"tokens":{"$elemMatch":{"jwtToken":"t"}}}`}}},
		{"expression reference", url.Values{"filter": {`{"$expr":{"$eq":["$token","t"]}}`}}},
		{"sort", url.Values{"options": {`{"sort":{"token":1}}`}}},
		{"projection", url.Values{"options": {`{"projection":{"passwordHash":1}}`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := send(t, app, "GET", "/find?"+tt.query.Encode(), "")
			assert.Equal(t, 400, status)
			assert.Equal(t, "VAL_001", body["code"])
		})
	}
	svc.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)

	svc.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]widget{}, nil).Once()
	status, _ := send(t, app, "GET", withFilter("/find", `{"name":"token"}`), "")
	assert.Equal(t, 200, status)
}
