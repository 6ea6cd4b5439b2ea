package router

import (
	"github.com/gofiber/fiber/v3"

	"engagement_survey/internal/api/middleware"
)

// CRUDHandler định nghĩa interface cho các handler CRUD
type CRUDHandler interface {
	InsertOne(c fiber.Ctx) error

	Find(c fiber.Ctx) error
	FindOne(c fiber.Ctx) error
	FindOneById(c fiber.Ctx) error
	FindWithPagination(c fiber.Ctx) error
	FindWithCursor(c fiber.Ctx) error
	CountDocuments(c fiber.Ctx) error

	UpdateById(c fiber.Ctx) error
	DeleteById(c fiber.Ctx) error
}

// Router quản lý việc định tuyến cho API
type Router struct {
	app *fiber.App
}

// CRUDConfig cấu hình các operation được phép cho mỗi collection
type CRUDConfig struct {
	InsOne   bool // Insert One
	Find     bool // Find All
	FindOne  bool // Find One
	FindById bool // Find By Id
	Paginate bool // Find With Pagination
	Cursor   bool // Find With Cursor
	Count    bool // Count Documents
	UpdById  bool // Update By Id
	DelById  bool // Delete By Id
}

var (
	// ReadOnlyConfig chỉ cho phép đọc
	ReadOnlyConfig = CRUDConfig{
		Find: true, FindOne: true, FindById: true,
		Paginate: true, Cursor: true, Count: true,
	}

	// ReadWriteConfig cho phép đầy đủ CRUD
	ReadWriteConfig = CRUDConfig{
		InsOne: true,
		Find:   true, FindOne: true, FindById: true,
		Paginate: true, Cursor: true, Count: true,
		UpdById: true, DelById: true,
	}
)

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix tạo RoutePrefix với giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// RegisterRouteWithMiddleware đăng ký route với chuỗi middleware riêng cho route đó.
// Không dùng group.Use() vì middleware sẽ áp lên mọi route cùng prefix.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	handlers := make([]fiber.Handler, 0, len(middlewares)+1)
	handlers = append(handlers, middlewares...)
	handlers = append(handlers, handler)
	router.Add([]string{method}, prefix+path, handlers[0], handlers[1:]...)
}

// RegisterCRUDRoutes đăng ký các route CRUD cho một collection.
// Quyền yêu cầu: <permissionPrefix>.Insert / .Read / .Update / .Delete
func (r *Router) RegisterCRUDRoutes(router fiber.Router, prefix string, h CRUDHandler, config CRUDConfig, permissionPrefix string) {
	authInsert := []fiber.Handler{middleware.AuthMiddleware(permissionPrefix + ".Insert")}
	authRead := []fiber.Handler{middleware.AuthMiddleware(permissionPrefix + ".Read")}
	authUpdate := []fiber.Handler{middleware.AuthMiddleware(permissionPrefix + ".Update")}
	authDelete := []fiber.Handler{middleware.AuthMiddleware(permissionPrefix + ".Delete")}

	if config.InsOne {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodPost, "/insert-one", authInsert, h.InsertOne)
	}

	if config.Find {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "/find", authRead, h.Find)
	}
	if config.FindOne {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "/find-one", authRead, h.FindOne)
	}
	if config.FindById {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "/find-by-id/:id", authRead, h.FindOneById)
	}
	if config.Paginate {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "/find-with-pagination", authRead, h.FindWithPagination)
	}
	if config.Cursor {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "/find-with-cursor", authRead, h.FindWithCursor)
	}
	if config.Count {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "/count", authRead, h.CountDocuments)
	}

	if config.UpdById {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodPut, "/update-by-id/:id", authUpdate, h.UpdateById)
	}
	if config.DelById {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodDelete, "/delete-by-id/:id", authDelete, h.DeleteById)
	}
}

// RegisterFunc là hàm đăng ký route của một domain (do domain/router export)
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes thiết lập tất cả các route. Caller truyền Register của từng domain để tránh import cycle.
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
