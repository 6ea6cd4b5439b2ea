// Package basehdl cung cấp handler CRUD dùng chung và các tiện ích xử lý request/response.
package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	basesvc "engagement_survey/internal/api/base/service"
	"engagement_survey/internal/common"
	"engagement_survey/internal/global"
	"engagement_survey/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// BaseHandler là handler CRUD generic cho một collection
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	BaseService basesvc.BaseServiceMongo[T]
	// CompanyField là field bson chứa id công ty dùng để giới hạn dữ liệu. Rỗng: collection dùng chung
	CompanyField string
	// ToModel chuyển DTO tạo mới thành model (gắn companyId theo session)
	ToModel func(s session.Session, input *CreateInput) (T, error)
	// HiddenFields là các field bson client không được lọc, sắp xếp hay chiếu (kể cả field con)
	HiddenFields map[string]bool
}

// NewBaseHandler tạo BaseHandler cho service và field công ty
func NewBaseHandler[T any, CreateInput any, UpdateInput any](svc basesvc.BaseServiceMongo[T], companyField string, toModel func(session.Session, *CreateInput) (T, error)) *BaseHandler[T, CreateInput, UpdateInput] {
	return &BaseHandler[T, CreateInput, UpdateInput]{
		BaseService:  svc,
		CompanyField: companyField,
		ToModel:      toModel,
	}
}

// WithHiddenFields đánh dấu các field bí mật (token, mật khẩu...) không được dùng trong filter và options
func (h *BaseHandler[T, CreateInput, UpdateInput]) WithHiddenFields(fields ...string) *BaseHandler[T, CreateInput, UpdateInput] {
	if h.HiddenFields == nil {
		h.HiddenFields = make(map[string]bool, len(fields))
	}
	for _, f := range fields {
		h.HiddenFields[f] = true
	}
	return h
}

// ParseRequestBody parse JSON body (UseNumber) và validate theo struct tag
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	return ParseRequestBody(c, input)
}

// ParseRequestBody parse JSON body và validate bằng global.Validate
func ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON. Chi tiết: %v", err),
			common.StatusBadRequest,
			err,
		)
	}
	return ValidateInput(input)
}

// ValidateInput validate struct, bỏ qua nếu input không phải struct
func ValidateInput(input interface{}) error {
	if err := global.Validate.Struct(input); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}
	return nil
}

// CurrentSession lấy session do AuthMiddleware gắn vào context
func CurrentSession(c fiber.Ctx) (session.Session, error) {
	s, ok := session.From(c.Context())
	if !ok {
		return session.Session{}, common.ErrTokenMissing
	}
	return s, nil
}

// ScopeCompanyID xác định công ty cho bản ghi mới.
// Super admin phải chỉ định requested; người khác luôn dùng công ty của mình.
func ScopeCompanyID(s session.Session, requested string) (primitive.ObjectID, error) {
	if s.IsSuperAdmin() {
		if requested == "" {
			return primitive.NilObjectID, common.NewError(common.ErrCodeValidationInput, "Thiếu companyId", common.StatusBadRequest, nil)
		}
		return stringToObjectID(requested)
	}
	if requested != "" && requested != s.CompanyID {
		return primitive.NilObjectID, common.ErrCompanyScope
	}
	return stringToObjectID(s.CompanyID)
}

func stringToObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID (phải là chuỗi hex 24 ký tự)", id),
			common.StatusBadRequest,
			nil,
		)
	}
	return oid, nil
}

// ParseID đọc và kiểm tra :id trong URL params
func ParseID(c fiber.Ctx) (primitive.ObjectID, error) {
	id := c.Params("id")
	if id == "" {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "ID không được để trống trong URL params", common.StatusBadRequest, nil)
	}
	return stringToObjectID(id)
}

// forbiddenOperators là các operator không được phép trong filter từ client
var forbiddenOperators = map[string]bool{
	"$where":       true,
	"$function":    true,
	"$accumulator": true,
}

// ProcessFilter đọc filter (Extended JSON) từ query string, chuyển id dạng chuỗi thành ObjectID
// và áp dụng giới hạn công ty theo session
func (h *BaseHandler[T, CreateInput, UpdateInput]) ProcessFilter(c fiber.Ctx) (bson.M, error) {
	filter := bson.M{}
	if raw := c.Query("filter", ""); raw != "" {
		if err := bson.UnmarshalExtJSON([]byte(raw), false, &filter); err != nil {
			return nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Filter không đúng định dạng JSON. Chi tiết lỗi: %v. Giá trị filter nhận được: %s", err, raw),
				common.StatusBadRequest,
				err,
			)
		}
	}
	if err := checkOperators(filter); err != nil {
		return nil, err
	}
	if err := h.checkHidden(filter); err != nil {
		return nil, err
	}
	for k, v := range filter {
		filter[k] = convertIDs(k, v)
	}
	return h.applyCompanyFilter(c, filter)
}

// applyCompanyFilter giới hạn filter theo công ty của session (trừ super admin)
func (h *BaseHandler[T, CreateInput, UpdateInput]) applyCompanyFilter(c fiber.Ctx, filter bson.M) (bson.M, error) {
	s, err := CurrentSession(c)
	if err != nil {
		return nil, err
	}
	if h.CompanyField == "" || s.IsSuperAdmin() {
		return filter, nil
	}
	companyID, err := stringToObjectID(s.CompanyID)
	if err != nil {
		return nil, common.ErrCompanyScope
	}
	// Filter đã có field công ty (vd. _id khi CompanyField là _id): giữ điều kiện cũ và thêm điều kiện công ty
	if _, exists := filter[h.CompanyField]; exists {
		return bson.M{"$and": bson.A{filter, bson.M{h.CompanyField: companyID}}}, nil
	}
	filter[h.CompanyField] = companyID
	return filter, nil
}

func checkOperators(v interface{}) error {
	switch t := v.(type) {
	case bson.M:
		for k, val := range t {
			if forbiddenOperators[k] {
				return common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Operator %s không được phép", k), common.StatusBadRequest, nil)
			}
			if err := checkOperators(val); err != nil {
				return err
			}
		}
	case bson.D:
		for _, e := range t {
			if err := checkOperators(bson.M{e.Key: e.Value}); err != nil {
				return err
			}
		}
	case bson.A:
		for _, val := range t {
			if err := checkOperators(val); err != nil {
				return err
			}
		}
	}
	return nil
}

// isHidden trả về true nếu path (vd. "tokens.jwtToken") là field ẩn hoặc nằm trong field ẩn
func (h *BaseHandler[T, CreateInput, UpdateInput]) isHidden(path string) bool {
	path = strings.TrimLeft(path, "$")
	path = strings.TrimPrefix(strings.TrimPrefix(path, "ROOT."), "CURRENT.")
	for {
		if h.HiddenFields[path] {
			return true
		}
		i := strings.LastIndexByte(path, '.')
		if i < 0 {
			return false
		}
		path = path[:i]
	}
}

// hiddenRef tìm field ẩn được nhắc tới trong v: key của document (qua $and/$or/$elemMatch...)
// hoặc tham chiếu dạng chuỗi "$field" trong biểu thức
func (h *BaseHandler[T, CreateInput, UpdateInput]) hiddenRef(v interface{}) (string, bool) {
	switch t := v.(type) {
	case bson.M:
		for k, val := range t {
			if !strings.HasPrefix(k, "$") && h.isHidden(k) {
				return k, true
			}
			if ref, ok := h.hiddenRef(val); ok {
				return ref, true
			}
		}
	case bson.D:
		for _, e := range t {
			if ref, ok := h.hiddenRef(bson.M{e.Key: e.Value}); ok {
				return ref, true
			}
		}
	case bson.A:
		for _, val := range t {
			if ref, ok := h.hiddenRef(val); ok {
				return ref, true
			}
		}
	case string:
		if strings.HasPrefix(t, "$") && h.isHidden(t) {
			return t, true
		}
	}
	return "", false
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) checkHidden(v interface{}) error {
	if len(h.HiddenFields) == 0 {
		return nil
	}
	if ref, ok := h.hiddenRef(v); ok {
		return common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Field '%s' không được phép truy vấn", ref), common.StatusBadRequest, nil)
	}
	return nil
}

// isIDField trả về true với _id và các field kết thúc bằng "Id" (companyId, surveyId...)
func isIDField(key string) bool {
	return key == "_id" || (len(key) > 2 && strings.HasSuffix(key, "Id"))
}

// convertIDs chuyển chuỗi hex thành ObjectID cho các field id, kể cả bên trong $in/$ne/$nin
func convertIDs(key string, v interface{}) interface{} {
	if !isIDField(key) {
		return v
	}
	switch t := v.(type) {
	case string:
		if primitive.IsValidObjectID(t) {
			oid, _ := primitive.ObjectIDFromHex(t)
			return oid
		}
	case bson.A:
		out := make(bson.A, len(t))
		for i, item := range t {
			out[i] = convertIDs(key, item)
		}
		return out
	case bson.D:
		out := make(bson.D, len(t))
		for i, e := range t {
			out[i] = bson.E{Key: e.Key, Value: convertIDs(key, e.Value)}
		}
		return out
	case bson.M:
		out := make(bson.M, len(t))
		for k, item := range t {
			out[k] = convertIDs(key, item)
		}
		return out
	}
	return v
}

// findOptions là options nhận từ query string `options`
type findOptions struct {
	Sort       bson.D `bson:"sort"`
	Projection bson.D `bson:"projection"`
	Limit      int64  `bson:"limit"`
	Skip       int64  `bson:"skip"`
}

func parseFindOptions(c fiber.Ctx) (*findOptions, error) {
	opts := &findOptions{}
	raw := c.Query("options", "")
	if raw == "" {
		return opts, nil
	}
	if err := bson.UnmarshalExtJSON([]byte(raw), false, opts); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Options không đúng định dạng JSON. Chi tiết lỗi: %v. Giá trị options nhận được: %s", err, raw),
			common.StatusBadRequest,
			err,
		)
	}
	for _, e := range opts.Sort {
		switch e.Value {
		case int32(1), int32(-1), int64(1), int64(-1), float64(1), float64(-1):
		default:
			return nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Giá trị sort của '%s' phải là 1 hoặc -1", e.Key), common.StatusBadRequest, nil)
		}
	}
	if opts.Limit < 0 || opts.Skip < 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "limit/skip không được âm", common.StatusBadRequest, nil)
	}
	return opts, nil
}

// parseFindOptions đọc options và từ chối sort/projection trên field ẩn
func (h *BaseHandler[T, CreateInput, UpdateInput]) parseFindOptions(c fiber.Ctx) (*findOptions, error) {
	opts, err := parseFindOptions(c)
	if err != nil {
		return nil, err
	}
	if err := h.checkHidden(opts.Sort); err != nil {
		return nil, err
	}
	if err := h.checkHidden(opts.Projection); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *findOptions) find() *mongoopts.FindOptions {
	out := mongoopts.Find()
	if len(o.Sort) > 0 {
		out.SetSort(o.Sort)
	}
	if len(o.Projection) > 0 {
		out.SetProjection(o.Projection)
	}
	if o.Limit > 0 {
		out.SetLimit(o.Limit)
	}
	if o.Skip > 0 {
		out.SetSkip(o.Skip)
	}
	return out
}

func (o *findOptions) findOne() *mongoopts.FindOneOptions {
	out := mongoopts.FindOne()
	if len(o.Sort) > 0 {
		out.SetSort(o.Sort)
	}
	if len(o.Projection) > 0 {
		out.SetProjection(o.Projection)
	}
	if o.Skip > 0 {
		out.SetSkip(o.Skip)
	}
	return out
}

// queryInt64 đọc số nguyên từ query string, sai định dạng trả về lỗi 400
func queryInt64(c fiber.Ctx, key string, def int64) (int64, error) {
	raw := c.Query(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, common.NewError(common.ErrCodeValidationFormat, fmt.Sprintf("Tham số '%s' phải là số nguyên", key), common.StatusBadRequest, err)
	}
	return v, nil
}
