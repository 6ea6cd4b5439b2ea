// Package basesvc cung cấp các service cơ bản cho việc tương tác với MongoDB
package basesvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "engagement_survey/internal/api/base/models"
	"engagement_survey/internal/api/events"
	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"
)

// UpdateData định nghĩa kiểu dữ liệu cho partial update
type UpdateData struct {
	Set         map[string]interface{} `bson:"$set,omitempty"`         // Các trường cần update
	SetOnInsert map[string]interface{} `bson:"$setOnInsert,omitempty"` // Chỉ set khi upsert tạo mới
	Unset       map[string]interface{} `bson:"$unset,omitempty"`       // Các trường cần xóa
	Push        map[string]interface{} `bson:"$push,omitempty"`
	AddToSet    map[string]interface{} `bson:"$addToSet,omitempty"`
}

// ToUpdateData chuyển đổi dữ liệu bất kỳ thành UpdateData.
// Map có sẵn operator ($set, $unset...) được giữ nguyên, còn lại được bọc trong $set.
func ToUpdateData(data interface{}) (*UpdateData, error) {
	switch v := data.(type) {
	case nil:
		return nil, common.ErrInvalidInput
	case *UpdateData:
		return v, nil
	case UpdateData:
		return &v, nil
	}

	dataMap, err := toMap(data)
	if err != nil {
		return nil, err
	}

	if _, hasSet := dataMap["$set"]; hasSet {
		update := &UpdateData{}
		update.Set, _ = asMap(dataMap["$set"])
		update.Unset, _ = asMap(dataMap["$unset"])
		update.SetOnInsert, _ = asMap(dataMap["$setOnInsert"])
		update.Push, _ = asMap(dataMap["$push"])
		update.AddToSet, _ = asMap(dataMap["$addToSet"])
		return update, nil
	}
	return &UpdateData{Set: dataMap}, nil
}

// toMap chuyển struct/map thành map theo bson tag (cấp ngoài cùng)
func toMap(data interface{}) (map[string]interface{}, error) {
	if m, ok := asMap(data); ok {
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	}
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err)
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err)
	}
	return out, nil
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case bson.M:
		return m, true
	case bson.D:
		return m.Map(), true
	}
	return nil, false
}

// BaseServiceMongo định nghĩa interface chứa các phương thức cơ bản cho việc tương tác với MongoDB
type BaseServiceMongo[Model any] interface {
	InsertOne(ctx context.Context, data Model) (Model, error)
	InsertMany(ctx context.Context, data []Model) ([]Model, error)

	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (Model, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (Model, error)
	FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]Model, error)
	FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[Model], error)
	FindWithCursor(ctx context.Context, filter interface{}, cursor string, limit int64) (*basemodels.CursorResult[Model], error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	DocumentExists(ctx context.Context, filter interface{}) (bool, error)

	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (Model, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (Model, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	Upsert(ctx context.Context, filter interface{}, data interface{}) (Model, error)

	DeleteById(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
}

// BaseServiceMongoImpl triển khai BaseServiceMongo trên một collection
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo tạo mới một BaseServiceMongoImpl
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{collection: collection}
}

// Collection trả về collection MongoDB (dùng khi cần aggregate trực tiếp)
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// CollectionName trả về tên collection
func (s *BaseServiceMongoImpl[T]) CollectionName() string {
	return s.collection.Name()
}

func (s *BaseServiceMongoImpl[T]) emit(ctx context.Context, op string, doc interface{}) {
	events.EmitDataChanged(ctx, events.DataChangeEvent{
		CollectionName: s.collection.Name(),
		Operation:      op,
		Document:       doc,
	})
}

func orEmpty(filter interface{}) interface{} {
	if filter == nil {
		return bson.D{}
	}
	if m, ok := filter.(map[string]interface{}); ok && len(m) == 0 {
		return bson.D{}
	}
	return filter
}

// prepareInsert thêm timestamps và loại bỏ chuỗi rỗng để sparse unique index bỏ qua
func prepareInsert(data interface{}, now int64) (map[string]interface{}, error) {
	dataMap, err := toMap(data)
	if err != nil {
		return nil, err
	}
	for key, value := range dataMap {
		if str, ok := value.(string); ok && str == "" {
			delete(dataMap, key)
		}
	}
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now
	return dataMap, nil
}

// InsertOne tạo mới một bản ghi và trả về bản ghi đã lưu
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T
	doc, err := prepareInsert(data, time.Now().UnixMilli())
	if err != nil {
		return zero, err
	}

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	if err := s.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpInsert, created)
	return created, nil
}

// InsertMany tạo nhiều bản ghi
func (s *BaseServiceMongoImpl[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	if len(data) == 0 {
		return []T{}, nil
	}
	now := time.Now().UnixMilli()
	documents := make([]interface{}, 0, len(data))
	for _, item := range data {
		doc, err := prepareInsert(item, now)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	result, err := s.collection.InsertMany(ctx, documents)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	created, err := s.Find(ctx, bson.M{"_id": bson.M{"$in": result.InsertedIDs}}, nil)
	if err != nil {
		return nil, err
	}
	for i := range created {
		s.emit(ctx, events.OpInsert, created[i])
	}
	return created, nil
}

// FindOne tìm một document theo điều kiện lọc
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var zero T
	if opts == nil {
		opts = options.FindOne()
	}

	var result T
	if err := s.collection.FindOne(ctx, orEmpty(filter), opts).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find tìm tất cả bản ghi theo điều kiện lọc, luôn trả về slice khác nil
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, orEmpty(filter), opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// FindOneById tìm một document theo ObjectId
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// FindManyByIds tìm nhiều document theo danh sách ID
func (s *BaseServiceMongoImpl[T]) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	return s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// FindWithPagination tìm bản ghi theo trang (page bắt đầu từ 1, limit mặc định 10)
func (s *BaseServiceMongoImpl[T]) FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	filter = orEmpty(filter)
	if opts == nil {
		opts = options.Find()
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	opts.SetSkip((page - 1) * limit)
	opts.SetLimit(limit)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var totalPage int64
	if total > 0 {
		totalPage = (total + limit - 1) / limit
	}
	return &basemodels.PaginateResult[T]{
		Items:     items,
		Page:      page,
		Limit:     limit,
		ItemCount: int64(len(items)),
		Total:     total,
		TotalPage: totalPage,
	}, nil
}

// FindWithCursor duyệt theo _id tăng dần sau cursor. Lấy limit+1 bản ghi để biết còn trang sau hay không
func (s *BaseServiceMongoImpl[T]) FindWithCursor(ctx context.Context, filter interface{}, cursor string, limit int64) (*basemodels.CursorResult[T], error) {
	after, err := basemodels.DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	limit = basemodels.NormalizeCursorLimit(limit)

	query := orEmpty(filter)
	if !after.IsZero() {
		query = bson.M{"$and": bson.A{query, bson.M{"_id": bson.M{"$gt": after}}}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(limit + 1)

	items, err := s.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	result := &basemodels.CursorResult[T]{Items: items, Limit: limit}
	if int64(len(items)) > limit {
		result.Items = items[:limit]
		result.HasMore = true
		last := events.GetObjectIDField(result.Items[limit-1], "ID")
		result.NextCursor = basemodels.EncodeCursor(last)
	}
	return result, nil
}

// CountDocuments đếm số lượng document
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, orEmpty(filter))
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// DocumentExists kiểm tra có document nào khớp filter
func (s *BaseServiceMongoImpl[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, orEmpty(filter), options.Count().SetLimit(1))
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return count > 0, nil
}

// prepareUpdate chuẩn hoá update và gắn updatedAt. _id và createdAt không bao giờ bị ghi đè
func prepareUpdate(update interface{}) (*UpdateData, error) {
	updateData, err := ToUpdateData(update)
	if err != nil {
		return nil, err
	}
	if updateData.Set == nil {
		updateData.Set = make(map[string]interface{})
	}
	delete(updateData.Set, "_id")
	delete(updateData.Set, "createdAt")
	updateData.Set["updatedAt"] = time.Now().UnixMilli()
	return updateData, nil
}

// UpdateOne cập nhật một document và trả về bản sau khi cập nhật
func (s *BaseServiceMongoImpl[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (T, error) {
	var zero T
	updateData, err := prepareUpdate(update)
	if err != nil {
		return zero, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated T
	if err := s.collection.FindOneAndUpdate(ctx, orEmpty(filter), updateData, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpUpdate, updated)
	return updated, nil
}

// UpdateById cập nhật một document theo ObjectId
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (T, error) {
	return s.UpdateOne(ctx, bson.M{"_id": id}, data)
}

// UpdateMany cập nhật nhiều document, trả về số document đã thay đổi
func (s *BaseServiceMongoImpl[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	updateData, err := prepareUpdate(update)
	if err != nil {
		return 0, err
	}
	result, err := s.collection.UpdateMany(ctx, orEmpty(filter), updateData)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	if result.ModifiedCount > 0 {
		s.emit(ctx, events.OpUpdate, nil)
	}
	return result.ModifiedCount, nil
}

// Upsert cập nhật nếu tồn tại, tạo mới nếu chưa có (createdAt chỉ set khi tạo mới)
func (s *BaseServiceMongoImpl[T]) Upsert(ctx context.Context, filter interface{}, data interface{}) (T, error) {
	var zero T
	updateData, err := prepareUpdate(data)
	if err != nil {
		return zero, err
	}
	if updateData.SetOnInsert == nil {
		updateData.SetOnInsert = make(map[string]interface{})
	}
	updateData.SetOnInsert["createdAt"] = updateData.Set["updatedAt"]

	logger.WithCollection(s.collection.Name()).WithField("filter", filter).Debug("Upsert: Bắt đầu upsert")

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var result T
	if err := s.collection.FindOneAndUpdate(ctx, orEmpty(filter), updateData, opts).Decode(&result); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpUpsert, result)
	return result, nil
}

// DeleteById xóa một document theo ObjectId
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	var existing T
	err := s.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return common.ErrNotFound
		}
		return common.ConvertMongoError(err)
	}
	s.emit(ctx, events.OpDelete, existing)
	return nil
}

// DeleteMany xóa nhiều document, trả về số document đã xóa
func (s *BaseServiceMongoImpl[T]) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, orEmpty(filter))
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	if result.DeletedCount > 0 {
		s.emit(ctx, events.OpDelete, nil)
	}
	return result.DeletedCount, nil
}
