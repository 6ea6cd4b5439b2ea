// Package events phát sự kiện khi dữ liệu thay đổi qua CRUD.
// BaseServiceMongoImpl tự phát event sau mỗi thao tác ghi thành công.
// Worker analytics đăng ký qua OnDataChanged để đánh dấu khảo sát cần tính lại.
package events

import (
	"context"
	"reflect"
	"sync"

	"engagement_survey/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các loại thao tác CRUD.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// DataChangeEvent mô tả sự kiện thay đổi dữ liệu.
// Document là bản ghi sau khi thay đổi (nil nếu delete).
type DataChangeEvent struct {
	CollectionName string
	Operation      string
	Document       interface{}
}

// DataChangeHandler xử lý sự kiện thay đổi dữ liệu.
type DataChangeHandler func(ctx context.Context, e DataChangeEvent)

var (
	handlers   []DataChangeHandler
	handlersMu sync.RWMutex
)

// OnDataChanged đăng ký handler. Gọi khi khởi động.
func OnDataChanged(h DataChangeHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = append(handlers, h)
}

// Reset xoá toàn bộ handler (dùng trong test).
func Reset() {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = nil
}

// EmitDataChanged phát sự kiện. Mỗi handler chạy trong goroutine riêng, panic được recover.
// Context của request bị tách ra vì handler có thể chạy sau khi request kết thúc.
func EmitDataChanged(ctx context.Context, e DataChangeEvent) {
	handlersMu.RLock()
	list := make([]DataChangeHandler, len(handlers))
	copy(list, handlers)
	handlersMu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, h := range list {
		go func(fn DataChangeHandler) {
			defer func() {
				if r := recover(); r != nil {
					logger.WithModule("events").WithField("collection", e.CollectionName).
						Errorf("❌ [EVENTS] Handler panic: %v", r)
				}
			}()
			fn(detached, e)
		}(h)
	}
}

// GetObjectIDField lấy giá trị ObjectID của field từ document (dùng reflection).
// Trả về NilObjectID nếu document không có field hoặc field không phải ObjectID.
func GetObjectIDField(doc interface{}, fieldName string) primitive.ObjectID {
	val, ok := structValue(doc)
	if !ok {
		return primitive.NilObjectID
	}
	f := val.FieldByName(fieldName)
	if !f.IsValid() || !f.CanInterface() {
		return primitive.NilObjectID
	}
	switch v := f.Interface().(type) {
	case primitive.ObjectID:
		return v
	case *primitive.ObjectID:
		if v != nil {
			return *v
		}
	}
	return primitive.NilObjectID
}

func structValue(doc interface{}) (reflect.Value, bool) {
	if doc == nil {
		return reflect.Value{}, false
	}
	val := reflect.ValueOf(doc)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return reflect.Value{}, false
		}
		val = val.Elem()
	}
	return val, val.Kind() == reflect.Struct
}
