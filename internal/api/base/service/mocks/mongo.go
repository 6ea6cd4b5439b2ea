// Package mocks chứa bản giả (testify/mock) của BaseServiceMongo dùng trong test các domain service.
package mocks

import (
	"context"

	basemodels "engagement_survey/internal/api/base/models"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo là mock generic cho basesvc.BaseServiceMongo[T]
type Mongo[T any] struct {
	mock.Mock
}

// NewMongo tạo mock và đăng ký AssertExpectations khi test kết thúc
func NewMongo[T any](t interface {
	mock.TestingT
	Cleanup(func())
}) *Mongo[T] {
	m := &Mongo[T]{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func value[T any](args mock.Arguments, i int) T {
	var zero T
	if v, ok := args.Get(i).(T); ok {
		return v
	}
	return zero
}

func (m *Mongo[T]) InsertOne(ctx context.Context, data T) (T, error) {
	args := m.Called(ctx, data)
	return value[T](args, 0), args.Error(1)
}

func (m *Mongo[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	args := m.Called(ctx, data)
	return value[[]T](args, 0), args.Error(1)
}

func (m *Mongo[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	args := m.Called(ctx, filter, opts)
	return value[T](args, 0), args.Error(1)
}

func (m *Mongo[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	args := m.Called(ctx, filter, opts)
	return value[[]T](args, 0), args.Error(1)
}

func (m *Mongo[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	args := m.Called(ctx, id)
	return value[T](args, 0), args.Error(1)
}

func (m *Mongo[T]) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	args := m.Called(ctx, ids)
	return value[[]T](args, 0), args.Error(1)
}

func (m *Mongo[T]) FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	args := m.Called(ctx, filter, page, limit, opts)
	return value[*basemodels.PaginateResult[T]](args, 0), args.Error(1)
}

func (m *Mongo[T]) FindWithCursor(ctx context.Context, filter interface{}, cursor string, limit int64) (*basemodels.CursorResult[T], error) {
	args := m.Called(ctx, filter, cursor, limit)
	return value[*basemodels.CursorResult[T]](args, 0), args.Error(1)
}

func (m *Mongo[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	args := m.Called(ctx, filter)
	return value[int64](args, 0), args.Error(1)
}

func (m *Mongo[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	args := m.Called(ctx, filter)
	return args.Bool(0), args.Error(1)
}

func (m *Mongo[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (T, error) {
	args := m.Called(ctx, filter, update)
	return value[T](args, 0), args.Error(1)
}

func (m *Mongo[T]) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (T, error) {
	args := m.Called(ctx, id, data)
	return value[T](args, 0), args.Error(1)
}

func (m *Mongo[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	args := m.Called(ctx, filter, update)
	return value[int64](args, 0), args.Error(1)
}

func (m *Mongo[T]) Upsert(ctx context.Context, filter interface{}, data interface{}) (T, error) {
	args := m.Called(ctx, filter, data)
	return value[T](args, 0), args.Error(1)
}

func (m *Mongo[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Mongo[T]) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	args := m.Called(ctx, filter)
	return value[int64](args, 0), args.Error(1)
}
