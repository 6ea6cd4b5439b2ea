// Package registry quản lý các instance dùng chung (collection, service) theo tên, an toàn đồng thời.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"engagement_survey/internal/common"
)

// Registry là registry generic an toàn khi dùng đồng thời.
//
//	cols := NewRegistry[*mongo.Collection]()
//	cols.Register("surveys", db.Collection("surveys"))
//	if col, ok := cols.Get("surveys"); ok { ... }
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry tạo registry rỗng
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Register đăng ký item, ghi đè nếu trùng tên. isNew = false khi ghi đè
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get lấy item theo tên
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// MustGet lấy item hoặc trả lỗi ErrNotFound
func (r *Registry[T]) MustGet(name string) (T, error) {
	item, ok := r.Get(name)
	if !ok {
		return item, fmt.Errorf("registry item %q: %w", name, common.ErrNotFound)
	}
	return item, nil
}

// GetOrCreate lấy item, chưa có thì tạo bằng creator (creator chạy trong lock)
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (item T, err error) {
	if name == "" {
		return item, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[name]; ok {
		return existing, nil
	}
	created, err := creator()
	if err != nil {
		return item, fmt.Errorf("failed to create item: %w", err)
	}
	r.items[name] = created
	return created, nil
}

// Clear xoá item, gọi cleanup trước nếu có
func (r *Registry[T]) Clear(name string, cleanup func(T) error) (deleted bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[name]
	if !ok {
		return false, nil
	}
	if cleanup != nil {
		if err := cleanup(item); err != nil {
			return false, fmt.Errorf("failed to cleanup item %s: %w", name, err)
		}
	}
	delete(r.items, name)
	return true, nil
}

// ClearAll xoá toàn bộ item. Lỗi cleanup được gom lại, item vẫn bị xoá
func (r *Registry[T]) ClearAll(cleanup func(T) error) (count int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if cleanup != nil {
		for name, item := range r.items {
			if cerr := cleanup(item); cerr != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup %s: %w", name, cerr))
			}
		}
	}
	count = len(r.items)
	r.items = make(map[string]T)
	return count, errors.Join(errs...)
}

// Names trả về danh sách tên đã đăng ký, sắp xếp tăng dần
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for n := range r.items {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
