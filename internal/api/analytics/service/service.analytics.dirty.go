package analyticssvc

import (
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyKey xác định một khảo sát trong một công ty
type SurveyKey struct {
	CompanyID primitive.ObjectID
	SurveyID  primitive.ObjectID
}

// DirtySet là tập khảo sát cần tính lại snapshot, an toàn cho nhiều goroutine
type DirtySet struct {
	mu    sync.Mutex
	items map[SurveyKey]int64 // key => thời điểm đánh dấu (Unix milli)
}

// NewDirtySet tạo DirtySet rỗng
func NewDirtySet() *DirtySet {
	return &DirtySet{items: make(map[SurveyKey]int64)}
}

// Mark đánh dấu key cần tính lại. Đánh dấu lại giữ thời điểm cũ
func (d *DirtySet) Mark(key SurveyKey, at int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.items[key]; !ok {
		d.items[key] = at
	}
}

// Contains kiểm tra key đang chờ tính lại
func (d *DirtySet) Contains(key SurveyKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.items[key]
	return ok
}

// Len trả về số key đang chờ
func (d *DirtySet) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Drain lấy tối đa n key được đánh dấu sớm nhất và xoá chúng khỏi tập
func (d *DirtySet) Drain(n int) []SurveyKey {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]SurveyKey, 0, len(d.items))
	for k := range d.items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if d.items[keys[i]] != d.items[keys[j]] {
			return d.items[keys[i]] < d.items[keys[j]]
		}
		return keys[i].SurveyID.Hex() < keys[j].SurveyID.Hex()
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	for _, k := range keys {
		delete(d.items, k)
	}
	return keys
}
