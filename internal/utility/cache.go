package utility

import (
	"sync"
	"time"
)

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

// Cache là cache trong bộ nhớ, mỗi item sống ttl, dọn item hết hạn theo chu kỳ cleanup
type Cache struct {
	items    map[string]cacheItem
	mu       sync.RWMutex
	ttl      time.Duration
	cleanup  time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewCache tạo cache mới và chạy goroutine dọn dẹp. Gọi Stop khi không dùng nữa
func NewCache(ttl, cleanup time.Duration) *Cache {
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	c := &Cache{
		items:    make(map[string]cacheItem),
		ttl:      ttl,
		cleanup:  cleanup,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Set lưu giá trị vào cache
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// Get lấy giá trị còn hạn
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[key]
	if !ok || (c.ttl > 0 && time.Now().After(item.expiresAt)) {
		return nil, false
	}
	return item.value, true
}

// Delete xoá một key
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len trả về số item (kể cả item hết hạn chưa được dọn)
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stop dừng goroutine dọn dẹp, gọi nhiều lần không sao
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	<-c.done
}

func (c *Cache) cleanupLoop() {
	defer close(c.done)
	ticker := time.NewTicker(c.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired(time.Now())
		case <-c.stopChan:
			return
		}
	}
}

func (c *Cache) evictExpired(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, k)
		}
	}
}
