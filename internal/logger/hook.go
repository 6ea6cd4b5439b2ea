package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook ghi log bất đồng bộ ra nhiều writers (file, stdout) trong một goroutine riêng
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	dropped uint64
}

// NewAsyncHookWithWriters tạo hook mới. bufferSize <= 0 dùng mặc định 1000
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	h := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Levels trả về các level hook xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire không block: buffer đầy thì bỏ entry, hook đã đóng thì ghi thẳng
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return h.write(entry)
	}

	select {
	case h.entries <- entry:
	default:
		h.dropped++
	}
	return nil
}

// Dropped trả về số entry bị bỏ vì buffer đầy
func (h *AsyncHook) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

func (h *AsyncHook) run() {
	defer h.wg.Done()

	for entry := range h.entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// Không dùng logger ở đây để tránh vòng lặp
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] %v\n", r)
					debug.PrintStack()
				}
			}()
			_ = h.write(entry)
		}()
	}
}

func (h *AsyncHook) write(entry *logrus.Entry) error {
	var data []byte
	var err error
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		data, err = entry.Logger.Formatter.Format(entry)
	} else {
		var line string
		line, err = entry.String()
		data = []byte(line)
	}
	if err != nil {
		return err
	}

	for _, w := range h.writers {
		if _, werr := w.Write(data); werr != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER] write failed: %v\n", werr)
		}
	}
	return nil
}

// Close đóng channel và đợi ghi hết các entry còn trong buffer
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}
