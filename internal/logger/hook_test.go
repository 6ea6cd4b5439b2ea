package logger

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAsyncHook_FlushOnClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &syncBuffer{}
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	h := NewAsyncHookWithWriters([]io.Writer{out}, 10)
	l.AddHook(h)
	l.SetOutput(&bytes.Buffer{})

	l.Info("survey opened")
	l.Warn("bulk partial failure")
	assert.NoError(t, h.Close())

	got := out.String()
	assert.Contains(t, got, "survey opened")
	assert.Contains(t, got, "bulk partial failure")
}

func TestAsyncHook_WriteAfterCloseIsDirect(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &syncBuffer{}
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	h := NewAsyncHookWithWriters([]io.Writer{out}, 1)
	l.AddHook(h)
	l.SetOutput(&bytes.Buffer{})

	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())

	l.Info("after close")
	assert.Contains(t, out.String(), "after close")
}

func TestDefaultConfig_GoEnv(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	t.Setenv("GO_ENV", "development")
	t.Setenv("LOG_LEVEL", "WARN")
	cfg = DefaultConfig()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, 1000, cfg.BufferSize)
}
