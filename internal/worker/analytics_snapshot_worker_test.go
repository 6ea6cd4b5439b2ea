package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	analyticssvc "engagement_survey/internal/api/analytics/service"
	"engagement_survey/internal/logger"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Level: "panic", Format: "text", Output: "none"})
	goleak.VerifyTestMain(m)
}

type fakeComputer struct {
	mu       sync.Mutex
	dirty    []analyticssvc.SurveyKey
	computed []analyticssvc.SurveyKey
	fail     map[primitive.ObjectID]bool
	panics   map[primitive.ObjectID]bool
}

func (f *fakeComputer) DrainDirty(n int) []analyticssvc.SurveyKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n > len(f.dirty) {
		n = len(f.dirty)
	}
	out := append([]analyticssvc.SurveyKey(nil), f.dirty[:n]...)
	f.dirty = f.dirty[n:]
	return out
}

func (f *fakeComputer) MarkDirty(key analyticssvc.SurveyKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirty = append(f.dirty, key)
}

func (f *fakeComputer) Recompute(_ context.Context, key analyticssvc.SurveyKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics[key.SurveyID] {
		panic("nil map")
	}
	if f.fail[key.SurveyID] {
		return errors.New("boom")
	}
	f.computed = append(f.computed, key)
	return nil
}

func (f *fakeComputer) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dirty)
}

func newKey() analyticssvc.SurveyKey {
	return analyticssvc.SurveyKey{CompanyID: primitive.NewObjectID(), SurveyID: primitive.NewObjectID()}
}

func TestRunOnce_BatchAndRetry(t *testing.T) {
	bad := newKey()
	f := &fakeComputer{
		dirty: []analyticssvc.SurveyKey{newKey(), bad, newKey()},
		fail:  map[primitive.ObjectID]bool{bad.SurveyID: true},
	}
	w := NewAnalyticsSnapshotWorker(f, time.Minute, 2)

	assert.Equal(t, 1, w.RunOnce(context.Background()))
	// khảo sát lỗi được đánh dấu lại, khảo sát thứ ba vẫn chờ
	assert.Equal(t, 2, f.pending())

	assert.Equal(t, 1, w.RunOnce(context.Background()))
	assert.Len(t, f.computed, 2)
}

func TestRunOnce_PanicKeepsBatch(t *testing.T) {
	first, bad, last := newKey(), newKey(), newKey()
	f := &fakeComputer{
		dirty:  []analyticssvc.SurveyKey{first, bad, last},
		panics: map[primitive.ObjectID]bool{bad.SurveyID: true},
	}
	w := NewAnalyticsSnapshotWorker(f, time.Minute, 10)

	assert.Equal(t, 2, w.RunOnce(context.Background()))
	assert.Equal(t, []analyticssvc.SurveyKey{first, last}, f.computed)
	assert.Equal(t, []analyticssvc.SurveyKey{bad}, f.dirty)
}

func TestRunOnce_CancelledRequeues(t *testing.T) {
	f := &fakeComputer{dirty: []analyticssvc.SurveyKey{newKey(), newKey()}}
	w := NewAnalyticsSnapshotWorker(f, time.Minute, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 0, w.RunOnce(ctx))
	assert.Equal(t, 2, f.pending())
}

func TestStart_StopsOnCancel(t *testing.T) {
	f := &fakeComputer{dirty: []analyticssvc.SurveyKey{newKey()}}
	w := NewAnalyticsSnapshotWorker(f, 10*time.Millisecond, 5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return f.pending() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
