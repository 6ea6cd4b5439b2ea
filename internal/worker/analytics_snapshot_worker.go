// Package worker - các worker chạy nền của server.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	analyticssvc "engagement_survey/internal/api/analytics/service"
	"engagement_survey/internal/logger"
)

// SnapshotComputer là phần AnalyticsService mà worker cần
type SnapshotComputer interface {
	DrainDirty(n int) []analyticssvc.SurveyKey
	MarkDirty(key analyticssvc.SurveyKey)
	Recompute(ctx context.Context, key analyticssvc.SurveyKey) error
}

// AnalyticsSnapshotWorker tính lại snapshot của các khảo sát vừa có câu trả lời hoặc xếp hạng mới.
// Mỗi chu kỳ xử lý tối đa batchSize khảo sát; khảo sát tính lỗi được đánh dấu lại để thử lần sau.
type AnalyticsSnapshotWorker struct {
	computer  SnapshotComputer
	interval  time.Duration // Khoảng thời gian giữa các lần chạy
	batchSize int           // Số khảo sát tối đa mỗi lần
}

// NewAnalyticsSnapshotWorker tạo mới AnalyticsSnapshotWorker.
// Tham số:
//   - interval: Khoảng thời gian giữa các lần chạy (mặc định: 1 phút)
//   - batchSize: Số khảo sát tối đa mỗi lần (mặc định: 20)
func NewAnalyticsSnapshotWorker(computer SnapshotComputer, interval time.Duration, batchSize int) *AnalyticsSnapshotWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 20
	}
	return &AnalyticsSnapshotWorker{
		computer:  computer,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start chạy vòng lặp worker cho tới khi ctx bị huỷ
func (w *AnalyticsSnapshotWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(logrus.Fields{
		"interval":  w.interval.String(),
		"batchSize": w.batchSize,
	}).Info("📊 [ANALYTICS] Starting Analytics Snapshot Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("📊 [ANALYTICS] Analytics Snapshot Worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce xử lý một batch khảo sát đang chờ, trả về số snapshot đã tính
func (w *AnalyticsSnapshotWorker) RunOnce(ctx context.Context) (processed int) {
	log := logger.GetAppLogger()

	keys := w.computer.DrainDirty(w.batchSize)
	for i, key := range keys {
		if ctx.Err() != nil {
			for _, rest := range keys[i:] {
				w.computer.MarkDirty(rest)
			}
			return processed
		}
		if err := w.recompute(ctx, key); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"companyId": key.CompanyID.Hex(),
				"surveyId":  key.SurveyID.Hex(),
			}).Warn("📊 [ANALYTICS] Compute thất bại, sẽ thử lại lần sau")
			w.computer.MarkDirty(key)
			continue
		}
		processed++
	}

	if processed > 0 {
		log.WithFields(logrus.Fields{
			"processed": processed,
			"total":     len(keys),
		}).Info("📊 [ANALYTICS] Đã tính lại snapshot")
	}
	return processed
}

// recompute tính lại một khảo sát; panic được đổi thành lỗi để các khảo sát còn lại vẫn được xử lý
func (w *AnalyticsSnapshotWorker) recompute(ctx context.Context, key analyticssvc.SurveyKey) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.computer.Recompute(ctx, key)
}
