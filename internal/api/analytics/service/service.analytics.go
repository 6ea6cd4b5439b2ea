// Package analyticssvc - điểm trung bình theo factor, thống kê mức độ quan trọng và snapshot.
package analyticssvc

import (
	"context"
	"errors"
	"time"

	models "engagement_survey/internal/api/analytics/models"
	basesvc "engagement_survey/internal/api/base/service"
	"engagement_survey/internal/api/events"
	responsemodels "engagement_survey/internal/api/response/models"
	surveymodels "engagement_survey/internal/api/survey/models"
	"engagement_survey/internal/common"
	"engagement_survey/internal/global"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/scoring"
	"engagement_survey/internal/session"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultFreshFor là thời gian snapshot được coi là mới khi không có thay đổi chờ xử lý
const DefaultFreshFor = 10 * time.Minute

// SurveyGate kiểm tra khảo sát theo session (surveysvc.SurveyService triển khai)
type SurveyGate interface {
	ForSession(ctx context.Context, sess session.Session, surveyID string) (surveymodels.Survey, error)
}

// Counter đếm document (dùng để đếm nhân viên của công ty)
type Counter interface {
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

// Deps là các phụ thuộc của AnalyticsService
type Deps struct {
	Surveys   SurveyGate
	Users     Counter
	Averages  basesvc.BaseServiceMongo[responsemodels.AverageResult]
	Rankings  basesvc.BaseServiceMongo[responsemodels.FactorRanking]
	Snapshots basesvc.BaseServiceMongo[models.AnalyticsSnapshot]
}

// AnalyticsService tính số liệu tổng hợp theo khảo sát
type AnalyticsService struct {
	deps     Deps
	dirty    *DirtySet
	freshFor time.Duration
	now      func() time.Time
}

// NewAnalyticsService tạo AnalyticsService. freshFor <= 0 dùng DefaultFreshFor
func NewAnalyticsService(deps Deps, freshFor time.Duration) *AnalyticsService {
	if freshFor <= 0 {
		freshFor = DefaultFreshFor
	}
	return &AnalyticsService{deps: deps, dirty: NewDirtySet(), freshFor: freshFor, now: time.Now}
}

func surveyFilter(key SurveyKey) bson.M {
	return bson.M{"companyId": key.CompanyID, "surveyId": key.SurveyID}
}

// FactorAverages tính trung bình điểm của từng factor trên mọi kết quả đã nộp.
// Factor không ai trả lời có điểm 0; tỉ lệ tham gia = nhân viên đã trả lời / số nhân viên
func (s *AnalyticsService) FactorAverages(ctx context.Context, key SurveyKey) (models.FactorAverages, error) {
	results, err := s.deps.Averages.Find(ctx, surveyFilter(key), nil)
	if err != nil {
		return models.FactorAverages{}, err
	}
	employees, err := s.deps.Users.CountDocuments(ctx, bson.M{"companyId": key.CompanyID, "role": session.RoleEmployee})
	if err != nil {
		return models.FactorAverages{}, err
	}
	// Tỉ lệ tham gia chỉ tính người trả lời là nhân viên (admin cũng có thể nộp bài)
	var answered int64
	if employees > 0 && len(results) > 0 {
		ids := make([]primitive.ObjectID, 0, len(results))
		for _, r := range results {
			ids = append(ids, r.UserID)
		}
		answered, err = s.deps.Users.CountDocuments(ctx, bson.M{
			"companyId": key.CompanyID,
			"role":      session.RoleEmployee,
			"_id":       bson.M{"$in": ids},
		})
		if err != nil {
			return models.FactorAverages{}, err
		}
	}

	values := make(map[string][]float64, len(scoring.Factors()))
	for _, r := range results {
		for label, score := range r.Scores {
			if f, ok := scoring.NormalizeFactor(label); ok {
				values[f] = append(values[f], score)
			}
		}
	}
	averages := make(map[string]float64, len(scoring.Factors()))
	for _, f := range scoring.Factors() {
		averages[f] = scoring.Round2(scoring.Mean(values[f]))
	}

	return models.FactorAverages{
		Averages:      averages,
		Respondents:   len(results),
		Employees:     int(employees),
		Participation: scoring.Round2(scoring.Ratio(int(answered), int(employees))),
	}, nil
}

// FactorImportance thống kê thứ hạng factor của khảo sát
func (s *AnalyticsService) FactorImportance(ctx context.Context, key SurveyKey) (scoring.ImportanceReport, error) {
	rankings, err := s.deps.Rankings.Find(ctx, surveyFilter(key), nil)
	if err != nil {
		return scoring.ImportanceReport{}, err
	}
	list := make([]scoring.Ranking, 0, len(rankings))
	for _, r := range rankings {
		list = append(list, scoring.Ranking(r.Ranks))
	}
	return scoring.ComputeImportance(list), nil
}

// Compute tính lại và lưu snapshot của khảo sát
func (s *AnalyticsService) Compute(ctx context.Context, key SurveyKey) (models.AnalyticsSnapshot, error) {
	averages, err := s.FactorAverages(ctx, key)
	if err != nil {
		return models.AnalyticsSnapshot{}, err
	}
	importance, err := s.FactorImportance(ctx, key)
	if err != nil {
		return models.AnalyticsSnapshot{}, err
	}
	return s.deps.Snapshots.Upsert(ctx, surveyFilter(key), &basesvc.UpdateData{Set: map[string]interface{}{
		"factorAverages": averages,
		"importance":     importance,
		"computedAt":     s.now().UnixMilli(),
	}})
}

// Recompute tính lại snapshot, chỉ trả về lỗi (dùng cho worker)
func (s *AnalyticsService) Recompute(ctx context.Context, key SurveyKey) error {
	_, err := s.Compute(ctx, key)
	return err
}

// Snapshot trả về snapshot của khảo sát surveyID cho người gọi.
// Snapshot cũ, chưa có hoặc đang chờ tính lại thì được tính ngay
func (s *AnalyticsService) Snapshot(ctx context.Context, sess session.Session, surveyID string) (models.AnalyticsSnapshot, error) {
	key, err := s.keyFor(ctx, sess, surveyID)
	if err != nil {
		return models.AnalyticsSnapshot{}, err
	}
	snap, err := s.deps.Snapshots.FindOne(ctx, surveyFilter(key), nil)
	switch {
	case err == nil:
		if !s.dirty.Contains(key) && s.now().Sub(time.UnixMilli(snap.ComputedAt)) < s.freshFor {
			return snap, nil
		}
	case !errors.Is(err, common.ErrNotFound):
		return models.AnalyticsSnapshot{}, err
	}
	return s.Compute(ctx, key)
}

// AveragesFor tính trực tiếp điểm trung bình theo factor cho người gọi
func (s *AnalyticsService) AveragesFor(ctx context.Context, sess session.Session, surveyID string) (models.FactorAverages, error) {
	key, err := s.keyFor(ctx, sess, surveyID)
	if err != nil {
		return models.FactorAverages{}, err
	}
	return s.FactorAverages(ctx, key)
}

// ImportanceFor tính trực tiếp thống kê thứ hạng cho người gọi
func (s *AnalyticsService) ImportanceFor(ctx context.Context, sess session.Session, surveyID string) (scoring.ImportanceReport, error) {
	key, err := s.keyFor(ctx, sess, surveyID)
	if err != nil {
		return scoring.ImportanceReport{}, err
	}
	return s.FactorImportance(ctx, key)
}

func (s *AnalyticsService) keyFor(ctx context.Context, sess session.Session, surveyID string) (SurveyKey, error) {
	survey, err := s.deps.Surveys.ForSession(ctx, sess, surveyID)
	if err != nil {
		return SurveyKey{}, err
	}
	return SurveyKey{CompanyID: survey.CompanyID, SurveyID: survey.ID}, nil
}

// MarkDirty đánh dấu khảo sát cần tính lại
func (s *AnalyticsService) MarkDirty(key SurveyKey) {
	s.dirty.Mark(key, s.now().UnixMilli())
}

// DrainDirty lấy tối đa n khảo sát cần tính lại
func (s *AnalyticsService) DrainDirty(n int) []SurveyKey {
	return s.dirty.Drain(n)
}

// TrackChanges nhận sự kiện ghi của câu trả lời và xếp hạng, đánh dấu khảo sát tương ứng.
// Đăng ký qua events.OnDataChanged khi khởi động
func (s *AnalyticsService) TrackChanges(_ context.Context, e events.DataChangeEvent) {
	switch e.CollectionName {
	case global.MongoDB_ColNames.AverageResults, global.MongoDB_ColNames.FactorRankings, global.MongoDB_ColNames.SurveyResponses:
	default:
		return
	}
	key := SurveyKey{
		CompanyID: events.GetObjectIDField(e.Document, "CompanyID"),
		SurveyID:  events.GetObjectIDField(e.Document, "SurveyID"),
	}
	if key.SurveyID.IsZero() {
		return
	}
	s.MarkDirty(key)
	logger.WithModule("analytics").WithFields(logrus.Fields{
		"collection": e.CollectionName,
		"survey_id":  key.SurveyID.Hex(),
	}).Debug("📊 [ANALYTICS] Đánh dấu khảo sát cần tính lại")
}
