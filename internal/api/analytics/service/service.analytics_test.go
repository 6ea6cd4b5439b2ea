package analyticssvc

import (
	"context"
	"os"
	"testing"
	"time"

	models "engagement_survey/internal/api/analytics/models"
	"engagement_survey/internal/api/base/service/mocks"
	"engagement_survey/internal/api/events"
	responsemodels "engagement_survey/internal/api/response/models"
	surveymodels "engagement_survey/internal/api/survey/models"
	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/scoring"
	"engagement_survey/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Level: "panic", Format: "text", Output: "none"})
	os.Exit(m.Run())
}

type fakeSurveys struct{ survey surveymodels.Survey }

func (f fakeSurveys) ForSession(context.Context, session.Session, string) (surveymodels.Survey, error) {
	return f.survey, nil
}

type fixture struct {
	svc       *AnalyticsService
	users     *mocks.Mongo[struct{}]
	averages  *mocks.Mongo[responsemodels.AverageResult]
	rankings  *mocks.Mongo[responsemodels.FactorRanking]
	snapshots *mocks.Mongo[models.AnalyticsSnapshot]
	key       SurveyKey
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	survey := surveymodels.Survey{ID: primitive.NewObjectID(), CompanyID: primitive.NewObjectID()}
	f := &fixture{
		users:     mocks.NewMongo[struct{}](t),
		averages:  mocks.NewMongo[responsemodels.AverageResult](t),
		rankings:  mocks.NewMongo[responsemodels.FactorRanking](t),
		snapshots: mocks.NewMongo[models.AnalyticsSnapshot](t),
		key:       SurveyKey{CompanyID: survey.CompanyID, SurveyID: survey.ID},
		now:       time.UnixMilli(1_700_000_000_000),
	}
	f.svc = NewAnalyticsService(Deps{
		Surveys:   fakeSurveys{survey: survey},
		Users:     f.users,
		Averages:  f.averages,
		Rankings:  f.rankings,
		Snapshots: f.snapshots,
	}, time.Minute)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) filter() bson.M {
	return bson.M{"companyId": f.key.CompanyID, "surveyId": f.key.SurveyID}
}

func (f *fixture) employees(n int64) {
	f.users.On("CountDocuments", mock.Anything, bson.M{"companyId": f.key.CompanyID, "role": session.RoleEmployee}).Return(n, nil)
}

func TestFactorAverages(t *testing.T) {
	f := newFixture(t)
	f.employees(4)
	employee, admin := primitive.NewObjectID(), primitive.NewObjectID()
	f.averages.On("Find", mock.Anything, f.filter(), mock.Anything).Return([]responsemodels.AverageResult{
		{UserID: employee, Scores: map[string]float64{scoring.FactorPurpose: 4, scoring.FactorGrowth: 2}},
		{UserID: admin, Scores: map[string]float64{scoring.FactorPurpose: 3}},
	}, nil)
	// chỉ employee là nhân viên; admin không được tính vào tỉ lệ tham gia
	f.users.On("CountDocuments", mock.Anything, bson.M{
		"companyId": f.key.CompanyID,
		"role":      session.RoleEmployee,
		"_id":       bson.M{"$in": []primitive.ObjectID{employee, admin}},
	}).Return(int64(1), nil)

	got, err := f.svc.FactorAverages(context.Background(), f.key)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.Averages[scoring.FactorPurpose])
	assert.Equal(t, 2.0, got.Averages[scoring.FactorGrowth])
	assert.Equal(t, 0.0, got.Averages[scoring.FactorAutonomy])
	assert.Len(t, got.Averages, 5)
	assert.Equal(t, 2, got.Respondents)
	assert.Equal(t, 0.25, got.Participation)
}

func TestFactorAverages_ParticipationCapped(t *testing.T) {
	f := newFixture(t)
	f.employees(1)
	admins := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	f.averages.On("Find", mock.Anything, f.filter(), mock.Anything).Return([]responsemodels.AverageResult{
		{UserID: admins[0], Scores: map[string]float64{scoring.FactorPurpose: 4}},
		{UserID: admins[1], Scores: map[string]float64{scoring.FactorPurpose: 2}},
	}, nil)
	f.users.On("CountDocuments", mock.Anything, bson.M{
		"companyId": f.key.CompanyID,
		"role":      session.RoleEmployee,
		"_id":       bson.M{"$in": admins},
	}).Return(int64(0), nil)

	got, err := f.svc.FactorAverages(context.Background(), f.key)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Respondents)
	assert.Equal(t, 0.0, got.Participation)
}

func TestFactorAverages_NoEmployees(t *testing.T) {
	f := newFixture(t)
	f.employees(0)
	f.averages.On("Find", mock.Anything, f.filter(), mock.Anything).Return([]responsemodels.AverageResult{}, nil)

	got, err := f.svc.FactorAverages(context.Background(), f.key)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Participation)
	for _, factor := range scoring.Factors() {
		assert.Equal(t, 0.0, got.Averages[factor])
	}
}

func TestFactorImportance(t *testing.T) {
	f := newFixture(t)
	f.rankings.On("Find", mock.Anything, f.filter(), mock.Anything).Return([]responsemodels.FactorRanking{
		{Ranks: map[string]int{scoring.FactorPurpose: 5, scoring.FactorGrowth: 4}},
		{Ranks: map[string]int{scoring.FactorPurpose: 5, scoring.FactorGrowth: 5}},
	}, nil)

	got, err := f.svc.FactorImportance(context.Background(), f.key)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Respondents)
	assert.Equal(t, 2, got.Counts[scoring.FactorPurpose][5])
	assert.InDelta(t, 66.67, got.MostImportant[scoring.FactorPurpose], 1e-9)
}

func TestSnapshot_FreshIsServed(t *testing.T) {
	f := newFixture(t)
	snap := models.AnalyticsSnapshot{SurveyID: f.key.SurveyID, ComputedAt: f.now.Add(-30 * time.Second).UnixMilli()}
	f.snapshots.On("FindOne", mock.Anything, f.filter(), mock.Anything).Return(snap, nil)

	got, err := f.svc.Snapshot(context.Background(), session.Session{Role: session.RoleSuperAdmin}, f.key.SurveyID.Hex())
	require.NoError(t, err)
	assert.Equal(t, snap.ComputedAt, got.ComputedAt)
}

func TestSnapshot_MissingIsComputed(t *testing.T) {
	f := newFixture(t)
	f.snapshots.On("FindOne", mock.Anything, f.filter(), mock.Anything).Return(models.AnalyticsSnapshot{}, common.ErrNotFound)
	f.employees(1)
	f.averages.On("Find", mock.Anything, f.filter(), mock.Anything).Return([]responsemodels.AverageResult{}, nil)
	f.rankings.On("Find", mock.Anything, f.filter(), mock.Anything).Return([]responsemodels.FactorRanking{}, nil)
	f.snapshots.On("Upsert", mock.Anything, f.filter(), mock.Anything).Return(models.AnalyticsSnapshot{ComputedAt: f.now.UnixMilli()}, nil)

	got, err := f.svc.Snapshot(context.Background(), session.Session{Role: session.RoleSuperAdmin}, f.key.SurveyID.Hex())
	require.NoError(t, err)
	assert.Equal(t, f.now.UnixMilli(), got.ComputedAt)
}

func TestTrackChanges(t *testing.T) {
	f := newFixture(t)
	doc := responsemodels.FactorRanking{CompanyID: f.key.CompanyID, SurveyID: f.key.SurveyID}

	f.svc.TrackChanges(context.Background(), events.DataChangeEvent{CollectionName: "surveys", Operation: events.OpUpsert, Document: doc})
	assert.Empty(t, f.svc.DrainDirty(10))

	f.svc.TrackChanges(context.Background(), events.DataChangeEvent{CollectionName: "factor_rankings", Operation: events.OpUpsert, Document: doc})
	f.svc.TrackChanges(context.Background(), events.DataChangeEvent{CollectionName: "average_results", Operation: events.OpUpsert, Document: &responsemodels.AverageResult{CompanyID: f.key.CompanyID, SurveyID: f.key.SurveyID}})
	assert.Equal(t, []SurveyKey{f.key}, f.svc.DrainDirty(10))
	assert.Empty(t, f.svc.DrainDirty(10))
}

func TestDirtySet_DrainOrder(t *testing.T) {
	d := NewDirtySet()
	a := SurveyKey{SurveyID: primitive.NewObjectID()}
	b := SurveyKey{SurveyID: primitive.NewObjectID()}
	d.Mark(b, 2)
	d.Mark(a, 1)
	d.Mark(b, 3)

	assert.Equal(t, []SurveyKey{a}, d.Drain(1))
	assert.True(t, d.Contains(b))
	assert.Equal(t, 1, d.Len())
}
