// Package surveysvc - service khảo sát, câu hỏi và snippet.
package surveysvc

import (
	"context"
	"time"

	basesvc "engagement_survey/internal/api/base/service"
	models "engagement_survey/internal/api/survey/models"
	"engagement_survey/internal/common"
	"engagement_survey/internal/session"
	"engagement_survey/internal/utility"
)

// SurveyService là service khảo sát
type SurveyService struct {
	basesvc.BaseServiceMongo[models.Survey]
	now func() time.Time
}

// NewSurveyService tạo SurveyService
func NewSurveyService(surveys basesvc.BaseServiceMongo[models.Survey]) *SurveyService {
	return &SurveyService{BaseServiceMongo: surveys, now: time.Now}
}

// ForSession lấy khảo sát theo id, chỉ khi người gọi thuộc công ty của khảo sát
func (s *SurveyService) ForSession(ctx context.Context, sess session.Session, surveyID string) (models.Survey, error) {
	id, err := utility.String2ObjectID(surveyID)
	if err != nil {
		return models.Survey{}, err
	}
	survey, err := s.FindOneById(ctx, id)
	if err != nil {
		return models.Survey{}, err
	}
	if !sess.CanAccessCompany(survey.CompanyID.Hex()) {
		return models.Survey{}, common.ErrCompanyScope
	}
	return survey, nil
}

// RequireOpen như ForSession nhưng yêu cầu khảo sát đang nhận câu trả lời
func (s *SurveyService) RequireOpen(ctx context.Context, sess session.Session, surveyID string) (models.Survey, error) {
	survey, err := s.ForSession(ctx, sess, surveyID)
	if err != nil {
		return models.Survey{}, err
	}
	if !survey.AcceptsAnswers(s.now().UnixMilli()) {
		return models.Survey{}, common.ErrSurveyNotOpen
	}
	return survey, nil
}
