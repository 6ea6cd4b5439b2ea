package surveysvc

import (
	"context"
	"fmt"
	"strings"

	basesvc "engagement_survey/internal/api/base/service"
	models "engagement_survey/internal/api/survey/models"
	"engagement_survey/internal/common"
	"engagement_survey/internal/recordcodec"
	"engagement_survey/internal/scoring"
	"engagement_survey/internal/session"
	"engagement_survey/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SurveyFinder tìm khảo sát theo id (SurveyService triển khai)
type SurveyFinder interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (models.Survey, error)
	ForSession(ctx context.Context, sess session.Session, surveyID string) (models.Survey, error)
}

// QuestionService là service câu hỏi
type QuestionService struct {
	basesvc.BaseServiceMongo[models.Question]
	surveys SurveyFinder
}

// NewQuestionService tạo QuestionService
func NewQuestionService(questions basesvc.BaseServiceMongo[models.Question], surveys SurveyFinder) *QuestionService {
	return &QuestionService{BaseServiceMongo: questions, surveys: surveys}
}

func normalizeFactor(label string) (string, error) {
	factor, ok := scoring.NormalizeFactor(label)
	if !ok {
		return "", common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Factor '%s' không hợp lệ", label), common.StatusBadRequest, nil)
	}
	return factor, nil
}

// Create tạo câu hỏi cho khảo sát mà người gọi được phép truy cập
func (s *QuestionService) Create(ctx context.Context, sess session.Session, surveyID, factor, text string, order int) (models.Question, error) {
	survey, err := s.surveys.ForSession(ctx, sess, surveyID)
	if err != nil {
		return models.Question{}, err
	}
	return s.insert(ctx, survey, factor, text, order)
}

// CreateFromRecord tạo câu hỏi từ một dòng bulk
func (s *QuestionService) CreateFromRecord(ctx context.Context, rec recordcodec.QuestionRecord) (models.Question, error) {
	id, err := utility.String2ObjectID(rec.SurveyID)
	if err != nil {
		return models.Question{}, err
	}
	survey, err := s.surveys.FindOneById(ctx, id)
	if err != nil {
		return models.Question{}, err
	}
	return s.insert(ctx, survey, rec.Factor, rec.Text, rec.Order)
}

func (s *QuestionService) insert(ctx context.Context, survey models.Survey, factor, text string, order int) (models.Question, error) {
	canonical, err := normalizeFactor(factor)
	if err != nil {
		return models.Question{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Question{}, common.ErrRequiredField
	}
	return s.InsertOne(ctx, models.Question{
		CompanyID: survey.CompanyID,
		SurveyID:  survey.ID,
		Factor:    canonical,
		Text:      text,
		Order:     order,
	})
}

// SetDisabled bật/tắt câu hỏi theo một dòng bulk
func (s *QuestionService) SetDisabled(ctx context.Context, rec recordcodec.QuestionStatusRecord) error {
	id, err := utility.String2ObjectID(rec.QuestionID)
	if err != nil {
		return err
	}
	_, err = s.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{"disabled": rec.Disabled}})
	return err
}

// ForSurvey trả về câu hỏi của khảo sát theo thứ tự. includeDisabled=false bỏ qua câu đã tắt
func (s *QuestionService) ForSurvey(ctx context.Context, surveyID primitive.ObjectID, includeDisabled bool) ([]models.Question, error) {
	filter := bson.M{"surveyId": surveyID}
	if !includeDisabled {
		filter["disabled"] = bson.M{"$ne": true}
	}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})
	return s.Find(ctx, filter, opts)
}
