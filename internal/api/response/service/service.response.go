// Package responsesvc - nộp câu trả lời, xếp hạng factor và xem kết quả cá nhân.
package responsesvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	basesvc "engagement_survey/internal/api/base/service"
	responsedto "engagement_survey/internal/api/response/dto"
	models "engagement_survey/internal/api/response/models"
	surveymodels "engagement_survey/internal/api/survey/models"
	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/scoring"
	"engagement_survey/internal/session"
	"engagement_survey/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyGate kiểm tra khảo sát theo session (surveysvc.SurveyService triển khai)
type SurveyGate interface {
	ForSession(ctx context.Context, sess session.Session, surveyID string) (surveymodels.Survey, error)
	RequireOpen(ctx context.Context, sess session.Session, surveyID string) (surveymodels.Survey, error)
}

// QuestionLister liệt kê câu hỏi của khảo sát (surveysvc.QuestionService triển khai)
type QuestionLister interface {
	ForSurvey(ctx context.Context, surveyID primitive.ObjectID, includeDisabled bool) ([]surveymodels.Question, error)
}

// SnippetSource cung cấp snippet nhận xét (surveysvc.SnippetService triển khai)
type SnippetSource interface {
	Ranges(ctx context.Context) ([]scoring.SnippetRange, error)
}

// Deps là các phụ thuộc của ResponseService
type Deps struct {
	Surveys   SurveyGate
	Questions QuestionLister
	Snippets  SnippetSource
	Responses basesvc.BaseServiceMongo[models.SurveyResponse]
	Averages  basesvc.BaseServiceMongo[models.AverageResult]
	Rankings  basesvc.BaseServiceMongo[models.FactorRanking]
}

// ResponseService xử lý nộp bài và kết quả của nhân viên
type ResponseService struct {
	deps Deps
	now  func() time.Time
}

// NewResponseService tạo ResponseService
func NewResponseService(deps Deps) *ResponseService {
	return &ResponseService{deps: deps, now: time.Now}
}

func invalidAnswer(format string, args ...interface{}) error {
	return common.NewError(common.ErrCodeValidationInput, fmt.Sprintf(format, args...), common.StatusBadRequest, nil)
}

// normalizeAnswers đưa nhãn factor về dạng chuẩn. Hai nhãn cùng chỉ một factor ("Purpose", "purpose") bị từ chối
func normalizeAnswers(in scoring.FactorAnswers) (scoring.FactorAnswers, error) {
	out := make(scoring.FactorAnswers, len(in))
	for label, answers := range in {
		factor, ok := scoring.NormalizeFactor(label)
		if !ok {
			return nil, invalidAnswer("Factor '%s' không hợp lệ", label)
		}
		if _, dup := out[factor]; dup {
			return nil, invalidAnswer("Factor '%s' bị lặp", factor)
		}
		out[factor] = answers
	}
	return out, nil
}

// checkQuestions yêu cầu mỗi câu hỏi thuộc khảo sát, đang bật, đúng factor và chỉ được trả lời một lần
func checkQuestions(answers scoring.FactorAnswers, questions []surveymodels.Question) error {
	byID := make(map[string]surveymodels.Question, len(questions))
	for _, q := range questions {
		byID[q.ID.Hex()] = q
	}
	seen := make(map[string]bool)
	for factor, list := range answers {
		for _, a := range list {
			q, ok := byID[a.QuestionID]
			if !ok {
				return invalidAnswer("Câu hỏi '%s' không thuộc khảo sát hoặc đã bị tắt", a.QuestionID)
			}
			if q.Factor != factor {
				return invalidAnswer("Câu hỏi '%s' thuộc factor '%s', không phải '%s'", a.QuestionID, q.Factor, factor)
			}
			if seen[a.QuestionID] {
				return invalidAnswer("Câu hỏi '%s' được trả lời nhiều lần", a.QuestionID)
			}
			seen[a.QuestionID] = true
		}
	}
	return nil
}

func sessionUserID(sess session.Session) (primitive.ObjectID, error) {
	id, err := utility.String2ObjectID(sess.UserID)
	if err != nil {
		return primitive.NilObjectID, common.ErrTokenInvalid
	}
	return id, nil
}

// SubmitResponse lưu câu trả lời của người gọi, tính điểm trung bình theo factor và chọn snippet.
// Nộp lại sẽ ghi đè bản trước
func (s *ResponseService) SubmitResponse(ctx context.Context, sess session.Session, input *responsedto.SubmitResponseInput) (*responsedto.SubmissionResult, error) {
	userID, err := sessionUserID(sess)
	if err != nil {
		return nil, err
	}
	survey, err := s.deps.Surveys.RequireOpen(ctx, sess, input.SurveyID)
	if err != nil {
		return nil, err
	}

	answers, err := normalizeAnswers(input.ToFactorAnswers())
	if err != nil {
		return nil, err
	}
	if err := scoring.ValidateSelections(answers); err != nil {
		var selErr *scoring.SelectionError
		if errors.As(err, &selErr) {
			return nil, common.NewError(common.ErrCodeValidationInput,
				fmt.Sprintf("Điểm chọn của câu hỏi '%s' phải nằm trong [%d,%d]", selErr.QuestionID, scoring.MinSelection, scoring.MaxSelection),
				common.StatusBadRequest, err)
		}
		return nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	questions, err := s.deps.Questions.ForSurvey(ctx, survey.ID, false)
	if err != nil {
		return nil, err
	}
	if err := checkQuestions(answers, questions); err != nil {
		return nil, err
	}

	key := bson.M{"userId": userID, "surveyId": survey.ID}
	if _, err := s.deps.Responses.Upsert(ctx, key, &basesvc.UpdateData{Set: map[string]interface{}{
		"companyId":   survey.CompanyID,
		"answers":     answers,
		"submittedAt": s.now().UnixMilli(),
	}}); err != nil {
		return nil, err
	}

	scores := scoring.AggregateAnswers(answers)
	result, err := s.deps.Averages.Upsert(ctx, key, &basesvc.UpdateData{Set: map[string]interface{}{
		"companyId": survey.CompanyID,
		"scores":    scores,
	}})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).WithFields(logrus.Fields{
		"survey_id": survey.ID.Hex(),
		"user_id":   sess.UserID,
		"factors":   len(scores),
	}).Info("SubmitResponse: Đã lưu câu trả lời")
	return s.withSnippets(ctx, result)
}

// SubmitRanking lưu xếp hạng năm factor của người gọi
func (s *ResponseService) SubmitRanking(ctx context.Context, sess session.Session, input *responsedto.SubmitRankingInput) (*models.FactorRanking, error) {
	userID, err := sessionUserID(sess)
	if err != nil {
		return nil, err
	}
	survey, err := s.deps.Surveys.RequireOpen(ctx, sess, input.SurveyID)
	if err != nil {
		return nil, err
	}
	ranks, err := NormalizeRanks(input.Ranks)
	if err != nil {
		return nil, err
	}

	ranking, err := s.deps.Rankings.Upsert(ctx, bson.M{"userId": userID, "surveyId": survey.ID}, &basesvc.UpdateData{Set: map[string]interface{}{
		"companyId": survey.CompanyID,
		"ranks":     ranks,
	}})
	if err != nil {
		return nil, err
	}
	return &ranking, nil
}

// NormalizeRanks yêu cầu đủ năm factor (không trùng), mỗi rank trong [1,5]
func NormalizeRanks(in map[string]int) (map[string]int, error) {
	out := make(map[string]int, len(in))
	for label, rank := range in {
		factor, ok := scoring.NormalizeFactor(label)
		if !ok {
			return nil, invalidAnswer("Factor '%s' không hợp lệ", label)
		}
		if _, dup := out[factor]; dup {
			return nil, invalidAnswer("Factor '%s' bị lặp", factor)
		}
		if rank < scoring.MinRank || rank > scoring.MaxRank {
			return nil, invalidAnswer("Thứ hạng của '%s' phải nằm trong [%d,%d]", factor, scoring.MinRank, scoring.MaxRank)
		}
		out[factor] = rank
	}
	for _, f := range scoring.Factors() {
		if _, ok := out[f]; !ok {
			return nil, invalidAnswer("Thiếu thứ hạng cho factor '%s'", f)
		}
	}
	return out, nil
}

// MyResult trả về điểm trung bình và snippet của người gọi cho khảo sát
func (s *ResponseService) MyResult(ctx context.Context, sess session.Session, surveyID string) (*responsedto.SubmissionResult, error) {
	userID, err := sessionUserID(sess)
	if err != nil {
		return nil, err
	}
	survey, err := s.deps.Surveys.ForSession(ctx, sess, surveyID)
	if err != nil {
		return nil, err
	}
	result, err := s.deps.Averages.FindOne(ctx, bson.M{"userId": userID, "surveyId": survey.ID}, nil)
	if err != nil {
		return nil, err
	}
	return s.withSnippets(ctx, result)
}

func (s *ResponseService) withSnippets(ctx context.Context, result models.AverageResult) (*responsedto.SubmissionResult, error) {
	ranges, err := s.deps.Snippets.Ranges(ctx)
	if err != nil {
		return nil, err
	}
	return &responsedto.SubmissionResult{
		Result:   result,
		Snippets: scoring.SelectSnippets(result.Scores, ranges),
	}, nil
}
