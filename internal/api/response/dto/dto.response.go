package responsedto

import (
	"engagement_survey/internal/api/response/models"
	"engagement_survey/internal/scoring"
)

// AnswerInput là một câu trả lời
type AnswerInput struct {
	QuestionID string `json:"questionId" validate:"required,object_id"`
	Selection  int    `json:"selection"`
}

// SubmitResponseInput đầu vào nộp câu trả lời, nhóm theo factor.
// Điểm chọn được kiểm tra [1,5] ở service để trả lỗi chi tiết theo câu hỏi
type SubmitResponseInput struct {
	SurveyID string                   `json:"surveyId" validate:"required,object_id"`
	Answers  map[string][]AnswerInput `json:"answers" validate:"required,min=1,dive,keys,factor,endkeys,min=1,dive"`
}

// SubmitRankingInput đầu vào nộp xếp hạng factor
type SubmitRankingInput struct {
	SurveyID string         `json:"surveyId" validate:"required,object_id"`
	Ranks    map[string]int `json:"ranks" validate:"required,len=5,dive,keys,factor,endkeys,min=1,max=5"`
}

// SubmissionResult là kết quả trả về sau khi nộp: điểm trung bình và snippet nhận xét theo factor
type SubmissionResult struct {
	Result   models.AverageResult            `json:"result"`
	Snippets map[string]scoring.SnippetRange `json:"snippets"`
}

// ToFactorAnswers chuyển input sang scoring.FactorAnswers (giữ nguyên nhãn factor)
func (in *SubmitResponseInput) ToFactorAnswers() scoring.FactorAnswers {
	out := make(scoring.FactorAnswers, len(in.Answers))
	for factor, list := range in.Answers {
		answers := make([]scoring.Answer, 0, len(list))
		for _, a := range list {
			answers = append(answers, scoring.Answer{QuestionID: a.QuestionID, Selection: a.Selection})
		}
		out[factor] = answers
	}
	return out
}
