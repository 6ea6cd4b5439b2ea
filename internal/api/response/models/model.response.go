// Package models - câu trả lời khảo sát, điểm trung bình và xếp hạng factor của từng nhân viên.
package models

import (
	"engagement_survey/internal/scoring"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyResponse là bộ câu trả lời của một nhân viên cho một khảo sát (mỗi người một bản)
type SurveyResponse struct {
	ID          primitive.ObjectID    `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID   primitive.ObjectID    `json:"companyId" bson:"companyId" index:"single:1"`
	UserID      primitive.ObjectID    `json:"userId" bson:"userId" index:"compound:user_survey_unique"`
	SurveyID    primitive.ObjectID    `json:"surveyId" bson:"surveyId" index:"single:1;compound:user_survey_unique"`
	Answers     scoring.FactorAnswers `json:"answers" bson:"answers"`
	SubmittedAt int64                 `json:"submittedAt" bson:"submittedAt"`
	CreatedAt   int64                 `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                 `json:"updatedAt" bson:"updatedAt"`
}

// AverageResult là điểm trung bình theo factor của một nhân viên
type AverageResult struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID primitive.ObjectID `json:"companyId" bson:"companyId" index:"single:1"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId" index:"compound:user_survey_unique"`
	SurveyID  primitive.ObjectID `json:"surveyId" bson:"surveyId" index:"single:1;compound:user_survey_unique"`
	Scores    map[string]float64 `json:"scores" bson:"scores"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// FactorRanking là thứ hạng mức độ quan trọng (1..5) nhân viên gán cho năm factor
type FactorRanking struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID primitive.ObjectID `json:"companyId" bson:"companyId" index:"single:1"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId" index:"compound:user_survey_unique"`
	SurveyID  primitive.ObjectID `json:"surveyId" bson:"surveyId" index:"single:1;compound:user_survey_unique"`
	Ranks     map[string]int     `json:"ranks" bson:"ranks"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
