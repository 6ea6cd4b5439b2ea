// Package models - số liệu tổng hợp của một khảo sát trong công ty.
package models

import (
	"engagement_survey/internal/scoring"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FactorAverages là điểm trung bình theo factor của cả công ty cho một khảo sát
type FactorAverages struct {
	Averages      map[string]float64 `json:"averages" bson:"averages"`
	Respondents   int                `json:"respondents" bson:"respondents"`
	Employees     int                `json:"employees" bson:"employees"`
	Participation float64            `json:"participation" bson:"participation"` // respondents / employees, 0 nếu không có nhân viên
}

// AnalyticsSnapshot lưu kết quả tính sẵn (analytics_snapshots), worker cập nhật khi dữ liệu đổi
type AnalyticsSnapshot struct {
	ID             primitive.ObjectID       `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID      primitive.ObjectID       `json:"companyId" bson:"companyId" index:"single:1,compound:company_survey_unique"`
	SurveyID       primitive.ObjectID       `json:"surveyId" bson:"surveyId" index:"compound:company_survey_unique"`
	FactorAverages FactorAverages           `json:"factorAverages" bson:"factorAverages"`
	Importance     scoring.ImportanceReport `json:"importance" bson:"importance"`
	ComputedAt     int64                    `json:"computedAt" bson:"computedAt"` // Unix milli
	CreatedAt      int64                    `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64                    `json:"updatedAt" bson:"updatedAt"`
}
