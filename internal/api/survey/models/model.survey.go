// Package models - model khảo sát, câu hỏi và snippet nhận xét.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Trạng thái khảo sát
const (
	SurveyStatusDraft  = "draft"
	SurveyStatusOpen   = "open"
	SurveyStatusClosed = "closed"
)

// Survey là một đợt khảo sát của công ty
type Survey struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID   primitive.ObjectID `json:"companyId" bson:"companyId" index:"single:1"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Status      string             `json:"status" bson:"status"`
	OpensAt     int64              `json:"opensAt,omitempty" bson:"opensAt,omitempty"`   // Unix ms, 0 = không giới hạn
	ClosesAt    int64              `json:"closesAt,omitempty" bson:"closesAt,omitempty"` // Unix ms, 0 = không giới hạn
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// AcceptsAnswers kiểm tra khảo sát đang mở tại thời điểm nowMs
func (s Survey) AcceptsAnswers(nowMs int64) bool {
	if s.Status != SurveyStatusOpen {
		return false
	}
	if s.OpensAt > 0 && nowMs < s.OpensAt {
		return false
	}
	if s.ClosesAt > 0 && nowMs > s.ClosesAt {
		return false
	}
	return true
}
