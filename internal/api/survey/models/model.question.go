package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Question là một câu hỏi thang điểm 1..5 thuộc một factor.
// CompanyID được sao từ khảo sát để giới hạn dữ liệu theo công ty
type Question struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID primitive.ObjectID `json:"companyId" bson:"companyId" index:"single:1"`
	SurveyID  primitive.ObjectID `json:"surveyId" bson:"surveyId" index:"compound:survey_order"`
	Factor    string             `json:"factor" bson:"factor"`
	Text      string             `json:"text" bson:"text"`
	Order     int                `json:"order" bson:"order" index:"compound:survey_order"`
	Disabled  bool               `json:"disabled" bson:"disabled"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
