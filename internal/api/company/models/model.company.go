// Package models - model công ty (tenant).
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Trạng thái công ty
const (
	CompanyStatusActive   = "active"
	CompanyStatusDisabled = "disabled"
)

// Company là một tenant. Mọi user, khảo sát và kết quả đều gắn với một công ty
type Company struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" index:"text"`
	Domain    string             `json:"domain,omitempty" bson:"domain,omitempty" index:"unique,sparse"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
