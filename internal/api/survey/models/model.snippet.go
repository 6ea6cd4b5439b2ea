package models

import (
	"engagement_survey/internal/scoring"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Snippet là đoạn nhận xét hiển thị khi điểm trung bình của factor nằm trong [MinScore, MaxScore].
// Snippet dùng chung cho mọi công ty
type Snippet struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Factor    string             `json:"factor" bson:"factor" index:"compound:factor_range"`
	MinScore  float64            `json:"minScore" bson:"minScore" index:"compound:factor_range"`
	MaxScore  float64            `json:"maxScore" bson:"maxScore"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// Range chuyển snippet sang dạng dùng cho scoring.SelectSnippet
func (s Snippet) Range() scoring.SnippetRange {
	return scoring.SnippetRange{
		ID:       s.ID.Hex(),
		Factor:   s.Factor,
		MinScore: s.MinScore,
		MaxScore: s.MaxScore,
		Text:     s.Text,
	}
}
