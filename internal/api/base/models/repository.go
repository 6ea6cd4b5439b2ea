// Package models chứa các kiểu dùng chung cho layer repository/base (kết quả phân trang, đếm, cursor).
package models

import (
	"encoding/base64"

	"engagement_survey/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCursorLimit là số bản ghi tối đa một lần gọi find-with-cursor
const MaxCursorLimit = 100

// PaginateResult đại diện cho kết quả phân trang
type PaginateResult[T any] struct {
	// Trang hiện tại
	Page int64 `json:"page" bson:"page"`
	// Số lượng mục trên mỗi trang
	Limit int64 `json:"limit" bson:"limit"`
	// Số lượng mục trong trang hiện tại
	ItemCount int64 `json:"itemCount" bson:"itemCount"`
	Items     []T   `json:"items" bson:"items"`
	Total     int64 `json:"total" bson:"total"`
	// Tổng số trang, 0 khi không có bản ghi
	TotalPage int64 `json:"totalPage" bson:"totalPage"`
}

// CursorResult là kết quả duyệt theo cursor (_id tăng dần)
type CursorResult[T any] struct {
	Items      []T    `json:"items"`
	Limit      int64  `json:"limit"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// CountResult đại diện cho kết quả đếm
type CountResult struct {
	TotalCount int64 `json:"totalCount" bson:"totalCount"`
	Limit      int64 `json:"limit" bson:"limit"`
	TotalPage  int64 `json:"totalPage" bson:"totalPage"`
}

// EncodeCursor mã hoá _id cuối cùng thành cursor mờ (base64url)
func EncodeCursor(id primitive.ObjectID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.Hex()))
}

// DecodeCursor giải mã cursor. Chuỗi rỗng trả về NilObjectID (trang đầu)
func DecodeCursor(cursor string) (primitive.ObjectID, error) {
	if cursor == "" {
		return primitive.NilObjectID, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "Cursor không hợp lệ", common.StatusBadRequest, err)
	}
	id, err := primitive.ObjectIDFromHex(string(raw))
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "Cursor không hợp lệ", common.StatusBadRequest, err)
	}
	return id, nil
}

// NormalizeCursorLimit đưa limit về khoảng [1, MaxCursorLimit], mặc định 20
func NormalizeCursorLimit(limit int64) int64 {
	switch {
	case limit <= 0:
		return 20
	case limit > MaxCursorLimit:
		return MaxCursorLimit
	}
	return limit
}
