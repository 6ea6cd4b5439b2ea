// Package scoring chứa các phép tính thuần cho khảo sát gắn kết:
// trung bình điểm theo factor, tỉ lệ mức độ quan trọng của factor và chọn snippet nhận xét.
// Package không phụ thuộc database hay HTTP.
package scoring

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Năm factor cố định của khảo sát
const (
	FactorPsychologicalSafety = "Psychological Safety"
	FactorPurpose             = "Purpose"
	FactorAutonomy            = "Autonomy"
	FactorGrowth              = "Growth"
	FactorRecognition         = "Recognition"
)

// Giới hạn điểm chọn và thứ hạng
const (
	MinSelection = 1
	MaxSelection = 5
	MinRank      = 1
	MaxRank      = 5
)

// Factors trả về danh sách factor theo thứ tự hiển thị
func Factors() []string {
	return []string{
		FactorPsychologicalSafety,
		FactorPurpose,
		FactorAutonomy,
		FactorGrowth,
		FactorRecognition,
	}
}

var canonical = func() map[string]string {
	m := make(map[string]string, 5)
	for _, f := range Factors() {
		m[foldKey(f)] = f
	}
	return m
}()

// Caser có trạng thái nên tạo mới mỗi lần gọi
func foldKey(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// NormalizeFactor đưa nhãn factor về dạng chuẩn, không phân biệt hoa thường và khoảng trắng.
// "  psychological   SAFETY" => "Psychological Safety", true
func NormalizeFactor(label string) (string, bool) {
	f, ok := canonical[foldKey(label)]
	return f, ok
}

// IsFactor kiểm tra nhãn đã ở dạng chuẩn
func IsFactor(label string) bool {
	f, ok := canonical[foldKey(label)]
	return ok && f == label
}

// DisplayLabel viết hoa chữ cái đầu mỗi từ, dùng khi nhãn không phải factor chuẩn
func DisplayLabel(label string) string {
	if f, ok := NormalizeFactor(label); ok {
		return f
	}
	return cases.Title(language.English).String(strings.Join(strings.Fields(label), " "))
}
