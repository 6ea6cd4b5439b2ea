package scoring

import (
	"errors"
	"fmt"
	"sort"
)

// Answer là một câu trả lời: câu hỏi và điểm được chọn
type Answer struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	Selection  int    `json:"selection" bson:"selection"`
}

// FactorAnswers nhóm câu trả lời theo nhãn factor
type FactorAnswers map[string][]Answer

// ErrSelectionOutOfRange trả về khi điểm chọn nằm ngoài [MinSelection, MaxSelection]
var ErrSelectionOutOfRange = errors.New("selection out of range")

// SelectionError mô tả câu trả lời không hợp lệ
type SelectionError struct {
	Factor     string
	QuestionID string
	Selection  int
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("factor %q question %q: selection %d not in [%d,%d]",
		e.Factor, e.QuestionID, e.Selection, MinSelection, MaxSelection)
}

func (e *SelectionError) Unwrap() error { return ErrSelectionOutOfRange }

// Mean trả về trung bình cộng, 0 nếu danh sách rỗng
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// AggregateSelections tính trung bình điểm cho từng factor.
// Khoá của kết quả đúng bằng khoá đầu vào; danh sách rỗng cho 0.
func AggregateSelections(selections map[string][]int) map[string]float64 {
	out := make(map[string]float64, len(selections))
	for factor, values := range selections {
		out[factor] = meanInts(values)
	}
	return out
}

// AggregateAnswers giống AggregateSelections nhưng nhận cặp {questionId, selection}
func AggregateAnswers(answers FactorAnswers) map[string]float64 {
	out := make(map[string]float64, len(answers))
	for factor, list := range answers {
		values := make([]int, len(list))
		for i, a := range list {
			values[i] = a.Selection
		}
		out[factor] = meanInts(values)
	}
	return out
}

// ValidateSelections kiểm tra mọi điểm chọn nằm trong [1,5].
// Lỗi trả về bọc ErrSelectionOutOfRange; factor được duyệt theo thứ tự tên để kết quả ổn định.
func ValidateSelections(answers FactorAnswers) error {
	factors := make([]string, 0, len(answers))
	for f := range answers {
		factors = append(factors, f)
	}
	sort.Strings(factors)

	for _, f := range factors {
		for _, a := range answers[f] {
			if a.Selection < MinSelection || a.Selection > MaxSelection {
				return &SelectionError{Factor: f, QuestionID: a.QuestionID, Selection: a.Selection}
			}
		}
	}
	return nil
}
