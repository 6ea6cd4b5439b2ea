// Package csvimport đọc file CSV (có dòng header) thành các bản ghi của recordcodec.
// Header được chuẩn hoá về snake_case nên "First Name", "firstName" và "first_name" là như nhau.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"engagement_survey/internal/recordcodec"

	"github.com/go-viper/mapstructure/v2"
)

// MaxRows giới hạn số dòng dữ liệu một file
const MaxRows = 10000

var (
	// ErrEmptyFile trả về khi file không có header
	ErrEmptyFile = errors.New("csvimport: empty file")
	// ErrMissingColumn trả về khi header thiếu cột bắt buộc
	ErrMissingColumn = errors.New("csvimport: missing required column")
	// ErrTooManyRows trả về khi file vượt MaxRows
	ErrTooManyRows = errors.New("csvimport: too many rows")
)

// LineError gắn số dòng (tính cả header, bắt đầu từ 1) vào lỗi của một dòng
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

// ReadEmployees đọc CSV nhân viên. Cột bắt buộc: first_name, last_name, email. company_id tuỳ chọn
func ReadEmployees(r io.Reader) ([]recordcodec.EmployeeRecord, error) {
	return readRows[recordcodec.EmployeeRecord](r, []string{"first_name", "last_name", "email"})
}

// ReadQuestions đọc CSV câu hỏi. Cột bắt buộc: survey_id, factor, text. order tuỳ chọn
func ReadQuestions(r io.Reader) ([]recordcodec.QuestionRecord, error) {
	return readRows[recordcodec.QuestionRecord](r, []string{"survey_id", "factor", "text"})
}

// ReadQuestionStatuses đọc CSV bật/tắt câu hỏi. Cột bắt buộc: question_id, disabled
func ReadQuestionStatuses(r io.Reader) ([]recordcodec.QuestionStatusRecord, error) {
	return readRows[recordcodec.QuestionStatusRecord](r, []string{"question_id", "disabled"})
}

// ReadSnippets đọc CSV snippet. Cột bắt buộc: factor, min_score, max_score, text
func ReadSnippets(r io.Reader) ([]recordcodec.SnippetRecord, error) {
	return readRows[recordcodec.SnippetRecord](r, []string{"factor", "min_score", "max_score", "text"})
}

// validator là bản ghi tự kiểm tra được (các bản ghi của recordcodec)
type validator interface {
	Validate() error
}

func readRows[T any](r io.Reader, requiredCols []string) ([]T, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = snakeCase(header[i])
	}
	for _, col := range requiredCols {
		if !contains(header, col) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var out []T
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// *csv.ParseError đã chứa số dòng
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if isBlank(record) {
			continue
		}
		if len(out) >= MaxRows {
			return nil, fmt.Errorf("%w: limit %d", ErrTooManyRows, MaxRows)
		}

		values := make(map[string]interface{}, len(header))
		for i, col := range header {
			if i < len(record) && col != "" {
				values[col] = strings.TrimSpace(record[i])
			}
		}

		var item T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &item,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(values); err != nil {
			return nil, &LineError{Line: line, Err: err}
		}
		if v, ok := any(item).(validator); ok {
			if err := v.Validate(); err != nil {
				return nil, &LineError{Line: line, Err: err}
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// snakeCase chuẩn hoá tên cột: "First Name" / "firstName" / "first-name" => "first_name"
func snakeCase(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
