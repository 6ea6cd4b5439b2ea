package recordcodec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EmployeeRecord là một dòng nhân viên: first:last:email:companyId:employee
type EmployeeRecord struct {
	FirstName string `json:"firstName" mapstructure:"first_name"`
	LastName  string `json:"lastName" mapstructure:"last_name"`
	Email     string `json:"email" mapstructure:"email"`
	CompanyID string `json:"companyId" mapstructure:"company_id"`
}

// QuestionRecord là một dòng câu hỏi: surveyId:factor:text:order
type QuestionRecord struct {
	SurveyID string `json:"surveyId" mapstructure:"survey_id"`
	Factor   string `json:"factor" mapstructure:"factor"`
	Text     string `json:"text" mapstructure:"text"`
	Order    int    `json:"order" mapstructure:"order"`
}

// QuestionStatusRecord bật/tắt một câu hỏi: questionId:disabled
type QuestionStatusRecord struct {
	QuestionID string `json:"questionId" mapstructure:"question_id"`
	Disabled   bool   `json:"disabled" mapstructure:"disabled"`
}

// SnippetRecord là một dòng snippet nhận xét: factor:min:max:text
type SnippetRecord struct {
	Factor   string  `json:"factor" mapstructure:"factor"`
	MinScore float64 `json:"minScore" mapstructure:"min_score"`
	MaxScore float64 `json:"maxScore" mapstructure:"max_score"`
	Text     string  `json:"text" mapstructure:"text"`
}

func required(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s", ErrRequiredField, name)
	}
	return nil
}

// Validate kiểm tra họ và tên không rỗng
func (rec EmployeeRecord) Validate() error {
	if err := required("firstName", rec.FirstName); err != nil {
		return err
	}
	return required("lastName", rec.LastName)
}

// Validate kiểm tra surveyId, factor và text không rỗng
func (rec QuestionRecord) Validate() error {
	for _, c := range [][2]string{{"surveyId", rec.SurveyID}, {"factor", rec.Factor}, {"text", rec.Text}} {
		if err := required(c[0], c[1]); err != nil {
			return err
		}
	}
	return nil
}

// Validate kiểm tra questionId không rỗng
func (rec QuestionStatusRecord) Validate() error {
	return required("questionId", rec.QuestionID)
}

// ValidScoreBounds kiểm tra min, max là số hữu hạn và min <= max
func ValidScoreBounds(minScore, maxScore float64) error {
	for _, v := range []float64{minScore, maxScore} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: score %v", ErrInvalidField, v)
		}
	}
	if minScore > maxScore {
		return fmt.Errorf("%w: min %v > max %v", ErrInvalidField, minScore, maxScore)
	}
	return nil
}

// Validate kiểm tra khoảng điểm, factor và text
func (rec SnippetRecord) Validate() error {
	if err := ValidScoreBounds(rec.MinScore, rec.MaxScore); err != nil {
		return err
	}
	if err := required("factor", rec.Factor); err != nil {
		return err
	}
	return required("text", rec.Text)
}

// ===================== Employee =====================

// EncodeEmployee mã hoá bản ghi nhân viên
func EncodeEmployee(rec EmployeeRecord, format Format) (string, error) {
	return encodeFields(TagEmployee, true,
		[]string{rec.FirstName, rec.LastName, rec.Email, rec.CompanyID}, format)
}

// DecodeEmployee giải mã dòng nhân viên. Họ và tên không được rỗng
func DecodeEmployee(row string, format Format) (EmployeeRecord, error) {
	f, err := decodeFields(row, TagEmployee, true, 4, format)
	if err != nil {
		return EmployeeRecord{}, err
	}
	rec := EmployeeRecord{FirstName: f[0], LastName: f[1], Email: f[2], CompanyID: f[3]}
	if err := rec.Validate(); err != nil {
		return EmployeeRecord{}, err
	}
	return rec, nil
}

// ===================== Question =====================

// EncodeQuestion mã hoá bản ghi câu hỏi
func EncodeQuestion(rec QuestionRecord, format Format) (string, error) {
	return encodeFields(TagQuestion, false,
		[]string{rec.SurveyID, rec.Factor, rec.Text, strconv.Itoa(rec.Order)}, format)
}

// DecodeQuestion giải mã dòng câu hỏi
func DecodeQuestion(row string, format Format) (QuestionRecord, error) {
	f, err := decodeFields(row, TagQuestion, false, 4, format)
	if err != nil {
		return QuestionRecord{}, err
	}
	order, err := strconv.Atoi(f[3])
	if err != nil {
		return QuestionRecord{}, fmt.Errorf("%w: order %q", ErrInvalidField, f[3])
	}
	rec := QuestionRecord{SurveyID: f[0], Factor: f[1], Text: f[2], Order: order}
	if err := rec.Validate(); err != nil {
		return QuestionRecord{}, err
	}
	return rec, nil
}

// ===================== Question status =====================

// EncodeQuestionStatus mã hoá bản ghi trạng thái câu hỏi
func EncodeQuestionStatus(rec QuestionStatusRecord, format Format) (string, error) {
	return encodeFields(TagQuestionStatus, false,
		[]string{rec.QuestionID, strconv.FormatBool(rec.Disabled)}, format)
}

// DecodeQuestionStatus giải mã dòng trạng thái câu hỏi
func DecodeQuestionStatus(row string, format Format) (QuestionStatusRecord, error) {
	f, err := decodeFields(row, TagQuestionStatus, false, 2, format)
	if err != nil {
		return QuestionStatusRecord{}, err
	}
	if err := required("questionId", f[0]); err != nil {
		return QuestionStatusRecord{}, err
	}
	disabled, err := strconv.ParseBool(f[1])
	if err != nil {
		return QuestionStatusRecord{}, fmt.Errorf("%w: disabled %q", ErrInvalidField, f[1])
	}
	return QuestionStatusRecord{QuestionID: f[0], Disabled: disabled}, nil
}

// ===================== Snippet =====================

// EncodeSnippet mã hoá bản ghi snippet
func EncodeSnippet(rec SnippetRecord, format Format) (string, error) {
	return encodeFields(TagSnippet, false, []string{
		rec.Factor,
		strconv.FormatFloat(rec.MinScore, 'f', -1, 64),
		strconv.FormatFloat(rec.MaxScore, 'f', -1, 64),
		rec.Text,
	}, format)
}

// DecodeSnippet giải mã dòng snippet, yêu cầu min <= max và cả hai hữu hạn
func DecodeSnippet(row string, format Format) (SnippetRecord, error) {
	f, err := decodeFields(row, TagSnippet, false, 4, format)
	if err != nil {
		return SnippetRecord{}, err
	}
	minScore, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return SnippetRecord{}, fmt.Errorf("%w: min %q", ErrInvalidField, f[1])
	}
	maxScore, err := strconv.ParseFloat(f[2], 64)
	if err != nil {
		return SnippetRecord{}, fmt.Errorf("%w: max %q", ErrInvalidField, f[2])
	}
	rec := SnippetRecord{Factor: f[0], MinScore: minScore, MaxScore: maxScore, Text: f[3]}
	if err := rec.Validate(); err != nil {
		return SnippetRecord{}, err
	}
	return rec, nil
}
