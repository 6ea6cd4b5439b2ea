// Package bulksvc - nhập hàng loạt nhân viên, câu hỏi và snippet từ các dòng đã mã hoá.
// Mọi dòng được giải mã trước; chỉ khi tất cả hợp lệ mới bắt đầu ghi, với số ghi đồng thời giới hạn.
// Dòng ghi lỗi được liệt kê trong kết quả, các dòng đã ghi không bị hoàn tác.
package bulksvc

import (
	"context"
	"fmt"
	"sort"
	"sync"

	authmodels "engagement_survey/internal/api/auth/models"
	surveymodels "engagement_survey/internal/api/survey/models"
	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/recordcodec"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency là số ghi đồng thời mặc định
const DefaultConcurrency = 4

// EmployeeCreator tạo nhân viên được mời (authsvc.UserService triển khai)
type EmployeeCreator interface {
	CreateEmployee(ctx context.Context, rec recordcodec.EmployeeRecord, defaultCompany string) (authmodels.User, error)
}

// QuestionWriter tạo và bật/tắt câu hỏi (surveysvc.QuestionService triển khai)
type QuestionWriter interface {
	CreateFromRecord(ctx context.Context, rec recordcodec.QuestionRecord) (surveymodels.Question, error)
	SetDisabled(ctx context.Context, rec recordcodec.QuestionStatusRecord) error
}

// SnippetWriter tạo snippet (surveysvc.SnippetService triển khai)
type SnippetWriter interface {
	CreateFromRecord(ctx context.Context, rec recordcodec.SnippetRecord) (surveymodels.Snippet, error)
}

// Inviter gửi email mời cho nhân viên vừa tạo
type Inviter interface {
	Invite(ctx context.Context, user authmodels.User) error
}

// RowError là lỗi của một dòng
type RowError struct {
	Index   int    `json:"index"`
	Row     string `json:"row,omitempty"`
	Message string `json:"message"`
}

// BulkResult là kết quả của một lần nhập: Count là số dòng đã ghi
type BulkResult struct {
	Count  int        `json:"count"`
	Failed []RowError `json:"failed"`
}

// Deps là các phụ thuộc của BulkService. Inviter có thể nil (không gửi email mời)
type Deps struct {
	Employees EmployeeCreator
	Questions QuestionWriter
	Snippets  SnippetWriter
	Inviter   Inviter
}

// BulkService thực hiện các thao tác nhập hàng loạt
type BulkService struct {
	deps        Deps
	concurrency int
}

// NewBulkService tạo BulkService. concurrency <= 0 dùng DefaultConcurrency; 1 là ghi tuần tự
func NewBulkService(deps Deps, concurrency int) *BulkService {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &BulkService{deps: deps, concurrency: concurrency}
}

// decodeAll giải mã toàn bộ dòng; có dòng lỗi thì trả lỗi validation liệt kê các dòng đó
func decodeAll[T any](rows []string, format recordcodec.Format, decode func(string, recordcodec.Format) (T, error)) ([]T, error) {
	if len(rows) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Danh sách dòng rỗng", common.StatusBadRequest, nil)
	}
	out := make([]T, len(rows))
	var bad []RowError
	for i, row := range rows {
		rec, err := decode(row, format)
		if err != nil {
			bad = append(bad, RowError{Index: i, Row: row, Message: err.Error()})
			continue
		}
		out[i] = rec
	}
	if len(bad) > 0 {
		return nil, common.NewError(common.ErrCodeValidationFormat,
			fmt.Sprintf("%d/%d dòng không giải mã được", len(bad), len(rows)), common.StatusBadRequest, bad)
	}
	return out, nil
}

// run ghi từng bản ghi với tối đa concurrency goroutine. Mọi lần ghi đều được chờ xong.
// Context bị huỷ thì dừng lập lịch ghi mới và trả về số đã ghi cùng lỗi của context
func run[T any](ctx context.Context, concurrency int, kind string, records []T, rows []string, write func(context.Context, T) error) (BulkResult, error) {
	var (
		mu     sync.Mutex
		result = BulkResult{Failed: []RowError{}}
	)
	g := new(errgroup.Group)
	g.SetLimit(concurrency)

	for i := range records {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			err := write(ctx, records[i])
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				re := RowError{Index: i, Message: err.Error()}
				if i < len(rows) {
					re.Row = rows[i]
				}
				result.Failed = append(result.Failed, re)
				return nil
			}
			result.Count++
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(result.Failed, func(a, b int) bool { return result.Failed[a].Index < result.Failed[b].Index })
	logger.WithContext(ctx).WithFields(logrus.Fields{
		"kind":   kind,
		"total":  len(records),
		"count":  result.Count,
		"failed": len(result.Failed),
	}).Info("Bulk: Hoàn tất")
	return result, ctx.Err()
}

// BulkCreateEmployees tạo nhân viên từ các dòng đã mã hoá. companyID là công ty mặc định (và bắt buộc khớp nếu khác rỗng)
func (s *BulkService) BulkCreateEmployees(ctx context.Context, companyID string, rows []string, format recordcodec.Format) (BulkResult, error) {
	records, err := decodeAll(rows, format, recordcodec.DecodeEmployee)
	if err != nil {
		return BulkResult{}, err
	}
	return s.CreateEmployees(ctx, companyID, records, rows)
}

// CreateEmployees ghi các bản ghi nhân viên đã giải mã (dùng chung cho CSV). rows có thể nil
func (s *BulkService) CreateEmployees(ctx context.Context, companyID string, records []recordcodec.EmployeeRecord, rows []string) (BulkResult, error) {
	return run(ctx, s.concurrency, "employees", records, rows, func(ctx context.Context, rec recordcodec.EmployeeRecord) error {
		user, err := s.deps.Employees.CreateEmployee(ctx, rec, companyID)
		if err != nil {
			return err
		}
		if s.deps.Inviter != nil {
			if err := s.deps.Inviter.Invite(ctx, user); err != nil {
				// Nhân viên đã được tạo; lỗi gửi mail chỉ ghi log
				logger.WithContext(ctx).WithError(err).WithField("email", user.Email).Warn("Bulk: Gửi email mời thất bại")
			}
		}
		return nil
	})
}

// BulkCreateQuestions tạo câu hỏi từ các dòng đã mã hoá
func (s *BulkService) BulkCreateQuestions(ctx context.Context, rows []string, format recordcodec.Format) (BulkResult, error) {
	records, err := decodeAll(rows, format, recordcodec.DecodeQuestion)
	if err != nil {
		return BulkResult{}, err
	}
	return s.CreateQuestions(ctx, records, rows)
}

// CreateQuestions ghi các bản ghi câu hỏi đã giải mã
func (s *BulkService) CreateQuestions(ctx context.Context, records []recordcodec.QuestionRecord, rows []string) (BulkResult, error) {
	return run(ctx, s.concurrency, "questions", records, rows, func(ctx context.Context, rec recordcodec.QuestionRecord) error {
		_, err := s.deps.Questions.CreateFromRecord(ctx, rec)
		return err
	})
}

// BulkDisableQuestions bật/tắt câu hỏi theo từng dòng
func (s *BulkService) BulkDisableQuestions(ctx context.Context, rows []string, format recordcodec.Format) (BulkResult, error) {
	records, err := decodeAll(rows, format, recordcodec.DecodeQuestionStatus)
	if err != nil {
		return BulkResult{}, err
	}
	return s.SetQuestionStatuses(ctx, records, rows)
}

// SetQuestionStatuses ghi các bản ghi bật/tắt câu hỏi đã giải mã
func (s *BulkService) SetQuestionStatuses(ctx context.Context, records []recordcodec.QuestionStatusRecord, rows []string) (BulkResult, error) {
	return run(ctx, s.concurrency, "question_statuses", records, rows, s.deps.Questions.SetDisabled)
}

// BulkCreateSnippets tạo snippet nhận xét từ các dòng đã mã hoá
func (s *BulkService) BulkCreateSnippets(ctx context.Context, rows []string, format recordcodec.Format) (BulkResult, error) {
	records, err := decodeAll(rows, format, recordcodec.DecodeSnippet)
	if err != nil {
		return BulkResult{}, err
	}
	return s.CreateSnippets(ctx, records, rows)
}

// CreateSnippets ghi các bản ghi snippet đã giải mã
func (s *BulkService) CreateSnippets(ctx context.Context, records []recordcodec.SnippetRecord, rows []string) (BulkResult, error) {
	return run(ctx, s.concurrency, "snippets", records, rows, func(ctx context.Context, rec recordcodec.SnippetRecord) error {
		_, err := s.deps.Snippets.CreateFromRecord(ctx, rec)
		return err
	})
}
