package bulkhdl

import (
	"context"
	"errors"
	"io"

	basehdl "engagement_survey/internal/api/base/handler"
	bulkdto "engagement_survey/internal/api/bulk/dto"
	bulksvc "engagement_survey/internal/api/bulk/service"
	"engagement_survey/internal/common"
	"engagement_survey/internal/csvimport"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/recordcodec"
	"engagement_survey/internal/session"

	"github.com/gofiber/fiber/v3"
)

// BulkService là các thao tác handler cần từ bulksvc.BulkService
type BulkService interface {
	BulkCreateEmployees(ctx context.Context, companyID string, rows []string, format recordcodec.Format) (bulksvc.BulkResult, error)
	BulkCreateQuestions(ctx context.Context, rows []string, format recordcodec.Format) (bulksvc.BulkResult, error)
	BulkDisableQuestions(ctx context.Context, rows []string, format recordcodec.Format) (bulksvc.BulkResult, error)
	BulkCreateSnippets(ctx context.Context, rows []string, format recordcodec.Format) (bulksvc.BulkResult, error)
	CreateEmployees(ctx context.Context, companyID string, records []recordcodec.EmployeeRecord, rows []string) (bulksvc.BulkResult, error)
	CreateQuestions(ctx context.Context, records []recordcodec.QuestionRecord, rows []string) (bulksvc.BulkResult, error)
}

// BulkHandler xử lý các request nhập hàng loạt (JSON dòng mã hoá hoặc file CSV)
type BulkHandler struct {
	svc BulkService
}

// NewBulkHandler tạo BulkHandler
func NewBulkHandler(svc BulkService) *BulkHandler {
	return &BulkHandler{svc: svc}
}

// companyFor xác định công ty đích: super admin có thể để trống (dùng companyId từng dòng)
func companyFor(s session.Session, requested string) (string, error) {
	if s.IsSuperAdmin() {
		return requested, nil
	}
	id, err := basehdl.ScopeCompanyID(s, requested)
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func formatOf(input *bulkdto.BulkRowsInput) recordcodec.Format {
	if input.Format == "" {
		return recordcodec.DetectFormat(input.Rows[0])
	}
	format, _ := recordcodec.ParseFormat(input.Format)
	return format
}

func (h *BulkHandler) respond(c fiber.Ctx, kind string, total int, result bulksvc.BulkResult, err error) {
	logger.LogBulk(kind, c, total, result.Count, len(result.Failed))
	if err != nil && errors.Is(err, context.Canceled) {
		// Trả về số đã ghi trước khi bị huỷ
		basehdl.HandleResponse(c, result, nil)
		return
	}
	basehdl.HandleResponse(c, result, err)
}

func (h *BulkHandler) rows(c fiber.Ctx, kind string, call func(ctx context.Context, s session.Session, input *bulkdto.BulkRowsInput) (bulksvc.BulkResult, error)) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		var input bulkdto.BulkRowsInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		result, err := call(c.Context(), s, &input)
		h.respond(c, kind, len(input.Rows), result, err)
		return nil
	})
}

// HandleBulkCreateEmployees tạo nhân viên từ các dòng mã hoá
func (h *BulkHandler) HandleBulkCreateEmployees(c fiber.Ctx) error {
	return h.rows(c, "employees", func(ctx context.Context, s session.Session, input *bulkdto.BulkRowsInput) (bulksvc.BulkResult, error) {
		companyID, err := companyFor(s, input.CompanyID)
		if err != nil {
			return bulksvc.BulkResult{}, err
		}
		return h.svc.BulkCreateEmployees(ctx, companyID, input.Rows, formatOf(input))
	})
}

// HandleBulkCreateQuestions tạo câu hỏi từ các dòng mã hoá
func (h *BulkHandler) HandleBulkCreateQuestions(c fiber.Ctx) error {
	return h.rows(c, "questions", func(ctx context.Context, _ session.Session, input *bulkdto.BulkRowsInput) (bulksvc.BulkResult, error) {
		return h.svc.BulkCreateQuestions(ctx, input.Rows, formatOf(input))
	})
}

// HandleBulkDisableQuestions bật/tắt câu hỏi theo các dòng mã hoá
func (h *BulkHandler) HandleBulkDisableQuestions(c fiber.Ctx) error {
	return h.rows(c, "question_statuses", func(ctx context.Context, _ session.Session, input *bulkdto.BulkRowsInput) (bulksvc.BulkResult, error) {
		return h.svc.BulkDisableQuestions(ctx, input.Rows, formatOf(input))
	})
}

// HandleBulkCreateSnippets tạo snippet từ các dòng mã hoá
func (h *BulkHandler) HandleBulkCreateSnippets(c fiber.Ctx) error {
	return h.rows(c, "snippets", func(ctx context.Context, _ session.Session, input *bulkdto.BulkRowsInput) (bulksvc.BulkResult, error) {
		return h.svc.BulkCreateSnippets(ctx, input.Rows, formatOf(input))
	})
}

// openUpload mở file multipart "file"
func openUpload(c fiber.Ctx) (io.ReadCloser, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationInput, "Thiếu file CSV (field 'file')", common.StatusBadRequest, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, "Không đọc được file", common.StatusBadRequest, err)
	}
	return f, nil
}

func csvError(err error) error {
	return common.NewError(common.ErrCodeValidationFormat, err.Error(), common.StatusBadRequest, err)
}

// HandleEmployeesCSV nhập nhân viên từ file CSV (multipart field "file", form "companyId" tuỳ chọn)
func (h *BulkHandler) HandleEmployeesCSV(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		s, err := basehdl.CurrentSession(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		companyID, err := companyFor(s, c.FormValue("companyId"))
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		f, err := openUpload(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		defer f.Close()

		records, err := csvimport.ReadEmployees(f)
		if err != nil {
			basehdl.HandleResponse(c, nil, csvError(err))
			return nil
		}
		result, err := h.svc.CreateEmployees(c.Context(), companyID, records, nil)
		h.respond(c, "employees_csv", len(records), result, err)
		return nil
	})
}

// HandleQuestionsCSV nhập câu hỏi từ file CSV (multipart field "file")
func (h *BulkHandler) HandleQuestionsCSV(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		if _, err := basehdl.CurrentSession(c); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		f, err := openUpload(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		defer f.Close()

		records, err := csvimport.ReadQuestions(f)
		if err != nil {
			basehdl.HandleResponse(c, nil, csvError(err))
			return nil
		}
		result, err := h.svc.CreateQuestions(c.Context(), records, nil)
		h.respond(c, "questions_csv", len(records), result, err)
		return nil
	})
}
