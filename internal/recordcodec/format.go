// Package recordcodec mã hoá/giải mã các dòng bản ghi dạng chuỗi dùng cho lệnh bulk.
//
// Hai định dạng được hỗ trợ:
//   - legacy: các trường nối bằng dấu ':' theo thứ tự cố định, không escape.
//     Dòng nhân viên kết thúc bằng chữ "employee".
//   - framed: mỗi trường viết dạng <độ dài byte>#<nội dung>, trường đầu là tag loại bản ghi.
//     Nội dung có thể chứa bất kỳ byte nào, kể cả ':' và '#'.
package recordcodec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Format là định dạng dòng bản ghi
type Format string

const (
	FormatLegacy Format = "legacy"
	FormatFramed Format = "framed"
)

// Tag của các loại bản ghi
const (
	TagEmployee       = "employee"
	TagQuestion       = "question"
	TagQuestionStatus = "question_status"
	TagSnippet        = "snippet"
)

const (
	legacyDelimiter = ":"
	frameSeparator  = '#'
)

// Các lỗi giải mã/mã hoá
var (
	ErrArity            = errors.New("recordcodec: wrong number of fields")
	ErrSentinel         = errors.New("recordcodec: wrong record tag")
	ErrRequiredField    = errors.New("recordcodec: required field is empty")
	ErrInvalidField     = errors.New("recordcodec: invalid field value")
	ErrDelimiterInField = errors.New("recordcodec: field contains delimiter")
	ErrMalformedFrame   = errors.New("recordcodec: malformed frame")
	ErrUnknownFormat    = errors.New("recordcodec: unknown format")
)

// ParseFormat đọc tên định dạng, rỗng => legacy
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatLegacy):
		return FormatLegacy, nil
	case string(FormatFramed):
		return FormatFramed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// DetectFormat đoán định dạng của dòng: framed nếu toàn bộ dòng tách được thành các frame hợp lệ
func DetectFormat(row string) Format {
	if _, err := splitFrames(row); err == nil && row != "" {
		return FormatFramed
	}
	return FormatLegacy
}

// joinLegacy nối các trường bằng ':', từ chối trường chứa ':'
func joinLegacy(fields []string) (string, error) {
	for i, f := range fields {
		if strings.Contains(f, legacyDelimiter) {
			return "", fmt.Errorf("%w: field %d", ErrDelimiterInField, i)
		}
	}
	return strings.Join(fields, legacyDelimiter), nil
}

// splitLegacy tách dòng và kiểm tra đúng số trường
func splitLegacy(row string, arity int) ([]string, error) {
	fields := strings.Split(row, legacyDelimiter)
	if len(fields) != arity {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArity, arity, len(fields))
	}
	return fields, nil
}

// joinFrames mã hoá các trường thành chuỗi framed
func joinFrames(fields []string) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strconv.Itoa(len(f)))
		b.WriteByte(frameSeparator)
		b.WriteString(f)
	}
	return b.String()
}

// splitFrames giải mã chuỗi framed thành danh sách trường
func splitFrames(row string) ([]string, error) {
	var fields []string
	i := 0
	for i < len(row) {
		j := i
		for j < len(row) && row[j] >= '0' && row[j] <= '9' {
			j++
		}
		if j == i || j >= len(row) || row[j] != frameSeparator {
			return nil, fmt.Errorf("%w: expected length at offset %d", ErrMalformedFrame, i)
		}
		n, err := strconv.Atoi(row[i:j])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		start := j + 1
		if n > len(row)-start {
			return nil, fmt.Errorf("%w: length %d exceeds input at offset %d", ErrMalformedFrame, n, i)
		}
		fields = append(fields, row[start:start+n])
		i = start + n
	}
	return fields, nil
}

// encodeFields mã hoá các trường theo định dạng. Legacy: sentinel (nếu có) đặt cuối; framed: tag đặt đầu
func encodeFields(tag string, legacySentinel bool, fields []string, format Format) (string, error) {
	switch format {
	case FormatLegacy:
		if legacySentinel {
			fields = append(append([]string{}, fields...), tag)
		}
		return joinLegacy(fields)
	case FormatFramed:
		return joinFrames(append([]string{tag}, fields...)), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// decodeFields là chiều ngược của encodeFields, trả về đúng arity trường dữ liệu (không gồm tag)
func decodeFields(row, tag string, legacySentinel bool, arity int, format Format) ([]string, error) {
	switch format {
	case FormatLegacy:
		if !legacySentinel {
			return splitLegacy(row, arity)
		}
		fields, err := splitLegacy(row, arity+1)
		if err != nil {
			return nil, err
		}
		if fields[arity] != tag {
			return nil, fmt.Errorf("%w: want %q, got %q", ErrSentinel, tag, fields[arity])
		}
		return fields[:arity], nil
	case FormatFramed:
		fields, err := splitFrames(row)
		if err != nil {
			return nil, err
		}
		if len(fields) != arity+1 {
			return nil, fmt.Errorf("%w: want %d, got %d", ErrArity, arity+1, len(fields))
		}
		if fields[0] != tag {
			return nil, fmt.Errorf("%w: want %q, got %q", ErrSentinel, tag, fields[0])
		}
		return fields[1:], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
