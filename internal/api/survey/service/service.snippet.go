package surveysvc

import (
	"context"
	"strings"

	basesvc "engagement_survey/internal/api/base/service"
	models "engagement_survey/internal/api/survey/models"
	"engagement_survey/internal/common"
	"engagement_survey/internal/recordcodec"
	"engagement_survey/internal/scoring"
)

// SnippetService là service snippet nhận xét
type SnippetService struct {
	basesvc.BaseServiceMongo[models.Snippet]
}

// NewSnippetService tạo SnippetService
func NewSnippetService(snippets basesvc.BaseServiceMongo[models.Snippet]) *SnippetService {
	return &SnippetService{BaseServiceMongo: snippets}
}

// Ranges trả về toàn bộ snippet dưới dạng khoảng điểm
func (s *SnippetService) Ranges(ctx context.Context) ([]scoring.SnippetRange, error) {
	snippets, err := s.Find(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.SnippetRange, 0, len(snippets))
	for _, sn := range snippets {
		out = append(out, sn.Range())
	}
	return out, nil
}

// CreateFromRecord tạo snippet từ một dòng bulk
func (s *SnippetService) CreateFromRecord(ctx context.Context, rec recordcodec.SnippetRecord) (models.Snippet, error) {
	snippet, err := NewSnippet(rec.Factor, rec.MinScore, rec.MaxScore, rec.Text)
	if err != nil {
		return models.Snippet{}, err
	}
	return s.InsertOne(ctx, snippet)
}

// NewSnippet kiểm tra và chuẩn hoá snippet: factor chuẩn, 0 <= min <= max <= 5 (số hữu hạn), text khác rỗng
func NewSnippet(factor string, minScore, maxScore float64, text string) (models.Snippet, error) {
	canonical, err := normalizeFactor(factor)
	if err != nil {
		return models.Snippet{}, err
	}
	if err := recordcodec.ValidScoreBounds(minScore, maxScore); err != nil || minScore < 0 || maxScore > scoring.MaxSelection {
		return models.Snippet{}, common.NewError(common.ErrCodeValidationInput, "Khoảng điểm snippet phải thoả 0 <= min <= max <= 5", common.StatusBadRequest, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Snippet{}, common.ErrRequiredField
	}
	return models.Snippet{Factor: canonical, MinScore: minScore, MaxScore: maxScore, Text: text}, nil
}
