package scoring

// SnippetRange là đoạn nhận xét áp dụng cho factor khi điểm nằm trong [MinScore, MaxScore]
type SnippetRange struct {
	ID       string  `json:"id"`
	Factor   string  `json:"factor"`
	MinScore float64 `json:"minScore"`
	MaxScore float64 `json:"maxScore"`
	Text     string  `json:"text"`
}

// Contains kiểm tra score nằm trong khoảng (bao gồm hai đầu)
func (s SnippetRange) Contains(score float64) bool {
	return score >= s.MinScore && score <= s.MaxScore
}

// SelectSnippet chọn snippet của factor chứa score. Nhiều snippet khớp thì lấy MinScore nhỏ nhất.
func SelectSnippet(snippets []SnippetRange, factor string, score float64) (SnippetRange, bool) {
	want, ok := NormalizeFactor(factor)
	if !ok {
		want = factor
	}

	var best SnippetRange
	found := false
	for _, s := range snippets {
		f, ok := NormalizeFactor(s.Factor)
		if !ok {
			f = s.Factor
		}
		if f != want || !s.Contains(score) {
			continue
		}
		if !found || s.MinScore < best.MinScore {
			best = s
			found = true
		}
	}
	return best, found
}

// SelectSnippets chọn snippet cho từng factor trong kết quả. Factor không có snippet khớp bị bỏ qua.
func SelectSnippets(averages map[string]float64, snippets []SnippetRange) map[string]SnippetRange {
	out := make(map[string]SnippetRange, len(averages))
	for factor, score := range averages {
		if s, ok := SelectSnippet(snippets, factor, score); ok {
			out[factor] = s
		}
	}
	return out
}
