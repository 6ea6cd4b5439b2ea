package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSelections(t *testing.T) {
	tests := []struct {
		name string
		in   map[string][]int
		want map[string]float64
	}{
		{"một factor", map[string][]int{"Purpose": {3, 4, 5}}, map[string]float64{"Purpose": 4}},
		{"danh sách rỗng cho 0", map[string][]int{"Purpose": {}}, map[string]float64{"Purpose": 0}},
		{"nil cho 0", map[string][]int{"Growth": nil}, map[string]float64{"Growth": 0}},
		{"nhiều factor", map[string][]int{"Autonomy": {1, 2}, "Recognition": {5}}, map[string]float64{"Autonomy": 1.5, "Recognition": 5}},
		{"đầu vào rỗng", map[string][]int{}, map[string]float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateSelections(tt.in)
			assert.Equal(t, tt.want, got)
			for _, v := range got {
				assert.False(t, math.IsNaN(v))
			}
		})
	}
}

func TestAggregateAnswers(t *testing.T) {
	got := AggregateAnswers(FactorAnswers{
		FactorPurpose: {{QuestionID: "q1", Selection: 2}, {QuestionID: "q2", Selection: 3}},
		FactorGrowth:  {},
	})
	assert.Equal(t, map[string]float64{FactorPurpose: 2.5, FactorGrowth: 0}, got)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestValidateSelections(t *testing.T) {
	assert.NoError(t, ValidateSelections(FactorAnswers{FactorPurpose: {{"q1", 1}, {"q2", 5}}}))

	err := ValidateSelections(FactorAnswers{FactorPurpose: {{"q1", 3}, {"q2", 6}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSelectionOutOfRange))

	var se *SelectionError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "q2", se.QuestionID)
	assert.Equal(t, 6, se.Selection)

	assert.ErrorIs(t, ValidateSelections(FactorAnswers{FactorGrowth: {{"q3", 0}}}), ErrSelectionOutOfRange)
}

func TestNormalizeFactor(t *testing.T) {
	f, ok := NormalizeFactor("  psychological   SAFETY ")
	assert.True(t, ok)
	assert.Equal(t, FactorPsychologicalSafety, f)

	f, ok = NormalizeFactor("growth")
	assert.True(t, ok)
	assert.Equal(t, FactorGrowth, f)

	_, ok = NormalizeFactor("Salary")
	assert.False(t, ok)

	assert.True(t, IsFactor("Purpose"))
	assert.False(t, IsFactor("purpose"))
	assert.Equal(t, "Work Life", DisplayLabel("work   life"))
}

func TestComputeImportance_Empty(t *testing.T) {
	r := ComputeImportance(nil)
	assert.Equal(t, 0, r.Respondents)
	for _, f := range Factors() {
		assert.Equal(t, 0.0, r.MostImportant[f])
		for rank := MinRank; rank <= MaxRank; rank++ {
			assert.Equal(t, 0, r.Counts[f][rank])
			assert.Equal(t, 0.0, r.Distribution[f][rank])
		}
	}
}

func TestComputeImportance(t *testing.T) {
	rankings := []Ranking{
		{FactorPsychologicalSafety: 5, FactorPurpose: 4, FactorAutonomy: 3, FactorGrowth: 2, FactorRecognition: 1},
		{FactorPsychologicalSafety: 5, FactorPurpose: 5, FactorAutonomy: 1, FactorGrowth: 1, FactorRecognition: 1},
		{FactorPsychologicalSafety: 4, FactorPurpose: 5, FactorAutonomy: 9, "Salary": 5},
	}
	r := ComputeImportance(rankings)

	assert.Equal(t, 3, r.Respondents)
	assert.Equal(t, 2, r.Counts[FactorPsychologicalSafety][5])
	assert.Equal(t, 1, r.Counts[FactorPsychologicalSafety][4])
	// rank 9 bị bỏ qua
	assert.Equal(t, 1, r.Counts[FactorAutonomy][1])
	assert.Equal(t, 1, r.Counts[FactorAutonomy][3])

	// Phân bố của mỗi factor cộng lại 100
	for _, f := range Factors() {
		var sum float64
		for rank := MinRank; rank <= MaxRank; rank++ {
			sum += r.Distribution[f][rank]
		}
		assert.InDelta(t, 100, sum, 0.05, f)
	}
	assert.Equal(t, 66.67, r.Distribution[FactorPsychologicalSafety][5])
	assert.Equal(t, 33.33, r.Distribution[FactorPsychologicalSafety][4])

	// 4 lượt rank 5 hợp lệ: PS 2, Purpose 2
	assert.Equal(t, 50.0, r.MostImportant[FactorPsychologicalSafety])
	assert.Equal(t, 50.0, r.MostImportant[FactorPurpose])
	assert.Equal(t, 0.0, r.MostImportant[FactorGrowth])
}

func TestPercentAndRatio(t *testing.T) {
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 33.33, Percent(1, 3))
	assert.Equal(t, 0.0, Ratio(1, 0))
	assert.Equal(t, 0.5, Ratio(1, 2))
}

func TestSelectSnippet(t *testing.T) {
	snippets := []SnippetRange{
		{ID: "low", Factor: FactorPurpose, MinScore: 1, MaxScore: 2.5, Text: "low"},
		{ID: "mid", Factor: FactorPurpose, MinScore: 2.5, MaxScore: 4, Text: "mid"},
		{ID: "high", Factor: FactorPurpose, MinScore: 4, MaxScore: 5, Text: "high"},
		{ID: "growth", Factor: "growth", MinScore: 1, MaxScore: 5, Text: "g"},
	}

	s, ok := SelectSnippet(snippets, FactorPurpose, 2.5)
	require.True(t, ok)
	assert.Equal(t, "low", s.ID)

	s, ok = SelectSnippet(snippets, "purpose", 5)
	require.True(t, ok)
	assert.Equal(t, "high", s.ID)

	_, ok = SelectSnippet(snippets, FactorPurpose, 0.5)
	assert.False(t, ok)

	s, ok = SelectSnippet(snippets, FactorGrowth, 3)
	require.True(t, ok)
	assert.Equal(t, "growth", s.ID)

	got := SelectSnippets(map[string]float64{FactorPurpose: 3, FactorAutonomy: 3}, snippets)
	assert.Len(t, got, 1)
	assert.Equal(t, "mid", got[FactorPurpose].ID)
}
