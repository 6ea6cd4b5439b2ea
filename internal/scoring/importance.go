package scoring

import "math"

// Ranking là thứ hạng một người dùng gán cho các factor (factor => rank 1..5).
// Nhiều factor có thể cùng một rank.
type Ranking map[string]int

// ImportanceReport là kết quả thống kê mức độ quan trọng của factor
type ImportanceReport struct {
	// Counts[factor][rank] số người xếp factor ở rank
	Counts map[string]map[int]int `json:"counts" bson:"counts"`
	// Distribution[factor][rank] phần trăm rank trong tổng số lượt xếp hạng của factor
	Distribution map[string]map[int]float64 `json:"distribution" bson:"distribution"`
	// MostImportant[factor] phần trăm lượt rank 5 thuộc về factor
	MostImportant map[string]float64 `json:"mostImportant" bson:"mostImportant"`
	Respondents   int                `json:"respondents" bson:"respondents"`
}

// ComputeImportance tính thống kê thứ hạng trên năm factor cố định.
// Rank ngoài [1,5] và factor không hợp lệ bị bỏ qua. Mẫu số bằng 0 cho 0.
// Phần trăm làm tròn 2 chữ số thập phân.
func ComputeImportance(rankings []Ranking) ImportanceReport {
	factors := Factors()
	report := ImportanceReport{
		Counts:        make(map[string]map[int]int, len(factors)),
		Distribution:  make(map[string]map[int]float64, len(factors)),
		MostImportant: make(map[string]float64, len(factors)),
		Respondents:   len(rankings),
	}
	for _, f := range factors {
		report.Counts[f] = make(map[int]int, MaxRank)
		report.Distribution[f] = make(map[int]float64, MaxRank)
		for r := MinRank; r <= MaxRank; r++ {
			report.Counts[f][r] = 0
		}
	}

	for _, ranking := range rankings {
		for label, rank := range ranking {
			f, ok := NormalizeFactor(label)
			if !ok || rank < MinRank || rank > MaxRank {
				continue
			}
			report.Counts[f][rank]++
		}
	}

	topTotal := 0
	for _, f := range factors {
		topTotal += report.Counts[f][MaxRank]
	}

	for _, f := range factors {
		factorTotal := 0
		for r := MinRank; r <= MaxRank; r++ {
			factorTotal += report.Counts[f][r]
		}
		for r := MinRank; r <= MaxRank; r++ {
			report.Distribution[f][r] = Percent(report.Counts[f][r], factorTotal)
		}
		report.MostImportant[f] = Percent(report.Counts[f][MaxRank], topTotal)
	}
	return report
}

// Percent trả về part/total*100 làm tròn 2 chữ số, 0 nếu total = 0
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

// Ratio trả về part/total, 0 nếu total = 0
func Ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

// Round2 làm tròn 2 chữ số thập phân
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
