package review

import (
	"math"
	"sort"
)

// Scores holds the eight critique dimensions, each in [0,100].
// AIDetectionRisk is the only inverted dimension: lower is better.
type Scores struct {
	AnswerRelevance  int `json:"answerRelevance"`
	JobFit           int `json:"jobFit"`
	OrgFit           int `json:"orgFit"`
	Specificity      int `json:"specificity"`
	Authenticity     int `json:"authenticity"`
	AIDetectionRisk  int `json:"aiDetectionRisk"`
	LogicalStructure int `json:"logicalStructure"`
	KeywordUsage     int `json:"keywordUsage"`
}

// TotalScore computes the weighted total. The weights sum to 1.0 and the
// detection risk is inverted before weighting, so a lower risk contributes
// more to the total.
func TotalScore(s Scores) int {
	return int(math.Round(
		float64(s.AnswerRelevance)*0.10 +
			float64(s.JobFit)*0.20 +
			float64(s.OrgFit)*0.15 +
			float64(s.Specificity)*0.20 +
			float64(s.Authenticity)*0.10 +
			float64(100-s.AIDetectionRisk)*0.10 +
			float64(s.LogicalStructure)*0.05 +
			float64(s.KeywordUsage)*0.10))
}

// Grade maps a total score to its letter grade.
func Grade(totalScore int) string {
	switch {
	case totalScore >= 90:
		return "S"
	case totalScore >= 80:
		return "A"
	case totalScore >= 70:
		return "B"
	case totalScore >= 60:
		return "C"
	default:
		return "D"
	}
}

// Result is the structured outcome of one critique call. It is transient:
// the loop consumes it immediately and only TotalScore and RawJSON survive,
// written onto the letter row that was critiqued.
type Result struct {
	Scores         Scores
	TotalScore     int
	Grade          string
	Violations     []string
	Improvements   []string
	OverallComment string
	RawJSON        string
}

func (r Result) PassThreshold(threshold int) bool {
	return r.TotalScore >= threshold
}

// Dimension is one (label, field, value) triple used for targeted feedback.
type Dimension struct {
	Name  string
	Field string
	Score int
}

// WeakestDimensions returns the n lowest-scoring dimensions in ascending
// order. The detection risk is inverted (100-risk) before comparison so all
// eight values read as "higher is better".
func (r Result) WeakestDimensions(n int) []Dimension {
	dims := []Dimension{
		{Name: "answer relevance", Field: "answerRelevance", Score: r.Scores.AnswerRelevance},
		{Name: "job fit", Field: "jobFit", Score: r.Scores.JobFit},
		{Name: "organization fit", Field: "orgFit", Score: r.Scores.OrgFit},
		{Name: "specificity", Field: "specificity", Score: r.Scores.Specificity},
		{Name: "authenticity", Field: "authenticity", Score: r.Scores.Authenticity},
		{Name: "AI detection safety", Field: "aiDetectionRisk", Score: 100 - r.Scores.AIDetectionRisk},
		{Name: "logical structure", Field: "logicalStructure", Score: r.Scores.LogicalStructure},
		{Name: "keyword usage", Field: "keywordUsage", Score: r.Scores.KeywordUsage},
	}

	sort.SliceStable(dims, func(i, j int) bool { return dims[i].Score < dims[j].Score })

	if n > len(dims) {
		n = len(dims)
	}
	return dims[:n]
}

// Fallback is the neutral result applied when a critique response is present
// but cannot be decoded: all dimensions at 50, so the loop continues as if a
// valid but mediocre critique was returned.
func Fallback() Result {
	scores := Scores{
		AnswerRelevance:  50,
		JobFit:           50,
		OrgFit:           50,
		Specificity:      50,
		Authenticity:     50,
		AIDetectionRisk:  50,
		LogicalStructure: 50,
		KeywordUsage:     50,
	}
	total := TotalScore(scores)
	return Result{
		Scores:         scores,
		TotalScore:     total,
		Grade:          Grade(total),
		Violations:     []string{"review response could not be parsed; default scores applied"},
		Improvements:   []string{"re-review required"},
		OverallComment: "The review response could not be parsed, so neutral default scores were applied.",
		RawJSON:        "{}",
	}
}
