package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/careerkit/career-assistant/internal/ai"
	"github.com/careerkit/career-assistant/internal/store/model"
	"github.com/careerkit/career-assistant/pkg/metrics"
	"go.uber.org/zap"
)

const reviewerSystemPrompt = `You are a hiring team lead with fifteen years of experience who has reviewed
tens of thousands of cover letters. Your only criterion: "Would I invite this
applicant to an interview?"

[Scoring - absolute scale]
- 80 or above: interview-worthy. This is the bar for a serious candidate.
- 90 or above: worth circulating to the whole hiring team. Extremely rare.
- 70s: a near miss; one or two fixes away.
- 60s or below: fundamentals missing; needs a full rewrite.

[Eight dimensions]
1. answerRelevance (weight 10%): does it answer exactly what the question asks? Off-intent answers score 0.
2. jobFit (weight 20%): could they contribute from day one? Tech stack, comparable experience, concrete results.
3. orgFit (weight 15%): is it so company-specific that swapping the company name would break it?
4. specificity (weight 20%): numbers, project names, quantified outcomes? "I worked hard" scores 0.
5. authenticity (weight 10%): a story only this applicant could tell? Generic phrasing scores 0.
6. aiDetectionRisk (weight 10%): does it read machine-written? Higher means riskier - repetitive endings, abstract filler, formulaic structure.
7. logicalStructure (weight 5%): clear narrative flow with paragraphs that build on each other?
8. keywordUsage (weight 10%): are the posting's core keywords woven in naturally?

[Feedback rules]
- violations: quote the offending sentence and name the concrete problem. No vague feedback.
- improvements: quote the current sentence, state the problem, give a direction and a concrete example.

[Output format]
Respond with this JSON only. No other text, explanation or markdown.
{
  "scores": {
    "answerRelevance": 0-100,
    "jobFit": 0-100,
    "orgFit": 0-100,
    "specificity": 0-100,
    "authenticity": 0-100,
    "aiDetectionRisk": 0-100,
    "logicalStructure": 0-100,
    "keywordUsage": 0-100
  },
  "violations": ["quoted sentence + concrete problem", ...],
  "improvements": ["quoted sentence -> direction -> example", ...],
  "overallComment": "overall assessment (2-3 sentences)"
}`

// Agent produces structured quality assessments of drafts. Iteration 1 uses
// the high-fidelity tier (the first full critique needs depth); later checks
// are coarser and routed to the fast tier.
type Agent struct {
	router *ai.Router
	logger *zap.SugaredLogger
}

func NewAgent(router *ai.Router) *Agent {
	return &Agent{
		router: router,
		logger: zap.S().Named("review_agent"),
	}
}

// Assess critiques a draft against its posting context. A response that
// cannot be decoded into the eight required numeric fields degrades to the
// neutral fallback result; a failed capability call is returned as an error
// and left to the caller.
func (a *Agent) Assess(ctx context.Context, draft string, posting *model.Posting, questionText string, iteration int) (Result, error) {
	tier := ai.TierFast
	if iteration == 1 {
		tier = ai.TierHighFidelity
	}
	reviewer := a.router.ForTier(tier)

	userPrompt := buildReviewPrompt(draft, posting, questionText, iteration)

	a.logger.Infow("starting review", "iteration", iteration, "model", reviewer.Model())
	response, err := reviewer.GenerateWithSystem(ctx, reviewerSystemPrompt, userPrompt)
	if err != nil {
		return Result{}, fmt.Errorf("review call failed on iteration %d: %w", iteration, err)
	}

	result := a.parseReviewResponse(response)
	metrics.RecordReviewIterationMetric(result.Grade, result.TotalScore)
	return result, nil
}

func buildReviewPrompt(draft string, posting *model.Posting, questionText string, iteration int) string {
	question := questionText
	if question == "" {
		question = "(single cover letter, no discrete question)"
	}
	return fmt.Sprintf(`[Cover letter under review - pass %d]

[Posting]
Company: %s
Role description: %s
Requirements: %s

[Question]
%s

[Cover letter]
%s

Score the letter on all eight dimensions and write concrete violations and
improvements. Respond with pure JSON only.`,
		iteration,
		posting.CompanyName,
		posting.Description,
		posting.Requirements,
		question,
		draft,
	)
}

type rawScores struct {
	AnswerRelevance  *int `json:"answerRelevance"`
	JobFit           *int `json:"jobFit"`
	OrgFit           *int `json:"orgFit"`
	Specificity      *int `json:"specificity"`
	Authenticity     *int `json:"authenticity"`
	AIDetectionRisk  *int `json:"aiDetectionRisk"`
	LogicalStructure *int `json:"logicalStructure"`
	KeywordUsage     *int `json:"keywordUsage"`
}

type rawReview struct {
	Scores         *rawScores `json:"scores"`
	Violations     []string   `json:"violations"`
	Improvements   []string   `json:"improvements"`
	OverallComment string     `json:"overallComment"`
}

// parseReviewResponse decodes the model's answer strictly: all eight numeric
// fields must be present and in range, otherwise the neutral fallback is
// applied so the loop is never blocked by a malformed critique.
func (a *Agent) parseReviewResponse(response string) Result {
	raw := extractJSON(response)

	var decoded rawReview
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		a.logger.Warnw("failed to decode review response, applying fallback", "error", err)
		return Fallback()
	}

	scores, ok := validateScores(decoded.Scores)
	if !ok {
		a.logger.Warnw("review response missing required score fields, applying fallback")
		return Fallback()
	}

	total := TotalScore(scores)
	return Result{
		Scores:         scores,
		TotalScore:     total,
		Grade:          Grade(total),
		Violations:     decoded.Violations,
		Improvements:   decoded.Improvements,
		OverallComment: decoded.OverallComment,
		RawJSON:        raw,
	}
}

func validateScores(raw *rawScores) (Scores, bool) {
	if raw == nil {
		return Scores{}, false
	}
	fields := []*int{
		raw.AnswerRelevance, raw.JobFit, raw.OrgFit, raw.Specificity,
		raw.Authenticity, raw.AIDetectionRisk, raw.LogicalStructure, raw.KeywordUsage,
	}
	for _, f := range fields {
		if f == nil || *f < 0 || *f > 100 {
			return Scores{}, false
		}
	}
	return Scores{
		AnswerRelevance:  *raw.AnswerRelevance,
		JobFit:           *raw.JobFit,
		OrgFit:           *raw.OrgFit,
		Specificity:      *raw.Specificity,
		Authenticity:     *raw.Authenticity,
		AIDetectionRisk:  *raw.AIDetectionRisk,
		LogicalStructure: *raw.LogicalStructure,
		KeywordUsage:     *raw.KeywordUsage,
	}, true
}

// extractJSON strips markdown code fences and slices the outermost JSON
// object out of a model response.
func extractJSON(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```") {
		if idx := strings.IndexByte(cleaned, '\n'); idx > 0 {
			cleaned = cleaned[idx+1:]
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start >= 0 && end > start {
		return cleaned[start : end+1]
	}

	return cleaned
}
