package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/careerkit/career-assistant/internal/ai"
	"github.com/careerkit/career-assistant/internal/store/model"
)

const analysisSystemPrompt = `You are a career research analyst. Given a job
posting you produce a compact JSON brief about the company for a cover-letter
writer. Respond with JSON only, no prose, in this shape:
{
  "core_values": ["..."],
  "talent_profile": "...",
  "business_focus": "...",
  "recent_direction": "...",
  "writing_angle": "..."
}
Base every field on the posting text; when the posting says nothing about a
field, infer conservatively from the company's sector and say so in the field
text rather than inventing specifics.`

// CompanyAnalyzer asks the high-fidelity model for a structured company
// brief. The brief is stored as raw JSON text and consumed by the prompt
// layer; a failed or empty analysis never fails a pipeline run.
type CompanyAnalyzer struct {
	client ai.Client
	log    *zap.SugaredLogger
}

func NewCompanyAnalyzer(client ai.Client, log *zap.SugaredLogger) *CompanyAnalyzer {
	return &CompanyAnalyzer{client: client, log: log}
}

// Analyze returns the model's JSON brief for the posting. The returned text
// is whatever sits between the outermost braces of the response; callers
// treat an error as "no analysis available" and carry on.
func (a *CompanyAnalyzer) Analyze(ctx context.Context, posting *model.Posting) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\nClassification: %s\n\n", posting.CompanyName, posting.CompanyType)
	if posting.Description != "" {
		fmt.Fprintf(&b, "Posting description:\n%s\n\n", posting.Description)
	}
	if posting.Requirements != "" {
		fmt.Fprintf(&b, "Requirements:\n%s\n", posting.Requirements)
	}

	resp, err := a.client.GenerateWithSystem(ctx, analysisSystemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("company analysis for %q: %w", posting.CompanyName, err)
	}

	payload := sliceJSON(resp)
	if payload == "" {
		return "", fmt.Errorf("company analysis for %q: response carries no JSON object", posting.CompanyName)
	}
	a.log.Debugf("company analysis for %q: %d bytes", posting.CompanyName, len(payload))
	return payload, nil
}

// sliceJSON strips markdown fences and returns the outermost JSON object,
// or "" when none is present.
func sliceJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
