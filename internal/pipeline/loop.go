package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/careerkit/career-assistant/internal/ai"
	"github.com/careerkit/career-assistant/internal/crawler"
	"github.com/careerkit/career-assistant/internal/prompt"
	"github.com/careerkit/career-assistant/internal/review"
	"github.com/careerkit/career-assistant/internal/store/model"
	"github.com/careerkit/career-assistant/pkg/metrics"
)

// refine runs the generation and critique loop for one lineage: write a
// draft, persist it, have it critiqued, and revise until the score passes
// the threshold or the iteration cap is hit. question may be nil for the
// synthetic single lineage.
//
// Persistence ordering is the loop's backbone: a draft is stored before its
// critique runs, and the critique is attached to the row that was actually
// assessed. A failed critique call truncates the loop, leaving the draft
// stored with no score; a failed revision call truncates it at the last
// complete version. Neither fails the run: there is always a usable draft
// to hand back once the initial generation succeeded.
func (p *Pipeline) refine(ctx context.Context, writer ai.Client, posting *model.Posting, question *crawler.EssayQuestion, experiences []model.Experience) (*model.CoverLetter, error) {
	slot := model.NoQuestionSlot
	questionText := ""
	charLimit := 0
	initialPrompt := prompt.Build(posting, experiences)
	if question != nil {
		slot = question.Number
		questionText = question.Text
		charLimit = question.CharLimit
		initialPrompt = prompt.BuildForQuestion(posting, *question, experiences)
	}

	draft, err := writer.Generate(ctx, initialPrompt)
	if err != nil {
		return nil, fmt.Errorf("generating initial draft for slot %d: %w", slot, err)
	}

	current, err := p.storeVersion(ctx, posting, slot, questionText, writer.Model(), draft)
	if err != nil {
		return nil, err
	}

	for iteration := 1; iteration <= MaxIterations; iteration++ {
		result, err := p.reviewer.Assess(ctx, current.Content, posting, questionText, iteration)
		if err != nil {
			p.log.Warnw("critique call failed, keeping current draft",
				"posting_id", posting.ID, "slot", slot, "version", current.Version, "error", err)
			return current, nil
		}

		current, err = p.store.Letter().AttachReview(ctx, current.ID, result.RawJSON, result.TotalScore)
		if err != nil {
			return nil, fmt.Errorf("attaching review to letter %d: %w", current.ID, err)
		}

		p.log.Infow("draft assessed",
			"posting_id", posting.ID, "slot", slot, "version", current.Version,
			"score", result.TotalScore, "grade", result.Grade)

		if result.PassThreshold(PassThreshold) || iteration == MaxIterations {
			break
		}

		strategy := review.RevisionStrategy(result.WeakestDimensions(weakDimensionCount))
		improvementPrompt := prompt.BuildImprovement(posting, questionText, charLimit,
			current.Content, formatFeedback(result), strategy)

		revised, err := writer.Generate(ctx, improvementPrompt)
		if err != nil {
			p.log.Warnw("revision call failed, keeping current draft",
				"posting_id", posting.ID, "slot", slot, "version", current.Version, "error", err)
			return current, nil
		}

		current, err = p.storeVersion(ctx, posting, slot, questionText, writer.Model(), revised)
		if err != nil {
			return nil, err
		}
	}

	return current, nil
}

func (p *Pipeline) storeVersion(ctx context.Context, posting *model.Posting, slot int, questionText, aiModel, content string) (*model.CoverLetter, error) {
	letter, err := p.store.Letter().Create(ctx, model.CoverLetter{
		PostingID:    posting.ID,
		QuestionSlot: slot,
		QuestionText: questionText,
		AiModel:      aiModel,
		Content:      content,
	})
	if err != nil {
		return nil, fmt.Errorf("storing draft for slot %d: %w", slot, err)
	}
	metrics.IncreaseLetterVersionsTotalMetric()
	return letter, nil
}

// formatFeedback renders a critique as the reviewer-feedback block of the
// revision prompt.
func formatFeedback(result review.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total score %d (grade %s). %s\n", result.TotalScore, result.Grade, result.OverallComment)
	if len(result.Violations) > 0 {
		b.WriteString("Violations:\n")
		for _, v := range result.Violations {
			fmt.Fprintf(&b, "- %s\n", v)
		}
	}
	if len(result.Improvements) > 0 {
		b.WriteString("Improvements:\n")
		for _, imp := range result.Improvements {
			fmt.Fprintf(&b, "- %s\n", imp)
		}
	}
	return b.String()
}
