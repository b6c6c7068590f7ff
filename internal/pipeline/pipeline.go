// Package pipeline drives a posting from URL to finalized cover letters:
// crawl, classify, analyze, then a generation and critique loop per essay
// question. Each stage writes its result through the store before the next
// stage starts, so a crashed run leaves a resumable, inspectable posting row.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careerkit/career-assistant/internal/ai"
	"github.com/careerkit/career-assistant/internal/crawler"
	"github.com/careerkit/career-assistant/internal/review"
	"github.com/careerkit/career-assistant/internal/store"
	"github.com/careerkit/career-assistant/internal/store/model"
	"github.com/careerkit/career-assistant/pkg/metrics"
)

const (
	// MaxIterations bounds the critique loop per question.
	MaxIterations = 3
	// PassThreshold is the total score at which a draft is accepted early.
	PassThreshold = 85
	// weakDimensionCount is how many scoring dimensions feed the targeted
	// revision strategy.
	weakDimensionCount = 3
)

var (
	ErrRunAlreadyFailed = errors.New("posting previously failed; delete it to retry")
	ErrRunInProgress    = errors.New("posting run already in progress")
)

// Reviewer critiques one draft. Implemented by review.Agent.
type Reviewer interface {
	Assess(ctx context.Context, draft string, posting *model.Posting, questionText string, iteration int) (review.Result, error)
}

// Analyzer produces the deep company brief. Implemented by
// analyzer.CompanyAnalyzer. Errors are soft: the run proceeds without a
// brief.
type Analyzer interface {
	Analyze(ctx context.Context, posting *model.Posting) (string, error)
}

// Classifier tags a company from its posting text.
type Classifier func(companyName, description, requirements string) model.CompanyType

// RunResult is what one completed run hands back to its caller.
type RunResult struct {
	Posting *model.Posting
	Letters model.CoverLetterList
}

type Pipeline struct {
	store    store.Store
	crawler  crawler.Crawler
	classify Classifier
	analyzer Analyzer
	reviewer Reviewer
	router   *ai.Router
	log      *zap.SugaredLogger
}

func New(st store.Store, cr crawler.Crawler, classify Classifier, an Analyzer, rv Reviewer, router *ai.Router) *Pipeline {
	return &Pipeline{
		store:    st,
		crawler:  cr,
		classify: classify,
		analyzer: an,
		reviewer: rv,
		router:   router,
		log:      zap.S().Named("pipeline"),
	}
}

// Run processes one posting URL end to end. Re-running a finalized URL is
// idempotent: the stored letters are returned and no model call is made.
// Any unrecoverable error marks the posting failed before it is returned.
func (p *Pipeline) Run(ctx context.Context, url string) (*RunResult, error) {
	existing, err := p.store.Posting().GetByURL(ctx, url)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up posting %q: %w", url, err)
	}
	if existing != nil {
		return p.resumeExisting(ctx, existing)
	}

	posting, err := p.store.Posting().Create(ctx, model.Posting{
		ID:     uuid.New(),
		URL:    url,
		Status: model.StatusFetched,
	})
	if err != nil {
		return nil, fmt.Errorf("creating posting for %q: %w", url, err)
	}

	result, err := p.process(ctx, posting)
	if err != nil {
		p.markFailed(ctx, posting.ID)
		metrics.IncreasePipelineRunsTotalMetric("failure")
		return nil, err
	}
	metrics.IncreasePipelineRunsTotalMetric("success")
	return result, nil
}

// resumeExisting resolves a URL that already has a posting row. Any posting
// holding at least one letter answers with its stored letters, finalized or
// not, so a run that crashed after writing artifacts stays readable. A failed
// posting without letters must be deleted before the URL can run again.
func (p *Pipeline) resumeExisting(ctx context.Context, posting *model.Posting) (*RunResult, error) {
	letters, err := p.store.Letter().ListByPosting(ctx, posting.ID)
	if err != nil {
		return nil, fmt.Errorf("loading letters for posting %s: %w", posting.ID, err)
	}
	if len(letters) > 0 {
		p.log.Infow("posting has stored letters, returning them",
			"posting_id", posting.ID, "status", posting.Status, "letters", len(letters))
		return &RunResult{Posting: posting, Letters: letters.LatestPerQuestion()}, nil
	}

	switch posting.Status {
	case model.StatusFailed:
		return nil, fmt.Errorf("posting %s: %w", posting.ID, ErrRunAlreadyFailed)
	default:
		return nil, fmt.Errorf("posting %s is %s: %w", posting.ID, posting.Status, ErrRunInProgress)
	}
}

func (p *Pipeline) process(ctx context.Context, posting *model.Posting) (*RunResult, error) {
	info, err := p.crawler.Crawl(ctx, posting.URL)
	if err != nil {
		return nil, fmt.Errorf("crawling %q: %w", posting.URL, err)
	}

	questionsJSON, err := json.Marshal(info.Questions)
	if err != nil {
		return nil, fmt.Errorf("encoding questions for %q: %w", posting.URL, err)
	}

	// Crawl metadata and classification land in one transaction: a crash
	// between the two writes cannot leave a cleaned row without its
	// company tag. Classification is pure, so nothing slow runs inside.
	txCtx, err := p.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening transaction: %w", err)
	}

	posting, err = p.store.Posting().UpdateCrawledInfo(txCtx, posting.ID,
		info.CompanyName, info.Description, info.Requirements, string(questionsJSON))
	if err != nil {
		_, _ = store.Rollback(txCtx)
		return nil, fmt.Errorf("storing crawled info: %w", err)
	}

	companyType := p.classify(info.CompanyName, info.Description, info.Requirements)
	posting, err = p.store.Posting().UpdateClassification(txCtx, posting.ID, companyType)
	if err != nil {
		_, _ = store.Rollback(txCtx)
		return nil, fmt.Errorf("storing classification: %w", err)
	}

	if _, err := store.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("committing crawled info: %w", err)
	}
	p.log.Infow("company classified",
		"posting_id", posting.ID, "company", info.CompanyName, "type", companyType)

	// The deep analysis is best-effort. The posting only reaches the
	// analyzed status when an actual brief was obtained.
	if analysis, aerr := p.analyzer.Analyze(ctx, posting); aerr != nil {
		p.log.Warnw("company analysis failed, continuing without it",
			"posting_id", posting.ID, "error", aerr)
	} else {
		posting, err = p.store.Posting().UpdateAnalysis(ctx, posting.ID, analysis)
		if err != nil {
			return nil, fmt.Errorf("storing company analysis: %w", err)
		}
	}

	posting, err = p.store.Posting().UpdateStatus(ctx, posting.ID, model.StatusReviewing)
	if err != nil {
		return nil, fmt.Errorf("entering review: %w", err)
	}

	experiences, err := p.store.Experience().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("loading experiences: %w", err)
	}

	letters, err := p.generateAll(ctx, posting, info.Questions, experiences)
	if err != nil {
		return nil, err
	}

	posting, err = p.store.Posting().UpdateStatus(ctx, posting.ID, model.StatusFinalized)
	if err != nil {
		return nil, fmt.Errorf("finalizing posting: %w", err)
	}

	return &RunResult{Posting: posting, Letters: letters}, nil
}

// generateAll runs the critique loop once per essay question, or once for a
// synthetic single lineage when the posting exposes no questions.
func (p *Pipeline) generateAll(ctx context.Context, posting *model.Posting, questions []crawler.EssayQuestion, experiences []model.Experience) (model.CoverLetterList, error) {
	writer := p.router.Route(posting.CompanyType)

	if len(questions) == 0 {
		letter, err := p.refine(ctx, writer, posting, nil, experiences)
		if err != nil {
			return nil, err
		}
		return model.CoverLetterList{*letter}, nil
	}

	letters := make(model.CoverLetterList, 0, len(questions))
	for i := range questions {
		letter, err := p.refine(ctx, writer, posting, &questions[i], experiences)
		if err != nil {
			return nil, err
		}
		letters = append(letters, *letter)
	}
	return letters, nil
}

// markFailed is best-effort; a transition error here means the posting
// already reached a terminal status.
func (p *Pipeline) markFailed(ctx context.Context, id uuid.UUID) {
	if _, err := p.store.Posting().UpdateStatus(ctx, id, model.StatusFailed); err != nil {
		p.log.Warnw("failed to mark posting failed", "posting_id", id, "error", err)
	}
}
