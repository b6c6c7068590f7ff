package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careerkit/career-assistant/internal/crawler"
	"github.com/careerkit/career-assistant/internal/pipeline"
	"github.com/careerkit/career-assistant/internal/store"
	"github.com/careerkit/career-assistant/internal/store/model"
)

// Runner starts one pipeline run. Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, url string) (*pipeline.RunResult, error)
}

// LetterService fronts the generation pipeline and the letter archive.
type LetterService struct {
	store  store.Store
	runner Runner
	logger *zap.SugaredLogger
}

func NewLetterService(store store.Store, runner Runner) *LetterService {
	return &LetterService{
		store:  store,
		runner: runner,
		logger: zap.S().Named("letter_service"),
	}
}

// Generate runs the full pipeline for a posting URL and returns the latest
// letter per question. Pipeline failures are translated to typed service
// errors so the handler layer can pick status codes without inspecting
// internals.
func (ls *LetterService) Generate(ctx context.Context, url string) (*pipeline.RunResult, error) {
	result, err := ls.runner.Run(ctx, url)
	if err != nil {
		var srcErr *crawler.SourceUnavailableError
		switch {
		case errors.As(err, &srcErr):
			return nil, NewErrSourceUnavailable(err)
		case errors.Is(err, pipeline.ErrRunInProgress), errors.Is(err, pipeline.ErrRunAlreadyFailed):
			return nil, NewErrRunConflict(url, err)
		default:
			return nil, fmt.Errorf("pipeline run for %q: %w", url, err)
		}
	}

	ls.logger.Infow("pipeline run completed",
		"posting_id", result.Posting.ID, "letters", len(result.Letters))
	return result, nil
}

func (ls *LetterService) ListByPosting(ctx context.Context, postingID uuid.UUID) (model.CoverLetterList, error) {
	if _, err := ls.store.Posting().Get(ctx, postingID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPostingNotFound(postingID)
		}
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}

	letters, err := ls.store.Letter().ListByPosting(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list letters: %w", err)
	}
	return letters, nil
}

// Lineage returns every stored version for one question slot, oldest first.
func (ls *LetterService) Lineage(ctx context.Context, postingID uuid.UUID, questionSlot int) (model.CoverLetterList, error) {
	if _, err := ls.store.Posting().Get(ctx, postingID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPostingNotFound(postingID)
		}
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}

	letters, err := ls.store.Letter().Lineage(ctx, postingID, questionSlot)
	if err != nil {
		return nil, fmt.Errorf("failed to load lineage: %w", err)
	}
	return letters, nil
}

func (ls *LetterService) GetLetter(ctx context.Context, id uint) (*model.CoverLetter, error) {
	letter, err := ls.store.Letter().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrLetterNotFound(id)
		}
		return nil, fmt.Errorf("failed to get letter: %w", err)
	}
	return letter, nil
}
