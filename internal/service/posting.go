package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careerkit/career-assistant/internal/store"
	"github.com/careerkit/career-assistant/internal/store/model"
)

// PostingFilter narrows posting listings.
type PostingFilter struct {
	Status          string
	CompanyNameLike string
}

type PostingService struct {
	store  store.Store
	logger *zap.SugaredLogger
}

func NewPostingService(store store.Store) *PostingService {
	return &PostingService{
		store:  store,
		logger: zap.S().Named("posting_service"),
	}
}

func (ps *PostingService) ListPostings(ctx context.Context, filter *PostingFilter) (model.PostingList, error) {
	storeFilter := store.NewPostingQueryFilter()
	if filter != nil {
		if filter.Status != "" {
			storeFilter = storeFilter.ByStatus(filter.Status)
		}
		if filter.CompanyNameLike != "" {
			storeFilter = storeFilter.ByCompanyNameLike(filter.CompanyNameLike)
		}
	}

	postings, err := ps.store.Posting().List(ctx, storeFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	return postings, nil
}

func (ps *PostingService) GetPosting(ctx context.Context, id uuid.UUID) (*model.Posting, error) {
	posting, err := ps.store.Posting().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPostingNotFound(id)
		}
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}
	return posting, nil
}

// DeletePosting removes a posting and, through the cascade, its letters.
func (ps *PostingService) DeletePosting(ctx context.Context, id uuid.UUID) error {
	if err := ps.store.Posting().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete posting: %w", err)
	}
	ps.logger.Infow("posting deleted", "posting_id", id)
	return nil
}
