package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/careerkit/career-assistant/internal/store"
	"github.com/careerkit/career-assistant/internal/store/model"
)

type ExperienceService struct {
	store  store.Store
	logger *zap.SugaredLogger
}

func NewExperienceService(store store.Store) *ExperienceService {
	return &ExperienceService{
		store:  store,
		logger: zap.S().Named("experience_service"),
	}
}

func (es *ExperienceService) ListExperiences(ctx context.Context, category string) (model.ExperienceList, error) {
	filter := store.NewExperienceQueryFilter()
	if category != "" {
		filter = filter.ByCategory(category)
	}

	experiences, err := es.store.Experience().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	return experiences, nil
}

func (es *ExperienceService) GetExperience(ctx context.Context, id uint) (*model.Experience, error) {
	experience, err := es.store.Experience().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrExperienceNotFound(id)
		}
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}
	return experience, nil
}

func (es *ExperienceService) CreateExperience(ctx context.Context, experience model.Experience) (*model.Experience, error) {
	if strings.TrimSpace(experience.Title) == "" {
		return nil, NewErrInvalidRequest("experience title must not be empty")
	}

	created, err := es.store.Experience().Create(ctx, experience)
	if err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}
	es.logger.Infow("experience created", "id", created.ID, "title", created.Title)
	return created, nil
}

func (es *ExperienceService) DeleteExperience(ctx context.Context, id uint) error {
	if err := es.store.Experience().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete experience: %w", err)
	}
	return nil
}
