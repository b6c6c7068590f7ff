package store

import (
	"context"
	"errors"

	"github.com/careerkit/career-assistant/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Experience interface {
	List(ctx context.Context, filter *ExperienceQueryFilter) (model.ExperienceList, error)
	Get(ctx context.Context, id uint) (*model.Experience, error)
	Create(ctx context.Context, experience model.Experience) (*model.Experience, error)
	Delete(ctx context.Context, id uint) error
}

type ExperienceStore struct {
	db *gorm.DB
}

// Make sure we conform to Experience interface
var _ Experience = (*ExperienceStore)(nil)

func NewExperienceStore(db *gorm.DB) Experience {
	return &ExperienceStore{db: db}
}

func (e *ExperienceStore) List(ctx context.Context, filter *ExperienceQueryFilter) (model.ExperienceList, error) {
	var experiences model.ExperienceList
	tx := e.getDB(ctx).Model(&experiences).Order("created_at ASC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&experiences)
	if result.Error != nil {
		return nil, result.Error
	}
	return experiences, nil
}

func (e *ExperienceStore) Get(ctx context.Context, id uint) (*model.Experience, error) {
	var experience model.Experience
	result := e.getDB(ctx).First(&experience, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &experience, nil
}

func (e *ExperienceStore) Create(ctx context.Context, experience model.Experience) (*model.Experience, error) {
	result := e.getDB(ctx).Clauses(clause.Returning{}).Create(&experience)
	if result.Error != nil {
		return nil, result.Error
	}
	return &experience, nil
}

func (e *ExperienceStore) Delete(ctx context.Context, id uint) error {
	result := e.getDB(ctx).Unscoped().Delete(&model.Experience{}, "id = ?", id)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (e *ExperienceStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return e.db
}
