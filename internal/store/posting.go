package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/careerkit/career-assistant/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Posting interface {
	List(ctx context.Context, filter *PostingQueryFilter) (model.PostingList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Posting, error)
	GetByURL(ctx context.Context, url string) (*model.Posting, error)
	Create(ctx context.Context, posting model.Posting) (*model.Posting, error)
	UpdateCrawledInfo(ctx context.Context, id uuid.UUID, companyName, description, requirements, questionsJSON string) (*model.Posting, error)
	UpdateClassification(ctx context.Context, id uuid.UUID, companyType model.CompanyType) (*model.Posting, error)
	UpdateAnalysis(ctx context.Context, id uuid.UUID, analysis string) (*model.Posting, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PipelineStatus) (*model.Posting, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostingStore struct {
	db *gorm.DB
}

// Make sure we conform to Posting interface
var _ Posting = (*PostingStore)(nil)

func NewPostingStore(db *gorm.DB) Posting {
	return &PostingStore{db: db}
}

func (p *PostingStore) List(ctx context.Context, filter *PostingQueryFilter) (model.PostingList, error) {
	var postings model.PostingList
	tx := p.getDB(ctx).Model(&postings).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&postings)
	if result.Error != nil {
		return nil, result.Error
	}
	return postings, nil
}

func (p *PostingStore) Get(ctx context.Context, id uuid.UUID) (*model.Posting, error) {
	var posting model.Posting
	result := p.getDB(ctx).First(&posting, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &posting, nil
}

func (p *PostingStore) GetByURL(ctx context.Context, url string) (*model.Posting, error) {
	var posting model.Posting
	result := p.getDB(ctx).First(&posting, "url = ?", url)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &posting, nil
}

func (p *PostingStore) Create(ctx context.Context, posting model.Posting) (*model.Posting, error) {
	result := p.getDB(ctx).Clauses(clause.Returning{}).Create(&posting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &posting, nil
}

func (p *PostingStore) UpdateCrawledInfo(ctx context.Context, id uuid.UUID, companyName, description, requirements, questionsJSON string) (*model.Posting, error) {
	return p.update(ctx, id, model.StatusCleaned, map[string]any{
		"company_name":   companyName,
		"description":    description,
		"requirements":   requirements,
		"questions_json": questionsJSON,
	})
}

func (p *PostingStore) UpdateClassification(ctx context.Context, id uuid.UUID, companyType model.CompanyType) (*model.Posting, error) {
	return p.update(ctx, id, model.StatusClassified, map[string]any{
		"company_type": companyType,
	})
}

func (p *PostingStore) UpdateAnalysis(ctx context.Context, id uuid.UUID, analysis string) (*model.Posting, error) {
	return p.update(ctx, id, model.StatusAnalyzed, map[string]any{
		"company_analysis": analysis,
	})
}

func (p *PostingStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PipelineStatus) (*model.Posting, error) {
	return p.update(ctx, id, status, nil)
}

func (p *PostingStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := p.getDB(ctx).Unscoped().Delete(&model.Posting{}, "id = ?", id.String())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

// update applies the field changes together with a guarded status transition.
// The status machine is owned here, not by callers: a backward move or any
// move out of a terminal status fails with ErrInvalidTransition.
func (p *PostingStore) update(ctx context.Context, id uuid.UUID, status model.PipelineStatus, fields map[string]any) (*model.Posting, error) {
	var posting model.Posting
	if err := p.getDB(ctx).First(&posting, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if !model.CanTransition(posting.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, posting.Status, status)
	}

	now := time.Now()
	updates := map[string]any{
		"status":     status,
		"updated_at": &now,
	}
	for k, v := range fields {
		updates[k] = v
	}

	if err := p.getDB(ctx).Model(&posting).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &posting, nil
}

func (p *PostingStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return p.db
}
