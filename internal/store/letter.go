package store

import (
	"context"
	"errors"

	"github.com/careerkit/career-assistant/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Letter interface {
	ListByPosting(ctx context.Context, postingID uuid.UUID) (model.CoverLetterList, error)
	Lineage(ctx context.Context, postingID uuid.UUID, questionSlot int) (model.CoverLetterList, error)
	Get(ctx context.Context, id uint) (*model.CoverLetter, error)
	Create(ctx context.Context, letter model.CoverLetter) (*model.CoverLetter, error)
	AttachReview(ctx context.Context, id uint, feedback string, score int) (*model.CoverLetter, error)
}

type LetterStore struct {
	db *gorm.DB
}

// Make sure we conform to Letter interface
var _ Letter = (*LetterStore)(nil)

func NewLetterStore(db *gorm.DB) Letter {
	return &LetterStore{db: db}
}

func (l *LetterStore) ListByPosting(ctx context.Context, postingID uuid.UUID) (model.CoverLetterList, error) {
	var letters model.CoverLetterList
	result := l.getDB(ctx).
		Where("posting_id = ?", postingID).
		Order("question_slot ASC, version ASC").
		Find(&letters)
	if result.Error != nil {
		return nil, result.Error
	}
	return letters, nil
}

func (l *LetterStore) Lineage(ctx context.Context, postingID uuid.UUID, questionSlot int) (model.CoverLetterList, error) {
	var letters model.CoverLetterList
	result := l.getDB(ctx).
		Where("posting_id = ? AND question_slot = ?", postingID, questionSlot).
		Order("version ASC").
		Find(&letters)
	if result.Error != nil {
		return nil, result.Error
	}
	return letters, nil
}

func (l *LetterStore) Get(ctx context.Context, id uint) (*model.CoverLetter, error) {
	var letter model.CoverLetter
	result := l.getDB(ctx).First(&letter, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &letter, nil
}

// Create appends a new version to the letter's lineage. The version is owned
// by the store: it is computed as the current lineage maximum plus one inside
// the insert transaction, never by the caller from a possibly-stale read.
// Any Version set on the argument is ignored.
func (l *LetterStore) Create(ctx context.Context, letter model.CoverLetter) (*model.CoverLetter, error) {
	err := l.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		var maxVersion int
		if err := tx.Model(&model.CoverLetter{}).
			Where("posting_id = ? AND question_slot = ?", letter.PostingID, letter.QuestionSlot).
			Select("COALESCE(MAX(version), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}

		letter.Version = maxVersion + 1
		if err := tx.Clauses(clause.Returning{}).Create(&letter).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateKey
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

// AttachReview writes the critique's feedback and score onto an existing row.
// This is the only permitted mutation of a letter; the row being updated is
// the draft that was actually critiqued, not a new version.
func (l *LetterStore) AttachReview(ctx context.Context, id uint, feedback string, score int) (*model.CoverLetter, error) {
	var letter model.CoverLetter
	if err := l.getDB(ctx).First(&letter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	letter.Feedback = &feedback
	letter.ReviewScore = &score
	if err := l.getDB(ctx).Model(&letter).Updates(map[string]any{
		"feedback":     feedback,
		"review_score": score,
	}).Error; err != nil {
		return nil, err
	}
	return &letter, nil
}

func (l *LetterStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return l.db
}
