package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Posting() Posting
	Letter() Letter
	Experience() Experience
	Close() error
}

type DataStore struct {
	db         *gorm.DB
	posting    Posting
	letter     Letter
	experience Experience
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		posting:    NewPostingStore(db),
		letter:     NewLetterStore(db),
		experience: NewExperienceStore(db),
		db:         db,
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Posting() Posting {
	return s.posting
}

func (s *DataStore) Letter() Letter {
	return s.letter
}

func (s *DataStore) Experience() Experience {
	return s.experience
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
