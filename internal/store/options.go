package store

import (
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type PostingQueryFilter BaseQuerier

func NewPostingQueryFilter() *PostingQueryFilter {
	return &PostingQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *PostingQueryFilter) ByStatus(status string) *PostingQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return qf
}

func (qf *PostingQueryFilter) ByCompanyNameLike(name string) *PostingQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("company_name LIKE ?", "%"+name+"%")
	})
	return qf
}

type ExperienceQueryFilter BaseQuerier

func NewExperienceQueryFilter() *ExperienceQueryFilter {
	return &ExperienceQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *ExperienceQueryFilter) ByCategory(category string) *ExperienceQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("category = ?", category)
	})
	return qf
}
