package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PipelineStatus is the job-level state of a posting. Transitions are
// monotonic forward through the ordered set below; Failed is reachable from
// any non-terminal status and, like Finalized, is terminal.
type PipelineStatus string

const (
	StatusFetched    PipelineStatus = "fetched"
	StatusCleaned    PipelineStatus = "cleaned"
	StatusClassified PipelineStatus = "classified"
	StatusAnalyzed   PipelineStatus = "analyzed"
	StatusReviewing  PipelineStatus = "reviewing"
	StatusFinalized  PipelineStatus = "finalized"
	StatusFailed     PipelineStatus = "failed"
)

var statusRank = map[PipelineStatus]int{
	StatusFetched:    0,
	StatusCleaned:    1,
	StatusClassified: 2,
	StatusAnalyzed:   3,
	StatusReviewing:  4,
	StatusFinalized:  5,
}

// CanTransition reports whether the posting status may move from 'from' to 'to'.
// Forward moves may skip stages (a posting without analysis goes Classified ->
// Reviewing) but never go backward or leave a terminal status.
func CanTransition(from, to PipelineStatus) bool {
	if from == StatusFinalized || from == StatusFailed {
		return false
	}
	if to == StatusFailed {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// CompanyType is the closed classification tag set driving capability routing.
type CompanyType string

const (
	CompanyTypeFinance    CompanyType = "finance"
	CompanyTypeEnterprise CompanyType = "enterprise"
	CompanyTypeStartup    CompanyType = "startup"
	CompanyTypeMidIT      CompanyType = "mid_it"
	CompanyTypeUnknown    CompanyType = "unknown"
)

type Posting struct {
	ID              uuid.UUID `gorm:"primaryKey;"`
	CreatedAt       time.Time `gorm:"not null;default:now()"`
	UpdatedAt       *time.Time
	URL             string         `gorm:"column:url;type:TEXT;not null;uniqueIndex:postings_url_idx"`
	CompanyName     string         `gorm:"type:VARCHAR(255)"`
	CompanyType     CompanyType    `gorm:"type:VARCHAR(50)"`
	Description     string         `gorm:"type:TEXT"`
	Requirements    string         `gorm:"type:TEXT"`
	QuestionsJSON   string         `gorm:"column:questions_json;type:TEXT"`
	CompanyAnalysis string         `gorm:"type:TEXT"`
	Status          PipelineStatus `gorm:"type:VARCHAR(50);not null"`
	Letters         []CoverLetter  `gorm:"foreignKey:PostingID;references:ID;constraint:OnDelete:CASCADE;"`
}

type PostingList []Posting

func (p Posting) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}
