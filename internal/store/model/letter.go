package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NoQuestionSlot is the questionSlot value used when a posting carries no
// discrete essay questions and a single synthetic lineage is written instead.
const NoQuestionSlot = 0

// CoverLetter is one immutable iteration of a draft. A lineage is the set of
// rows sharing (PostingID, QuestionSlot); versions within a lineage are
// contiguous starting at 1. Content is write-once; Feedback and ReviewScore
// are attached later to the row that was actually critiqued.
type CoverLetter struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt    time.Time `gorm:"not null;default:now()"`
	PostingID    uuid.UUID `gorm:"not null;uniqueIndex:cover_letters_lineage_version_idx;index:cover_letters_posting_id_idx"`
	QuestionSlot int       `gorm:"not null;default:0;uniqueIndex:cover_letters_lineage_version_idx"`
	QuestionText string    `gorm:"type:TEXT"`
	AiModel      string    `gorm:"column:ai_model;type:VARCHAR(100)"`
	Content      string    `gorm:"type:TEXT;not null"`
	Version      int       `gorm:"not null;uniqueIndex:cover_letters_lineage_version_idx"`
	Feedback     *string   `gorm:"type:TEXT"`
	ReviewScore  *int
}

type CoverLetterList []CoverLetter

// LatestPerQuestion reduces a list of letters to the row with the maximum
// version for each question slot. Version ties within a lineage are
// impossible by the store's uniqueness invariant.
func (l CoverLetterList) LatestPerQuestion() CoverLetterList {
	latest := make(map[int]CoverLetter)
	slots := make([]int, 0)
	for _, letter := range l {
		current, found := latest[letter.QuestionSlot]
		if !found {
			slots = append(slots, letter.QuestionSlot)
		}
		if !found || letter.Version > current.Version {
			latest[letter.QuestionSlot] = letter
		}
	}

	result := make(CoverLetterList, 0, len(latest))
	for _, slot := range slots {
		result = append(result, latest[slot])
	}
	return result
}

func (c CoverLetter) String() string {
	val, _ := json.Marshal(c)
	return string(val)
}
