package model

import (
	"encoding/json"
	"time"
)

// Experience is one applicant portfolio entry injected into generation prompts.
type Experience struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt   time.Time `gorm:"not null;default:now()"`
	Category    string    `gorm:"type:VARCHAR(100)"`
	Title       string    `gorm:"type:VARCHAR(255);not null"`
	Description string    `gorm:"type:TEXT"`
	Skills      string    `gorm:"type:VARCHAR(255)"`
	Period      string    `gorm:"type:VARCHAR(100)"`
}

type ExperienceList []Experience

func (e Experience) String() string {
	val, _ := json.Marshal(e)
	return string(val)
}
