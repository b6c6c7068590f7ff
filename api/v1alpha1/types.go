// Package v1alpha1 holds the wire types of the HTTP API.
package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

type GenerateLettersRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type EssayQuestion struct {
	Number    int    `json:"number"`
	Text      string `json:"text"`
	CharLimit int    `json:"charLimit"`
}

type Posting struct {
	ID          uuid.UUID       `json:"id"`
	URL         string          `json:"url"`
	CompanyName string          `json:"companyName"`
	CompanyType string          `json:"companyType"`
	Status      string          `json:"status"`
	Questions   []EssayQuestion `json:"questions,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

type PostingList struct {
	Items []Posting `json:"items"`
}

type CoverLetter struct {
	ID           uint      `json:"id"`
	PostingID    uuid.UUID `json:"postingId"`
	QuestionSlot int       `json:"questionSlot"`
	QuestionText string    `json:"questionText,omitempty"`
	AiModel      string    `json:"aiModel"`
	Content      string    `json:"content"`
	Version      int       `json:"version"`
	Feedback     *string   `json:"feedback,omitempty"`
	ReviewScore  *int      `json:"reviewScore,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CoverLetterList struct {
	Items []CoverLetter `json:"items"`
}

type GenerateLettersResponse struct {
	Posting Posting       `json:"posting"`
	Letters []CoverLetter `json:"letters"`
}

type ExperienceCreateRequest struct {
	Category    string `json:"category"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Skills      string `json:"skills"`
	Period      string `json:"period"`
}

type Experience struct {
	ID          uint      `json:"id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Skills      string    `json:"skills"`
	Period      string    `json:"period"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ExperienceList struct {
	Items []Experience `json:"items"`
}

type Error struct {
	Message string `json:"message"`
}

type Health struct {
	Status string `json:"status"`
}
