// Package mappers converts store models to API wire types.
package mappers

import (
	"encoding/json"

	api "github.com/careerkit/career-assistant/api/v1alpha1"
	"github.com/careerkit/career-assistant/internal/store/model"
)

func PostingToApi(p *model.Posting) api.Posting {
	out := api.Posting{
		ID:          p.ID,
		URL:         p.URL,
		CompanyName: p.CompanyName,
		CompanyType: string(p.CompanyType),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.QuestionsJSON != "" {
		// Stored questions are written by the pipeline and always valid
		// JSON; a decode failure just leaves the field empty.
		_ = json.Unmarshal([]byte(p.QuestionsJSON), &out.Questions)
	}
	return out
}

func PostingListToApi(postings model.PostingList) api.PostingList {
	items := make([]api.Posting, 0, len(postings))
	for i := range postings {
		items = append(items, PostingToApi(&postings[i]))
	}
	return api.PostingList{Items: items}
}

func LetterToApi(l *model.CoverLetter) api.CoverLetter {
	return api.CoverLetter{
		ID:           l.ID,
		PostingID:    l.PostingID,
		QuestionSlot: l.QuestionSlot,
		QuestionText: l.QuestionText,
		AiModel:      l.AiModel,
		Content:      l.Content,
		Version:      l.Version,
		Feedback:     l.Feedback,
		ReviewScore:  l.ReviewScore,
		CreatedAt:    l.CreatedAt,
	}
}

func LetterListToApi(letters model.CoverLetterList) api.CoverLetterList {
	items := make([]api.CoverLetter, 0, len(letters))
	for i := range letters {
		items = append(items, LetterToApi(&letters[i]))
	}
	return api.CoverLetterList{Items: items}
}

func ExperienceToApi(e *model.Experience) api.Experience {
	return api.Experience{
		ID:          e.ID,
		Category:    e.Category,
		Title:       e.Title,
		Description: e.Description,
		Skills:      e.Skills,
		Period:      e.Period,
		CreatedAt:   e.CreatedAt,
	}
}

func ExperienceListToApi(experiences model.ExperienceList) api.ExperienceList {
	items := make([]api.Experience, 0, len(experiences))
	for i := range experiences {
		items = append(items, ExperienceToApi(&experiences[i]))
	}
	return api.ExperienceList{Items: items}
}

func ExperienceFromApi(req api.ExperienceCreateRequest) model.Experience {
	return model.Experience{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Skills:      req.Skills,
		Period:      req.Period,
	}
}
