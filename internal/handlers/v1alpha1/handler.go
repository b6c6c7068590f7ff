// Package v1alpha1 exposes the HTTP API: pipeline runs, the letter archive,
// postings and the experience bank.
package v1alpha1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	api "github.com/careerkit/career-assistant/api/v1alpha1"
	"github.com/careerkit/career-assistant/internal/service"
)

type Handler struct {
	letterService     *service.LetterService
	postingService    *service.PostingService
	experienceService *service.ExperienceService
	validate          *validator.Validate
}

func NewHandler(letters *service.LetterService, postings *service.PostingService, experiences *service.ExperienceService) *Handler {
	return &Handler{
		letterService:     letters,
		postingService:    postings,
		experienceService: experiences,
		validate:          validator.New(),
	}
}

// Routes mounts every API route on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/api/v1alpha1", func(r chi.Router) {
		r.Post("/letters/generate", h.GenerateLetters)
		r.Get("/letters/{letterID}", h.GetLetter)

		r.Route("/postings", func(r chi.Router) {
			r.Get("/", h.ListPostings)
			r.Get("/{postingID}", h.GetPosting)
			r.Delete("/{postingID}", h.DeletePosting)
			r.Get("/{postingID}/letters", h.ListLetters)
			r.Get("/{postingID}/letters/{questionSlot}/lineage", h.GetLineage)
		})

		r.Route("/experiences", func(r chi.Router) {
			r.Get("/", h.ListExperiences)
			r.Post("/", h.CreateExperience)
			r.Get("/{experienceID}", h.GetExperience)
			r.Delete("/{experienceID}", h.DeleteExperience)
		})
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.Health{Status: "ok"})
}

// renderError maps typed service errors to status codes.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var notFound *service.ErrResourceNotFound
	var invalid *service.ErrInvalidRequest
	var conflict *service.ErrRunConflict
	var unavailable *service.ErrSourceUnavailable
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	case errors.As(err, &conflict):
		status = http.StatusConflict
	case errors.As(err, &unavailable):
		status = http.StatusUnprocessableEntity
	}

	render.Status(r, status)
	render.JSON(w, r, api.Error{Message: err.Error()})
}
