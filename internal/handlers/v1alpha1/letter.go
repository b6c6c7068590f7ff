package v1alpha1

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	api "github.com/careerkit/career-assistant/api/v1alpha1"
	"github.com/careerkit/career-assistant/internal/service"
	"github.com/careerkit/career-assistant/internal/service/mappers"
)

// GenerateLetters runs the full pipeline for a posting URL. The call is
// synchronous and long-running: it returns once every question has a
// finalized letter, or with the error that stopped the run.
func (h *Handler) GenerateLetters(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateLettersRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("malformed request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("url must be a valid absolute URL"))
		return
	}

	result, err := h.letterService.Generate(r.Context(), req.URL)
	if err != nil {
		renderError(w, r, err)
		return
	}

	letters := make([]api.CoverLetter, 0, len(result.Letters))
	for i := range result.Letters {
		letters = append(letters, mappers.LetterToApi(&result.Letters[i]))
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.GenerateLettersResponse{
		Posting: mappers.PostingToApi(result.Posting),
		Letters: letters,
	})
}

func (h *Handler) GetLetter(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "letterID"), 10, 64)
	if err != nil {
		renderError(w, r, service.NewErrInvalidRequest("letter id must be numeric"))
		return
	}

	letter, err := h.letterService.GetLetter(r.Context(), uint(id))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.LetterToApi(letter))
}

func (h *Handler) ListLetters(w http.ResponseWriter, r *http.Request) {
	postingID, err := uuid.Parse(chi.URLParam(r, "postingID"))
	if err != nil {
		renderError(w, r, service.NewErrInvalidRequest("posting id must be a UUID"))
		return
	}

	letters, err := h.letterService.ListByPosting(r.Context(), postingID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	// latest=true reduces the listing to the newest version per question.
	if r.URL.Query().Get("latest") == "true" {
		letters = letters.LatestPerQuestion()
	}
	render.JSON(w, r, mappers.LetterListToApi(letters))
}

func (h *Handler) GetLineage(w http.ResponseWriter, r *http.Request) {
	postingID, err := uuid.Parse(chi.URLParam(r, "postingID"))
	if err != nil {
		renderError(w, r, service.NewErrInvalidRequest("posting id must be a UUID"))
		return
	}
	slot, err := strconv.Atoi(chi.URLParam(r, "questionSlot"))
	if err != nil || slot < 0 {
		renderError(w, r, service.NewErrInvalidRequest("question slot must be a non-negative integer"))
		return
	}

	letters, err := h.letterService.Lineage(r.Context(), postingID, slot)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.LetterListToApi(letters))
}
