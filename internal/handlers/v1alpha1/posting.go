package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/careerkit/career-assistant/internal/service"
	"github.com/careerkit/career-assistant/internal/service/mappers"
)

func (h *Handler) ListPostings(w http.ResponseWriter, r *http.Request) {
	filter := &service.PostingFilter{
		Status:          r.URL.Query().Get("status"),
		CompanyNameLike: r.URL.Query().Get("company"),
	}

	postings, err := h.postingService.ListPostings(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.PostingListToApi(postings))
}

func (h *Handler) GetPosting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "postingID"))
	if err != nil {
		renderError(w, r, service.NewErrInvalidRequest("posting id must be a UUID"))
		return
	}

	posting, err := h.postingService.GetPosting(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.PostingToApi(posting))
}

func (h *Handler) DeletePosting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "postingID"))
	if err != nil {
		renderError(w, r, service.NewErrInvalidRequest("posting id must be a UUID"))
		return
	}

	if err := h.postingService.DeletePosting(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
