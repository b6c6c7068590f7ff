package v1alpha1

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/careerkit/career-assistant/api/v1alpha1"
	"github.com/careerkit/career-assistant/internal/service"
	"github.com/careerkit/career-assistant/internal/service/mappers"
)

func (h *Handler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.experienceService.ListExperiences(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.ExperienceListToApi(experiences))
}

func (h *Handler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	var req api.ExperienceCreateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("malformed request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		renderError(w, r, service.NewErrInvalidRequest("title is required"))
		return
	}

	created, err := h.experienceService.CreateExperience(r.Context(), mappers.ExperienceFromApi(req))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.ExperienceToApi(created))
}

func (h *Handler) GetExperience(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "experienceID"), 10, 64)
	if err != nil {
		renderError(w, r, service.NewErrInvalidRequest("experience id must be numeric"))
		return
	}

	experience, err := h.experienceService.GetExperience(r.Context(), uint(id))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, mappers.ExperienceToApi(experience))
}

func (h *Handler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "experienceID"), 10, 64)
	if err != nil {
		renderError(w, r, service.NewErrInvalidRequest("experience id must be numeric"))
		return
	}

	if err := h.experienceService.DeleteExperience(r.Context(), uint(id)); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
