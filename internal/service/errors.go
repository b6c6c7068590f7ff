package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id string, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrPostingNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id.String(), "posting")
}

func NewErrLetterNotFound(id uint) *ErrResourceNotFound {
	return NewErrResourceNotFound(fmt.Sprintf("%d", id), "cover letter")
}

func NewErrExperienceNotFound(id uint) *ErrResourceNotFound {
	return NewErrResourceNotFound(fmt.Sprintf("%d", id), "experience")
}

type ErrInvalidRequest struct {
	error
}

func NewErrInvalidRequest(message string) *ErrInvalidRequest {
	return &ErrInvalidRequest{fmt.Errorf("bad request: %s", message)}
}

// ErrRunConflict is returned when a generate request hits a posting that is
// already being processed or that previously failed.
type ErrRunConflict struct {
	error
}

func NewErrRunConflict(url string, cause error) *ErrRunConflict {
	return &ErrRunConflict{fmt.Errorf("cannot run pipeline for %q: %w", url, cause)}
}

// ErrSourceUnavailable is returned when the posting page could not be
// acquired or the posting is closed.
type ErrSourceUnavailable struct {
	error
}

func NewErrSourceUnavailable(cause error) *ErrSourceUnavailable {
	return &ErrSourceUnavailable{cause}
}
