package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightops/internal/domain"
)

// statusForError maps the core's error taxonomy onto HTTP statuses. Anything
// unrecognized is a 500.
func statusForError(err error) int {
	var (
		invalidRequest *domain.InvalidRequestError
		invalidRef     *domain.InvalidReferenceError
		invalidRoute   *domain.InvalidRouteError
		continuity     *domain.RouteContinuityError
		timing         *domain.ConnectionTimingError
		duplicate      *domain.DuplicateFlightError
		immutable      *domain.ImmutableAfterDepartureError
	)

	switch {
	case errors.As(err, &invalidRequest), errors.As(err, &continuity), errors.As(err, &timing):
		return http.StatusBadRequest
	case errors.As(err, &invalidRef), errors.As(err, &invalidRoute):
		return http.StatusUnprocessableEntity
	case errors.As(err, &duplicate), errors.As(err, &immutable), errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
