package server

import (
	"errors"
	"net/http"

	"github.com/tuanngo/preppath/internal/ingestion"
	"github.com/tuanngo/preppath/internal/preparation"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *preparation.ErrNotFound
	var invalidState *preparation.ErrInvalidState
	var unsupported *ingestion.UnsupportedFormatError
	var fetchErr *ingestion.FetchError
	var extraction *ingestion.ExtractionError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalidState):
		return http.StatusConflict
	case errors.As(err, &unsupported), errors.As(err, &fetchErr), errors.As(err, &extraction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
