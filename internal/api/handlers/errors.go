package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/specplot/internal/processing"
	"github.com/RMahshie/specplot/internal/render"
	"github.com/RMahshie/specplot/internal/repository"
	"github.com/RMahshie/specplot/internal/spectrum"
	"github.com/RMahshie/specplot/internal/storage"
)

// toHTTPError maps domain errors onto API status codes
func toHTTPError(err error, action string) error {
	var uploadErr *processing.UploadError
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return huma.Error404NotFound("Session not found", err)
	case errors.As(err, &uploadErr):
		return huma.Error422UnprocessableEntity("One or more files could not be loaded; nothing was replaced", uploadErr.Files...)
	case errors.Is(err, storage.ErrNotFound):
		return huma.Error404NotFound("Artifact not found. Publish the charts first.", err)
	case errors.Is(err, processing.ErrNoTables):
		return huma.Error409Conflict("No files loaded. Upload files first.", err)
	case errors.Is(err, render.ErrNoSeries):
		return huma.Error409Conflict("Nothing to draw on a logarithmic axis: every value is zero or negative.", err)
	case errors.Is(err, spectrum.ErrShiftMismatch),
		errors.Is(err, spectrum.ErrLegendMismatch),
		errors.Is(err, spectrum.ErrInvalidWindow):
		return huma.Error400BadRequest(err.Error(), err)
	}

	var degenerate *spectrum.DegenerateRangeError
	if errors.As(err, &degenerate) {
		return huma.Error400BadRequest(err.Error(), err)
	}

	log.Error().Err(err).Str("action", action).Msg("request failed")
	return huma.Error500InternalServerError("Failed to "+action, err)
}
