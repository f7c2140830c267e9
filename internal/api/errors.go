package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yoyowasi/ar-memo-backend/internal/api/respond"
	"github.com/yoyowasi/ar-memo-backend/internal/model"
)

// writeServiceError maps domain errors onto HTTP statuses. Absent and
// not-owned both surface as 404 so callers learn nothing about other users'
// data. Store failures keep their detail out of production responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, verbose bool) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "not found")
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		if verbose {
			respond.WriteInternalError(w, err.Error())
			return
		}
		respond.WriteInternalError(w, "internal error")
	}
}
