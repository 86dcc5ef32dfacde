package handlers

import (
	"context"
	"ecomap-score-service/internal/api/dto"
	"ecomap-score-service/internal/platform/obs"
	"ecomap-score-service/internal/ports"
	"ecomap-score-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields into dst.
// On failure it writes a 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps service and port errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		pe *services.ParseError
		ve *services.ValidationError
	)

	switch {
	case errors.Is(err, services.ErrMissingAnalysis),
		errors.Is(err, services.ErrMissingPrompt),
		errors.Is(err, services.ErrInvalidPlacement),
		errors.Is(err, services.ErrInvalidBoundary):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, ports.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, "simulation not found")
	case errors.Is(err, services.ErrPlacementCapReached):
		writeError(w, r, http.StatusConflict, services.ErrPlacementCapReached.Error())
	case errors.Is(err, services.ErrOutsideBoundary):
		writeError(w, r, http.StatusUnprocessableEntity, services.ErrOutsideBoundary.Error())
	case errors.As(err, &pe), errors.As(err, &ve):
		logFailure(r, op, err)
		writeJSON(w, r, http.StatusBadGateway, dto.ErrorResponse{
			Error:   "collaborator returned an unusable response",
			Details: err.Error(),
		})
	case errors.Is(err, ports.ErrCollaboratorUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		logFailure(r, op, err)
		writeJSON(w, r, http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "text generation service unavailable",
			Details: err.Error(),
		})
	default:
		logFailure(r, op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func logFailure(r *http.Request, op string, err error) {
	zap.L().Error(op+" failed",
		zap.String("req_id", obs.RequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
}
