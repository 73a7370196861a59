package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fpang/logonova/internal/auth"
	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/gallery"
	"github.com/fpang/logonova/internal/pipeline"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("Failed to write JSON response")
	}
}

func httpError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: http.StatusText(status), Message: message})
}

// respondError maps domain errors to a status and a user-facing message.
func respondError(w http.ResponseWriter, err error) {
	var cfgErr *brand.ValidationError
	switch {
	case errors.As(err, &cfgErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:   err.Error(),
			Code:    string(pipeline.CodeInvalidRequest),
			Message: pipeline.UserMessage(&pipeline.Error{Code: pipeline.CodeInvalidRequest, Slot: pipeline.NoSlot}),
			Fields:  cfgErr.Fields,
		})
		return
	case errors.Is(err, gallery.ErrNotFound):
		httpError(w, http.StatusNotFound, "bundle not found")
		return
	case errors.Is(err, auth.ErrSelectionCanceled):
		httpError(w, http.StatusConflict, "credential selection was canceled")
		return
	}

	code := pipeline.CodeOf(err)
	respondJSON(w, statusFor(code), errorResponse{
		Error:   err.Error(),
		Code:    string(code),
		Message: pipeline.UserMessage(err),
	})
}

func statusFor(code pipeline.Code) int {
	switch code {
	case pipeline.CodeCredentialInvalid:
		return http.StatusUnauthorized
	case pipeline.CodeContentPolicyRejection:
		return http.StatusUnprocessableEntity
	case pipeline.CodeInvalidRequest:
		return http.StatusBadRequest
	case pipeline.CodeImageGenerationFailure, pipeline.CodeStrategyParsingFailure, pipeline.CodeMotionSynthesisFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeMedia(w http.ResponseWriter, mimeType string, data []byte, filename string) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	if _, err := w.Write(data); err != nil {
		log.Warn().Err(err).Msg("Failed to write media response")
	}
}
