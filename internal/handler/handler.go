// Package handler exposes the order and report services over HTTP. Bodies are
// snake_case JSON; successful responses are wrapped in {"data": ...}.
package handler

import (
	"net"
	"net/http"

	"dry-cleaner/internal/model"
	"dry-cleaner/internal/wire"

	"github.com/rs/zerolog"
)

// SessionHeader identifies the staff session submitting orders.
const SessionHeader = "X-Session-ID"

type envelope struct {
	Data any `json:"data"`
}

// writeJSON writes v inside the data envelope with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any, logger zerolog.Logger) {
	body, err := wire.Marshal(envelope{Data: v})
	if err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
		writeErrorBody(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError maps err onto an HTTP status and error body.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	code := model.CodeOf(err)
	status := StatusFor(code)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("code", code).Msg("handler error")
		message = "internal server error"
		if code == model.ErrCodeInternalError {
			message = "An unexpected error occurred"
		}
	} else {
		logger.Warn().Err(err).Str("code", code).Int("status", status).Msg("request rejected")
	}

	writeErrorBody(w, status, code, message)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	body, _ := wire.Marshal(model.ErrorResponse{Error: code, Message: message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// StatusFor returns the HTTP status for a domain error code.
func StatusFor(code string) int {
	switch code {
	case model.ErrCodeValidation, model.ErrCodeInvalidStatus, model.ErrCodeInvalidItem,
		model.ErrCodeIndexOutOfRange, model.ErrCodeInvalidRange, model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeSubmitInProgress:
		return http.StatusConflict
	case model.ErrCodeNoData:
		return http.StatusUnprocessableEntity
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a snake_case JSON body into v.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "request body is required")
	}
	if err := wire.Decode(r.Body, v); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// sessionKey scopes duplicate-submission protection to one client session.
func sessionKey(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
