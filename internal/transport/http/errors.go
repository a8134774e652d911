package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"arith-recall/internal/domain"
	"github.com/sirupsen/logrus"
)

// Error codes shared by the JSON envelope and the websocket error payload.
const (
	codeBadRequest        = "bad_request"
	codeNotFound          = "not_found"
	codeInternal          = "internal"
	codeInvalidInput      = "invalid_input"
	codeAlreadyAnswered   = "already_answered"
	codeNotEligible       = "not_eligible"
	codeGameInProgress    = "game_in_progress"
	codeReportUnavailable = "report_unavailable"
)

type apiError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *apiError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Code + ": " + e.Message
}

func (e *apiError) Unwrap() error { return e.Err }

func badRequest(message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: codeBadRequest, Message: message}
}

func internalError(err error) *apiError {
	return &apiError{Status: http.StatusInternalServerError, Code: codeInternal, Message: "internal server error", Err: err}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError renders err as {"error":{"code","message"}} with the matching status.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		apiErr = internalError(err)
	}

	log := requestLog(r)
	if apiErr.Status >= http.StatusInternalServerError {
		log.Errorf("server error: %v", apiErr)
	} else {
		log.Warnf("client error: %v", apiErr)
	}
	writeJSON(w, apiErr.Status, map[string]errorBody{
		"error": {Code: apiErr.Code, Message: apiErr.Message},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithField("component", "http").Warnf("encode response: %v", err)
	}
}

// wsErrorCode maps game errors onto the websocket error codes.
func wsErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return codeInvalidInput
	case errors.Is(err, domain.ErrAlreadyAnswered):
		return codeAlreadyAnswered
	case errors.Is(err, domain.ErrNotEligible):
		return codeNotEligible
	case errors.Is(err, domain.ErrGameInProgress):
		return codeGameInProgress
	case errors.Is(err, domain.ErrReportUnavailable):
		return codeReportUnavailable
	case errors.Is(err, domain.ErrGameNotFound):
		return codeNotFound
	case errors.Is(err, domain.ErrInvalidEntry):
		return codeBadRequest
	default:
		return codeInternal
	}
}
