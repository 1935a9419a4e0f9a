// Package handler contains the HTTP layer: request parsing/validation,
// response writing, and the mapping from domain errors to status codes.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/marketplace-api/internal/apperror"
	"github.com/sakif/marketplace-api/internal/model"
)

// ErrorResponse is the standard error format returned by all API endpoints:
//
//	{"error": "not_found", "message": "product not found with id 7"}
//
// Every error — 400, 401, 404, 500 — has this shape, so clients parse one
// format.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable error kind
	Message string `json:"message"` // human-readable description
}

// ListResponse is the body of every paginated listing.
type ListResponse struct {
	Data       []model.Product  `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}

// MessageResponse is the body of operations that confirm an action rather
// than return a record (deletes, favorite add/remove).
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be set before the body — once Encode writes, they're on the
// wire.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// Services return apperror sentinels; this is the single place they become
// status codes. Anything that isn't an AppError is an internal failure: the
// cause is logged here in full and the client gets a generic message —
// raw errors can carry SQL text or file paths and never leave the process.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			// Duplicates are 400s in this API's contract, not 409s.
			status = http.StatusBadRequest
			errorType = "already_exists"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	slog.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON parses a request body into dst. A malformed body is a plain
// 400 — we don't try to classify JSON syntax errors further.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}

// validationError converts validator.ValidationErrors into the standard
// 400 response, naming the first offending field. Field names come from the
// struct, lower-cased to match the JSON keys clients sent.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		return apperror.ValidationFailed(field,
			fmt.Sprintf("%s failed validation on '%s'", field, fe.Tag()))
	}
	return apperror.ValidationFailed("body", "invalid request")
}

// pathID parses the {id} URL parameter as a positive integer.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed("id", "id must be a positive integer")
	}
	return id, nil
}

// queryInt parses an integer query parameter, returning 0 (meaning "use the
// default") when absent or malformed. Out-of-range values are clamped by
// the service, so garbage in the query string degrades gracefully instead
// of erroring.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
