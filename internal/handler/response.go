package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON / writeError so the API has one
// success shape and one error shape:
//
//	{"error": "not_found", "message": "show not found with id 550"}
//
// The client only ever has to look at the status code and these two fields.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/plotpocket/internal/apperror"
	"github.com/sakif/plotpocket/internal/tmdb"
)

// maxBodyBytes caps request bodies. The largest legitimate body is a login.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"` // Human-readable description
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status go out before the body; once Encode writes, header
// changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// The status is already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// errorKind maps an error to its status code and machine-readable type.
//
// errors.Is walks the whole chain, so a service error such as
//
//	fmt.Errorf("service/shows: ...: %w", apperror.Upstream(...))
//
// still matches ErrUpstream.
func errorKind(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, tmdb.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperror.ErrRateLimited):
		return http.StatusTooManyRequests, "too_many_requests"
	case errors.Is(err, apperror.ErrUpstream), tmdb.IsTransient(err), tmdb.IsStatus(err):
		return http.StatusBadGateway, "upstream_error"
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError maps a domain error to the appropriate HTTP status code and
// sends it. The service layer never picks status codes; this is the only
// place they are chosen.
//
// Only *apperror.AppError messages reach the client. Anything else gets a
// generic message: raw errors can carry SQL, file paths or upstream URLs
// with the API key in them.
func writeError(w http.ResponseWriter, err error) {
	status, kind := errorKind(err)

	var appErr *apperror.AppError
	message := "An internal error occurred"
	switch {
	case errors.As(err, &appErr):
		message = appErr.Message
	case status == http.StatusBadGateway:
		message = "the media provider is unavailable, try again later"
	case status == http.StatusNotFound:
		message = "not found"
	}

	writeJSON(w, status, ErrorResponse{Error: kind, Message: message})
}

// logError records a failed request at a level matching its status: client
// mistakes at debug, upstream trouble at warn, everything else at error.
func logError(logger *slog.Logger, r *http.Request, err error) {
	status, _ := errorKind(err)
	level := slog.LevelError
	switch {
	case status < http.StatusInternalServerError:
		level = slog.LevelDebug
	case status == http.StatusBadGateway:
		level = slog.LevelWarn
	}
	logger.Log(r.Context(), level, "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
}

// fail logs err and writes the error response.
func fail(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	logError(logger, r, err)
	writeError(w, err)
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.ValidationFailed("", "request body is empty")
		}
		return apperror.ValidationFailed("", fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}

// intParam reads a positive integer URL parameter such as {showId}.
func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed(name, fmt.Sprintf("%s must be a positive integer, got %q", name, raw))
	}
	return id, nil
}

// HandleNotFound answers unknown API routes in the standard error shape
// instead of chi's plain-text 404.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "no route for " + r.URL.Path})
}

// HandleMethodNotAllowed is the 405 counterpart of HandleNotFound.
func HandleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method_not_allowed", Message: r.Method + " is not supported on " + r.URL.Path})
}
