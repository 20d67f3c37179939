package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/devconnector/devconnector-go/internal/middleware"
	"github.com/devconnector/devconnector-go/internal/model"
	"github.com/devconnector/devconnector-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.MessageResponse{Msg: msg})
}

func writeErrors(w http.ResponseWriter, status int, errs ...service.FieldError) {
	writeJSON(w, status, map[string][]service.FieldError{"errors": errs})
}

// decodeJSON reads a size-capped JSON body into dst. On failure it writes the
// response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMsg(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeErrors(w, http.StatusBadRequest, service.FieldError{Msg: "Invalid request body"})
		return false
	}
	return true
}

// currentUser returns the id stored by middleware.RequireAuth.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "No token, authorisation denied")
	}
	return id, ok
}

type errorMapping struct {
	err    error
	status int
	msg    string
	list   bool // render as {"errors":[{"msg":...}]}
}

var errorMappings = []errorMapping{
	{service.ErrUserExists, http.StatusBadRequest, "User already exists", true},
	{service.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials", true},
	{service.ErrNotAuthorized, http.StatusUnauthorized, "User not authorized", false},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found", false},
	{service.ErrProfileNotFound, http.StatusBadRequest, "There is no profile for this user", false},
	{service.ErrExperienceNotFound, http.StatusNotFound, "Experience not found", false},
	{service.ErrEducationNotFound, http.StatusNotFound, "Education not found", false},
	{service.ErrGitHubNotFound, http.StatusNotFound, "No Github profile found", false},
	{service.ErrPostNotFound, http.StatusNotFound, "Post not found", false},
	{service.ErrCommentNotFound, http.StatusNotFound, "Comment does not exist", false},
	{service.ErrAlreadyLiked, http.StatusBadRequest, "Post already liked", false},
	{service.ErrNotLiked, http.StatusBadRequest, "Post has not yet been liked", false},
}

// writeError maps a service error to its response. Anything unrecognised is
// logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeErrors(w, http.StatusBadRequest, verr.Errors...)
		return
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.list {
			writeErrors(w, m.status, service.FieldError{Msg: m.msg})
		} else {
			writeMsg(w, m.status, m.msg)
		}
		return
	}

	slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeMsg(w, http.StatusInternalServerError, "Server error")
}
