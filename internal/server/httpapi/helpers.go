package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mberzins/discnote/internal/common"
	"github.com/mberzins/discnote/internal/server/models"
)

const (
	defaultPageNo   = 1
	defaultPageSize = 10
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

// extractToken pulls the bearer token out of the Authorization header.
// Returns "" when no credential was presented.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// pagingParams reads pageNo/pageSize from the query string, applying
// defaults when absent. Range checks happen in the service layer.
func pagingParams(r *http.Request) (int, int, error) {
	pageNo, err := queryInt(r, "pageNo", defaultPageNo)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := queryInt(r, "pageSize", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return pageNo, pageSize, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}

// mapServiceError translates the service error taxonomy onto HTTP status
// codes and writes the response.
func mapServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, common.ErrAuthentication),
		errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrUnknownSubject):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, common.ErrNotOwner):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, common.ErrUserNotFound), errors.Is(err, common.ErrReviewNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusInternalServerError, common.ErrInternal)
	}
}

// authorize resolves the caller from the request's bearer token.
func (h *Handler) authorize(r *http.Request) (*models.User, error) {
	return h.auth.Authorize(r.Context(), extractToken(r))
}
