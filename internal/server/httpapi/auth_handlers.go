package httpapi

import (
	"errors"
	"net/http"

	"github.com/mberzins/discnote/internal/common"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if _, err := h.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		// Exact wire message for the duplicate case.
		if errors.Is(err, common.ErrUsernameTaken) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username is already taken!"})
			return
		}
		mapServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	writeJSON(w, http.StatusOK, loginResponse{Message: "Successful login", AccessToken: token, TokenType: "Bearer"})
}
