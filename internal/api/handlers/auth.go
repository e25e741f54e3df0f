package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vendorwatch/vendorwatch/internal/auth"
	"github.com/vendorwatch/vendorwatch/internal/tenant"
	"github.com/vendorwatch/vendorwatch/internal/user"
)

type AuthHandler struct {
	users  *user.Service
	issuer *auth.TokenIssuer
}

func NewAuthHandler(users *user.Service, issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.issuer.Issue(u)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"token": token, "user": u})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	u, err := h.users.Profile(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

// Logout is stateless: tokens are not tracked server-side, the client simply
// discards its copy. The endpoint exists so clients have a uniform call.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Logged out")
}
