package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vendorwatch/vendorwatch/internal/models"
	"github.com/vendorwatch/vendorwatch/internal/tenant"
	"github.com/vendorwatch/vendorwatch/internal/user"
)

type UserHandler struct {
	users *user.Service
}

func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	users, err := h.users.List(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeData(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	u, err := h.users.GetByID(r.Context(), p, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

type createUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	created, err := h.users.Create(r.Context(), p, user.CreateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	}, r.RemoteAddr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"isActive"`
	Password  *string `json:"password"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	updated, err := h.users.Update(r.Context(), p, id, user.UpdateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  req.IsActive,
		Password:  req.Password,
	}, r.RemoteAddr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.Delete(r.Context(), p, id, r.RemoteAddr); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted")
}
