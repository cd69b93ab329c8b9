package handlers

import (
	"net/http"

	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/services"
)

type UserHandler struct {
	service *services.AccountService
}

func NewUserHandler(service *services.AccountService) *UserHandler {
	return &UserHandler{service: service}
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := decodeJSON(r, &reg); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.service.Register(r.Context(), reg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, err)
		return
	}

	token, account, err := h.service.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Account: account})
}

// ListLeaders backs the leader picker of the registration form.
func (h *UserHandler) ListLeaders(w http.ResponseWriter, r *http.Request) {
	leaders, err := h.service.ListLeaders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaders)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, err := checkRole(r)
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := h.service.GetAccount(r.Context(), principal.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
