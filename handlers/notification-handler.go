package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskflow-project/dashboard-service/services"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	principal, err := checkRole(r)
	if err != nil {
		writeError(w, err)
		return
	}

	notifications, err := h.service.ListNotifications(r.Context(), principal.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkAsRead only touches the caller's own notifications.
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	principal, err := checkRole(r)
	if err != nil {
		writeError(w, err)
		return
	}

	vars := mux.Vars(r)
	if err := h.service.MarkAsRead(r.Context(), principal.AccountID, vars["createdAt"], vars["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}
