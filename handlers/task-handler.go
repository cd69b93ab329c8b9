package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type statusRequest struct {
	Status models.TaskStatus `json:"status"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	principal, err := checkRole(r, models.RoleMember)
	if err != nil {
		writeError(w, err)
		return
	}
	var input models.TaskCreate
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), principal.AccountID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.GetTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) GetTasksByProjectID(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListProjectTasks(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTasksByMemberID(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListMemberTasks(r.Context(), mux.Vars(r)["memberId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	principal, err := checkRole(r, models.RoleMember)
	if err != nil {
		writeError(w, err)
		return
	}
	var patch models.TaskPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.UpdateTask(r.Context(), principal.AccountID, mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ChangeTaskStatus(w http.ResponseWriter, r *http.Request) {
	principal, err := checkRole(r, models.RoleMember)
	if err != nil {
		writeError(w, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.UpdateTaskStatus(r.Context(), principal.AccountID, mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	principal, err := checkRole(r, models.RoleMember)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), principal.AccountID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
