package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"taskflow-project/dashboard-service/logging"
	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/services"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type deleteProjectResponse struct {
	Deleted      string `json:"deleted"`
	DeletedTasks int64  `json:"deletedTasks"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	principal, err := checkRole(r, models.RoleMember)
	if err != nil {
		writeError(w, err)
		return
	}
	var input models.ProjectPatch
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.service.CreateProject(r.Context(), principal.AccountID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.GetProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) GetMemberProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListMemberProjects(r.Context(), mux.Vars(r)["memberId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetMemberStats(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.MemberDashboard(r.Context(), mux.Vars(r)["memberId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	principal, err := checkRole(r, models.RoleMember)
	if err != nil {
		writeError(w, err)
		return
	}
	var patch models.ProjectPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.service.UpdateProject(r.Context(), principal.AccountID, mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// DeleteProject deletes only the project unless ?cascade=true is given.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	principal, err := checkRole(r, models.RoleMember)
	if err != nil {
		writeError(w, err)
		return
	}

	cascade := false
	if raw := r.URL.Query().Get("cascade"); raw != "" {
		cascade, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, services.NewError(services.ErrorCodeValidation, "cascade must be true or false"))
			return
		}
	}

	id := mux.Vars(r)["id"]
	deleted, err := h.service.DeleteProject(r.Context(), principal.AccountID, id, cascade)
	if err != nil {
		writeError(w, err)
		return
	}
	logging.Logger.Debugf("Event ID: DELETE_PROJECT_HANDLED, Description: project=%s cascade=%t tasks=%d", id, cascade, deleted)
	writeJSON(w, http.StatusOK, deleteProjectResponse{Deleted: id, DeletedTasks: deleted})
}
