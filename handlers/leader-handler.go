package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskflow-project/dashboard-service/services"
)

// LeaderHandler serves the leader dashboard. Every route is scoped to the
// {leaderId} in the path, which must be the caller.
type LeaderHandler struct {
	resolver *services.OwnershipResolver
	details  *services.MemberDetailService
	projects *services.ProjectService
	accounts *services.AccountService
}

func NewLeaderHandler(resolver *services.OwnershipResolver, details *services.MemberDetailService, projects *services.ProjectService, accounts *services.AccountService) *LeaderHandler {
	return &LeaderHandler{
		resolver: resolver,
		details:  details,
		projects: projects,
		accounts: accounts,
	}
}

func (h *LeaderHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	leaderID := mux.Vars(r)["leaderId"]
	if err := checkSelf(r, leaderID); err != nil {
		writeError(w, err)
		return
	}

	members, err := h.resolver.ResolveMembers(r.Context(), leaderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *LeaderHandler) GetMemberSummaries(w http.ResponseWriter, r *http.Request) {
	leaderID := mux.Vars(r)["leaderId"]
	if err := checkSelf(r, leaderID); err != nil {
		writeError(w, err)
		return
	}

	summaries, err := h.projects.MemberSummaries(r.Context(), leaderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *LeaderHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	leaderID := mux.Vars(r)["leaderId"]
	if err := checkSelf(r, leaderID); err != nil {
		writeError(w, err)
		return
	}

	projects, err := h.resolver.ResolveProjectsForLeader(r.Context(), leaderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *LeaderHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	leaderID := mux.Vars(r)["leaderId"]
	if err := checkSelf(r, leaderID); err != nil {
		writeError(w, err)
		return
	}

	dashboard, err := h.projects.LeaderDashboard(r.Context(), leaderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *LeaderHandler) GetMemberDetails(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := checkSelf(r, vars["leaderId"]); err != nil {
		writeError(w, err)
		return
	}

	detail, err := h.details.AssembleMemberDetailForLeader(r.Context(), vars["leaderId"], vars["memberId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *LeaderHandler) ToggleVerification(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := checkSelf(r, vars["leaderId"]); err != nil {
		writeError(w, err)
		return
	}

	member, err := h.accounts.ToggleMemberVerification(r.Context(), vars["leaderId"], vars["memberId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}
