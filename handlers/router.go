package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskflow-project/dashboard-service/middleware"
	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/utils"
)

// Handlers groups everything the router dispatches to. Health may be nil.
type Handlers struct {
	Users         *UserHandler
	Leaders       *LeaderHandler
	Projects      *ProjectHandler
	Tasks         *TaskHandler
	Notifications *NotificationHandler
	Health        http.Handler
}

// NewRouter registers every route. Static segments such as /member/ are
// registered before /{id} so they are not captured as ids.
func NewRouter(h Handlers, tokens *utils.TokenManager, corsOrigin string) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)

	if h.Health != nil {
		r.Handle("/health", h.Health).Methods(http.MethodGet)
	}

	users := r.PathPrefix("/api/users").Subrouter()
	users.HandleFunc("/register", h.Users.Register).Methods(http.MethodPost)
	users.HandleFunc("/login", h.Users.Login).Methods(http.MethodPost)
	users.HandleFunc("/leaders", h.Users.ListLeaders).Methods(http.MethodGet)
	users.Handle("/me", middleware.Auth(tokens)(http.HandlerFunc(h.Users.Me))).Methods(http.MethodGet)

	leaders := r.PathPrefix("/api/leader/{leaderId}").Subrouter()
	leaders.Use(middleware.Auth(tokens, models.RoleLeader))
	leaders.HandleFunc("/members", h.Leaders.GetMembers).Methods(http.MethodGet)
	leaders.HandleFunc("/members/stats", h.Leaders.GetMemberSummaries).Methods(http.MethodGet)
	leaders.HandleFunc("/members/{memberId}/details", h.Leaders.GetMemberDetails).Methods(http.MethodGet)
	leaders.HandleFunc("/members/{memberId}/verification", h.Leaders.ToggleVerification).Methods(http.MethodPatch)
	leaders.HandleFunc("/projects", h.Leaders.GetProjects).Methods(http.MethodGet)
	leaders.HandleFunc("/stats", h.Leaders.GetStats).Methods(http.MethodGet)

	projects := r.PathPrefix("/api/projects").Subrouter()
	projects.Use(middleware.Auth(tokens))
	projects.HandleFunc("", h.Projects.ListProjects).Methods(http.MethodGet)
	projects.HandleFunc("", h.Projects.CreateProject).Methods(http.MethodPost)
	projects.HandleFunc("/member/{memberId}", h.Projects.GetMemberProjects).Methods(http.MethodGet)
	projects.HandleFunc("/member/{memberId}/stats", h.Projects.GetMemberStats).Methods(http.MethodGet)
	projects.HandleFunc("/{id}", h.Projects.GetProjectByID).Methods(http.MethodGet)
	projects.HandleFunc("/{id}", h.Projects.UpdateProject).Methods(http.MethodPut)
	projects.HandleFunc("/{id}", h.Projects.DeleteProject).Methods(http.MethodDelete)

	tasks := r.PathPrefix("/api/tasks").Subrouter()
	tasks.Use(middleware.Auth(tokens))
	tasks.HandleFunc("", h.Tasks.GetAllTasks).Methods(http.MethodGet)
	tasks.HandleFunc("", h.Tasks.CreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("/project/{projectId}", h.Tasks.GetTasksByProjectID).Methods(http.MethodGet)
	tasks.HandleFunc("/member/{memberId}", h.Tasks.GetTasksByMemberID).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", h.Tasks.GetTaskByID).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", h.Tasks.UpdateTask).Methods(http.MethodPut)
	tasks.HandleFunc("/{id}/status", h.Tasks.ChangeTaskStatus).Methods(http.MethodPatch)
	tasks.HandleFunc("/{id}", h.Tasks.DeleteTask).Methods(http.MethodDelete)

	notifications := r.PathPrefix("/api/notifications").Subrouter()
	notifications.Use(middleware.Auth(tokens))
	notifications.HandleFunc("", h.Notifications.GetNotifications).Methods(http.MethodGet)
	notifications.HandleFunc("/{createdAt}/{id}/read", h.Notifications.MarkAsRead).Methods(http.MethodPut)

	return middleware.CORS(corsOrigin)(r)
}
