package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/services"
	"taskflow-project/dashboard-service/utils"
)

const testPassword = "password123"

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testEnv struct {
	router   http.Handler
	accounts *memoryAccounts
	projects *memoryProjects
	tasks    *memoryTasks
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		accounts: &memoryAccounts{},
		projects: &memoryProjects{},
		tasks:    &memoryTasks{},
	}

	tokens := utils.NewTokenManager("test-secret", time.Hour)
	resolver := services.NewOwnershipResolver(env.accounts, env.projects, env.tasks)
	notifications := services.NewNotificationService(nil)
	accountService := services.NewAccountService(env.accounts, tokens).WithNotifier(notifications)
	projectService := services.NewProjectService(env.accounts, env.projects, env.tasks, resolver)

	health, err := NewHealthHandler("test", HealthCheck{
		Name:  "mongodb",
		Store: pingFunc(func(context.Context) error { return nil }),
	})
	require.NoError(t, err)

	env.router = NewRouter(Handlers{
		Users:         NewUserHandler(accountService),
		Leaders:       NewLeaderHandler(resolver, services.NewMemberDetailService(env.accounts, resolver), projectService, accountService),
		Projects:      NewProjectHandler(projectService),
		Tasks:         NewTaskHandler(services.NewTaskService(env.projects, env.tasks, resolver)),
		Notifications: NewNotificationHandler(notifications),
		Health:        health,
	}, tokens, "*")
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode[struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}](t, rec)
	return body.Error.Code
}

// register creates an account and logs it in.
func (e *testEnv) register(t *testing.T, name, role, leaderID string) (models.Account, string) {
	t.Helper()
	email := name + "@example.com"
	rec := e.do(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name":      name,
		"email":     email,
		"password":  testPassword,
		"role":      role,
		"leader_id": leaderID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	account := decode[models.Account](t, rec)

	rec = e.do(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return account, decode[loginResponse](t, rec).Token
}

func (e *testEnv) createProject(t *testing.T, token string, amount float64, status models.ProjectStatus, progress int) models.Project {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"title":    "project",
		"amount":   amount,
		"status":   status,
		"progress": progress,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Project](t, rec)
}

func (e *testEnv) createTask(t *testing.T, token string, projectID primitive.ObjectID) models.Task {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"project_id": projectID.Hex(),
		"title":      "task",
		"deadline":   "2026-12-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Task](t, rec)
}

func TestRouter_LeaderDashboard(t *testing.T) {
	env := newTestEnv(t)
	l1, l1Token := env.register(t, "l1", "Leader", "")
	l2, _ := env.register(t, "l2", "leader", "")
	_, m1Token := env.register(t, "m1", "Member", l1.ID.Hex())
	_, m2Token := env.register(t, "m2", "member", l1.ID.Hex())
	_, m3Token := env.register(t, "m3", "Member", l2.ID.Hex())

	env.createProject(t, m1Token, 100, models.ProjectCompleted, 100)
	env.createProject(t, m1Token, 50, models.ProjectPending, 0)
	env.createProject(t, m2Token, 200, models.ProjectInProgress, 40)
	env.createProject(t, m3Token, 999, models.ProjectCompleted, 100)

	rec := env.do(t, http.MethodGet, "/api/leader/"+l1.ID.Hex()+"/stats", l1Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dashboard := decode[models.LeaderDashboard](t, rec)
	assert.Equal(t, 2, dashboard.MemberCount)
	assert.Equal(t, 3, dashboard.Stats.TotalCount)
	assert.Equal(t, 350.0, dashboard.Stats.TotalAmount)
	assert.Equal(t, 100.0, dashboard.Stats.CompletedAmount)
	assert.Equal(t, 250.0, dashboard.Stats.PendingAmount)
	assert.Equal(t, 47, dashboard.Stats.AverageProgress)
	assert.Equal(t, 33, dashboard.Stats.CompletionRate)

	rec = env.do(t, http.MethodGet, "/api/leader/"+l1.ID.Hex()+"/projects", l1Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Project](t, rec), 3)

	rec = env.do(t, http.MethodGet, "/api/leader/"+l1.ID.Hex()+"/members", l1Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Account](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/api/leader/"+l1.ID.Hex()+"/members/stats", l1Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summaries := decode[[]models.MemberSummary](t, rec)
	require.Len(t, summaries, 2)
	assert.Equal(t, 150.0, summaries[0].TotalAmount)
	assert.Equal(t, 200.0, summaries[1].TotalAmount)
}

func TestRouter_LeaderWithoutMembersGetsEmptyResults(t *testing.T) {
	env := newTestEnv(t)
	leader, token := env.register(t, "lonely", "Leader", "")

	rec := env.do(t, http.MethodGet, "/api/leader/"+leader.ID.Hex()+"/projects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/leader/"+leader.ID.Hex()+"/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dashboard := decode[models.LeaderDashboard](t, rec)
	assert.Equal(t, models.ProjectStats{}, dashboard.Stats)
	assert.Zero(t, dashboard.MemberCount)
}

func TestRouter_LeaderRoutesAreScopedToCaller(t *testing.T) {
	env := newTestEnv(t)
	l1, _ := env.register(t, "l1", "Leader", "")
	l2, l2Token := env.register(t, "l2", "Leader", "")
	m1, m1Token := env.register(t, "m1", "Member", l1.ID.Hex())

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/api/leader/" + l1.ID.Hex() + "/projects", "", http.StatusUnauthorized},
		{"member token", "/api/leader/" + l1.ID.Hex() + "/projects", m1Token, http.StatusForbidden},
		{"other leader", "/api/leader/" + l1.ID.Hex() + "/projects", l2Token, http.StatusForbidden},
		{"member of other leader", "/api/leader/" + l2.ID.Hex() + "/members/" + m1.ID.Hex() + "/details", l2Token, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_MemberDetails(t *testing.T) {
	env := newTestEnv(t)
	leader, leaderToken := env.register(t, "l1", "Leader", "")
	member, memberToken := env.register(t, "m1", "Member", leader.ID.Hex())

	first := env.createProject(t, memberToken, 100, models.ProjectCompleted, 100)
	second := env.createProject(t, memberToken, 50, models.ProjectPending, 0)
	env.createTask(t, memberToken, second.ID)
	env.createTask(t, memberToken, first.ID)

	rec := env.do(t, http.MethodGet, "/api/leader/"+leader.ID.Hex()+"/members/"+member.ID.Hex()+"/details", leaderToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := decode[models.MemberDetail](t, rec)
	assert.Equal(t, member.ID, detail.Member.ID)
	assert.Len(t, detail.Projects, 2)
	require.Len(t, detail.Tasks, 2)
	assert.Equal(t, first.ID, detail.Tasks[0].ProjectID)
	assert.Equal(t, second.ID, detail.Tasks[1].ProjectID)
	assert.Equal(t, 2, detail.Stats.TotalCount)
	assert.Equal(t, 2, detail.TaskStats.TotalCount)

	rec = env.do(t, http.MethodGet, "/api/leader/"+leader.ID.Hex()+"/members/"+leader.ID.Hex()+"/details", leaderToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ToggleVerificationTwice(t *testing.T) {
	env := newTestEnv(t)
	leader, leaderToken := env.register(t, "l1", "Leader", "")
	member, _ := env.register(t, "m1", "Member", leader.ID.Hex())
	path := "/api/leader/" + leader.ID.Hex() + "/members/" + member.ID.Hex() + "/verification"

	rec := env.do(t, http.MethodPatch, path, leaderToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[models.Account](t, rec).Verified)

	rec = env.do(t, http.MethodPatch, path, leaderToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[models.Account](t, rec).Verified)
}

func TestRouter_DeleteProject(t *testing.T) {
	env := newTestEnv(t)
	leader, _ := env.register(t, "l1", "Leader", "")
	_, memberToken := env.register(t, "m1", "Member", leader.ID.Hex())

	orphaned := env.createProject(t, memberToken, 10, models.ProjectPending, 0)
	orphan := env.createTask(t, memberToken, orphaned.ID)
	cascaded := env.createProject(t, memberToken, 20, models.ProjectPending, 0)
	env.createTask(t, memberToken, cascaded.ID)
	env.createTask(t, memberToken, cascaded.ID)

	rec := env.do(t, http.MethodDelete, "/api/projects/"+orphaned.ID.Hex(), memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(0), decode[deleteProjectResponse](t, rec).DeletedTasks)
	assert.Equal(t, 3, env.tasks.count())

	rec = env.do(t, http.MethodGet, "/api/tasks/"+orphan.ID.Hex(), memberToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPatch, "/api/tasks/"+orphan.ID.Hex()+"/status", memberToken, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/projects/"+cascaded.ID.Hex()+"?cascade=maybe", memberToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/projects/"+cascaded.ID.Hex()+"?cascade=true", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(2), decode[deleteProjectResponse](t, rec).DeletedTasks)
	assert.Equal(t, 1, env.tasks.count())

	rec = env.do(t, http.MethodDelete, "/api/projects/"+cascaded.ID.Hex(), memberToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_TaskStatus(t *testing.T) {
	env := newTestEnv(t)
	leader, _ := env.register(t, "l1", "Leader", "")
	_, ownerToken := env.register(t, "m1", "Member", leader.ID.Hex())
	_, otherToken := env.register(t, "m2", "Member", leader.ID.Hex())
	project := env.createProject(t, ownerToken, 10, models.ProjectPending, 0)
	task := env.createTask(t, ownerToken, project.ID)
	path := "/api/tasks/" + task.ID.Hex() + "/status"

	rec := env.do(t, http.MethodPatch, path, ownerToken, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.TaskCompleted, decode[models.Task](t, rec).Status)

	rec = env.do(t, http.MethodPatch, path, ownerToken, map[string]string{"status": "pending"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.TaskPending, decode[models.Task](t, rec).Status)

	rec = env.do(t, http.MethodPatch, path, ownerToken, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	rec = env.do(t, http.MethodPatch, path, otherToken, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/tasks/member/"+project.MemberID.Hex(), otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Task](t, rec), 1)
}

func TestRouter_ErrorMapping(t *testing.T) {
	env := newTestEnv(t)
	leader, leaderToken := env.register(t, "l1", "Leader", "")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		code   string
	}{
		{"malformed id", http.MethodGet, "/api/projects/not-an-id", leaderToken, nil, http.StatusBadRequest, "INVALID_IDENTIFIER"},
		{"missing project", http.MethodGet, "/api/projects/" + primitive.NewObjectID().Hex(), leaderToken, nil, http.StatusNotFound, "NOT_FOUND"},
		{"duplicate email", http.MethodPost, "/api/users/register", "", map[string]string{
			"name": "again", "email": "L1@example.com", "password": testPassword, "role": "Leader",
		}, http.StatusConflict, "CONFLICT"},
		{"unknown role", http.MethodPost, "/api/users/register", "", `{"name":"x","email":"x@example.com","password":"password123","role":"Admin"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrong password", http.MethodPost, "/api/users/login", "", map[string]string{"email": "l1@example.com", "password": "wrong-password"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"leader cannot create projects", http.MethodPost, "/api/projects", leaderToken, map[string]any{"title": "p"}, http.StatusForbidden, "FORBIDDEN"},
		{"malformed body", http.MethodPost, "/api/users/login", "", `{"email":`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"notifications disabled", http.MethodGet, "/api/notifications", leaderToken, nil, http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{"malformed member id", http.MethodGet, "/api/leader/" + leader.ID.Hex() + "/members/xyz/details", leaderToken, nil, http.StatusBadRequest, "INVALID_IDENTIFIER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestRouter_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "l1", "Leader", "")
	env.projects.unavailable = true

	rec := env.do(t, http.MethodGet, "/api/projects", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", errorCode(t, rec))
}

func TestRouter_MeAndLeaders(t *testing.T) {
	env := newTestEnv(t)
	leader, token := env.register(t, "l1", "Leader", "")
	env.register(t, "m1", "Member", leader.ID.Hex())

	rec := env.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[models.Account](t, rec)
	assert.Equal(t, leader.ID, me.ID)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(t, http.MethodGet, "/api/users/leaders", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	leaders := decode[[]models.Account](t, rec)
	require.Len(t, leaders, 1)
	assert.Equal(t, leader.ID, leaders[0].ID)
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
}
