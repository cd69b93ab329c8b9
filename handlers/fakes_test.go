package handlers

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/repositories"
)

// In-memory repositories keeping insertion order, enough to drive the
// router end to end without a database.

type memoryAccounts struct {
	mu       sync.Mutex
	accounts []models.Account
}

func (m *memoryAccounts) Create(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == account.Email {
			return repositories.ErrAlreadyExists
		}
	}
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	m.accounts = append(m.accounts, *account)
	return nil
}

func (m *memoryAccounts) Get(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memoryAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memoryAccounts) ListByLeader(_ context.Context, leaderID primitive.ObjectID) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make([]models.Account, 0)
	for _, a := range m.accounts {
		if a.ReportsTo(leaderID) {
			members = append(members, a)
		}
	}
	return members, nil
}

func (m *memoryAccounts) ListByRole(_ context.Context, role models.Role) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	accounts := make([]models.Account, 0)
	for _, a := range m.accounts {
		if a.Role == role {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (m *memoryAccounts) SetVerified(_ context.Context, id primitive.ObjectID, verified bool) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.accounts {
		if m.accounts[i].ID == id {
			m.accounts[i].Verified = verified
			updated := m.accounts[i]
			return &updated, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type memoryProjects struct {
	mu       sync.Mutex
	projects []models.Project
	// unavailable makes every call fail as if the store were down.
	unavailable bool
}

func (m *memoryProjects) Create(_ context.Context, project *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return repositories.ErrUnavailable
	}
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	m.projects = append(m.projects, *project)
	return nil
}

func (m *memoryProjects) Get(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return nil, repositories.ErrUnavailable
	}
	for _, p := range m.projects {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memoryProjects) List(_ context.Context) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return nil, repositories.ErrUnavailable
	}
	projects := make([]models.Project, 0, len(m.projects))
	for i := len(m.projects) - 1; i >= 0; i-- {
		projects = append(projects, m.projects[i])
	}
	return projects, nil
}

func (m *memoryProjects) ListByMembers(_ context.Context, memberIDs []primitive.ObjectID) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return nil, repositories.ErrUnavailable
	}
	wanted := make(map[primitive.ObjectID]bool, len(memberIDs))
	for _, id := range memberIDs {
		wanted[id] = true
	}
	projects := make([]models.Project, 0)
	for _, p := range m.projects {
		if wanted[p.MemberID] {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (m *memoryProjects) Update(_ context.Context, project *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.projects {
		if m.projects[i].ID == project.ID {
			m.projects[i] = *project
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *memoryProjects) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects = append(m.projects[:i], m.projects[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

type memoryTasks struct {
	mu    sync.Mutex
	tasks []models.Task
}

func (m *memoryTasks) Create(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *memoryTasks) Get(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memoryTasks) List(_ context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(make([]models.Task, 0, len(m.tasks)), m.tasks...), nil
}

func (m *memoryTasks) ListByProjects(_ context.Context, projectIDs []primitive.ObjectID) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[primitive.ObjectID]bool, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = true
	}
	tasks := make([]models.Task, 0)
	for _, t := range m.tasks {
		if wanted[t.ProjectID] {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (m *memoryTasks) Update(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == task.ID {
			m.tasks[i] = *task
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *memoryTasks) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *memoryTasks) DeleteByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tasks[:0]
	var deleted int64
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	m.tasks = kept
	return deleted, nil
}

func (m *memoryTasks) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
