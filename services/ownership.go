package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/repositories"
)

// OwnershipResolver walks leader -> members -> projects -> tasks. Each
// level is one bulk query; an empty level short-circuits the next.
type OwnershipResolver struct {
	accounts repositories.AccountRepository
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
}

func NewOwnershipResolver(accounts repositories.AccountRepository, projects repositories.ProjectRepository, tasks repositories.TaskRepository) *OwnershipResolver {
	return &OwnershipResolver{
		accounts: accounts,
		projects: projects,
		tasks:    tasks,
	}
}

// ResolveMembers returns the members reporting to leaderID in insertion
// order. A leader without members yields an empty slice.
func (r *OwnershipResolver) ResolveMembers(ctx context.Context, leaderID string) ([]models.Account, error) {
	id, err := parseID(leaderID, "leader")
	if err != nil {
		return nil, err
	}
	return r.membersOf(ctx, id)
}

func (r *OwnershipResolver) membersOf(ctx context.Context, leaderID primitive.ObjectID) ([]models.Account, error) {
	members, err := r.accounts.ListByLeader(ctx, leaderID)
	if err != nil {
		return nil, storeError(err, "members")
	}
	return members, nil
}

// ResolveProjectsForLeader returns every project owned by the leader's
// members.
func (r *OwnershipResolver) ResolveProjectsForLeader(ctx context.Context, leaderID string) ([]models.Project, error) {
	_, projects, err := r.resolveLeaderScope(ctx, leaderID)
	return projects, err
}

// resolveLeaderScope returns the members and their projects in two queries.
func (r *OwnershipResolver) resolveLeaderScope(ctx context.Context, leaderID string) ([]models.Account, []models.Project, error) {
	members, err := r.ResolveMembers(ctx, leaderID)
	if err != nil {
		return nil, nil, err
	}
	projects, err := r.projectsOf(ctx, accountIDs(members))
	if err != nil {
		return nil, nil, err
	}
	return members, projects, nil
}

func (r *OwnershipResolver) projectsOf(ctx context.Context, memberIDs []primitive.ObjectID) ([]models.Project, error) {
	if len(memberIDs) == 0 {
		return []models.Project{}, nil
	}
	projects, err := r.projects.ListByMembers(ctx, memberIDs)
	if err != nil {
		return nil, storeError(err, "projects")
	}
	return projects, nil
}

// ResolveTasksForProjects returns the tasks of the given projects.
func (r *OwnershipResolver) ResolveTasksForProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}
	tasks, err := r.tasks.ListByProjects(ctx, projectIDs)
	if err != nil {
		return nil, storeError(err, "tasks")
	}
	return tasks, nil
}

func accountIDs(accounts []models.Account) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	return ids
}

func projectIDs(projects []models.Project) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}
