package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/dashboard-service/logging"
	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/repositories"
)

// ProjectService owns project writes and the project-based dashboards.
// Only the owning member writes a project; leaders read through the
// ownership resolver.
type ProjectService struct {
	accounts repositories.AccountRepository
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	resolver *OwnershipResolver
}

func NewProjectService(accounts repositories.AccountRepository, projects repositories.ProjectRepository, tasks repositories.TaskRepository, resolver *OwnershipResolver) *ProjectService {
	return &ProjectService{
		accounts: accounts,
		projects: projects,
		tasks:    tasks,
		resolver: resolver,
	}
}

// CreateProject creates a project owned by memberID.
func (s *ProjectService) CreateProject(ctx context.Context, memberID string, input models.ProjectPatch) (*models.Project, error) {
	owner, err := parseID(memberID, "member")
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.Get(ctx, owner)
	if err != nil {
		return nil, storeError(err, "member")
	}
	if !account.IsMember() {
		return nil, NewError(ErrorCodeForbidden, "only members own projects")
	}

	project := input.NewProject(owner)
	project.CreatedAt = time.Now().UTC()
	project.UpdatedAt = project.CreatedAt
	if err := models.Validate(project); err != nil {
		return nil, validationError(err)
	}

	if err := s.projects.Create(ctx, &project); err != nil {
		return nil, storeError(err, "project")
	}
	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by member %s", project.ID.Hex(), memberID)
	return &project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	id, err := parseID(projectID, "project")
	if err != nil {
		return nil, err
	}
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "project")
	}
	return project, nil
}

// ListProjects returns all projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, storeError(err, "projects")
	}
	return projects, nil
}

func (s *ProjectService) ListMemberProjects(ctx context.Context, memberID string) ([]models.Project, error) {
	id, err := parseID(memberID, "member")
	if err != nil {
		return nil, err
	}
	return s.resolver.projectsOf(ctx, []primitive.ObjectID{id})
}

// MemberDashboard rolls up the member's projects and the tasks under them.
func (s *ProjectService) MemberDashboard(ctx context.Context, memberID string) (*models.MemberDashboard, error) {
	projects, err := s.ListMemberProjects(ctx, memberID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.resolver.ResolveTasksForProjects(ctx, projectIDs(projects))
	if err != nil {
		return nil, err
	}
	return &models.MemberDashboard{
		Stats:     RollupProjectStats(projects),
		TaskStats: RollupTaskStats(tasks),
	}, nil
}

// LeaderDashboard rolls up every project of the leader's members, overall
// and per creation month.
func (s *ProjectService) LeaderDashboard(ctx context.Context, leaderID string) (*models.LeaderDashboard, error) {
	members, projects, err := s.resolver.resolveLeaderScope(ctx, leaderID)
	if err != nil {
		return nil, err
	}
	return &models.LeaderDashboard{
		MemberCount: len(members),
		Stats:       RollupProjectStats(projects),
		Monthly:     RollupMonthly(projects),
	}, nil
}

func (s *ProjectService) MemberSummaries(ctx context.Context, leaderID string) ([]models.MemberSummary, error) {
	members, projects, err := s.resolver.resolveLeaderScope(ctx, leaderID)
	if err != nil {
		return nil, err
	}
	return RollupMemberSummaries(members, projects), nil
}

// UpdateProject applies the patch to a copy, validates the whole result
// and writes it in one update. A rejected patch changes nothing.
func (s *ProjectService) UpdateProject(ctx context.Context, actorID, projectID string, patch models.ProjectPatch) (*models.Project, error) {
	project, err := s.ownedProject(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*project)
	updated.UpdatedAt = time.Now().UTC()
	if err := models.Validate(updated); err != nil {
		return nil, validationError(err)
	}

	if err := s.projects.Update(ctx, &updated); err != nil {
		return nil, storeError(err, "project")
	}
	logging.Logger.Infof("Event ID: PROJECT_UPDATED, Description: Project %s updated", projectID)
	return &updated, nil
}

// DeleteProject removes the project. Its tasks are left in place unless
// cascade is set, in which case they are deleted after the project. The
// two deletes are not atomic. It returns the number of deleted tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, actorID, projectID string, cascade bool) (int64, error) {
	project, err := s.ownedProject(ctx, actorID, projectID)
	if err != nil {
		return 0, err
	}

	if err := s.projects.Delete(ctx, project.ID); err != nil {
		return 0, storeError(err, "project")
	}
	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted (cascade=%t)", projectID, cascade)
	if !cascade {
		return 0, nil
	}

	deleted, err := s.tasks.DeleteByProject(ctx, project.ID)
	if err != nil {
		logging.Logger.Errorf("Event ID: PROJECT_CASCADE_FAILED, Description: Project %s deleted but its tasks were not: %v", projectID, err)
		return 0, storeError(err, "tasks")
	}
	logging.Logger.Infof("Event ID: PROJECT_TASKS_DELETED, Description: %d tasks of project %s deleted", deleted, projectID)
	return deleted, nil
}

// ownedProject loads a project and checks that actorID owns it.
func (s *ProjectService) ownedProject(ctx context.Context, actorID, projectID string) (*models.Project, error) {
	actor, err := parseID(actorID, "account")
	if err != nil {
		return nil, err
	}
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.MemberID != actor {
		return nil, NewError(ErrorCodeForbidden, "project belongs to another member")
	}
	return project, nil
}
