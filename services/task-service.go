package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/dashboard-service/logging"
	"taskflow-project/dashboard-service/models"
	"taskflow-project/dashboard-service/repositories"
)

// TaskService writes tasks on behalf of the member owning their project.
type TaskService struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	resolver *OwnershipResolver
}

func NewTaskService(projects repositories.ProjectRepository, tasks repositories.TaskRepository, resolver *OwnershipResolver) *TaskService {
	return &TaskService{
		projects: projects,
		tasks:    tasks,
		resolver: resolver,
	}
}

// CreateTask adds a task to a project owned by actorID.
func (s *TaskService) CreateTask(ctx context.Context, actorID string, input models.TaskCreate) (*models.Task, error) {
	actor, err := parseID(actorID, "account")
	if err != nil {
		return nil, err
	}
	projectID, err := parseID(input.ProjectID, "project")
	if err != nil {
		return nil, err
	}
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, storeError(err, "project")
	}
	if project.MemberID != actor {
		return nil, NewError(ErrorCodeForbidden, "project belongs to another member")
	}

	task := input.NewTask(projectID)
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt
	if err := models.Validate(task); err != nil {
		return nil, validationError(err)
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, storeError(err, "task")
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s", task.ID.Hex(), input.ProjectID)
	return &task, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	id, err := parseID(taskID, "task")
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "task")
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, storeError(err, "tasks")
	}
	return tasks, nil
}

// ListProjectTasks also answers for deleted projects, returning the
// tasks left behind by a non-cascading delete.
func (s *TaskService) ListProjectTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	id, err := parseID(projectID, "project")
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveTasksForProjects(ctx, []primitive.ObjectID{id})
}

// ListMemberTasks returns the tasks of all projects owned by memberID.
func (s *TaskService) ListMemberTasks(ctx context.Context, memberID string) ([]models.Task, error) {
	id, err := parseID(memberID, "member")
	if err != nil {
		return nil, err
	}
	projects, err := s.resolver.projectsOf(ctx, []primitive.ObjectID{id})
	if err != nil {
		return nil, err
	}
	tasks, err := s.resolver.ResolveTasksForProjects(ctx, projectIDs(projects))
	if err != nil {
		return nil, err
	}
	return groupTasksByProject(projects, tasks), nil
}

// UpdateTask applies the patch to a copy and validates the whole task
// before writing.
func (s *TaskService) UpdateTask(ctx context.Context, actorID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.ownedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*task)
	updated.UpdatedAt = time.Now().UTC()
	if err := models.Validate(updated); err != nil {
		return nil, validationError(err)
	}

	if err := s.tasks.Update(ctx, &updated); err != nil {
		return nil, storeError(err, "task")
	}
	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated", taskID)
	return &updated, nil
}

// UpdateTaskStatus writes any of the three statuses directly. Moving
// backwards, e.g. completed to pending, is allowed.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, actorID, taskID string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, NewError(ErrorCodeValidation, "status must be one of pending, in_progress, completed")
	}
	return s.UpdateTask(ctx, actorID, taskID, models.TaskPatch{Status: &status})
}

func (s *TaskService) DeleteTask(ctx context.Context, actorID, taskID string) error {
	task, err := s.ownedTask(ctx, actorID, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return storeError(err, "task")
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", taskID)
	return nil
}

// ownedTask loads a task and checks that actorID owns its project. Tasks
// orphaned by a project delete have no owner and cannot be written.
func (s *TaskService) ownedTask(ctx context.Context, actorID, taskID string) (*models.Task, error) {
	actor, err := parseID(actorID, "account")
	if err != nil {
		return nil, err
	}
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.Get(ctx, task.ProjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewError(ErrorCodeForbidden, "task's project no longer exists")
		}
		return nil, storeError(err, "project")
	}
	if project.MemberID != actor {
		return nil, NewError(ErrorCodeForbidden, "task belongs to another member")
	}
	return task, nil
}
