package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskflow-project/dashboard-service/models"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	// ListByProjects fetches the tasks of all given projects in one query,
	// in insertion order.
	ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
}

type mongoTaskRepository struct {
	store *Store
	col   *mongo.Collection
}

func NewMongoTaskRepository(store *Store) TaskRepository {
	return &mongoTaskRepository{store: store, col: store.Collection(TasksCollection)}
}

func (r *mongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	return r.store.run(ctx, "tasks.create", func(ctx context.Context) error {
		_, err := r.col.InsertOne(ctx, task)
		return err
	})
}

func (r *mongoTaskRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.store.run(ctx, "tasks.get", func(ctx context.Context) error {
		return r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *mongoTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	return r.find(ctx, "tasks.list", bson.M{})
}

func (r *mongoTaskRepository) ListByProjects(ctx context.Context, projectIDs []primitive.ObjectID) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}
	return r.find(ctx, "tasks.list_by_projects", bson.M{"project_id": bson.M{"$in": projectIDs}})
}

func (r *mongoTaskRepository) find(ctx context.Context, op string, filter bson.M) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := r.store.run(ctx, op, func(ctx context.Context) error {
		cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return err
		}
		return cursor.All(ctx, &tasks)
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *mongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.store.run(ctx, "tasks.update", func(ctx context.Context) error {
		res, err := r.col.UpdateOne(ctx, bson.M{"_id": task.ID}, bson.M{"$set": bson.M{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"deadline":    task.Deadline,
			"updated_at":  task.UpdatedAt,
		}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
}

func (r *mongoTaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.store.run(ctx, "tasks.delete", func(ctx context.Context) error {
		res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
}

func (r *mongoTaskRepository) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	var deleted int64
	err := r.store.run(ctx, "tasks.delete_by_project", func(ctx context.Context) error {
		res, err := r.col.DeleteMany(ctx, bson.M{"project_id": projectID})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	return deleted, err
}
