package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskflow-project/dashboard-service/models"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	// List returns every project, newest first.
	List(ctx context.Context) ([]models.Project, error)
	// ListByMembers fetches the projects of all given members in one query,
	// in insertion order.
	ListByMembers(ctx context.Context, memberIDs []primitive.ObjectID) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoProjectRepository struct {
	store *Store
	col   *mongo.Collection
}

func NewMongoProjectRepository(store *Store) ProjectRepository {
	return &mongoProjectRepository{store: store, col: store.Collection(ProjectsCollection)}
}

func (r *mongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	return r.store.run(ctx, "projects.create", func(ctx context.Context) error {
		_, err := r.col.InsertOne(ctx, project)
		return err
	})
}

func (r *mongoProjectRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.store.run(ctx, "projects.get", func(ctx context.Context) error {
		return r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *mongoProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	return r.find(ctx, "projects.list", bson.M{}, bson.D{{Key: "created_at", Value: -1}})
}

func (r *mongoProjectRepository) ListByMembers(ctx context.Context, memberIDs []primitive.ObjectID) ([]models.Project, error) {
	if len(memberIDs) == 0 {
		return []models.Project{}, nil
	}
	return r.find(ctx, "projects.list_by_members",
		bson.M{"member_id": bson.M{"$in": memberIDs}},
		bson.D{{Key: "_id", Value: 1}})
}

func (r *mongoProjectRepository) find(ctx context.Context, op string, filter bson.M, sort bson.D) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	err := r.store.run(ctx, op, func(ctx context.Context) error {
		cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
		if err != nil {
			return err
		}
		return cursor.All(ctx, &projects)
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Update overwrites the mutable fields. Ownership and creation time
// never change.
func (r *mongoProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.store.run(ctx, "projects.update", func(ctx context.Context) error {
		res, err := r.col.UpdateOne(ctx, bson.M{"_id": project.ID}, bson.M{"$set": bson.M{
			"title":       project.Title,
			"description": project.Description,
			"amount":      project.Amount,
			"status":      project.Status,
			"deadline":    project.Deadline,
			"progress":    project.Progress,
			"updated_at":  project.UpdatedAt,
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

func (r *mongoProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.store.run(ctx, "projects.delete", func(ctx context.Context) error {
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
