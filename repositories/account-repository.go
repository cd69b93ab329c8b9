package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskflow-project/dashboard-service/models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// ListByLeader returns the members reporting to leaderID in insertion order.
	ListByLeader(ctx context.Context, leaderID primitive.ObjectID) ([]models.Account, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.Account, error)
	SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) (*models.Account, error)
}

type mongoAccountRepository struct {
	store *Store
	col   *mongo.Collection
}

func NewMongoAccountRepository(store *Store) AccountRepository {
	return &mongoAccountRepository{store: store, col: store.Collection(AccountsCollection)}
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	return r.store.run(ctx, "accounts.create", func(ctx context.Context) error {
		_, err := r.col.InsertOne(ctx, account)
		return err
	})
}

func (r *mongoAccountRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	return r.findOne(ctx, "accounts.get", bson.M{"_id": id})
}

func (r *mongoAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, "accounts.get_by_email", bson.M{"email": email})
}

func (r *mongoAccountRepository) findOne(ctx context.Context, op string, filter bson.M) (*models.Account, error) {
	var account models.Account
	err := r.store.run(ctx, op, func(ctx context.Context) error {
		return r.col.FindOne(ctx, filter).Decode(&account)
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *mongoAccountRepository) ListByLeader(ctx context.Context, leaderID primitive.ObjectID) ([]models.Account, error) {
	return r.find(ctx, "accounts.list_by_leader", bson.M{"leader_id": leaderID, "role": models.RoleMember})
}

func (r *mongoAccountRepository) ListByRole(ctx context.Context, role models.Role) ([]models.Account, error) {
	return r.find(ctx, "accounts.list_by_role", bson.M{"role": role})
}

func (r *mongoAccountRepository) find(ctx context.Context, op string, filter bson.M) ([]models.Account, error) {
	accounts := make([]models.Account, 0)
	err := r.store.run(ctx, op, func(ctx context.Context) error {
		cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return err
		}
		return cursor.All(ctx, &accounts)
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *mongoAccountRepository) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) (*models.Account, error) {
	var account models.Account
	err := r.store.run(ctx, "accounts.set_verified", func(ctx context.Context) error {
		return r.col.FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"verified": verified}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&account)
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}
