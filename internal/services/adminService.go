package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sahilm98/askora/internal/apperr"
	"github.com/sahilm98/askora/internal/db"
	"github.com/sahilm98/askora/internal/models"
	"github.com/sahilm98/askora/internal/utils"
)

// AdminService backs the admin endpoints: user management and platform
// statistics.
type AdminService struct {
	users     *mongo.Collection
	questions *mongo.Collection
	answers   *mongo.Collection
	comments  *mongo.Collection
	votes     *mongo.Collection
}

func NewAdminService(database *mongo.Database) *AdminService {
	return &AdminService{
		users:     database.Collection(db.Users),
		questions: database.Collection(db.Questions),
		answers:   database.Collection(db.Answers),
		comments:  database.Collection(db.Comments),
		votes:     database.Collection(db.Votes),
	}
}

// Stats holds document counts per collection.
type Stats struct {
	Users     int64 `json:"users"`
	Questions int64 `json:"questions"`
	Answers   int64 `json:"answers"`
	Comments  int64 `json:"comments"`
	Votes     int64 `json:"votes"`
}

// ListUsers returns a page of all users, newest first.
func (s *AdminService) ListUsers(ctx context.Context, page, limit int64) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	total, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetUser returns a single user by ID.
func (s *AdminService) GetUser(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, apperr.Invalid("invalid user ID")
	}

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return models.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

// SetRole changes a user's role.
func (s *AdminService) SetRole(ctx context.Context, id, role string) (models.User, error) {
	if !models.ValidRole(role) {
		return models.User{}, apperr.Invalid("role must be user, expert or admin")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, apperr.Invalid("invalid user ID")
	}

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return models.User{}, apperr.NotFound("user not found")
	}

	if _, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now()}},
	); err != nil {
		return models.User{}, err
	}
	user.Role = role
	return user, nil
}

// Stats counts documents across all collections. The counts run in parallel
// since they are independent.
func (s *AdminService) Stats(ctx context.Context) (Stats, error) {
	count := func(coll *mongo.Collection) utils.ParallelTask {
		return func() (interface{}, error) {
			return coll.CountDocuments(ctx, bson.M{})
		}
	}

	results, errs := utils.RunParallelTasks([]utils.ParallelTask{
		count(s.users),
		count(s.questions),
		count(s.answers),
		count(s.comments),
		count(s.votes),
	})
	for _, err := range errs {
		if err != nil {
			return Stats{}, err
		}
	}

	return Stats{
		Users:     results[0].(int64),
		Questions: results[1].(int64),
		Answers:   results[2].(int64),
		Comments:  results[3].(int64),
		Votes:     results[4].(int64),
	}, nil
}
