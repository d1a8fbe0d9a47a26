package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sahilm98/askora/internal/logging"
)

// Collection names used across the service layer.
const (
	Users     = "users"
	Questions = "questions"
	Answers   = "answers"
	Comments  = "comments"
	Votes     = "votes"
)

// MongoDB connection instance
var MongoClient *mongo.Client

// ConnectMongoDB initializes the database connection and returns a handle to
// the named database. The process exits if the server cannot be reached.
func ConnectMongoDB(uri, dbName string) *mongo.Database {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logging.Default().Fatal().Err(err).Msg("MongoDB connection failed")
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		logging.Default().Fatal().Err(err).Msg("MongoDB ping failed")
	}

	logging.Default().Info().Str("db", dbName).Msg("connected to MongoDB")
	MongoClient = client
	return client.Database(dbName)
}

// Ping verifies the connection is still alive. Used by the health endpoint.
func Ping(ctx context.Context) error {
	return MongoClient.Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the data model relies on. The unique
// compound index on votes is what keeps a user to a single vote per target.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(Users).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection(Votes).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user", Value: 1},
				{Key: "target_type", Value: 1},
				{Key: "target_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection(Questions).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "asker", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection(Answers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "question_id", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection(Comments).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "target_type", Value: 1},
			{Key: "target_id", Value: 1},
		}},
	})
	return err
}
