package services

import (
	"context"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sahilm98/askora/internal/apperr"
	"github.com/sahilm98/askora/internal/db"
	"github.com/sahilm98/askora/internal/logging"
	"github.com/sahilm98/askora/internal/models"
	"github.com/sahilm98/askora/internal/storage"
)

// UserService owns public profiles, the reputation leaderboard, avatars and
// the follow graph.
type UserService struct {
	users     *mongo.Collection
	questions *mongo.Collection
	answers   *mongo.Collection
	avatars   *storage.AvatarStore
}

func NewUserService(database *mongo.Database, avatars *storage.AvatarStore) *UserService {
	return &UserService{
		users:     database.Collection(db.Users),
		questions: database.Collection(db.Questions),
		answers:   database.Collection(db.Answers),
		avatars:   avatars,
	}
}

// Profile is a public user view with activity counts.
type Profile struct {
	User          models.User `json:"user"`
	QuestionCount int64       `json:"question_count"`
	AnswerCount   int64       `json:"answer_count"`
	FollowerCount int64       `json:"follower_count"`
}

type ProfileInput struct {
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Title    *string `json:"title"`
	Location *string `json:"location"`
}

// Profile returns a user's public profile with question, answer and
// follower counts.
func (s *UserService) Profile(ctx context.Context, id string) (Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Profile{}, apperr.Invalid("invalid user ID")
	}

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return Profile{}, apperr.NotFound("user not found")
	}

	questionCount, err := s.questions.CountDocuments(ctx, bson.M{"asker": oid})
	if err != nil {
		return Profile{}, err
	}
	answerCount, err := s.answers.CountDocuments(ctx, bson.M{"answerer": oid})
	if err != nil {
		return Profile{}, err
	}
	followerCount, err := s.users.CountDocuments(ctx, bson.M{"following": oid})
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		User:          user,
		QuestionCount: questionCount,
		AnswerCount:   answerCount,
		FollowerCount: followerCount,
	}, nil
}

// Top returns the reputation leaderboard.
func (s *UserService) Top(ctx context.Context, limit int64) ([]models.User, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "reputation", Value: -1}, {Key: "created_at", Value: 1}}).
		SetLimit(limit)
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile edits the caller's own profile. A nil pointer field is left
// unchanged; an empty string clears it.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, apperr.Invalid("invalid user ID")
	}

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return models.User{}, apperr.NotFound("user not found")
	}

	set := bson.M{"updated_at": time.Now()}
	if username := strings.TrimSpace(input.Username); username != "" && username != user.Username {
		if len(username) < 3 {
			return models.User{}, apperr.Invalid("username must be at least 3 characters")
		}
		err := s.users.FindOne(ctx, bson.M{"username": username, "_id": bson.M{"$ne": oid}}).Err()
		if err == nil {
			return models.User{}, apperr.Invalid("username is already taken")
		}
		if err != mongo.ErrNoDocuments {
			return models.User{}, err
		}
		set["username"] = username
		user.Username = username
	}
	if input.Bio != nil {
		set["bio"] = *input.Bio
		user.Bio = *input.Bio
	}
	if input.Title != nil {
		set["title"] = *input.Title
		user.Title = *input.Title
	}
	if input.Location != nil {
		set["location"] = *input.Location
		user.Location = *input.Location
	}

	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UploadAvatar stores a new avatar image and points the user at it. The
// previous avatar object, if any, is removed best-effort.
func (s *UserService) UploadAvatar(ctx context.Context, userID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", apperr.Invalid("invalid user ID")
	}

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return "", apperr.NotFound("user not found")
	}

	_, url, err := s.avatars.Upload(ctx, userID, filename, r, size, contentType)
	if err != nil {
		return "", err
	}

	if _, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"avatar": url, "updated_at": time.Now()}},
	); err != nil {
		return "", err
	}

	if user.Avatar != "" {
		s.removeAvatarObject(ctx, user.Avatar)
	}
	return url, nil
}

// RemoveAvatar clears the user's avatar. A no-op when none is set.
func (s *UserService) RemoveAvatar(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.Invalid("invalid user ID")
	}

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return apperr.NotFound("user not found")
	}
	if user.Avatar == "" {
		return nil
	}

	if _, err := s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$unset": bson.M{"avatar": ""}, "$set": bson.M{"updated_at": time.Now()}},
	); err != nil {
		return err
	}

	s.removeAvatarObject(ctx, user.Avatar)
	return nil
}

// Follow adds target to the caller's following set. Following again is a
// no-op thanks to $addToSet.
func (s *UserService) Follow(ctx context.Context, userID, targetID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.Invalid("invalid user ID")
	}
	target, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return apperr.Invalid("invalid user ID")
	}
	if oid == target {
		return apperr.Invalid("you cannot follow yourself")
	}

	if err := s.users.FindOne(ctx, bson.M{"_id": target}).Err(); err != nil {
		return apperr.NotFound("user not found")
	}

	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"following": target}},
	)
	return err
}

// Unfollow removes target from the caller's following set. Unfollowing a
// user that was never followed is a no-op.
func (s *UserService) Unfollow(ctx context.Context, userID, targetID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.Invalid("invalid user ID")
	}
	target, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return apperr.Invalid("invalid user ID")
	}

	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"following": target}},
	)
	return err
}

// Following returns the users a user follows.
func (s *UserService) Following(ctx context.Context, userID string) ([]models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Invalid("invalid user ID")
	}

	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, apperr.NotFound("user not found")
	}
	if len(user.Following) == 0 {
		return []models.User{}, nil
	}

	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": user.Following}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Followers returns the users following a user.
func (s *UserService) Followers(ctx context.Context, userID string) ([]models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperr.Invalid("invalid user ID")
	}

	cursor, err := s.users.Find(ctx, bson.M{"following": oid})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) removeAvatarObject(ctx context.Context, avatarURL string) {
	objectName := storage.ObjectNameFromURL(avatarURL, s.avatars.Bucket())
	if objectName == "" {
		return
	}
	if err := s.avatars.Remove(ctx, objectName); err != nil {
		logging.Default().Warn().Err(err).Str("object", objectName).Msg("failed to remove old avatar")
	}
}
