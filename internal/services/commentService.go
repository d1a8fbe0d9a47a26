package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sahilm98/askora/internal/apperr"
	"github.com/sahilm98/askora/internal/db"
	"github.com/sahilm98/askora/internal/models"
)

// CommentService owns comments, which hang off either a question or an
// answer via a (target_type, target_id) pair.
type CommentService struct {
	questions *mongo.Collection
	answers   *mongo.Collection
	comments  *mongo.Collection
}

func NewCommentService(database *mongo.Database) *CommentService {
	return &CommentService{
		questions: database.Collection(db.Questions),
		answers:   database.Collection(db.Answers),
		comments:  database.Collection(db.Comments),
	}
}

// ListForTarget returns a target's comments in chronological order.
func (s *CommentService) ListForTarget(ctx context.Context, targetType, targetID string) ([]models.Comment, error) {
	oid, _, err := s.target(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	cursor, err := s.comments.Find(ctx,
		bson.M{"target_type": targetType, "target_id": oid},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// Create posts a comment on a question or answer. Comments on locked
// questions, or on answers to locked questions, are rejected.
func (s *CommentService) Create(ctx context.Context, userID, targetType, targetID, body string) (models.Comment, error) {
	author, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.Comment{}, apperr.Invalid("invalid user ID")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Comment{}, apperr.Invalid("body is required")
	}

	oid, locked, err := s.target(ctx, targetType, targetID)
	if err != nil {
		return models.Comment{}, err
	}
	if locked {
		return models.Comment{}, apperr.Forbidden("question is locked")
	}

	now := time.Now()
	comment := models.Comment{
		ID:         primitive.NewObjectID(),
		TargetType: targetType,
		TargetID:   oid,
		Author:     author,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.comments.InsertOne(ctx, comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// Update edits a comment's body. Only the author or an admin may edit.
func (s *CommentService) Update(ctx context.Context, id, userID, role, body string) (models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Comment{}, apperr.Invalid("body is required")
	}

	comment, err := s.ownedComment(ctx, id, userID, role)
	if err != nil {
		return models.Comment{}, err
	}

	now := time.Now()
	if _, err := s.comments.UpdateOne(ctx,
		bson.M{"_id": comment.ID},
		bson.M{"$set": bson.M{"body": body, "updated_at": now}},
	); err != nil {
		return models.Comment{}, err
	}
	comment.Body = body
	comment.UpdatedAt = now
	return comment, nil
}

// Delete removes a comment. Only the author or an admin may delete.
func (s *CommentService) Delete(ctx context.Context, id, userID, role string) error {
	comment, err := s.ownedComment(ctx, id, userID, role)
	if err != nil {
		return err
	}
	_, err = s.comments.DeleteOne(ctx, bson.M{"_id": comment.ID})
	return err
}

// target resolves a (type, id) pair to the target's ObjectID and whether its
// question is locked. For answers the lock state comes from the parent
// question.
func (s *CommentService) target(ctx context.Context, targetType, targetID string) (primitive.ObjectID, bool, error) {
	if !models.ValidTarget(targetType) {
		return primitive.NilObjectID, false, apperr.Invalid("target_type must be question or answer")
	}
	oid, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return primitive.NilObjectID, false, apperr.Invalid("invalid target ID")
	}

	switch targetType {
	case models.TargetQuestion:
		var question models.Question
		if err := s.questions.FindOne(ctx, bson.M{"_id": oid}).Decode(&question); err != nil {
			return primitive.NilObjectID, false, apperr.NotFound("question not found")
		}
		return question.ID, question.IsLocked, nil
	default:
		var answer models.Answer
		if err := s.answers.FindOne(ctx, bson.M{"_id": oid}).Decode(&answer); err != nil {
			return primitive.NilObjectID, false, apperr.NotFound("answer not found")
		}
		var question models.Question
		if err := s.questions.FindOne(ctx, bson.M{"_id": answer.QuestionID}).Decode(&question); err != nil {
			return primitive.NilObjectID, false, apperr.NotFound("question not found")
		}
		return answer.ID, question.IsLocked, nil
	}
}

func (s *CommentService) ownedComment(ctx context.Context, id, userID, role string) (models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Comment{}, apperr.Invalid("invalid comment ID")
	}

	var comment models.Comment
	if err := s.comments.FindOne(ctx, bson.M{"_id": oid}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Comment{}, apperr.NotFound("comment not found")
		}
		return models.Comment{}, err
	}
	if comment.Author.Hex() != userID && role != models.RoleAdmin {
		return models.Comment{}, apperr.Forbidden("you can only modify your own comments")
	}
	return comment, nil
}
