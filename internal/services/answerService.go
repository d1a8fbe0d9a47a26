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

// AnswerService owns answers beneath questions, including the expert
// verification flag.
type AnswerService struct {
	questions *mongo.Collection
	answers   *mongo.Collection
	comments  *mongo.Collection
	votes     *mongo.Collection
	users     *mongo.Collection
}

func NewAnswerService(database *mongo.Database) *AnswerService {
	return &AnswerService{
		questions: database.Collection(db.Questions),
		answers:   database.Collection(db.Answers),
		comments:  database.Collection(db.Comments),
		votes:     database.Collection(db.Votes),
		users:     database.Collection(db.Users),
	}
}

// ListForQuestion returns a question's answers, accepted answer first, then
// by vote count, then newest.
func (s *AnswerService) ListForQuestion(ctx context.Context, questionID string) ([]models.Answer, error) {
	oid, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return nil, apperr.Invalid("invalid question ID")
	}
	if err := s.questions.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
		return nil, apperr.NotFound("question not found")
	}

	sort := bson.D{
		{Key: "is_accepted", Value: -1},
		{Key: "votes", Value: -1},
		{Key: "created_at", Value: -1},
	}
	cursor, err := s.answers.Find(ctx, bson.M{"question_id": oid}, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []models.Answer
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// Create posts an answer to an open question.
func (s *AnswerService) Create(ctx context.Context, questionID, answererID, body string) (models.Answer, error) {
	questionOID, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return models.Answer{}, apperr.Invalid("invalid question ID")
	}
	answerer, err := primitive.ObjectIDFromHex(answererID)
	if err != nil {
		return models.Answer{}, apperr.Invalid("invalid user ID")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Answer{}, apperr.Invalid("body is required")
	}

	var question models.Question
	if err := s.questions.FindOne(ctx, bson.M{"_id": questionOID}).Decode(&question); err != nil {
		return models.Answer{}, apperr.NotFound("question not found")
	}
	if question.IsLocked {
		return models.Answer{}, apperr.Forbidden("question is locked")
	}

	now := time.Now()
	answer := models.Answer{
		ID:         primitive.NewObjectID(),
		QuestionID: question.ID,
		Answerer:   answerer,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.answers.InsertOne(ctx, answer); err != nil {
		return models.Answer{}, err
	}
	return answer, nil
}

// Update edits an answer's body. Only the answerer or an admin may edit, and
// locked questions are admin-only.
func (s *AnswerService) Update(ctx context.Context, id, userID, role, body string) (models.Answer, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Answer{}, apperr.Invalid("body is required")
	}

	answer, _, err := s.ownedAnswer(ctx, id, userID, role)
	if err != nil {
		return models.Answer{}, err
	}

	now := time.Now()
	if _, err := s.answers.UpdateOne(ctx,
		bson.M{"_id": answer.ID},
		bson.M{"$set": bson.M{"body": body, "updated_at": now}},
	); err != nil {
		return models.Answer{}, err
	}
	answer.Body = body
	answer.UpdatedAt = now
	return answer, nil
}

// Delete removes an answer along with its comments and votes. If the answer
// was accepted, the question's pointer is cleared and the accept bonus
// reversed.
func (s *AnswerService) Delete(ctx context.Context, id, userID, role string) error {
	answer, question, err := s.ownedAnswer(ctx, id, userID, role)
	if err != nil {
		return err
	}

	if answer.IsAccepted {
		if _, err := s.questions.UpdateOne(ctx,
			bson.M{"_id": question.ID, "accepted_answer": answer.ID},
			bson.M{"$unset": bson.M{"accepted_answer": ""}},
		); err != nil {
			return err
		}
		if _, err := s.users.UpdateOne(ctx,
			bson.M{"_id": answer.Answerer},
			bson.M{"$inc": bson.M{"reputation": -repAccepted}},
		); err != nil {
			return err
		}
	}

	if _, err := s.comments.DeleteMany(ctx, bson.M{"target_type": models.TargetAnswer, "target_id": answer.ID}); err != nil {
		return err
	}
	if _, err := s.votes.DeleteMany(ctx, bson.M{"target_type": models.TargetAnswer, "target_id": answer.ID}); err != nil {
		return err
	}
	_, err = s.answers.DeleteOne(ctx, bson.M{"_id": answer.ID})
	return err
}

// Verify marks an answer as verified by an expert. Verifying an already
// verified answer is a no-op.
func (s *AnswerService) Verify(ctx context.Context, id, verifierID string) (models.Answer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Answer{}, apperr.Invalid("invalid answer ID")
	}
	verifier, err := primitive.ObjectIDFromHex(verifierID)
	if err != nil {
		return models.Answer{}, apperr.Invalid("invalid user ID")
	}

	var answer models.Answer
	if err := s.answers.FindOne(ctx, bson.M{"_id": oid}).Decode(&answer); err != nil {
		return models.Answer{}, apperr.NotFound("answer not found")
	}
	if answer.IsVerified {
		return answer, nil
	}

	now := time.Now()
	if _, err := s.answers.UpdateOne(ctx,
		bson.M{"_id": answer.ID},
		bson.M{"$set": bson.M{"is_verified": true, "verified_by": verifier, "updated_at": now}},
	); err != nil {
		return models.Answer{}, err
	}
	answer.IsVerified = true
	answer.VerifiedBy = &verifier
	answer.UpdatedAt = now
	return answer, nil
}

// Unverify removes the verified badge. A no-op when the answer was not
// verified.
func (s *AnswerService) Unverify(ctx context.Context, id string) (models.Answer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Answer{}, apperr.Invalid("invalid answer ID")
	}

	var answer models.Answer
	if err := s.answers.FindOne(ctx, bson.M{"_id": oid}).Decode(&answer); err != nil {
		return models.Answer{}, apperr.NotFound("answer not found")
	}
	if !answer.IsVerified {
		return answer, nil
	}

	now := time.Now()
	if _, err := s.answers.UpdateOne(ctx,
		bson.M{"_id": answer.ID},
		bson.M{"$set": bson.M{"is_verified": false, "updated_at": now}, "$unset": bson.M{"verified_by": ""}},
	); err != nil {
		return models.Answer{}, err
	}
	answer.IsVerified = false
	answer.VerifiedBy = nil
	answer.UpdatedAt = now
	return answer, nil
}

// ownedAnswer loads an answer plus its parent question and checks the caller
// may modify it: the answerer or an admin, with locked questions restricted
// to admins.
func (s *AnswerService) ownedAnswer(ctx context.Context, id, userID, role string) (models.Answer, models.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Answer{}, models.Question{}, apperr.Invalid("invalid answer ID")
	}

	var answer models.Answer
	if err := s.answers.FindOne(ctx, bson.M{"_id": oid}).Decode(&answer); err != nil {
		return models.Answer{}, models.Question{}, apperr.NotFound("answer not found")
	}
	if answer.Answerer.Hex() != userID && role != models.RoleAdmin {
		return models.Answer{}, models.Question{}, apperr.Forbidden("you can only modify your own answers")
	}

	var question models.Question
	if err := s.questions.FindOne(ctx, bson.M{"_id": answer.QuestionID}).Decode(&question); err != nil {
		return models.Answer{}, models.Question{}, apperr.NotFound("question not found")
	}
	if question.IsLocked && role != models.RoleAdmin {
		return models.Answer{}, models.Question{}, apperr.Forbidden("question is locked")
	}
	return answer, question, nil
}
