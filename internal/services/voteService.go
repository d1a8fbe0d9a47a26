package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sahilm98/askora/internal/apperr"
	"github.com/sahilm98/askora/internal/db"
	"github.com/sahilm98/askora/internal/models"
)

// VoteService keeps vote documents, target vote counters and owner
// reputation in step. The writes are sequential and not transactional: a
// crash between them can leave the counters off by one, which matches the
// original system's behavior.
type VoteService struct {
	questions *mongo.Collection
	answers   *mongo.Collection
	votes     *mongo.Collection
	users     *mongo.Collection
}

func NewVoteService(database *mongo.Database) *VoteService {
	return &VoteService{
		questions: database.Collection(db.Questions),
		answers:   database.Collection(db.Answers),
		votes:     database.Collection(db.Votes),
		users:     database.Collection(db.Users),
	}
}

type VoteInput struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Value      int    `json:"value"`
}

type VoteResult struct {
	Message string `json:"message"`
	Votes   int    `json:"votes"`
}

// voteTarget is the slice of a question or answer the vote bookkeeping needs.
type voteTarget struct {
	id     primitive.ObjectID
	owner  primitive.ObjectID
	votes  int
	locked bool
}

// Cast records, switches or confirms a vote. Repeating an identical vote is
// a no-op, so the endpoint is idempotent; casting the opposite value switches
// the vote and applies twice the delta.
func (s *VoteService) Cast(ctx context.Context, userID string, input VoteInput) (VoteResult, error) {
	if input.Value != 1 && input.Value != -1 {
		return VoteResult{}, apperr.Invalid("value must be 1 or -1")
	}

	voter, target, err := s.resolveTarget(ctx, userID, input.TargetType, input.TargetID)
	if err != nil {
		return VoteResult{}, err
	}
	if target.owner == voter {
		return VoteResult{}, apperr.Forbidden("you cannot vote on your own post")
	}
	if target.locked {
		return VoteResult{}, apperr.Forbidden("question is locked")
	}

	// Look up the existing vote, then apply the delta to the target counter
	// and the owner's reputation.
	var existing models.Vote
	err = s.votes.FindOne(ctx, bson.M{
		"user":        voter,
		"target_type": input.TargetType,
		"target_id":   target.id,
	}).Decode(&existing)

	var delta int
	var message string
	switch {
	case err == mongo.ErrNoDocuments:
		vote := models.Vote{
			ID:         primitive.NewObjectID(),
			User:       voter,
			TargetType: input.TargetType,
			TargetID:   target.id,
			Value:      input.Value,
			CreatedAt:  time.Now(),
		}
		if _, err := s.votes.InsertOne(ctx, vote); err != nil {
			return VoteResult{}, err
		}
		delta = input.Value
		message = "Vote recorded"
	case err != nil:
		return VoteResult{}, err
	case existing.Value == input.Value:
		// Same vote again: nothing changes.
		return VoteResult{Message: "Vote unchanged", Votes: target.votes}, nil
	default:
		_, err := s.votes.UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{"value": input.Value}},
		)
		if err != nil {
			return VoteResult{}, err
		}
		delta = 2 * input.Value
		message = "Vote updated"
	}

	if err := s.applyDelta(ctx, input.TargetType, target, delta); err != nil {
		return VoteResult{}, err
	}
	return VoteResult{Message: message, Votes: target.votes + delta}, nil
}

// Remove deletes the caller's vote on a target and reverses its delta.
func (s *VoteService) Remove(ctx context.Context, userID, targetType, targetID string) (VoteResult, error) {
	voter, target, err := s.resolveTarget(ctx, userID, targetType, targetID)
	if err != nil {
		return VoteResult{}, err
	}
	if target.locked {
		return VoteResult{}, apperr.Forbidden("question is locked")
	}

	var existing models.Vote
	err = s.votes.FindOne(ctx, bson.M{
		"user":        voter,
		"target_type": targetType,
		"target_id":   target.id,
	}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return VoteResult{}, apperr.NotFound("vote not found")
	}
	if err != nil {
		return VoteResult{}, err
	}

	if _, err := s.votes.DeleteOne(ctx, bson.M{"_id": existing.ID}); err != nil {
		return VoteResult{}, err
	}

	delta := -existing.Value
	if err := s.applyDelta(ctx, targetType, target, delta); err != nil {
		return VoteResult{}, err
	}
	return VoteResult{Message: "Vote removed", Votes: target.votes + delta}, nil
}

// resolveTarget validates the input IDs and loads the voted document's
// owner, counter and lock state. Votes on answers inherit the lock of the
// parent question.
func (s *VoteService) resolveTarget(ctx context.Context, userID, targetType, targetID string) (primitive.ObjectID, voteTarget, error) {
	if !models.ValidTarget(targetType) {
		return primitive.NilObjectID, voteTarget{}, apperr.Invalid("target_type must be question or answer")
	}
	voter, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, voteTarget{}, apperr.Invalid("invalid user ID")
	}
	id, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return primitive.NilObjectID, voteTarget{}, apperr.Invalid("invalid target ID")
	}

	if targetType == models.TargetQuestion {
		var question models.Question
		if err := s.questions.FindOne(ctx, bson.M{"_id": id}).Decode(&question); err != nil {
			return primitive.NilObjectID, voteTarget{}, apperr.NotFound("question not found")
		}
		return voter, voteTarget{
			id:     question.ID,
			owner:  question.Asker,
			votes:  question.Votes,
			locked: question.IsLocked,
		}, nil
	}

	var answer models.Answer
	if err := s.answers.FindOne(ctx, bson.M{"_id": id}).Decode(&answer); err != nil {
		return primitive.NilObjectID, voteTarget{}, apperr.NotFound("answer not found")
	}
	var question models.Question
	if err := s.questions.FindOne(ctx, bson.M{"_id": answer.QuestionID}).Decode(&question); err != nil {
		return primitive.NilObjectID, voteTarget{}, apperr.NotFound("question not found")
	}
	return voter, voteTarget{
		id:     answer.ID,
		owner:  answer.Answerer,
		votes:  answer.Votes,
		locked: question.IsLocked,
	}, nil
}

// applyDelta bumps the target's vote counter and the owner's reputation.
// Two separate writes, no transaction.
func (s *VoteService) applyDelta(ctx context.Context, targetType string, target voteTarget, delta int) error {
	collection := s.questions
	if targetType == models.TargetAnswer {
		collection = s.answers
	}
	if _, err := collection.UpdateOne(ctx,
		bson.M{"_id": target.id},
		bson.M{"$inc": bson.M{"votes": delta}},
	); err != nil {
		return err
	}

	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": target.owner},
		bson.M{"$inc": bson.M{"reputation": reputationDelta(targetType, delta)}},
	)
	return err
}
