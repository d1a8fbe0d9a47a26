package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/sahilm98/askora/internal/apperr"
	"github.com/sahilm98/askora/internal/models"
)

func TestCreateAnswer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		questionID := primitive.NewObjectID()
		answerer := primitive.NewObjectID()

		mt.AddMockResponses(
			foundDoc(questionsNS, questionDoc(questionID, primitive.NewObjectID(), 0, false)),
			mtest.CreateSuccessResponse(),
		)

		answer, err := svc.Create(context.Background(), questionID.Hex(), answerer.Hex(), "  Use an index.  ")
		require.NoError(mt, err)
		assert.Equal(mt, questionID, answer.QuestionID)
		assert.Equal(mt, answerer, answer.Answerer)
		assert.Equal(mt, "Use an index.", answer.Body)
	})

	mt.Run("locked question", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		questionID := primitive.NewObjectID()

		mt.AddMockResponses(foundDoc(questionsNS, questionDoc(questionID, primitive.NewObjectID(), 0, true)))

		_, err := svc.Create(context.Background(), questionID.Hex(), primitive.NewObjectID().Hex(), "too late")
		require.Error(mt, err)
		assert.Equal(mt, http.StatusForbidden, apperr.Status(err))
	})

	mt.Run("missing question", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		mt.AddMockResponses(noDoc(questionsNS))

		_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "hello")
		require.Error(mt, err)
		assert.Equal(mt, http.StatusNotFound, apperr.Status(err))
	})

	mt.Run("empty body", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)

		_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "   ")
		require.Error(mt, err)
		assert.Equal(mt, http.StatusBadRequest, apperr.Status(err))
	})
}

func TestListAnswersForQuestion(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the question's answers", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		questionID := primitive.NewObjectID()
		a1 := primitive.NewObjectID()
		a2 := primitive.NewObjectID()

		mt.AddMockResponses(
			foundDoc(questionsNS, questionDoc(questionID, primitive.NewObjectID(), 0, false)),
			mtest.CreateCursorResponse(0, answersNS, mtest.FirstBatch,
				answerDoc(a1, questionID, primitive.NewObjectID(), 9),
				answerDoc(a2, questionID, primitive.NewObjectID(), 2),
			),
		)

		answers, err := svc.ListForQuestion(context.Background(), questionID.Hex())
		require.NoError(mt, err)
		require.Len(mt, answers, 2)
		assert.Equal(mt, a1, answers[0].ID)
	})

	mt.Run("missing question", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		mt.AddMockResponses(noDoc(questionsNS))

		_, err := svc.ListForQuestion(context.Background(), primitive.NewObjectID().Hex())
		require.Error(mt, err)
		assert.Equal(mt, http.StatusNotFound, apperr.Status(err))
	})
}

func TestUpdateAnswer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("owner edits the body", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		answerID := primitive.NewObjectID()
		questionID := primitive.NewObjectID()
		owner := primitive.NewObjectID()

		mt.AddMockResponses(
			foundDoc(answersNS, answerDoc(answerID, questionID, owner, 0)),
			foundDoc(questionsNS, questionDoc(questionID, primitive.NewObjectID(), 0, false)),
			updateOK(),
		)

		answer, err := svc.Update(context.Background(), answerID.Hex(), owner.Hex(), models.RoleUser, "better wording")
		require.NoError(mt, err)
		assert.Equal(mt, "better wording", answer.Body)
	})

	mt.Run("non-owner is rejected", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		answerID := primitive.NewObjectID()

		mt.AddMockResponses(foundDoc(answersNS, answerDoc(answerID, primitive.NewObjectID(), primitive.NewObjectID(), 0)))

		_, err := svc.Update(context.Background(), answerID.Hex(), primitive.NewObjectID().Hex(), models.RoleUser, "hijack")
		require.Error(mt, err)
		assert.Equal(mt, http.StatusForbidden, apperr.Status(err))
	})

	mt.Run("locked question blocks the owner", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		answerID := primitive.NewObjectID()
		questionID := primitive.NewObjectID()
		owner := primitive.NewObjectID()

		mt.AddMockResponses(
			foundDoc(answersNS, answerDoc(answerID, questionID, owner, 0)),
			foundDoc(questionsNS, questionDoc(questionID, primitive.NewObjectID(), 0, true)),
		)

		_, err := svc.Update(context.Background(), answerID.Hex(), owner.Hex(), models.RoleUser, "edit")
		require.Error(mt, err)
		assert.Equal(mt, "question is locked", err.Error())
	})
}

func TestDeleteAnswer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("accepted answer clears the question pointer", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		answerID := primitive.NewObjectID()
		questionID := primitive.NewObjectID()
		owner := primitive.NewObjectID()

		accepted := append(answerDoc(answerID, questionID, owner, 4), bson.E{Key: "is_accepted", Value: true})
		mt.AddMockResponses(
			foundDoc(answersNS, accepted),
			foundDoc(questionsNS, questionDocWithAccepted(questionID, primitive.NewObjectID(), answerID, false)),
			updateOK(),  // unset accepted_answer
			updateOK(),  // reverse the accept bonus
			deleteOK(2), // its comments
			deleteOK(3), // its votes
			deleteOK(1), // the answer
		)

		err := svc.Delete(context.Background(), answerID.Hex(), owner.Hex(), models.RoleUser)
		require.NoError(mt, err)
	})

	mt.Run("plain answer skips the pointer cleanup", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		answerID := primitive.NewObjectID()
		questionID := primitive.NewObjectID()
		owner := primitive.NewObjectID()

		mt.AddMockResponses(
			foundDoc(answersNS, answerDoc(answerID, questionID, owner, 0)),
			foundDoc(questionsNS, questionDoc(questionID, primitive.NewObjectID(), 0, false)),
			deleteOK(0), // its comments
			deleteOK(0), // its votes
			deleteOK(1), // the answer
		)

		err := svc.Delete(context.Background(), answerID.Hex(), owner.Hex(), models.RoleUser)
		require.NoError(mt, err)
	})

	mt.Run("admin may delete someone else's answer", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		answerID := primitive.NewObjectID()
		questionID := primitive.NewObjectID()

		mt.AddMockResponses(
			foundDoc(answersNS, answerDoc(answerID, questionID, primitive.NewObjectID(), 0)),
			foundDoc(questionsNS, questionDoc(questionID, primitive.NewObjectID(), 0, false)),
			deleteOK(0),
			deleteOK(0),
			deleteOK(1),
		)

		err := svc.Delete(context.Background(), answerID.Hex(), primitive.NewObjectID().Hex(), models.RoleAdmin)
		require.NoError(mt, err)
	})
}

func TestVerifyAnswer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("marks the answer verified", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		answerID := primitive.NewObjectID()
		verifier := primitive.NewObjectID()

		mt.AddMockResponses(
			foundDoc(answersNS, answerDoc(answerID, primitive.NewObjectID(), primitive.NewObjectID(), 0)),
			updateOK(),
		)

		answer, err := svc.Verify(context.Background(), answerID.Hex(), verifier.Hex())
		require.NoError(mt, err)
		assert.True(mt, answer.IsVerified)
		require.NotNil(mt, answer.VerifiedBy)
		assert.Equal(mt, verifier, *answer.VerifiedBy)
	})

	mt.Run("verifying twice is a no-op", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		answerID := primitive.NewObjectID()
		firstVerifier := primitive.NewObjectID()

		verified := append(answerDoc(answerID, primitive.NewObjectID(), primitive.NewObjectID(), 0),
			bson.E{Key: "is_verified", Value: true},
			bson.E{Key: "verified_by", Value: firstVerifier},
		)
		// One read queued: a second verify must not write.
		mt.AddMockResponses(foundDoc(answersNS, verified))

		answer, err := svc.Verify(context.Background(), answerID.Hex(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		require.NotNil(mt, answer.VerifiedBy)
		assert.Equal(mt, firstVerifier, *answer.VerifiedBy)
	})

	mt.Run("unverify clears both fields", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		answerID := primitive.NewObjectID()

		verified := append(answerDoc(answerID, primitive.NewObjectID(), primitive.NewObjectID(), 0),
			bson.E{Key: "is_verified", Value: true},
			bson.E{Key: "verified_by", Value: primitive.NewObjectID()},
		)
		mt.AddMockResponses(foundDoc(answersNS, verified), updateOK())

		answer, err := svc.Unverify(context.Background(), answerID.Hex())
		require.NoError(mt, err)
		assert.False(mt, answer.IsVerified)
		assert.Nil(mt, answer.VerifiedBy)
	})

	mt.Run("missing answer", func(mt *mtest.T) {
		svc := NewAnswerService(mt.DB)
		mt.AddMockResponses(noDoc(answersNS))

		_, err := svc.Verify(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		require.Error(mt, err)
		assert.Equal(mt, http.StatusNotFound, apperr.Status(err))
	})
}
