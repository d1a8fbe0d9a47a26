package services

import (
	"context"
	"regexp"
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
)

const maxTags = 5

// QuestionService owns the question lifecycle, including the accepted-answer
// pointer and the manual cascade on delete.
type QuestionService struct {
	questions *mongo.Collection
	answers   *mongo.Collection
	comments  *mongo.Collection
	votes     *mongo.Collection
	users     *mongo.Collection
}

func NewQuestionService(database *mongo.Database) *QuestionService {
	return &QuestionService{
		questions: database.Collection(db.Questions),
		answers:   database.Collection(db.Answers),
		comments:  database.Collection(db.Comments),
		votes:     database.Collection(db.Votes),
		users:     database.Collection(db.Users),
	}
}

type QuestionInput struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

type ListQuestionsParams struct {
	Tag    string
	Author string
	Search string
	Sort   string
	Page   int64
	Limit  int64
}

// List returns a page of questions plus the total match count. Pinned
// questions always sort first.
func (s *QuestionService) List(ctx context.Context, params ListQuestionsParams) ([]models.Question, int64, error) {
	filter := bson.M{}
	if params.Tag != "" {
		filter["tags"] = strings.ToLower(params.Tag)
	}
	if params.Author != "" {
		author, err := primitive.ObjectIDFromHex(params.Author)
		if err != nil {
			return nil, 0, apperr.Invalid("invalid author ID")
		}
		filter["asker"] = author
	}
	if params.Search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(params.Search), "$options": "i"}
	}

	sort := bson.D{{Key: "is_pinned", Value: -1}, {Key: "created_at", Value: -1}}
	switch params.Sort {
	case "votes":
		sort = bson.D{{Key: "is_pinned", Value: -1}, {Key: "votes", Value: -1}}
	case "views":
		sort = bson.D{{Key: "is_pinned", Value: -1}, {Key: "views", Value: -1}}
	case "unanswered":
		filter["accepted_answer"] = bson.M{"$exists": false}
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	total, err := s.questions.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(sort).SetSkip((page - 1) * limit).SetLimit(limit)
	cursor, err := s.questions.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// Get returns a question by ID. When viewerID names a user that has not seen
// the question yet, the view counter is bumped; repeat views by the same
// user do not count.
func (s *QuestionService) Get(ctx context.Context, id, viewerID string) (models.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Question{}, apperr.Invalid("invalid question ID")
	}

	if viewerID != "" {
		if viewer, err := primitive.ObjectIDFromHex(viewerID); err == nil {
			_, err := s.questions.UpdateOne(ctx,
				bson.M{"_id": oid, "viewers": bson.M{"$ne": viewer}},
				bson.M{"$addToSet": bson.M{"viewers": viewer}, "$inc": bson.M{"views": 1}},
			)
			if err != nil {
				// A lost view is not worth failing the read.
				logging.Default().Warn().Err(err).Str("question_id", id).Msg("failed to record view")
			}
		}
	}

	var question models.Question
	if err := s.questions.FindOne(ctx, bson.M{"_id": oid}).Decode(&question); err != nil {
		return models.Question{}, apperr.NotFound("question not found")
	}
	return question, nil
}

// Create inserts a new question for the asker.
func (s *QuestionService) Create(ctx context.Context, askerID string, input QuestionInput) (models.Question, error) {
	asker, err := primitive.ObjectIDFromHex(askerID)
	if err != nil {
		return models.Question{}, apperr.Invalid("invalid user ID")
	}

	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" {
		return models.Question{}, apperr.Invalid("title is required")
	}
	if body == "" {
		return models.Question{}, apperr.Invalid("body is required")
	}
	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return models.Question{}, err
	}

	now := time.Now()
	question := models.Question{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Body:      body,
		Asker:     asker,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.questions.InsertOne(ctx, question); err != nil {
		return models.Question{}, err
	}
	return question, nil
}

// Update edits a question's title, body or tags. Only the asker or an admin
// may edit; locked questions are admin-only.
func (s *QuestionService) Update(ctx context.Context, id, userID, role string, input QuestionInput) (models.Question, error) {
	question, err := s.ownedQuestion(ctx, id, userID, role)
	if err != nil {
		return models.Question{}, err
	}

	set := bson.M{"updated_at": time.Now()}
	if title := strings.TrimSpace(input.Title); title != "" {
		set["title"] = title
		question.Title = title
	}
	if body := strings.TrimSpace(input.Body); body != "" {
		set["body"] = body
		question.Body = body
	}
	if input.Tags != nil {
		tags, err := normalizeTags(input.Tags)
		if err != nil {
			return models.Question{}, err
		}
		set["tags"] = tags
		question.Tags = tags
	}

	if _, err := s.questions.UpdateOne(ctx, bson.M{"_id": question.ID}, bson.M{"$set": set}); err != nil {
		return models.Question{}, err
	}
	return question, nil
}

// Delete removes a question and manually cascades to its answers, comments
// and votes. The deletes run one by one; there is no transaction tying them
// together, so a failure partway leaves orphans behind.
func (s *QuestionService) Delete(ctx context.Context, id, userID, role string) error {
	question, err := s.ownedQuestion(ctx, id, userID, role)
	if err != nil {
		return err
	}

	cursor, err := s.answers.Find(ctx, bson.M{"question_id": question.ID})
	if err != nil {
		return err
	}
	var answers []models.Answer
	if err := cursor.All(ctx, &answers); err != nil {
		return err
	}
	answerIDs := make([]primitive.ObjectID, 0, len(answers))
	for _, a := range answers {
		answerIDs = append(answerIDs, a.ID)
	}

	if _, err := s.comments.DeleteMany(ctx, bson.M{"target_type": models.TargetAnswer, "target_id": bson.M{"$in": answerIDs}}); err != nil {
		return err
	}
	if _, err := s.comments.DeleteMany(ctx, bson.M{"target_type": models.TargetQuestion, "target_id": question.ID}); err != nil {
		return err
	}
	if _, err := s.votes.DeleteMany(ctx, bson.M{"target_type": models.TargetAnswer, "target_id": bson.M{"$in": answerIDs}}); err != nil {
		return err
	}
	if _, err := s.votes.DeleteMany(ctx, bson.M{"target_type": models.TargetQuestion, "target_id": question.ID}); err != nil {
		return err
	}
	if _, err := s.answers.DeleteMany(ctx, bson.M{"question_id": question.ID}); err != nil {
		return err
	}
	_, err = s.questions.DeleteOne(ctx, bson.M{"_id": question.ID})
	return err
}

// Accept marks an answer as the question's accepted solution and pays the
// answerer the accept bonus. Switching from a previously accepted answer
// first reverses that answerer's bonus. Re-accepting the current answer is a
// no-op.
func (s *QuestionService) Accept(ctx context.Context, questionID, answerID, userID string) (models.Question, error) {
	question, err := s.askerQuestion(ctx, questionID, userID)
	if err != nil {
		return models.Question{}, err
	}

	answerOID, err := primitive.ObjectIDFromHex(answerID)
	if err != nil {
		return models.Question{}, apperr.Invalid("invalid answer ID")
	}
	if question.AcceptedAnswer != nil && *question.AcceptedAnswer == answerOID {
		return question, nil
	}

	var answer models.Answer
	if err := s.answers.FindOne(ctx, bson.M{"_id": answerOID}).Decode(&answer); err != nil {
		return models.Question{}, apperr.NotFound("answer not found")
	}
	if answer.QuestionID != question.ID {
		return models.Question{}, apperr.Invalid("answer does not belong to this question")
	}

	if question.AcceptedAnswer != nil {
		if err := s.revokeAccepted(ctx, *question.AcceptedAnswer); err != nil {
			return models.Question{}, err
		}
	}

	if _, err := s.answers.UpdateOne(ctx,
		bson.M{"_id": answer.ID},
		bson.M{"$set": bson.M{"is_accepted": true, "updated_at": time.Now()}},
	); err != nil {
		return models.Question{}, err
	}
	if _, err := s.users.UpdateOne(ctx,
		bson.M{"_id": answer.Answerer},
		bson.M{"$inc": bson.M{"reputation": repAccepted}},
	); err != nil {
		return models.Question{}, err
	}
	if _, err := s.questions.UpdateOne(ctx,
		bson.M{"_id": question.ID},
		bson.M{"$set": bson.M{"accepted_answer": answer.ID, "updated_at": time.Now()}},
	); err != nil {
		return models.Question{}, err
	}

	question.AcceptedAnswer = &answer.ID
	return question, nil
}

// Unaccept clears the accepted answer and takes the bonus back.
func (s *QuestionService) Unaccept(ctx context.Context, questionID, userID string) error {
	question, err := s.askerQuestion(ctx, questionID, userID)
	if err != nil {
		return err
	}
	if question.AcceptedAnswer == nil {
		return apperr.Invalid("question has no accepted answer")
	}

	if err := s.revokeAccepted(ctx, *question.AcceptedAnswer); err != nil {
		return err
	}
	_, err = s.questions.UpdateOne(ctx,
		bson.M{"_id": question.ID},
		bson.M{"$unset": bson.M{"accepted_answer": ""}, "$set": bson.M{"updated_at": time.Now()}},
	)
	return err
}

// SetPinned flips the pinned flag. Admin only, enforced by the route.
func (s *QuestionService) SetPinned(ctx context.Context, id string, pinned bool) error {
	return s.setFlag(ctx, id, "is_pinned", pinned)
}

// SetLocked flips the locked flag. Locked questions reject new answers,
// comments, votes and non-admin edits.
func (s *QuestionService) SetLocked(ctx context.Context, id string, locked bool) error {
	return s.setFlag(ctx, id, "is_locked", locked)
}

func (s *QuestionService) setFlag(ctx context.Context, id, field string, value bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Invalid("invalid question ID")
	}
	result, err := s.questions.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{field: value, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("question not found")
	}
	return nil
}

// revokeAccepted clears an answer's accepted flag and reverses the bonus.
// A dangling pointer to a missing answer is skipped silently.
func (s *QuestionService) revokeAccepted(ctx context.Context, answerID primitive.ObjectID) error {
	var previous models.Answer
	err := s.answers.FindOne(ctx, bson.M{"_id": answerID}).Decode(&previous)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := s.answers.UpdateOne(ctx,
		bson.M{"_id": previous.ID},
		bson.M{"$set": bson.M{"is_accepted": false, "updated_at": time.Now()}},
	); err != nil {
		return err
	}
	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": previous.Answerer},
		bson.M{"$inc": bson.M{"reputation": -repAccepted}},
	)
	return err
}

// ownedQuestion loads a question and checks the caller may modify it:
// the asker or an admin, with locked questions restricted to admins.
func (s *QuestionService) ownedQuestion(ctx context.Context, id, userID, role string) (models.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Question{}, apperr.Invalid("invalid question ID")
	}

	var question models.Question
	if err := s.questions.FindOne(ctx, bson.M{"_id": oid}).Decode(&question); err != nil {
		return models.Question{}, apperr.NotFound("question not found")
	}
	if question.Asker.Hex() != userID && role != models.RoleAdmin {
		return models.Question{}, apperr.Forbidden("you can only modify your own questions")
	}
	if question.IsLocked && role != models.RoleAdmin {
		return models.Question{}, apperr.Forbidden("question is locked")
	}
	return question, nil
}

// askerQuestion loads a question and checks the caller is its asker.
// Accepting answers stays with the asker even for admins.
func (s *QuestionService) askerQuestion(ctx context.Context, id, userID string) (models.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Question{}, apperr.Invalid("invalid question ID")
	}

	var question models.Question
	if err := s.questions.FindOne(ctx, bson.M{"_id": oid}).Decode(&question); err != nil {
		return models.Question{}, apperr.NotFound("question not found")
	}
	if question.Asker.Hex() != userID {
		return models.Question{}, apperr.Forbidden("only the asker can accept an answer")
	}
	if question.IsLocked {
		return models.Question{}, apperr.Forbidden("question is locked")
	}
	return question, nil
}

// normalizeTags lowercases, trims and deduplicates tags.
func normalizeTags(tags []string) ([]string, error) {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) > maxTags {
		return nil, apperr.Invalid("a question can have at most 5 tags")
	}
	return out, nil
}
