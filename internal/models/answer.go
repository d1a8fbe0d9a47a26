package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer belongs to exactly one question. IsAccepted mirrors the question's
// accepted_answer pointer; IsVerified is set by experts or admins.
type Answer struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	QuestionID primitive.ObjectID  `bson:"question_id" json:"question_id"`
	Answerer   primitive.ObjectID  `bson:"answerer" json:"answerer"`
	Body       string              `bson:"body" json:"body"`
	Votes      int                 `bson:"votes" json:"votes"`
	IsAccepted bool                `bson:"is_accepted" json:"is_accepted"`
	IsVerified bool                `bson:"is_verified" json:"is_verified"`
	VerifiedBy *primitive.ObjectID `bson:"verified_by,omitempty" json:"verified_by,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}
