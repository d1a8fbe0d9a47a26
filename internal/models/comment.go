package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment target types. Comments attach to either a question or an answer.
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
)

// ValidTarget reports whether t names a commentable/votable entity.
func ValidTarget(t string) bool {
	return t == TargetQuestion || t == TargetAnswer
}

type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Body       string             `bson:"body" json:"body"`
	Author     primitive.ObjectID `bson:"author" json:"author"`
	TargetType string             `bson:"target_type" json:"target_type"`
	TargetID   primitive.ObjectID `bson:"target_id" json:"target_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
