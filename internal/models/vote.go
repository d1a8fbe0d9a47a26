package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote is a single user's up/down vote on a question or answer.
// A unique index on (user, target_type, target_id) guarantees at most one
// vote per user per target.
type Vote struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User       primitive.ObjectID `bson:"user" json:"user"`
	TargetType string             `bson:"target_type" json:"target_type"`
	TargetID   primitive.ObjectID `bson:"target_id" json:"target_id"`
	Value      int                `bson:"value" json:"value"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
