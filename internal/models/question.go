package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is a post asked by a user. Viewers holds every user that has
// opened the question so the view counter is bumped at most once per user.
type Question struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Title          string               `bson:"title" json:"title"`
	Body           string               `bson:"body" json:"body"`
	Asker          primitive.ObjectID   `bson:"asker" json:"asker"`
	Tags           []string             `bson:"tags,omitempty" json:"tags"`
	Votes          int                  `bson:"votes" json:"votes"`
	Views          int                  `bson:"views" json:"views"`
	Viewers        []primitive.ObjectID `bson:"viewers,omitempty" json:"-"`
	AcceptedAnswer *primitive.ObjectID  `bson:"accepted_answer,omitempty" json:"accepted_answer,omitempty"`
	IsPinned       bool                 `bson:"is_pinned" json:"is_pinned"`
	IsLocked       bool                 `bson:"is_locked" json:"is_locked"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}
