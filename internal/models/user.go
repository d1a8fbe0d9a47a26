package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Experts can verify answers; admins can do everything.
const (
	RoleUser   = "user"
	RoleExpert = "expert"
	RoleAdmin  = "admin"
)

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleExpert || role == RoleAdmin
}

type User struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Username   string               `bson:"username" json:"username"`
	Email      string               `bson:"email" json:"email"`
	Password   string               `bson:"password,omitempty" json:"-"`
	Bio        string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Title      string               `bson:"title,omitempty" json:"title,omitempty"`
	Location   string               `bson:"location,omitempty" json:"location,omitempty"`
	Avatar     string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Reputation int                  `bson:"reputation" json:"reputation"`
	Role       string               `bson:"role" json:"role"`
	Following  []primitive.ObjectID `bson:"following,omitempty" json:"following,omitempty"`
	CreatedAt  time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updated_at"`
}
