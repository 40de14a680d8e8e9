package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole is the closed set of role tiers. Admin and manager see every
// record; agents see only leads assigned to them.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleAgent   UserRole = "agent"
	RoleManager UserRole = "manager"
	RoleViewer  UserRole = "viewer"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleManager, RoleViewer:
		return true
	}
	return false
}

// Privileged reports whether the role is exempt from agent scoping.
func (r UserRole) Privileged() bool {
	return r == RoleAdmin || r == RoleManager
}

// User is a CRM account. Deactivation is a flag flip, never a delete.
type User struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	Email          string             `json:"email" bson:"email"`
	Username       string             `json:"username" bson:"username"`
	FullName       string             `json:"full_name" bson:"full_name"`
	HashedPassword string             `json:"-" bson:"hashed_password"`
	Role           UserRole           `json:"role" bson:"role"`
	IsActive       bool               `json:"is_active" bson:"is_active"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}
