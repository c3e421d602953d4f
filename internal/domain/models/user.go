// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a staff account: an admin who triages submissions and manages the
// site, or an editor who writes and publishes content.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // folded for search
	Email      string             `bson:"email" json:"email"`    // lowercase, unique

	PasswordHash string `bson:"password_hash" json:"-"` // bcrypt

	Role   string `bson:"role" json:"role"`
	Status string `bson:"status" json:"status"` // active, disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// User roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User statuses
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// IsValidStatus reports whether s is a known account status.
func IsValidStatus(s string) bool {
	return s == StatusActive || s == StatusDisabled
}

// AllRoles returns all valid user roles.
func AllRoles() []string {
	return []string{RoleAdmin, RoleEditor}
}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}
