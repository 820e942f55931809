package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role gates access to the role-scoped route groups.
type Role string

const (
	RoleFarmer     Role = "FARMER"
	RoleAdmin      Role = "ADMIN"
	RoleResearcher Role = "RESEARCHER"
	RoleGovt       Role = "GOVT_OFFICIAL"
)

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleFarmer, RoleAdmin, RoleResearcher, RoleGovt:
		return true
	}
	return false
}

// User — identity plus role. Email is unique (index created at startup).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"       json:"id"`
	Name         string             `bson:"name"                json:"name"`
	Email        string             `bson:"email"               json:"email"`
	PasswordHash string             `bson:"passwordHash"        json:"-"`
	Role         Role               `bson:"role"                json:"role"`
	RegisteredAt time.Time          `bson:"registrationDate"    json:"registrationDate"`
	LastLogin    *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}
