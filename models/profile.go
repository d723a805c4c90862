package models

import "time"

// Profile roles.
const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// Profile holds the account fields the booking server needs for notification
// fan-out and ownership checks. Account management itself lives elsewhere.
type Profile struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	FullName  string    `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
