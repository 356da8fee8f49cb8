package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is the closed set of user roles. Organizers publish content,
// participants interact with it.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
)

func (r Role) Valid() bool {
	return r == RoleOrganizer || r == RoleParticipant
}

type User struct {
	ID              bson.ObjectID `json:"id"                          bson:"_id,omitempty"`
	Name            string        `json:"name"                        bson:"name"`
	Email           string        `json:"email"                       bson:"email"`
	PasswordHash    string        `json:"-"                           bson:"password_hash"`
	Role            Role          `json:"role"                        bson:"role"`
	Bio             string        `json:"bio,omitempty"               bson:"bio,omitempty"`
	Phone           string        `json:"phone,omitempty"             bson:"phone,omitempty"`
	Department      string        `json:"department,omitempty"        bson:"department,omitempty"`
	ProfileImageURL *string       `json:"profile_image_url,omitempty" bson:"profile_image_url,omitempty"`
	FCMToken        string        `json:"-"                           bson:"fcm_token,omitempty"`
	IsActive        bool          `json:"is_active"                   bson:"is_active"`
	CreatedAt       time.Time     `json:"created_at"                  bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"                  bson:"updated_at"`
}

func (u *User) CanCreateContent() bool {
	return u.Role == RoleOrganizer && u.IsActive
}

func (u *User) CanInteract() bool {
	return u.Role == RoleParticipant && u.IsActive
}
