package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// StoryTTL is the fixed visibility window. expires_at is set once at
// creation and never recomputed.
const StoryTTL = 24 * time.Hour

// Story is ephemeral organizer content. Active/expired is always derived
// by comparing the clock against expires_at; no flag flips on expiry.
type Story struct {
	ID         bson.ObjectID `json:"id"                  bson:"_id,omitempty"`
	AuthorID   bson.ObjectID `json:"author_id"           bson:"author_id"`
	AuthorName string        `json:"author_name"         bson:"author_name"`
	AuthorRole Role          `json:"author_role"         bson:"author_role"`
	Content    string        `json:"content"             bson:"content"`
	ImageURL   *string       `json:"image_url,omitempty" bson:"image_url,omitempty"`
	ViewsCount int           `json:"views_count"         bson:"views_count"`
	ExpiresAt  time.Time     `json:"expires_at"          bson:"expires_at"`
	CreatedAt  time.Time     `json:"created_at"          bson:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"          bson:"updated_at"`
}

func (s *Story) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Story) TimeRemainingHours(now time.Time) int {
	if s.Expired(now) {
		return 0
	}
	return int(s.ExpiresAt.Sub(now).Hours())
}

// StoryView records that a user saw a story at least once. A unique index
// on (story_id, user_id) keeps the view counter to unique viewers.
type StoryView struct {
	ID        bson.ObjectID `json:"id"         bson:"_id,omitempty"`
	StoryID   bson.ObjectID `json:"story_id"   bson:"story_id"`
	UserID    bson.ObjectID `json:"user_id"    bson:"user_id"`
	UserName  string        `json:"user_name"  bson:"user_name"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}
