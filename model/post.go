package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post is permanent organizer content. Author name and role are
// denormalized at creation; a later role change does not revoke the post.
type Post struct {
	ID           bson.ObjectID `json:"id"                  bson:"_id,omitempty"`
	AuthorID     bson.ObjectID `json:"author_id"           bson:"author_id"`
	AuthorName   string        `json:"author_name"         bson:"author_name"`
	AuthorRole   Role          `json:"author_role"         bson:"author_role"`
	Title        string        `json:"title"               bson:"title"`
	Content      string        `json:"content"             bson:"content"`
	ImageURL     *string       `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Tags         []string      `json:"tags"                bson:"tags"`
	LikeCount    int           `json:"like_count"          bson:"like_count"`
	CommentCount int           `json:"comment_count"       bson:"comment_count"`
	CreatedAt    time.Time     `json:"created_at"          bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"          bson:"updated_at"`
}

// Like pairs a post with a user. A unique index on (post_id, user_id)
// makes the pair the atomicity anchor for the toggle.
type Like struct {
	ID        bson.ObjectID `json:"id"         bson:"_id,omitempty"`
	PostID    bson.ObjectID `json:"post_id"    bson:"post_id"`
	UserID    bson.ObjectID `json:"user_id"    bson:"user_id"`
	UserName  string        `json:"user_name"  bson:"user_name"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

type Comment struct {
	ID        bson.ObjectID `json:"id"         bson:"_id,omitempty"`
	PostID    bson.ObjectID `json:"post_id"    bson:"post_id"`
	UserID    bson.ObjectID `json:"user_id"    bson:"user_id"`
	UserName  string        `json:"user_name"  bson:"user_name"`
	Content   string        `json:"content"    bson:"content"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}
