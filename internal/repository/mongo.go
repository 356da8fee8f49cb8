package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// NewMongoStores wires every store to its collection in db.
func NewMongoStores(db *mongo.Database) Stores {
	return Stores{
		Users:      &mongoUsers{col: db.Collection("users")},
		Posts:      &mongoPosts{col: db.Collection("posts")},
		Likes:      &mongoLikes{col: db.Collection("likes")},
		Comments:   &mongoComments{col: db.Collection("comments")},
		Stories:    &mongoStories{col: db.Collection("stories")},
		StoryViews: &mongoStoryViews{col: db.Collection("story_views")},
	}
}

// isDuplicate reports whether err is a unique-index violation (code 11000).
func isDuplicate(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
