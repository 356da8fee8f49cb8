// Package repository defines per-entity store contracts over the document
// database, with a MongoDB implementation for production and an in-memory
// implementation for tests.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Kenyi45/seventec-reto/model"
)

var (
	// ErrNotFound is returned when an id does not resolve.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate record")
)

// UserPatch carries the mutable profile fields; nil means unchanged.
type UserPatch struct {
	Name            *string
	Bio             *string
	Phone           *string
	Department      *string
	ProfileImageURL *string
	FCMToken        *string
}

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id bson.ObjectID, patch UserPatch) (*model.User, error)
	// ParticipantsWithPushToken lists active participants holding a
	// registered FCM token; the fan-out target set.
	ParticipantsWithPushToken(ctx context.Context) ([]model.User, error)
}

// PostPatch carries the author-editable post fields; nil means unchanged.
// An ImageURL pointing at the empty string removes the stored image.
type PostPatch struct {
	Title    *string
	Content  *string
	Tags     []string
	ImageURL *string
}

type PostStore interface {
	Create(ctx context.Context, p *model.Post) error
	ByID(ctx context.Context, id bson.ObjectID) (*model.Post, error)
	// List returns posts newest first.
	List(ctx context.Context, skip, limit int64) ([]model.Post, error)
	Update(ctx context.Context, id bson.ObjectID, patch PostPatch) (*model.Post, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	IncLikeCount(ctx context.Context, id bson.ObjectID, delta int) error
	IncCommentCount(ctx context.Context, id bson.ObjectID, delta int) error
}

type LikeStore interface {
	// Insert adds a like; ErrDuplicate when the (post,user) pair exists.
	Insert(ctx context.Context, l *model.Like) error
	// Delete removes a like, reporting whether one existed.
	Delete(ctx context.Context, postID, userID bson.ObjectID) (bool, error)
	CountByPost(ctx context.Context, postID bson.ObjectID) (int, error)
	// LikedSet reports which of the given posts the user has liked.
	LikedSet(ctx context.Context, userID bson.ObjectID, postIDs []bson.ObjectID) (map[bson.ObjectID]bool, error)
	// ListByPost returns likes newest first.
	ListByPost(ctx context.Context, postID bson.ObjectID, skip, limit int64) ([]model.Like, error)
	DeleteByPost(ctx context.Context, postID bson.ObjectID) error
}

type CommentStore interface {
	Create(ctx context.Context, c *model.Comment) error
	ByID(ctx context.Context, id bson.ObjectID) (*model.Comment, error)
	// ListByPost returns comments newest first.
	ListByPost(ctx context.Context, postID bson.ObjectID, skip, limit int64) ([]model.Comment, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	DeleteByPost(ctx context.Context, postID bson.ObjectID) error
}

// StoryPatch carries the author-editable story fields; nil means
// unchanged. An ImageURL pointing at the empty string removes the stored
// image. expires_at is not patchable.
type StoryPatch struct {
	Content  *string
	ImageURL *string
}

type StoryStore interface {
	Create(ctx context.Context, s *model.Story) error
	ByID(ctx context.Context, id bson.ObjectID) (*model.Story, error)
	// ListActive returns stories with expires_at > now, newest first.
	ListActive(ctx context.Context, now time.Time, skip, limit int64) ([]model.Story, error)
	// ListByAuthor returns an author's unexpired stories, newest first.
	ListByAuthor(ctx context.Context, authorID bson.ObjectID, now time.Time, skip, limit int64) ([]model.Story, error)
	Update(ctx context.Context, id bson.ObjectID, patch StoryPatch) (*model.Story, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	IncViews(ctx context.Context, id bson.ObjectID) error
	// DeleteExpired removes every story with expires_at <= now and
	// returns the ids it deleted, for cascading view cleanup.
	DeleteExpired(ctx context.Context, now time.Time) ([]bson.ObjectID, error)
}

type StoryViewStore interface {
	// Insert records a view; ErrDuplicate when the user already viewed.
	Insert(ctx context.Context, v *model.StoryView) error
	ListByStory(ctx context.Context, storyID bson.ObjectID, skip, limit int64) ([]model.StoryView, error)
	DeleteByStories(ctx context.Context, storyIDs []bson.ObjectID) error
}

// Stores bundles the per-entity stores for constructor injection.
type Stores struct {
	Users      UserStore
	Posts      PostStore
	Likes      LikeStore
	Comments   CommentStore
	Stories    StoryStore
	StoryViews StoryViewStore
}
