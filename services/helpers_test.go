package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Kenyi45/seventec-reto/internal/repository"
	"github.com/Kenyi45/seventec-reto/model"
)

func newID(t *testing.T) bson.ObjectID {
	t.Helper()
	return bson.NewObjectID()
}

func seedUser(t *testing.T, stores repository.Stores, name, email string, role model.Role) *model.User {
	t.Helper()
	now := time.Now().UTC()
	u := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "irrelevant",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, stores.Users.Create(context.Background(), u))
	return u
}

func claimsFor(u *model.User) Claims {
	return Claims{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// recordingAnnouncer captures announcements synchronously for assertions.
type recordingAnnouncer struct {
	posts   []*model.Post
	stories []*model.Story
}

func (a *recordingAnnouncer) PostCreated(p *model.Post)   { a.posts = append(a.posts, p) }
func (a *recordingAnnouncer) StoryCreated(s *model.Story) { a.stories = append(a.stories, s) }
