package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kenyi45/seventec-reto/dto"
	"github.com/Kenyi45/seventec-reto/internal/apperr"
	"github.com/Kenyi45/seventec-reto/internal/repository"
	"github.com/Kenyi45/seventec-reto/model"
)

func newPostFixture(t *testing.T) (*PostService, repository.Stores, *recordingAnnouncer) {
	t.Helper()
	stores := repository.NewMemoryStores()
	ann := &recordingAnnouncer{}
	return NewPostService(stores, ann), stores, ann
}

func TestCreatePostRequiresOrganizer(t *testing.T) {
	svc, stores, ann := newPostFixture(t)
	ctx := context.Background()

	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	par := seedUser(t, stores, "Pablo", "pablo@example.com", model.RoleParticipant)

	post, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{
		Title:   "Keynote schedule",
		Content: "Doors open at 9am #keynote",
	})
	require.NoError(t, err)
	require.Equal(t, org.ID, post.AuthorID)
	require.Equal(t, "Orla", post.AuthorName)
	require.Equal(t, []string{"keynote"}, post.Tags)
	require.Len(t, ann.posts, 1)

	_, err = svc.Create(ctx, claimsFor(par), dto.CreatePostRequest{Title: "t", Content: "c"})
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	ghost := claimsFor(par)
	ghost.UserID = newID(t)
	_, err = svc.Create(ctx, ghost, dto.CreatePostRequest{Title: "t", Content: "c"})
	require.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestCreatePostValidation(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()
	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "  ", Content: "c"})
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: string(long), Content: "c"})
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "t", Content: ""})
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestToggleLike(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()

	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	par := seedUser(t, stores, "Pablo", "pablo@example.com", model.RoleParticipant)

	post, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	state, err := svc.ToggleLike(ctx, claimsFor(par), post.ID)
	require.NoError(t, err)
	require.True(t, state.Liked)
	require.Equal(t, 1, state.LikeCount)

	state, err = svc.ToggleLike(ctx, claimsFor(par), post.ID)
	require.NoError(t, err)
	require.False(t, state.Liked)
	require.Equal(t, 0, state.LikeCount)

	stored, err := stores.Posts.ByID(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.LikeCount)
}

func TestLikeInterleavingTwoUsers(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()

	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	alice := seedUser(t, stores, "Alice", "alice@example.com", model.RoleParticipant)
	bruno := seedUser(t, stores, "Bruno", "bruno@example.com", model.RoleParticipant)

	post, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	state, err := svc.ToggleLike(ctx, claimsFor(alice), post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, state.LikeCount)

	state, err = svc.ToggleLike(ctx, claimsFor(bruno), post.ID)
	require.NoError(t, err)
	require.Equal(t, 2, state.LikeCount)

	state, err = svc.ToggleLike(ctx, claimsFor(alice), post.ID)
	require.NoError(t, err)
	require.False(t, state.Liked)
	require.Equal(t, 1, state.LikeCount)

	got, err := svc.Get(ctx, bruno.ID, post.ID)
	require.NoError(t, err)
	require.True(t, got.LikedByMe)
	require.Equal(t, 1, got.LikeCount)

	got, err = svc.Get(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	require.False(t, got.LikedByMe)
}

func TestLikeGating(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()

	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	post, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	// Organizers do not interact with content.
	_, err = svc.ToggleLike(ctx, claimsFor(org), post.ID)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	par := seedUser(t, stores, "Pablo", "pablo@example.com", model.RoleParticipant)
	_, err = svc.ToggleLike(ctx, claimsFor(par), newID(t))
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestUnlikeIsIdempotent(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()

	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	par := seedUser(t, stores, "Pablo", "pablo@example.com", model.RoleParticipant)
	post, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	state, err := svc.Unlike(ctx, claimsFor(par), post.ID)
	require.NoError(t, err)
	require.False(t, state.Liked)
	require.Equal(t, 0, state.LikeCount)

	_, err = svc.ToggleLike(ctx, claimsFor(par), post.ID)
	require.NoError(t, err)

	state, err = svc.Unlike(ctx, claimsFor(par), post.ID)
	require.NoError(t, err)
	require.Equal(t, 0, state.LikeCount)

	state, err = svc.Unlike(ctx, claimsFor(par), post.ID)
	require.NoError(t, err)
	require.Equal(t, 0, state.LikeCount)
}

func TestListLikes(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()

	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	alice := seedUser(t, stores, "Alice", "alice@example.com", model.RoleParticipant)
	bruno := seedUser(t, stores, "Bruno", "bruno@example.com", model.RoleParticipant)

	post, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.ToggleLike(ctx, claimsFor(alice), post.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, claimsFor(bruno), post.ID)
	require.NoError(t, err)

	likes, err := svc.ListLikes(ctx, post.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	names := map[string]bool{}
	for _, l := range likes {
		names[l.UserName] = true
	}
	require.True(t, names["Alice"])
	require.True(t, names["Bruno"])

	_, err = svc.ListLikes(ctx, newID(t), 0, 20)
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestUpdatePostClearsImage(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()

	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	img := "https://cdn.example.com/p.jpg"
	post, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "t", Content: "c", ImageURL: &img})
	require.NoError(t, err)
	require.NotNil(t, post.ImageURL)

	// Nil leaves the image alone; empty string removes it.
	title := "still has image"
	updated, err := svc.Update(ctx, claimsFor(org), post.ID, dto.UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, updated.ImageURL)

	empty := ""
	updated, err = svc.Update(ctx, claimsFor(org), post.ID, dto.UpdatePostRequest{ImageURL: &empty})
	require.NoError(t, err)
	require.Nil(t, updated.ImageURL)
}

func TestUpdateAndDeletePostOwnership(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()

	owner := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	other := seedUser(t, stores, "Omar", "omar@example.com", model.RoleOrganizer)

	post, err := svc.Create(ctx, claimsFor(owner), dto.CreatePostRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	title := "updated"
	_, err = svc.Update(ctx, claimsFor(other), post.ID, dto.UpdatePostRequest{Title: &title})
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	updated, err := svc.Update(ctx, claimsFor(owner), post.ID, dto.UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "updated", updated.Title)

	err = svc.Delete(ctx, claimsFor(other), post.ID)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	require.NoError(t, svc.Delete(ctx, claimsFor(owner), post.ID))
	_, err = svc.Get(ctx, owner.ID, post.ID)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDeletePostCascades(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()

	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	par := seedUser(t, stores, "Pablo", "pablo@example.com", model.RoleParticipant)
	post, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.ToggleLike(ctx, claimsFor(par), post.ID)
	require.NoError(t, err)
	comment, err := svc.AddComment(ctx, claimsFor(par), post.ID, dto.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, claimsFor(org), post.ID))

	n, err := stores.Likes.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 0, n)
	_, err = stores.Comments.ByID(ctx, comment.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestComments(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()

	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	par := seedUser(t, stores, "Pablo", "pablo@example.com", model.RoleParticipant)
	other := seedUser(t, stores, "Paula", "paula@example.com", model.RoleParticipant)

	post, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, claimsFor(org), post.ID, dto.CreateCommentRequest{Content: "hi"})
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	_, err = svc.AddComment(ctx, claimsFor(par), post.ID, dto.CreateCommentRequest{Content: "   "})
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	comment, err := svc.AddComment(ctx, claimsFor(par), post.ID, dto.CreateCommentRequest{Content: "see you there"})
	require.NoError(t, err)
	require.Equal(t, "Pablo", comment.UserName)

	comments, err := svc.ListComments(ctx, post.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	stored, err := stores.Posts.ByID(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.CommentCount)

	err = svc.DeleteComment(ctx, claimsFor(other), comment.ID)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))

	require.NoError(t, svc.DeleteComment(ctx, claimsFor(par), comment.ID))
	err = svc.DeleteComment(ctx, claimsFor(par), comment.ID)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	stored, err = stores.Posts.ByID(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.CommentCount)
}

func TestListNewestFirstWithLikeState(t *testing.T) {
	svc, stores, _ := newPostFixture(t)
	ctx := context.Background()

	org := seedUser(t, stores, "Orla", "orla@example.com", model.RoleOrganizer)
	par := seedUser(t, stores, "Pablo", "pablo@example.com", model.RoleParticipant)

	first, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "first", Content: "c"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, claimsFor(org), dto.CreatePostRequest{Title: "second", Content: "c"})
	require.NoError(t, err)

	_, err = svc.ToggleLike(ctx, claimsFor(par), first.ID)
	require.NoError(t, err)

	feed, err := svc.List(ctx, par.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	require.Equal(t, second.ID, feed[0].ID)
	require.False(t, feed[0].LikedByMe)
	require.Equal(t, first.ID, feed[1].ID)
	require.True(t, feed[1].LikedByMe)
}
