package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Kenyi45/seventec-reto/dto"
	"github.com/Kenyi45/seventec-reto/internal/apperr"
	"github.com/Kenyi45/seventec-reto/internal/repository"
	"github.com/Kenyi45/seventec-reto/internal/utils"
	"github.com/Kenyi45/seventec-reto/model"
)

const (
	maxPostTitleLen   = 100
	maxPostContentLen = 2000
	maxCommentLen     = 500
)

// Announcer is the fire-and-forget notification hook. Implementations
// must return immediately; delivery happens off the request path.
type Announcer interface {
	PostCreated(p *model.Post)
	StoryCreated(s *model.Story)
}

type PostService struct {
	users     repository.UserStore
	posts     repository.PostStore
	likes     repository.LikeStore
	comments  repository.CommentStore
	announcer Announcer
	now       func() time.Time
}

// NewPostService wires the post lifecycle. announcer may be nil when
// push delivery is not configured.
func NewPostService(stores repository.Stores, announcer Announcer) *PostService {
	return &PostService{
		users:     stores.Users,
		posts:     stores.Posts,
		likes:     stores.Likes,
		comments:  stores.Comments,
		announcer: announcer,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create publishes a post. Organizer only; the author's name and role are
// denormalized into the document at this moment and never re-checked.
func (s *PostService) Create(ctx context.Context, actor Claims, req dto.CreatePostRequest) (*model.Post, error) {
	author, err := s.requireAuthor(ctx, actor)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || utf8.RuneCountInString(title) > maxPostTitleLen {
		return nil, apperr.Validation("title must be 1-100 characters")
	}
	if content == "" || utf8.RuneCountInString(content) > maxPostContentLen {
		return nil, apperr.Validation("content must be 1-2000 characters")
	}

	tags := utils.NormalizeTags(req.Tags)
	if len(tags) == 0 {
		tags = utils.NormalizeTags(utils.ExtractHashtags(content))
	}

	now := s.now()
	post := &model.Post{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		AuthorRole: author.Role,
		Title:      title,
		Content:    content,
		ImageURL:   req.ImageURL,
		Tags:       tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if s.announcer != nil {
		s.announcer.PostCreated(post)
	}
	return post, nil
}

// List returns the feed newest first, decorated with the viewer's like
// state.
func (s *PostService) List(ctx context.Context, viewerID bson.ObjectID, skip, limit int64) ([]dto.Post, error) {
	posts, err := s.posts.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]bson.ObjectID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	liked, err := s.likes.LikedSet(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, dto.Post{Post: p, LikedByMe: liked[p.ID]})
	}
	return out, nil
}

func (s *PostService) Get(ctx context.Context, viewerID, postID bson.ObjectID) (*dto.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	liked, err := s.likes.LikedSet(ctx, viewerID, []bson.ObjectID{post.ID})
	if err != nil {
		return nil, err
	}
	return &dto.Post{Post: *post, LikedByMe: liked[post.ID]}, nil
}

// Update edits a post. Only the author may edit; organizers cannot touch
// each other's posts.
func (s *PostService) Update(ctx context.Context, actor Claims, postID bson.ObjectID, req dto.UpdatePostRequest) (*model.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.UserID {
		return nil, apperr.Forbidden("only the author can edit this post")
	}

	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" || utf8.RuneCountInString(t) > maxPostTitleLen {
			return nil, apperr.Validation("title must be 1-100 characters")
		}
		req.Title = &t
	}
	if req.Content != nil {
		c := strings.TrimSpace(*req.Content)
		if c == "" || utf8.RuneCountInString(c) > maxPostContentLen {
			return nil, apperr.Validation("content must be 1-2000 characters")
		}
		req.Content = &c
	}
	var tags []string
	if req.Tags != nil {
		tags = utils.NormalizeTags(req.Tags)
	}

	updated, err := s.posts.Update(ctx, postID, repository.PostPatch{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     tags,
		ImageURL: req.ImageURL,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("post not found")
	}
	return updated, err
}

// Delete removes a post and cascades its likes and comments.
func (s *PostService) Delete(ctx context.Context, actor Claims, postID bson.ObjectID) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.UserID {
		return apperr.Forbidden("only the author can delete this post")
	}
	if err := s.posts.Delete(ctx, postID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err := s.likes.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	return s.comments.DeleteByPost(ctx, postID)
}

// ToggleLike flips the caller's like on a post. The unique (post,user)
// index arbitrates races: of two concurrent toggles one inserts and one
// hits the duplicate, so the pair can never double-like or double-unlike.
func (s *PostService) ToggleLike(ctx context.Context, actor Claims, postID bson.ObjectID) (dto.LikeState, error) {
	user, err := s.requireParticipant(ctx, actor)
	if err != nil {
		return dto.LikeState{}, err
	}
	if _, err := s.getPost(ctx, postID); err != nil {
		return dto.LikeState{}, err
	}

	liked := true
	err = s.likes.Insert(ctx, &model.Like{
		PostID:    postID,
		UserID:    user.ID,
		UserName:  user.Name,
		CreatedAt: s.now(),
	})
	switch {
	case err == nil:
		if err := s.posts.IncLikeCount(ctx, postID, 1); err != nil {
			return dto.LikeState{}, err
		}
	case errors.Is(err, repository.ErrDuplicate):
		removed, derr := s.likes.Delete(ctx, postID, actor.UserID)
		if derr != nil {
			return dto.LikeState{}, derr
		}
		if removed {
			if err := s.posts.IncLikeCount(ctx, postID, -1); err != nil {
				return dto.LikeState{}, err
			}
		}
		liked = false
	default:
		return dto.LikeState{}, err
	}

	count, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return dto.LikeState{}, err
	}
	return dto.LikeState{Liked: liked, LikeCount: count}, nil
}

// Unlike removes the caller's like if present; removing a like that does
// not exist is not an error.
func (s *PostService) Unlike(ctx context.Context, actor Claims, postID bson.ObjectID) (dto.LikeState, error) {
	if _, err := s.requireParticipant(ctx, actor); err != nil {
		return dto.LikeState{}, err
	}
	if _, err := s.getPost(ctx, postID); err != nil {
		return dto.LikeState{}, err
	}

	removed, err := s.likes.Delete(ctx, postID, actor.UserID)
	if err != nil {
		return dto.LikeState{}, err
	}
	if removed {
		if err := s.posts.IncLikeCount(ctx, postID, -1); err != nil {
			return dto.LikeState{}, err
		}
	}
	count, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return dto.LikeState{}, err
	}
	return dto.LikeState{Liked: false, LikeCount: count}, nil
}

// ListLikes lists who liked a post, newest first.
func (s *PostService) ListLikes(ctx context.Context, postID bson.ObjectID, skip, limit int64) ([]model.Like, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.likes.ListByPost(ctx, postID, skip, limit)
}

// AddComment attaches a comment with the author's display name
// denormalized for read convenience.
func (s *PostService) AddComment(ctx context.Context, actor Claims, postID bson.ObjectID, req dto.CreateCommentRequest) (*model.Comment, error) {
	user, err := s.users.ByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("account no longer exists")
		}
		return nil, err
	}
	if !user.CanInteract() {
		return nil, apperr.Forbidden("only participants can comment on posts")
	}
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" || utf8.RuneCountInString(content) > maxCommentLen {
		return nil, apperr.Validation("comment must be 1-500 characters")
	}

	comment := &model.Comment{
		PostID:    postID,
		UserID:    user.ID,
		UserName:  user.Name,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.posts.IncCommentCount(ctx, postID, 1); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID bson.ObjectID, skip, limit int64) ([]model.Comment, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID, skip, limit)
}

// DeleteComment removes a comment; only its author may do so.
func (s *PostService) DeleteComment(ctx context.Context, actor Claims, commentID bson.ObjectID) error {
	comment, err := s.comments.ByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("comment not found")
		}
		return err
	}
	if comment.UserID != actor.UserID {
		return apperr.Forbidden("only the author can delete this comment")
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("comment not found")
		}
		return err
	}
	return s.posts.IncCommentCount(ctx, comment.PostID, -1)
}

func (s *PostService) getPost(ctx context.Context, id bson.ObjectID) (*model.Post, error) {
	post, err := s.posts.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) requireAuthor(ctx context.Context, actor Claims) (*model.User, error) {
	user, err := s.users.ByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("account no longer exists")
		}
		return nil, err
	}
	if !user.CanCreateContent() {
		return nil, apperr.Forbidden("only organizers can publish content")
	}
	return user, nil
}

func (s *PostService) requireParticipant(ctx context.Context, actor Claims) (*model.User, error) {
	user, err := s.users.ByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("account no longer exists")
		}
		return nil, err
	}
	if !user.CanInteract() {
		return nil, apperr.Forbidden("only participants can like posts")
	}
	return user, nil
}
