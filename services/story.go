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
	"github.com/Kenyi45/seventec-reto/model"
)

const maxStoryContentLen = 1000

type StoryService struct {
	users     repository.UserStore
	stories   repository.StoryStore
	views     repository.StoryViewStore
	announcer Announcer
	now       func() time.Time
}

func NewStoryService(stores repository.Stores, announcer Announcer) *StoryService {
	return &StoryService{
		users:     stores.Users,
		stories:   stores.Stories,
		views:     stores.StoryViews,
		announcer: announcer,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create publishes a story with expires_at fixed at creation. A story is
// never renewed.
func (s *StoryService) Create(ctx context.Context, actor Claims, req dto.CreateStoryRequest) (*model.Story, error) {
	author, err := s.users.ByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("account no longer exists")
		}
		return nil, err
	}
	if !author.CanCreateContent() {
		return nil, apperr.Forbidden("only organizers can publish stories")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" || utf8.RuneCountInString(content) > maxStoryContentLen {
		return nil, apperr.Validation("content must be 1-1000 characters")
	}

	now := s.now()
	story := &model.Story{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		AuthorRole: author.Role,
		Content:    content,
		ImageURL:   req.ImageURL,
		ExpiresAt:  now.Add(model.StoryTTL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}

	if s.announcer != nil {
		s.announcer.StoryCreated(story)
	}
	return story, nil
}

// ListActive filters by expires_at at call time; it never returns a story
// whose window has elapsed, purged or not.
func (s *StoryService) ListActive(ctx context.Context, skip, limit int64) ([]model.Story, error) {
	return s.stories.ListActive(ctx, s.now(), skip, limit)
}

// ListByAuthor returns one author's unexpired stories.
func (s *StoryService) ListByAuthor(ctx context.Context, authorID bson.ObjectID, skip, limit int64) ([]model.Story, error) {
	return s.stories.ListByAuthor(ctx, authorID, s.now(), skip, limit)
}

// Update edits an unexpired story's content or image. The visibility
// window is fixed at creation: an edit never moves expires_at, and a
// story past its window cannot be edited at all.
func (s *StoryService) Update(ctx context.Context, actor Claims, storyID bson.ObjectID, req dto.UpdateStoryRequest) (*model.Story, error) {
	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != actor.UserID {
		return nil, apperr.Forbidden("only the author can edit this story")
	}
	if story.Expired(s.now()) {
		return nil, apperr.Gone("story has expired")
	}

	if req.Content != nil {
		c := strings.TrimSpace(*req.Content)
		if c == "" || utf8.RuneCountInString(c) > maxStoryContentLen {
			return nil, apperr.Validation("content must be 1-1000 characters")
		}
		req.Content = &c
	}

	updated, err := s.stories.Update(ctx, storyID, repository.StoryPatch{
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("story not found")
	}
	return updated, err
}

// View fetches a story by id and counts the viewer once. Lookup by id is
// independent of the listing filter: an expired story stays viewable
// until the sweep removes it.
func (s *StoryService) View(ctx context.Context, actor Claims, storyID bson.ObjectID) (*dto.StoryView, error) {
	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	viewer, err := s.users.ByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("account no longer exists")
		}
		return nil, err
	}

	err = s.views.Insert(ctx, &model.StoryView{
		StoryID:   story.ID,
		UserID:    viewer.ID,
		UserName:  viewer.Name,
		CreatedAt: s.now(),
	})
	switch {
	case err == nil:
		if err := s.stories.IncViews(ctx, story.ID); err != nil {
			return nil, err
		}
		story.ViewsCount++
	case errors.Is(err, repository.ErrDuplicate):
		// Repeat view: counter stays at unique viewers.
	default:
		return nil, err
	}

	return &dto.StoryView{
		Story:              story,
		TimeRemainingHours: story.TimeRemainingHours(s.now()),
	}, nil
}

// Views lists who saw the story; only its author may look.
func (s *StoryService) Views(ctx context.Context, actor Claims, storyID bson.ObjectID, skip, limit int64) ([]model.StoryView, error) {
	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != actor.UserID {
		return nil, apperr.Forbidden("only the author can see story views")
	}
	return s.views.ListByStory(ctx, storyID, skip, limit)
}

// Delete removes a story immediately, bypassing the timer, and cascades
// its view records. Author only.
func (s *StoryService) Delete(ctx context.Context, actor Claims, storyID bson.ObjectID) error {
	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return err
	}
	if story.AuthorID != actor.UserID {
		return apperr.Forbidden("only the author can delete this story")
	}
	if err := s.stories.Delete(ctx, storyID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return s.views.DeleteByStories(ctx, []bson.ObjectID{storyID})
}

// PurgeExpired deletes every story past its window plus its views.
// Idempotent, and safe to run concurrently with itself and with reads.
func (s *StoryService) PurgeExpired(ctx context.Context) (int, error) {
	ids, err := s.stories.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.views.DeleteByStories(ctx, ids); err != nil {
		return len(ids), err
	}
	return len(ids), nil
}

func (s *StoryService) getStory(ctx context.Context, id bson.ObjectID) (*model.Story, error) {
	story, err := s.stories.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("story not found")
		}
		return nil, err
	}
	return story, nil
}
