package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Kenyi45/seventec-reto/model"
)

// NewMemoryStores returns in-memory stores with the same semantics as the
// Mongo ones (unique constraints included), for tests.
func NewMemoryStores() Stores {
	return Stores{
		Users:      &memUsers{byID: map[bson.ObjectID]*model.User{}},
		Posts:      &memPosts{byID: map[bson.ObjectID]*model.Post{}},
		Likes:      &memLikes{pairs: map[likeKey]*model.Like{}},
		Comments:   &memComments{byID: map[bson.ObjectID]*model.Comment{}},
		Stories:    &memStories{byID: map[bson.ObjectID]*model.Story{}},
		StoryViews: &memStoryViews{pairs: map[viewKey]*model.StoryView{}},
	}
}

// ----- users -----

type memUsers struct {
	mu   sync.RWMutex
	byID map[bson.ObjectID]*model.User
}

func (r *memUsers) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, ex := range r.byID {
		if ex.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.ID = bson.NewObjectID()
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUsers) ByID(_ context.Context, id bson.ObjectID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) ByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUsers) Update(_ context.Context, id bson.ObjectID, patch UserPatch) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Department != nil {
		u.Department = *patch.Department
	}
	if patch.ProfileImageURL != nil {
		v := *patch.ProfileImageURL
		u.ProfileImageURL = &v
	}
	if patch.FCMToken != nil {
		u.FCMToken = *patch.FCMToken
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (r *memUsers) ParticipantsWithPushToken(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.User
	for _, u := range r.byID {
		if u.Role == model.RoleParticipant && u.IsActive && u.FCMToken != "" {
			out = append(out, *u)
		}
	}
	return out, nil
}

// ----- posts -----

type memPosts struct {
	mu   sync.RWMutex
	byID map[bson.ObjectID]*model.Post
}

func (r *memPosts) Create(_ context.Context, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = bson.NewObjectID()
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *memPosts) ByID(_ context.Context, id bson.ObjectID) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPosts) List(_ context.Context, skip, limit int64) ([]model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]model.Post, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, *p)
	}
	sortNewestFirst(all, func(p model.Post) (time.Time, bson.ObjectID) { return p.CreatedAt, p.ID })
	return window(all, skip, limit), nil
}

func (r *memPosts) Update(_ context.Context, id bson.ObjectID, patch PostPatch) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Tags != nil {
		p.Tags = patch.Tags
	}
	if patch.ImageURL != nil {
		if *patch.ImageURL == "" {
			p.ImageURL = nil
		} else {
			v := *patch.ImageURL
			p.ImageURL = &v
		}
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (r *memPosts) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memPosts) IncLikeCount(_ context.Context, id bson.ObjectID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		p.LikeCount += delta
	}
	return nil
}

func (r *memPosts) IncCommentCount(_ context.Context, id bson.ObjectID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		p.CommentCount += delta
	}
	return nil
}

// ----- likes -----

type likeKey struct {
	post bson.ObjectID
	user bson.ObjectID
}

type memLikes struct {
	mu    sync.Mutex
	pairs map[likeKey]*model.Like
}

func (r *memLikes) Insert(_ context.Context, l *model.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{post: l.PostID, user: l.UserID}
	if _, ok := r.pairs[k]; ok {
		return ErrDuplicate
	}
	l.ID = bson.NewObjectID()
	cp := *l
	r.pairs[k] = &cp
	return nil
}

func (r *memLikes) Delete(_ context.Context, postID, userID bson.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{post: postID, user: userID}
	if _, ok := r.pairs[k]; !ok {
		return false, nil
	}
	delete(r.pairs, k)
	return true, nil
}

func (r *memLikes) CountByPost(_ context.Context, postID bson.ObjectID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.pairs {
		if k.post == postID {
			n++
		}
	}
	return n, nil
}

func (r *memLikes) LikedSet(_ context.Context, userID bson.ObjectID, postIDs []bson.ObjectID) (map[bson.ObjectID]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	liked := make(map[bson.ObjectID]bool, len(postIDs))
	for _, id := range postIDs {
		if _, ok := r.pairs[likeKey{post: id, user: userID}]; ok {
			liked[id] = true
		}
	}
	return liked, nil
}

func (r *memLikes) ListByPost(_ context.Context, postID bson.ObjectID, skip, limit int64) ([]model.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.Like
	for k, l := range r.pairs {
		if k.post == postID {
			all = append(all, *l)
		}
	}
	sortNewestFirst(all, func(l model.Like) (time.Time, bson.ObjectID) { return l.CreatedAt, l.ID })
	return window(all, skip, limit), nil
}

func (r *memLikes) DeleteByPost(_ context.Context, postID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.pairs {
		if k.post == postID {
			delete(r.pairs, k)
		}
	}
	return nil
}

// ----- comments -----

type memComments struct {
	mu   sync.RWMutex
	byID map[bson.ObjectID]*model.Comment
}

func (r *memComments) Create(_ context.Context, c *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = bson.NewObjectID()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memComments) ByID(_ context.Context, id bson.ObjectID) (*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memComments) ListByPost(_ context.Context, postID bson.ObjectID, skip, limit int64) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []model.Comment
	for _, c := range r.byID {
		if c.PostID == postID {
			all = append(all, *c)
		}
	}
	sortNewestFirst(all, func(c model.Comment) (time.Time, bson.ObjectID) { return c.CreatedAt, c.ID })
	return window(all, skip, limit), nil
}

func (r *memComments) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memComments) DeleteByPost(_ context.Context, postID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.byID {
		if c.PostID == postID {
			delete(r.byID, id)
		}
	}
	return nil
}

// ----- stories -----

type memStories struct {
	mu   sync.RWMutex
	byID map[bson.ObjectID]*model.Story
}

func (r *memStories) Create(_ context.Context, s *model.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = bson.NewObjectID()
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *memStories) ByID(_ context.Context, id bson.ObjectID) (*model.Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memStories) ListActive(_ context.Context, now time.Time, skip, limit int64) ([]model.Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []model.Story
	for _, s := range r.byID {
		if now.Before(s.ExpiresAt) {
			all = append(all, *s)
		}
	}
	sortNewestFirst(all, func(s model.Story) (time.Time, bson.ObjectID) { return s.CreatedAt, s.ID })
	return window(all, skip, limit), nil
}

func (r *memStories) ListByAuthor(_ context.Context, authorID bson.ObjectID, now time.Time, skip, limit int64) ([]model.Story, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []model.Story
	for _, s := range r.byID {
		if s.AuthorID == authorID && now.Before(s.ExpiresAt) {
			all = append(all, *s)
		}
	}
	sortNewestFirst(all, func(s model.Story) (time.Time, bson.ObjectID) { return s.CreatedAt, s.ID })
	return window(all, skip, limit), nil
}

func (r *memStories) Update(_ context.Context, id bson.ObjectID, patch StoryPatch) (*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Content != nil {
		s.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		if *patch.ImageURL == "" {
			s.ImageURL = nil
		} else {
			v := *patch.ImageURL
			s.ImageURL = &v
		}
	}
	s.UpdatedAt = time.Now().UTC()
	cp := *s
	return &cp, nil
}

func (r *memStories) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memStories) IncViews(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		s.ViewsCount++
	}
	return nil
}

func (r *memStories) DeleteExpired(_ context.Context, now time.Time) ([]bson.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []bson.ObjectID
	for id, s := range r.byID {
		if !now.Before(s.ExpiresAt) {
			ids = append(ids, id)
			delete(r.byID, id)
		}
	}
	return ids, nil
}

// ----- story views -----

type viewKey struct {
	story bson.ObjectID
	user  bson.ObjectID
}

type memStoryViews struct {
	mu    sync.Mutex
	pairs map[viewKey]*model.StoryView
}

func (r *memStoryViews) Insert(_ context.Context, v *model.StoryView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := viewKey{story: v.StoryID, user: v.UserID}
	if _, ok := r.pairs[k]; ok {
		return ErrDuplicate
	}
	v.ID = bson.NewObjectID()
	cp := *v
	r.pairs[k] = &cp
	return nil
}

func (r *memStoryViews) ListByStory(_ context.Context, storyID bson.ObjectID, skip, limit int64) ([]model.StoryView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.StoryView
	for _, v := range r.pairs {
		if v.StoryID == storyID {
			all = append(all, *v)
		}
	}
	sortNewestFirst(all, func(v model.StoryView) (time.Time, bson.ObjectID) { return v.CreatedAt, v.ID })
	return window(all, skip, limit), nil
}

func (r *memStoryViews) DeleteByStories(_ context.Context, storyIDs []bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sid := range storyIDs {
		for k := range r.pairs {
			if k.story == sid {
				delete(r.pairs, k)
			}
		}
	}
	return nil
}

// ----- helpers -----

func sortNewestFirst[T any](items []T, key func(T) (time.Time, bson.ObjectID)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi.Hex() > idj.Hex()
	})
}

func window[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && int64(len(items)) > limit {
		items = items[:limit]
	}
	return items
}
