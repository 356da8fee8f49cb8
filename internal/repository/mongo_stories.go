package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Kenyi45/seventec-reto/model"
)

type mongoStories struct {
	col *mongo.Collection
}

func (r *mongoStories) Create(ctx context.Context, s *model.Story) error {
	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	s.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (r *mongoStories) ByID(ctx context.Context, id bson.ObjectID) (*model.Story, error) {
	var s model.Story
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListActive filters at query time; correctness never depends on how
// recently the sweep ran.
func (r *mongoStories) ListActive(ctx context.Context, now time.Time, skip, limit int64) ([]model.Story, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"expires_at": bson.M{"$gt": now}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	stories := make([]model.Story, 0)
	if err := cur.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *mongoStories) ListByAuthor(ctx context.Context, authorID bson.ObjectID, now time.Time, skip, limit int64) ([]model.Story, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	filter := bson.M{
		"author_id":  authorID,
		"expires_at": bson.M{"$gt": now},
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	stories := make([]model.Story, 0)
	if err := cur.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *mongoStories) Update(ctx context.Context, id bson.ObjectID, patch StoryPatch) (*model.Story, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.ImageURL != nil {
		if *patch.ImageURL == "" {
			unset["image_url"] = ""
		} else {
			set["image_url"] = *patch.ImageURL
		}
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var s model.Story
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *mongoStories) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoStories) IncViews(ctx context.Context, id bson.ObjectID) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views_count": 1}})
	return err
}

// DeleteExpired is idempotent: a second sweep over the same instant finds
// nothing left to delete. Two concurrent sweeps double-delete harmlessly.
func (r *mongoStories) DeleteExpired(ctx context.Context, now time.Time) ([]bson.ObjectID, error) {
	filter := bson.M{"expires_at": bson.M{"$lte": now}}

	cur, err := r.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []struct {
		ID bson.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]bson.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	if _, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, err
	}
	return ids, nil
}

type mongoStoryViews struct {
	col *mongo.Collection
}

// Insert relies on the unique (story_id, user_id) index so repeat views
// from the same user cannot create a second row.
func (r *mongoStoryViews) Insert(ctx context.Context, v *model.StoryView) error {
	res, err := r.col.InsertOne(ctx, v)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	v.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (r *mongoStoryViews) ListByStory(ctx context.Context, storyID bson.ObjectID, skip, limit int64) ([]model.StoryView, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"story_id": storyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	views := make([]model.StoryView, 0)
	if err := cur.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *mongoStoryViews) DeleteByStories(ctx context.Context, storyIDs []bson.ObjectID) error {
	if len(storyIDs) == 0 {
		return nil
	}
	_, err := r.col.DeleteMany(ctx, bson.M{"story_id": bson.M{"$in": storyIDs}})
	return err
}
