package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Kenyi45/seventec-reto/model"
)

type mongoLikes struct {
	col *mongo.Collection
}

// Insert relies on the unique (post_id, user_id) index: a concurrent
// double-like loses with a duplicate-key error instead of a second row.
func (r *mongoLikes) Insert(ctx context.Context, l *model.Like) error {
	res, err := r.col.InsertOne(ctx, l)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	l.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (r *mongoLikes) Delete(ctx context.Context, postID, userID bson.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"post_id": postID, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoLikes) CountByPost(ctx context.Context, postID bson.ObjectID) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"post_id": postID})
	return int(n), err
}

func (r *mongoLikes) LikedSet(ctx context.Context, userID bson.ObjectID, postIDs []bson.ObjectID) (map[bson.ObjectID]bool, error) {
	liked := make(map[bson.ObjectID]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}
	cur, err := r.col.Find(ctx, bson.M{
		"user_id": userID,
		"post_id": bson.M{"$in": postIDs},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var likes []model.Like
	if err := cur.All(ctx, &likes); err != nil {
		return nil, err
	}
	for _, l := range likes {
		liked[l.PostID] = true
	}
	return liked, nil
}

func (r *mongoLikes) ListByPost(ctx context.Context, postID bson.ObjectID, skip, limit int64) ([]model.Like, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"post_id": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	likes := make([]model.Like, 0)
	if err := cur.All(ctx, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *mongoLikes) DeleteByPost(ctx context.Context, postID bson.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"post_id": postID})
	return err
}
