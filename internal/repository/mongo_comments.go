package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Kenyi45/seventec-reto/model"
)

type mongoComments struct {
	col *mongo.Collection
}

func (r *mongoComments) Create(ctx context.Context, c *model.Comment) error {
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (r *mongoComments) ByID(ctx context.Context, id bson.ObjectID) (*model.Comment, error) {
	var c model.Comment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoComments) ListByPost(ctx context.Context, postID bson.ObjectID, skip, limit int64) ([]model.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{"post_id": postID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := make([]model.Comment, 0)
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *mongoComments) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoComments) DeleteByPost(ctx context.Context, postID bson.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"post_id": postID})
	return err
}
