package dto

import "github.com/Kenyi45/seventec-reto/model"

type CreatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	ImageURL *string  `json:"image_url"`
}

type UpdatePostRequest struct {
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Tags     []string `json:"tags"`
	ImageURL *string  `json:"image_url"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

// Post is a stored post decorated for the requesting viewer.
type Post struct {
	model.Post
	LikedByMe bool `json:"liked_by_me"`
}

type LikeState struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
