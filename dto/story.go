package dto

import "github.com/Kenyi45/seventec-reto/model"

type CreateStoryRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

// UpdateStoryRequest patches a story. Nil fields are left untouched; an
// empty image_url clears the image.
type UpdateStoryRequest struct {
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}

// StoryView is a story plus the remaining visibility window, as returned
// by the single-story read path.
type StoryView struct {
	Story              *model.Story `json:"story"`
	TimeRemainingHours int          `json:"time_remaining_hours"`
}
