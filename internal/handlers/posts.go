package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kenyi45/seventec-reto/dto"
	"github.com/Kenyi45/seventec-reto/internal/apperr"
	"github.com/Kenyi45/seventec-reto/internal/httpx"
	"github.com/Kenyi45/seventec-reto/internal/middleware"
	"github.com/Kenyi45/seventec-reto/services"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	skip, limit := paging(c)
	out, err := h.posts.List(c.Context(), middleware.Actor(c).UserID, skip, limit)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(out)
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, apperr.Validation("invalid request body"))
	}
	post, err := h.posts.Create(c.Context(), middleware.Actor(c), req)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	post, err := h.posts.Get(c.Context(), middleware.Actor(c).UserID, id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, apperr.Validation("invalid request body"))
	}
	post, err := h.posts.Update(c.Context(), middleware.Actor(c), id, req)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	if err := h.posts.Delete(c.Context(), middleware.Actor(c), id); err != nil {
		return httpx.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Like toggles: a first call likes, a second call on the same post
// removes the like. The response carries the resulting state.
func (h *PostHandler) Like(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	state, err := h.posts.ToggleLike(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(state)
}

func (h *PostHandler) Unlike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	state, err := h.posts.Unlike(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(state)
}

func (h *PostHandler) ListLikes(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	skip, limit := paging(c)
	likes, err := h.posts.ListLikes(c.Context(), id, skip, limit)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(likes)
}

func (h *PostHandler) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, apperr.Validation("invalid request body"))
	}
	comment, err := h.posts.AddComment(c.Context(), middleware.Actor(c), id, req)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *PostHandler) ListComments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	skip, limit := paging(c)
	comments, err := h.posts.ListComments(c.Context(), id, skip, limit)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(comments)
}

func (h *PostHandler) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	if err := h.posts.DeleteComment(c.Context(), middleware.Actor(c), id); err != nil {
		return httpx.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
