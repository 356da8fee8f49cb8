package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kenyi45/seventec-reto/dto"
	"github.com/Kenyi45/seventec-reto/internal/apperr"
	"github.com/Kenyi45/seventec-reto/internal/httpx"
	"github.com/Kenyi45/seventec-reto/internal/middleware"
	"github.com/Kenyi45/seventec-reto/services"
)

type StoryHandler struct {
	stories *services.StoryService
}

func NewStoryHandler(stories *services.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

func (h *StoryHandler) List(c *fiber.Ctx) error {
	skip, limit := paging(c)
	stories, err := h.stories.ListActive(c.Context(), skip, limit)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(stories)
}

func (h *StoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStoryRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, apperr.Validation("invalid request body"))
	}
	story, err := h.stories.Create(c.Context(), middleware.Actor(c), req)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

// Get registers the caller as a viewer as a side effect of reading.
func (h *StoryHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	view, err := h.stories.View(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(view)
}

func (h *StoryHandler) ByAuthor(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	skip, limit := paging(c)
	stories, err := h.stories.ListByAuthor(c.Context(), id, skip, limit)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(stories)
}

func (h *StoryHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	var req dto.UpdateStoryRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, apperr.Validation("invalid request body"))
	}
	story, err := h.stories.Update(c.Context(), middleware.Actor(c), id, req)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(story)
}

func (h *StoryHandler) Views(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	skip, limit := paging(c)
	views, err := h.stories.Views(c.Context(), middleware.Actor(c), id, skip, limit)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(views)
}

func (h *StoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return httpx.Error(c, err)
	}
	if err := h.stories.Delete(c.Context(), middleware.Actor(c), id); err != nil {
		return httpx.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
