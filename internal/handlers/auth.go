package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kenyi45/seventec-reto/dto"
	"github.com/Kenyi45/seventec-reto/internal/apperr"
	"github.com/Kenyi45/seventec-reto/internal/httpx"
	"github.com/Kenyi45/seventec-reto/internal/middleware"
	"github.com/Kenyi45/seventec-reto/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, apperr.Validation("invalid request body"))
	}
	token, user, err := h.auth.Register(c.Context(), req)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, apperr.Validation("invalid request body"))
	}
	token, user, err := h.auth.Login(c.Context(), req)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(dto.AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token, err := h.auth.Refresh(c.Context(), middleware.Actor(c))
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(dto.TokenResponse{Token: token})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.auth.Me(c.Context(), middleware.Actor(c).UserID)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.Error(c, apperr.Validation("invalid request body"))
	}
	user, err := h.auth.UpdateProfile(c.Context(), middleware.Actor(c).UserID, req)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(user)
}
