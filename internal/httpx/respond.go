// Package httpx holds small helpers shared by handlers and middleware.
package httpx

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kenyi45/seventec-reto/dto"
	"github.com/Kenyi45/seventec-reto/internal/apperr"
)

// Error writes the stable error envelope for err, mapping its kind to an
// HTTP status.
func Error(c *fiber.Ctx, err error) error {
	return c.Status(apperr.StatusOf(err)).JSON(dto.ErrorResponse{
		Error: dto.ErrorBody{
			Code:    apperr.CodeOf(err),
			Message: err.Error(),
		},
	})
}
