// Package handlers binds the HTTP surface to the service layer. Handlers
// only parse, delegate and serialize; rules live in services.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Kenyi45/seventec-reto/configs"
	"github.com/Kenyi45/seventec-reto/internal/apperr"
)

func parseID(c *fiber.Ctx, name string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return bson.ObjectID{}, apperr.Validation("invalid " + name)
	}
	return id, nil
}

// paging clamps skip and limit to sane bounds so a caller can never
// request an unbounded page.
func paging(c *fiber.Ctx) (skip, limit int64) {
	skip = int64(c.QueryInt("skip", 0))
	if skip < 0 {
		skip = 0
	}
	limit = int64(c.QueryInt("limit", configs.DefaultLimit))
	if limit <= 0 {
		limit = configs.DefaultLimit
	}
	if limit > configs.MaxLimit {
		limit = configs.MaxLimit
	}
	return skip, limit
}
