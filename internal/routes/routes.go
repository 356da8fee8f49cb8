// Package routes maps the HTTP surface onto handlers and guards.
package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kenyi45/seventec-reto/internal/handlers"
	"github.com/Kenyi45/seventec-reto/internal/middleware"
	"github.com/Kenyi45/seventec-reto/model"
	"github.com/Kenyi45/seventec-reto/services"
)

type Deps struct {
	AuthSvc *services.AuthService
	Auth    *handlers.AuthHandler
	Posts   *handlers.PostHandler
	Stories *handlers.StoryHandler
}

func Register(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authn := middleware.RequireAuth(d.AuthSvc)
	organizer := middleware.RequireRole(model.RoleOrganizer)
	participant := middleware.RequireRole(model.RoleParticipant)

	auth := app.Group("/auth")
	auth.Post("/register", d.Auth.Register)
	auth.Post("/login", d.Auth.Login)
	auth.Post("/refresh", authn, d.Auth.Refresh)
	auth.Get("/me", authn, d.Auth.Me)
	auth.Put("/me", authn, d.Auth.UpdateMe)

	posts := app.Group("/posts", authn)
	posts.Get("/", d.Posts.List)
	posts.Post("/", organizer, d.Posts.Create)
	posts.Get("/:id", d.Posts.Get)
	posts.Put("/:id", d.Posts.Update)
	posts.Delete("/:id", d.Posts.Delete)
	posts.Post("/:id/like", participant, d.Posts.Like)
	posts.Delete("/:id/like", participant, d.Posts.Unlike)
	posts.Get("/:id/likes", d.Posts.ListLikes)
	posts.Post("/:id/comments", participant, d.Posts.AddComment)
	posts.Get("/:id/comments", d.Posts.ListComments)

	app.Delete("/comments/:id", authn, d.Posts.DeleteComment)

	stories := app.Group("/stories", authn)
	stories.Get("/", d.Stories.List)
	stories.Post("/", organizer, d.Stories.Create)
	stories.Get("/author/:id", d.Stories.ByAuthor)
	stories.Get("/:id/views", d.Stories.Views)
	stories.Get("/:id", d.Stories.Get)
	stories.Put("/:id", d.Stories.Update)
	stories.Delete("/:id", d.Stories.Delete)
}
