package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/handlers"
)

func Setup(app *fiber.App, auth *handlers.AuthHandler, prop *handlers.PropertyHandler, requireAuth fiber.Handler) {
	app.Post("/signup", auth.Signup)
	app.Post("/signin", auth.Signin)
	app.Post("/login", auth.Login)
	app.Post("/forget-pin", auth.ForgetPin)

	app.Post("/create-property", requireAuth, prop.Create)
	app.Get("/fetch-properties/:id", prop.FetchByID)
	app.Get("/user-properties", requireAuth, prop.UserProperties)
	app.Put("/update-property", requireAuth, prop.UpdateAccess)
	app.Post("/upload-image", requireAuth, prop.UploadImage)
}
