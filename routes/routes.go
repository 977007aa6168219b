package routes

import (
	"SOCIAL_server/middlewares"
	"SOCIAL_server/services"
	"crypto/rsa"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies holds what the route handlers need
type Dependencies struct {
	Version   string
	Origin    string
	PublicKey *rsa.PublicKey
	Timeout   time.Duration
	Relations *services.RelationService
	Messages  *services.MessageService
}

// SetRoutes sets all routes of server
func SetRoutes(app *fiber.App, deps Dependencies) {
	app.Use(recover.New())
	app.Use(middlewares.RequestLogger)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     originOrAll(deps.Origin),
		AllowCredentials: deps.Origin != "",
	}))

	api := app.Group(deps.Version)
	api.Use(middlewares.Authenticate(deps.PublicKey))
	api.Use(middlewares.Timeout(deps.Timeout))

	relationRoutes(api, &relationHandler{relations: deps.Relations})
	messageRoutes(api, &messageHandler{messages: deps.Messages})
}

func originOrAll(origin string) string {
	if origin == "" {
		return "*"
	}
	return origin
}
