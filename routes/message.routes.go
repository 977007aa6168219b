package routes

import (
	"SOCIAL_server/errors"
	"SOCIAL_server/global"
	"SOCIAL_server/helpers"
	"SOCIAL_server/middlewares"
	"SOCIAL_server/schemas"
	"SOCIAL_server/services"

	"github.com/gofiber/fiber/v2"
)

func messageRoutes(api fiber.Router, h *messageHandler) {
	api.Post("/message", h.send)
	api.Get("/my-messages/:page?", h.inbox)
	api.Get("/messages/:page?", h.outbox)
	api.Get("/unviewed-messages", h.unviewed)
	api.Put("/set-viewed-messages", h.setViewed)
}

type messageHandler struct {
	messages *services.MessageService
}

func (h *messageHandler) send(c *fiber.Ctx) error {

	req := new(schemas.SendMessageSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	message, err := h.messages.SendMessage(middlewares.RequestContext(c), middlewares.SubjectID(c), *req)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *messageHandler) inbox(c *fiber.Ctx) error {

	page, err := h.messages.GetInbox(middlewares.RequestContext(c), middlewares.SubjectID(c), helpers.ParsePage(c.Params("page")))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(page)
}

func (h *messageHandler) outbox(c *fiber.Ctx) error {

	page, err := h.messages.GetOutbox(middlewares.RequestContext(c), middlewares.SubjectID(c), helpers.ParsePage(c.Params("page")))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(page)
}

func (h *messageHandler) unviewed(c *fiber.Ctx) error {

	count, err := h.messages.GetUnreadCount(middlewares.RequestContext(c), middlewares.SubjectID(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(schemas.UnviewedSchema{Unviewed: count})
}

func (h *messageHandler) setViewed(c *fiber.Ctx) error {

	updated, err := h.messages.MarkInboxRead(middlewares.RequestContext(c), middlewares.SubjectID(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(schemas.ViewedSchema{Updated: updated})
}
