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

func relationRoutes(api fiber.Router, h *relationHandler) {
	api.Post("/follow", h.follow)
	api.Delete("/follow/:id", h.unfollow)
	api.Get("/user/:id", h.profile)
	api.Get("/users/:page?", h.users)
	api.Get("/counters/:id?", h.counters)
	api.Get("/following/:id?/:page?", h.following)
	api.Get("/followed/:id?/:page?", h.followed)
}

type relationHandler struct {
	relations *services.RelationService
}

func (h *relationHandler) follow(c *fiber.Ctx) error {

	req := new(schemas.FollowSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	edge, err := h.relations.Follow(middlewares.RequestContext(c), middlewares.SubjectID(c), req.Followed)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(edge)
}

func (h *relationHandler) unfollow(c *fiber.Ctx) error {

	removed, err := h.relations.Unfollow(middlewares.RequestContext(c), middlewares.SubjectID(c), c.Params("id"))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"removed": removed})
}

func (h *relationHandler) profile(c *fiber.Ctx) error {

	profile, err := h.relations.Profile(middlewares.RequestContext(c), middlewares.SubjectID(c), c.Params("id"))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(profile)
}

func (h *relationHandler) users(c *fiber.Ctx) error {

	list, err := h.relations.ListUsers(middlewares.RequestContext(c), middlewares.SubjectID(c), helpers.ParsePage(c.Params("page")))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(list)
}

func (h *relationHandler) counters(c *fiber.Ctx) error {

	counters, err := h.relations.Counters(middlewares.RequestContext(c), userOrSubject(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(counters)
}

func (h *relationHandler) following(c *fiber.Ctx) error {

	page, err := h.relations.ListFollowing(middlewares.RequestContext(c), userOrSubject(c), helpers.ParsePage(c.Params("page")))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(page)
}

func (h *relationHandler) followed(c *fiber.Ctx) error {

	page, err := h.relations.ListFollowers(middlewares.RequestContext(c), userOrSubject(c), helpers.ParsePage(c.Params("page")))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(page)
}

// userOrSubject reads the optional :id param, defaulting to the authenticated user
func userOrSubject(c *fiber.Ctx) string {
	if id := c.Params("id"); id != "" {
		return id
	}
	return middlewares.SubjectID(c)
}
