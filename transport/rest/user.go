package rest

import (
	"errors"

	"github.com/buzkaaclicker/avatars"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// UserController proxies remote profiles.
type UserController struct {
	Profiles avatars.ProfileProvider
}

func (c *UserController) InstallTo(app fiber.Router) {
	app.Get("/api/user", c.serveHint)
	app.Get("/api/user/:id", c.serveProfile)
}

func (c *UserController) serveHint(ctx *fiber.Ctx) error {
	return ctx.JSON(MessageResponse{
		Message: "You can get a user by id by adding /api/user/{id} to the url, " +
			"or get the avatar by adding /api/user/{id}/avatar to the url",
	})
}

func (c *UserController) serveProfile(ctx *fiber.Ctx) error {
	userId := utils.CopyString(ctx.Params("id"))
	if userId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "no user id")
	}

	profile, err := c.Profiles.ById(ctx.Context(), avatars.UserId(userId))
	if err != nil {
		if errors.Is(err, avatars.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		requestLog(ctx).WithError(err).Warningln("Remote profile lookup failed.")
		return fiber.NewError(fiber.StatusBadGateway, "Error while trying to get user from remote api")
	}
	return ctx.JSON(profile)
}
