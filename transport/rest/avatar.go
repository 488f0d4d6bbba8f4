package rest

import (
	"fmt"

	"github.com/buzkaaclicker/avatars"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type AvatarController struct {
	Orchestrator *avatars.Orchestrator
}

func (c *AvatarController) InstallTo(app fiber.Router) {
	app.Get("/avatar/:user_id", c.serveAvatar)
	app.Delete("/avatar/:user_id", c.deleteAvatar)
	app.Get("/api/user/:user_id/avatar", c.serveAvatar)
	app.Delete("/api/user/:user_id/avatar", c.deleteAvatar)
}

type AvatarResponse struct {
	Message  string `json:"message"`
	Avatar64 string `json:"avatar64"`
}

func (c *AvatarController) serveAvatar(ctx *fiber.Ctx) error {
	userId, err := userIdParam(ctx)
	if err != nil {
		return err
	}

	avatar, err := c.Orchestrator.GetAvatar(ctx.Context(), userId)
	if err != nil {
		return failureError(err)
	}

	var message string
	switch avatar.Status {
	case avatars.AvatarCreated:
		message = "Avatar saved successfully"
	case avatars.AvatarExisting:
		message = "Avatar already exists, returning previously saved avatar"
	default:
		return fmt.Errorf("unknown avatar status %d", avatar.Status)
	}
	return ctx.JSON(AvatarResponse{Message: message, Avatar64: avatar.Base64})
}

func (c *AvatarController) deleteAvatar(ctx *fiber.Ctx) error {
	userId, err := userIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.Orchestrator.DeleteAvatar(ctx.Context(), userId); err != nil {
		return failureError(err)
	}
	return ctx.JSON(MessageResponse{Message: "Avatar deleted successfully"})
}

// userIdParam copies the route param, fiber reuses its buffer after the
// handler returns.
func userIdParam(ctx *fiber.Ctx) (avatars.UserId, error) {
	userId := utils.CopyString(ctx.Params("user_id"))
	if userId == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "no user id")
	}
	return avatars.UserId(userId), nil
}

func failureError(err error) error {
	failure, ok := avatars.FailureOf(err)
	if !ok {
		return fmt.Errorf("avatar workflow: %w", err)
	}
	return fiber.NewError(failureStatus(failure.Reason), failure.Message())
}

func failureStatus(reason avatars.FailureReason) int {
	switch reason {
	case avatars.FailureUserNotFound,
		avatars.FailureRecordNotFound,
		avatars.FailureBlobNotFound:
		return fiber.StatusNotFound
	case avatars.FailureRecordLookup,
		avatars.FailureBlobRead,
		avatars.FailureBlobWrite,
		avatars.FailureRecordWrite,
		avatars.FailureBlobLookup,
		avatars.FailureRecordDelete,
		avatars.FailureBlobDelete:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
