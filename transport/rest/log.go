package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// LogHandler logs every request once it has been handled. Errors are
// rendered by the app error handler before the status is read.
func LogHandler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		if err != nil {
			if handlerErr := ctx.App().Config().ErrorHandler(ctx, err); handlerErr != nil {
				return handlerErr
			}
		}
		requestLog(ctx).
			WithField("status", ctx.Response().StatusCode()).
			WithField("took", time.Since(start)).
			Infoln("Request handled.")
		return nil
	}
}
