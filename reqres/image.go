package reqres

import (
	"context"
	"fmt"

	"github.com/buzkaaclicker/avatars"
	"github.com/gofiber/fiber/v2"
)

var _ avatars.ImageDownloader = Client{}.DownloadImage

// DownloadImage fetches image bytes from an absolute url. The api key is
// never sent along. Bodies above MaxImageSize are rejected.
func (c Client) DownloadImage(ctx context.Context, imageUrl string) ([]byte, error) {
	if imageUrl == "" {
		return nil, fetchError("download image", fmt.Errorf("empty image url"))
	}

	agent := c.newAgent(fiber.MethodGet, imageUrl)
	agent.Request().Header.Del("x-api-key")

	err := agent.Parse()
	if err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fetchError("agent parse", err)
	}

	maxSize := c.MaxImageSize
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	agent.MaxResponseBodySize = maxSize

	// Bytes releases the agent.
	statusCode, body, errs := agent.Bytes()
	if len(errs) != 0 {
		return nil, fetchError("agent bytes", fmt.Errorf("%v", errs))
	}
	if statusCode != fiber.StatusOK {
		return nil, fetchError("download image", fmt.Errorf("invalid status code %d", statusCode))
	}
	return body, nil
}
