package reqres

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/buzkaaclicker/avatars"
	"github.com/gofiber/fiber/v2"
)

const DefaultBaseUrl = "https://reqres.in"

const DefaultMaxImageSize = 5 << 20

// Client of the reqres.in compatible users api.
//
// The fiber agent does not take a context, so ctx arguments of the client
// methods do not cancel requests in flight. Timeout bounds every request.
type Client struct {
	BaseUrl string
	// Sent as x-api-key when not empty.
	ApiKey  string
	Timeout time.Duration
	// Zero means DefaultMaxImageSize.
	MaxImageSize int
}

var _ avatars.ProfileProvider = Client{}

func (c Client) newAgent(method string, uri string) *fiber.Agent {
	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if c.ApiKey != "" {
		req.Header.Set("x-api-key", c.ApiKey)
	}
	if c.Timeout > 0 {
		agent.Timeout(c.Timeout)
	}
	return agent
}

func (c Client) baseUrl() string {
	if c.BaseUrl == "" {
		return DefaultBaseUrl
	}
	return strings.TrimSuffix(c.BaseUrl, "/")
}

// Impl of reqres api /api/users/{id}
func (c Client) ById(ctx context.Context, userId avatars.UserId) (avatars.Profile, error) {
	agent := c.newAgent(fiber.MethodGet, c.baseUrl()+"/api/users/"+url.PathEscape(string(userId)))

	err := agent.Parse()
	if err != nil {
		fiber.ReleaseAgent(agent)
		return avatars.Profile{}, fetchError("agent parse", err)
	}

	// Bytes releases the agent.
	statusCode, body, errs := agent.Bytes()
	if len(errs) != 0 {
		return avatars.Profile{}, fetchError("agent bytes", fmt.Errorf("%v", errs))
	}
	switch statusCode {
	case fiber.StatusOK:
	case fiber.StatusNotFound:
		return avatars.Profile{}, avatars.ErrUserNotFound
	default:
		return avatars.Profile{}, fetchError("get user",
			fmt.Errorf("invalid status code %d: %s", statusCode, string(body)))
	}

	var response struct {
		Data *avatars.Profile `json:"data"`
	}
	if err = json.Unmarshal(body, &response); err != nil {
		return avatars.Profile{}, fetchError("unmarshal body", err)
	}
	// reqres answers {} for some unknown ids
	if response.Data == nil {
		return avatars.Profile{}, avatars.ErrUserNotFound
	}
	return *response.Data, nil
}

func fetchError(op string, err error) error {
	return &avatars.Error{Kind: avatars.KindFetch, Op: op, Err: err}
}
