package main

import (
	"context"
	"io/ioutil"
	"net/http/httptest"
	"testing"

	"github.com/buzkaaclicker/avatars"
	"github.com/buzkaaclicker/avatars/config"
	"github.com/buzkaaclicker/avatars/inmem"
	"github.com/buzkaaclicker/avatars/mock"
	"github.com/stretchr/testify/assert"
)

func TestServerRoutes(t *testing.T) {
	assert := assert.New(t)

	records := inmem.NewAvatarRecordStore()
	blobs := inmem.NewAvatarBlobStore(func(ctx context.Context, url string) ([]byte, error) {
		return []byte("jpeg"), nil
	})
	users := inmem.NewUserStore()
	server := newServer(config.Config{Http: config.HttpConfig{AllowOrigins: "*"}}, services{
		profiles: mock.ProfileProvider{
			ByIdFn: func(ctx context.Context, userId avatars.UserId) (avatars.Profile, error) {
				if userId == "4" {
					return avatars.Profile{Id: 4, AvatarUrl: "https://reqres.in/img/faces/4-image.jpg"}, nil
				}
				return avatars.Profile{}, avatars.ErrUserNotFound
			},
		},
		records:   &records,
		blobs:     &blobs,
		users:     &users,
		publisher: &inmem.Publisher{},
		mailer:    &inmem.Mailer{},
	})

	cases := []struct {
		method     string
		path       string
		returnCode int
	}{
		{method: "GET", path: "/api/status", returnCode: 200},
		{method: "GET", path: "/avatar/4", returnCode: 200},
		{method: "GET", path: "/api/user/4/avatar", returnCode: 200},
		{method: "GET", path: "/avatar/999", returnCode: 404},
		{method: "DELETE", path: "/api/user/4/avatar", returnCode: 200},
		{method: "DELETE", path: "/avatar/4", returnCode: 404},
		{method: "GET", path: "/api/user/4", returnCode: 200},
		{method: "GET", path: "/api/user", returnCode: 200},
		{method: "GET", path: "/api/users", returnCode: 200},
		{method: "GET", path: "/unknown_path", returnCode: 404},
	}
	for _, useCase := range cases {
		assertMsg := useCase.method + " " + useCase.path

		req := httptest.NewRequest(useCase.method, useCase.path, nil)
		resp, err := server.Test(req)
		if !assert.NoError(err, assertMsg) {
			continue
		}
		_, _ = ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(useCase.returnCode, resp.StatusCode, assertMsg)
	}
}
