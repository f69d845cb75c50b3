package auth

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.All("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestNew(t *testing.T) {
	app := newApp(Config{ApiKey: "secret"})

	form := url.Values{ParamName: {"secret"}}.Encode()

	tests := []struct {
		name   string
		build  func() (method, target string, body string, headers map[string]string)
		status int
	}{
		{
			name: "Header",
			build: func() (string, string, string, map[string]string) {
				return "GET", "/", "", map[string]string{HeaderName: "secret"}
			},
			status: fiber.StatusOK,
		},
		{
			name: "Query",
			build: func() (string, string, string, map[string]string) {
				return "GET", "/?" + ParamName + "=secret", "", nil
			},
			status: fiber.StatusOK,
		},
		{
			name: "Form",
			build: func() (string, string, string, map[string]string) {
				return "POST", "/", form, map[string]string{"Content-Type": fiber.MIMEApplicationForm}
			},
			status: fiber.StatusOK,
		},
		{
			name: "Wrong",
			build: func() (string, string, string, map[string]string) {
				return "GET", "/", "", map[string]string{HeaderName: "nope"}
			},
			status: fiber.StatusUnauthorized,
		},
		{
			name: "Missing",
			build: func() (string, string, string, map[string]string) {
				return "GET", "/", "", nil
			},
			status: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, target, body, headers := tt.build()
			req := httptest.NewRequest(method, target, strings.NewReader(body))
			for k, v := range headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestNew_EmptyKeyRejects(t *testing.T) {
	app := newApp(Config{})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderName, "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestNew_Next(t *testing.T) {
	app := newApp(Config{ApiKey: "secret", Next: func(c *fiber.Ctx) bool { return true }})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
