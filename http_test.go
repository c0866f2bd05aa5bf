package authflow_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authflow "github.com/hakbeom/go-authflow"
	"github.com/hakbeom/go-authflow/store"
)

type httpFixture struct {
	app   *fiber.App
	users *stubUserStore
	kv    *store.MemoryStore
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()

	kv := store.NewMemoryStore()
	users := newStubUserStore()

	notifier := new(MockNotifier)
	notifier.On("Deliver", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	tokens := newTestTokenService(authflow.SimpleConfig{Issuer: "authflow-test"})
	auther := authflow.NewAuthenticator(authflow.NewUserProvider(users), tokens)

	ctrl := authflow.NewHTTPController(func(c *authflow.HTTPController) {
		c.Auther = auther
		c.Tokens = tokens
		c.Verification = authflow.NewVerificationFlow(kv, notifier).WithCodeSource(fixedCode("123456"))
		c.Reset = authflow.NewPasswordResetFlow(kv, users)
		c.Users = users
	})

	app := fiber.New()
	ctrl.RegisterRoutes(app)

	return &httpFixture{app: app, users: users, kv: kv}
}

func (f *httpFixture) postJSON(t *testing.T, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	res, err := f.app.Test(req)
	require.NoError(t, err)
	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestLoginRoute(t *testing.T) {
	f := newHTTPFixture(t)
	f.users.add("user@example.com", "password1!", authflow.RoleUser)

	t.Run("valid credentials", func(t *testing.T) {
		res := f.postJSON(t, "/auth/login", fiber.Map{
			"email":    "user@example.com",
			"password": "password1!",
		})
		require.Equal(t, http.StatusOK, res.StatusCode)

		body := decodeBody(t, res)
		assert.NotEmpty(t, body["access_token"])

		var refreshCookie *http.Cookie
		for _, cookie := range res.Cookies() {
			if cookie.Name == authflow.RefreshCookieName {
				refreshCookie = cookie
			}
		}
		require.NotNil(t, refreshCookie)
		assert.NotEmpty(t, refreshCookie.Value)
		assert.True(t, refreshCookie.HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		res := f.postJSON(t, "/auth/login", fiber.Map{
			"email":    "user@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

		body := decodeBody(t, res)
		assert.Equal(t, authflow.TextCodeInvalidCreds, body["text_code"])
	})

	t.Run("invalid payload", func(t *testing.T) {
		res := f.postJSON(t, "/auth/login", fiber.Map{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestLogoutRoute(t *testing.T) {
	f := newHTTPFixture(t)

	res := f.postJSON(t, "/auth/logout", fiber.Map{})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var cleared bool
	for _, cookie := range res.Cookies() {
		if cookie.Name == authflow.RefreshCookieName && cookie.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestVerificationRoutes(t *testing.T) {
	f := newHTTPFixture(t)

	res := f.postJSON(t, "/auth/email/send-code", fiber.Map{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	t.Run("wrong code", func(t *testing.T) {
		res := f.postJSON(t, "/auth/email/verify-code", fiber.Map{
			"email": "user@example.com",
			"code":  "000000",
		})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

		body := decodeBody(t, res)
		assert.Equal(t, authflow.TextCodeCodeMismatch, body["text_code"])
	})

	t.Run("correct code", func(t *testing.T) {
		res := f.postJSON(t, "/auth/email/verify-code", fiber.Map{
			"email": "user@example.com",
			"code":  "123456",
		})
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("non numeric code fails validation", func(t *testing.T) {
		res := f.postJSON(t, "/auth/email/verify-code", fiber.Map{
			"email": "user@example.com",
			"code":  "12a456",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestPasswordResetRoutes(t *testing.T) {
	f := newHTTPFixture(t)
	f.users.add("user@example.com", "oldPassword1!")

	t.Run("reset request without verification", func(t *testing.T) {
		res := f.postJSON(t, "/auth/password/reset-request", fiber.Map{"email": "user@example.com"})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

		body := decodeBody(t, res)
		assert.Equal(t, authflow.TextCodeVerificationRequired, body["text_code"])
	})

	// verify, then walk the reset to completion
	require.Equal(t, http.StatusOK,
		f.postJSON(t, "/auth/email/send-code", fiber.Map{"email": "user@example.com"}).StatusCode)
	require.Equal(t, http.StatusOK,
		f.postJSON(t, "/auth/email/verify-code", fiber.Map{"email": "user@example.com", "code": "123456"}).StatusCode)

	res := f.postJSON(t, "/auth/password/reset-request", fiber.Map{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	token, _ := decodeBody(t, res)["reset_token"].(string)
	require.NotEmpty(t, token)

	t.Run("consume the token", func(t *testing.T) {
		res := f.postJSON(t, "/auth/password/reset", fiber.Map{
			"reset_token":  token,
			"new_password": "newPassword1!",
		})
		require.Equal(t, http.StatusOK, res.StatusCode)

		user, err := f.users.GetByEmail(context.Background(), "user@example.com")
		require.NoError(t, err)
		assert.NoError(t, authflow.ComparePasswordAndHash("newPassword1!", user.PasswordHash))
	})

	t.Run("second consumption fails", func(t *testing.T) {
		res := f.postJSON(t, "/auth/password/reset", fiber.Map{
			"reset_token":  token,
			"new_password": "anotherPassword1!",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)

		body := decodeBody(t, res)
		assert.Equal(t, authflow.TextCodeResetTokenInvalid, body["text_code"])
	})
}

func TestMeRoute(t *testing.T) {
	f := newHTTPFixture(t)
	user := f.users.add("user@example.com", "password1!", authflow.RoleUser)

	login := f.postJSON(t, "/auth/login", fiber.Map{
		"email":    "user@example.com",
		"password": "password1!",
	})
	require.Equal(t, http.StatusOK, login.StatusCode)
	access, _ := decodeBody(t, login)["access_token"].(string)
	require.NotEmpty(t, access)

	t.Run("with bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+access)

		res, err := f.app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)

		body := decodeBody(t, res)
		assert.Equal(t, user.ID.String(), body["id"])
		assert.Equal(t, "user@example.com", body["email"])
	})

	t.Run("without token", func(t *testing.T) {
		res, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}
