package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

type fakeUsers struct {
	getUser func(ctx context.Context, id int64) (models.User, error)
}

func (f fakeUsers) GetUser(ctx context.Context, id int64) (models.User, error) {
	return f.getUser(ctx, id)
}

var accounts = map[int64]models.User{
	7:  {ID: 7, Email: "coach@fithub.test", Role: models.RoleCoach},
	36: {ID: 36, Email: "client@fithub.test", Role: models.RoleClient},
}

func newAuth() *Authenticator {
	return New("test-secret", fakeUsers{getUser: func(_ context.Context, id int64) (models.User, error) {
		u, ok := accounts[id]
		if !ok {
			return models.User{}, apperr.NotFound("user not found")
		}
		return u, nil
	}}, time.Second)
}

func newApp(a *Authenticator, roles ...models.Role) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		status, code, _ := apperr.HTTP(err)
		return c.Status(status).SendString(code)
	}})
	app.Get("/me", a.Require(roles...), func(c *fiber.Ctx) error {
		u, ok := User(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(string(u.Role))
	})
	return app
}

func call(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	a := newAuth()
	tok, err := a.Sign(36, time.Hour)
	require.NoError(t, err)

	id, err := a.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(36), id)
}

func TestVerifyRejects(t *testing.T) {
	a := newAuth()

	expired := newAuth()
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	old, err := expired.Sign(36, time.Hour)
	require.NoError(t, err)

	foreign, err := New("other-secret", nil, time.Second).Sign(36, time.Hour)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "36"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":     old,
		"foreign key": foreign,
		"no exp":      noExp,
		"bad subject": badSub,
		"garbage":     "not.a.token",
	} {
		_, err := a.Verify(tok)
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized), name)
	}
}

func TestRequire(t *testing.T) {
	a := newAuth()
	coachTok, _ := a.Sign(7, time.Hour)
	clientTok, _ := a.Sign(36, time.Hour)
	ghostTok, _ := a.Sign(999, time.Hour)

	coachOnly := newApp(a, models.RoleCoach)

	status, body := call(t, coachOnly, coachTok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "coach", body)

	status, _ = call(t, coachOnly, clientTok)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, coachOnly, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, coachOnly, ghostTok)
	assert.Equal(t, http.StatusUnauthorized, status)

	anyRole := newApp(a)
	status, body = call(t, anyRole, clientTok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "client", body)
}
