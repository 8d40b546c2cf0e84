// Package auth verifies HS256 bearer tokens and enforces account roles.
package auth

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

// DefaultTTL is the lifetime of tokens minted by Sign.
const DefaultTTL = 7 * 24 * time.Hour

const userKey = "auth.user"

// Users resolves a token subject to an account.
type Users interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
}

type Authenticator struct {
	secret  []byte
	users   Users
	timeout time.Duration
	now     func() time.Time
}

// New returns an Authenticator signing with secret. timeout bounds the
// user lookup of each request.
func New(secret string, users Users, timeout time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), users: users, timeout: timeout, now: time.Now}
}

// Sign mints a token for userID valid for ttl.
func (a *Authenticator) Sign(userID int64, ttl time.Duration) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify checks the signature and expiry of raw and returns the subject.
func (a *Authenticator) Verify(raw string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return 0, apperr.Unauthorized("token expired")
	}
	if err != nil {
		return 0, apperr.Unauthorized("invalid token")
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Unauthorized("invalid token")
	}
	return id, nil
}

func bearer(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Require authenticates the request and, when roles is not empty, demands
// one of them. The account is stored for User.
func (a *Authenticator) Require(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearer(c)
		if !ok {
			return apperr.Unauthorized("missing bearer token")
		}
		id, err := a.Verify(raw)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), a.timeout)
		defer cancel()
		u, err := a.users.GetUser(ctx, id)
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.Unauthorized("user not found")
		}
		if err != nil {
			return err
		}

		if len(roles) > 0 && !slices.Contains(roles, u.Role) {
			return apperr.Forbidden("insufficient permissions")
		}
		c.Locals(userKey, u)
		return c.Next()
	}
}

// User returns the account Require stored on c.
func User(c *fiber.Ctx) (models.User, bool) {
	u, ok := c.Locals(userKey).(models.User)
	return u, ok
}
