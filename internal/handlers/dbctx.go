package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// withDBTimeout bounds the store work of one request. The request context
// is the parent so a dropped connection cancels the query.
func (h *Handler) withDBTimeout(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.queryTimeout)
}
