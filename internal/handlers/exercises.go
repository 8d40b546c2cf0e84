package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aerayy/fithub-backend/internal/exercises"
)

// SearchExercises handles GET /exercises/search?q=&limit=.
func (h *Handler) SearchExercises(c *fiber.Ctx) error {
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	items, err := h.svc.Exercises.Search(ctx, exercises.SearchInput{Q: c.Query("q"), Limit: c.Query("limit")})
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"items": items, "count": len(items)})
}
