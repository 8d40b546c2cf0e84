package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aerayy/fithub-backend/internal/foods"
)

// SearchFoods handles GET /foods/search.
func (h *Handler) SearchFoods(c *fiber.Ctx) error {
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	res, err := h.svc.Foods.Search(ctx, foods.SearchInput{
		Q:            c.Query("q"),
		Limit:        c.Query("limit"),
		Offset:       c.Query("offset"),
		FeaturedOnly: c.Query("featured_only"),
		Unit:         c.Query("unit"),
		Amount:       c.Query("amount"),
	})
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"foods": res.Foods, "total": res.Total})
}

// GetFood handles GET /foods/:food_id?unit=&amount=.
func (h *Handler) GetFood(c *fiber.Ctx) error {
	id, err := paramID(c, "food_id")
	if err != nil {
		return err
	}
	q, err := foods.ParseQuantity(c.Query("unit"), c.Query("amount"))
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	food, err := h.svc.Foods.Get(ctx, id, q)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"food": food})
}
