package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aerayy/fithub-backend/internal/subscriptions"
)

// Checkout handles POST /client/checkout. A repeated subscription_ref
// answers 200 with the original subscription instead of 201.
func (h *Handler) Checkout(c *fiber.Ctx) error {
	client, err := currentUser(c)
	if err != nil {
		return err
	}
	var req subscriptions.CheckoutRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	res, err := h.svc.Subscriptions.Checkout(ctx, client.ID, req)
	if err != nil {
		return err
	}
	payload := fiber.Map{"subscription": res.Subscription, "created": res.Created}
	if res.Created {
		return jsonCreated(c, payload)
	}
	return jsonOK(c, payload)
}

func (h *Handler) CurrentSubscription(c *fiber.Ctx) error {
	client, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	sub, err := h.svc.Subscriptions.Current(ctx, client.ID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"subscription": sub})
}
