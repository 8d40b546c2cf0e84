package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aerayy/fithub-backend/internal/clients"
)

// SaveOnboarding handles POST /client/onboarding. Resubmitting overwrites
// the previous answers.
func (h *Handler) SaveOnboarding(c *fiber.Ctx) error {
	client, err := currentUser(c)
	if err != nil {
		return err
	}
	var in clients.OnboardingInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	o, err := h.svc.Clients.SaveOnboarding(ctx, client.ID, in)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"onboarding": o})
}

func (h *Handler) GetOnboarding(c *fiber.Ctx) error {
	client, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	o, err := h.svc.Clients.Onboarding(ctx, client.ID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"onboarding": o})
}

func (h *Handler) StudentOnboarding(c *fiber.Ctx) error {
	coach, err := currentUser(c)
	if err != nil {
		return err
	}
	studentID, err := paramID(c, "student_user_id")
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	o, err := h.svc.Clients.StudentOnboarding(ctx, coach.ID, studentID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"onboarding": o})
}

// ClientMe handles GET /client/me.
func (h *Handler) ClientMe(c *fiber.Ctx) error {
	client, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	p, err := h.svc.Clients.Me(ctx, client.ID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"profile": p})
}

func (h *Handler) DailyTargets(c *fiber.Ctx) error {
	client, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	t, err := h.svc.Clients.DailyTargets(ctx, client.ID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"targets": t})
}
