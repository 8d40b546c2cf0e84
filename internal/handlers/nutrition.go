package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aerayy/fithub-backend/internal/nutrition"
)

// PublishNutrition handles POST /coach/students/:student_user_id/nutrition-program.
// The new plan replaces the student's active one.
func (h *Handler) PublishNutrition(c *fiber.Ctx) error {
	coach, err := currentUser(c)
	if err != nil {
		return err
	}
	studentID, err := paramID(c, "student_user_id")
	if err != nil {
		return err
	}
	var in nutrition.ProgramInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	p, err := h.svc.Nutrition.Publish(ctx, coach.ID, studentID, in)
	if err != nil {
		return err
	}
	return jsonCreated(c, fiber.Map{"program": p})
}

func (h *Handler) StudentNutrition(c *fiber.Ctx) error {
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
	p, err := h.svc.Nutrition.GetActiveForCoach(ctx, coach.ID, studentID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"program": p})
}

func (h *Handler) ActiveNutrition(c *fiber.Ctx) error {
	client, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	p, err := h.svc.Nutrition.GetActive(ctx, client.ID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"program": p})
}
