package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aerayy/fithub-backend/internal/workouts"
)

// CreateDraft handles POST /coach/students/:student_user_id/workout-programs.
// The program is stored inactive until assigned.
func (h *Handler) CreateDraft(c *fiber.Ctx) error {
	coach, err := currentUser(c)
	if err != nil {
		return err
	}
	studentID, err := paramID(c, "student_user_id")
	if err != nil {
		return err
	}
	draft, err := workouts.DecodeDraft(c.Body())
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	id, err := h.svc.Workouts.SaveDraft(ctx, coach.ID, studentID, draft)
	if err != nil {
		return err
	}
	return jsonCreated(c, fiber.Map{"program_id": id, "is_active": false})
}

func (h *Handler) AssignProgram(c *fiber.Ctx) error {
	coach, err := currentUser(c)
	if err != nil {
		return err
	}
	studentID, err := paramID(c, "student_user_id")
	if err != nil {
		return err
	}
	programID, err := paramID(c, "program_id")
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	id, err := h.svc.Workouts.Assign(ctx, coach.ID, studentID, programID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"program_id": id, "is_active": true})
}

func (h *Handler) ListPrograms(c *fiber.Ctx) error {
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
	list, err := h.svc.Workouts.ListForClient(ctx, coach.ID, studentID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"programs": list})
}

func (h *Handler) StudentActiveProgram(c *fiber.Ctx) error {
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
	active, err := h.svc.Workouts.GetActiveForCoach(ctx, coach.ID, studentID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"program": active.Program, "week": active.Week})
}

// ActiveWorkout handles GET /client/workouts/active; 404 when nothing is
// assigned yet.
func (h *Handler) ActiveWorkout(c *fiber.Ctx) error {
	client, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	active, err := h.svc.Workouts.GetActive(ctx, client.ID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"program": active.Program, "week": active.Week})
}
