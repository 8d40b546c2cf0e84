package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aerayy/fithub-backend/internal/coaches"
)

// ListCoaches handles GET /client/coaches?q=&specialty=&limit=&offset=.
func (h *Handler) ListCoaches(c *fiber.Ctx) error {
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	res, err := h.svc.Coaches.List(ctx, coaches.ListInput{
		Q:         c.Query("q"),
		Specialty: c.Query("specialty"),
		Limit:     c.Query("limit"),
		Offset:    c.Query("offset"),
	})
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"coaches": res.Coaches, "total": res.Total})
}

func (h *Handler) GetCoach(c *fiber.Ctx) error {
	id, err := paramID(c, "coach_user_id")
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	d, err := h.svc.Coaches.Get(ctx, id)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"coach": d.Coach, "packages": d.Packages})
}

func (h *Handler) ListStudents(c *fiber.Ctx) error {
	coach, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	list, err := h.svc.Coaches.ListStudents(ctx, coach.ID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"students": list})
}

// ---------------- coach packages ----------------

func (h *Handler) ListPackages(c *fiber.Ctx) error {
	coach, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	list, err := h.svc.Coaches.ListPackages(ctx, coach.ID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"packages": list})
}

func (h *Handler) CreatePackage(c *fiber.Ctx) error {
	coach, err := currentUser(c)
	if err != nil {
		return err
	}
	var in coaches.PackageInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	p, err := h.svc.Coaches.CreatePackage(ctx, coach.ID, in)
	if err != nil {
		return err
	}
	return jsonCreated(c, fiber.Map{"package": p})
}

func (h *Handler) UpdatePackage(c *fiber.Ctx) error {
	coach, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "package_id")
	if err != nil {
		return err
	}
	var patch coaches.PackagePatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	p, err := h.svc.Coaches.UpdatePackage(ctx, coach.ID, id, patch)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"package": p})
}

// ---------------- coach profile ----------------

func (h *Handler) CoachProfile(c *fiber.Ctx) error {
	coach, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	p, err := h.svc.Coaches.Profile(ctx, coach.ID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"profile": p})
}

// UpdateCoachProfile handles PUT /coach/me/profile. Omitted fields keep
// their stored value.
func (h *Handler) UpdateCoachProfile(c *fiber.Ctx) error {
	coach, err := currentUser(c)
	if err != nil {
		return err
	}
	var patch coaches.ProfilePatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	p, err := h.svc.Coaches.UpdateProfile(ctx, coach.ID, patch)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"profile": p})
}
