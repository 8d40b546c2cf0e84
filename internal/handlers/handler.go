// Package handlers is the HTTP delivery layer: fiber routes, role guards and
// problem+json error rendering over the domain services.
package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aerayy/fithub-backend/internal/auth"
	"github.com/aerayy/fithub-backend/internal/clients"
	"github.com/aerayy/fithub-backend/internal/coaches"
	"github.com/aerayy/fithub-backend/internal/exercises"
	"github.com/aerayy/fithub-backend/internal/foods"
	"github.com/aerayy/fithub-backend/internal/messaging"
	"github.com/aerayy/fithub-backend/internal/models"
	"github.com/aerayy/fithub-backend/internal/nutrition"
	"github.com/aerayy/fithub-backend/internal/subscriptions"
	"github.com/aerayy/fithub-backend/internal/workouts"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type Services struct {
	Foods         *foods.Service
	Workouts      *workouts.Service
	Coaches       *coaches.Service
	Subscriptions *subscriptions.Service
	Messaging     *messaging.Service
	Nutrition     *nutrition.Service
	Clients       *clients.Service
	Exercises     *exercises.Service
}

type Options struct {
	UploadPath   string
	QueryTimeout time.Duration
}

type Handler struct {
	svc          Services
	auth         *auth.Authenticator
	db           Pinger
	log          zerolog.Logger
	uploadPath   string
	queryTimeout time.Duration
}

func New(svc Services, a *auth.Authenticator, db Pinger, opts Options, log zerolog.Logger) *Handler {
	return &Handler{
		svc:          svc,
		auth:         a,
		db:           db,
		log:          log.With().Str("component", "http").Logger(),
		uploadPath:   opts.UploadPath,
		queryTimeout: opts.QueryTimeout,
	}
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/uploads/:name", h.GetUpload)

	anyone := h.auth.Require()
	app.Get("/foods/search", anyone, h.SearchFoods)
	app.Get("/foods/:food_id", anyone, h.GetFood)
	app.Get("/exercises/search", anyone, h.SearchExercises)
	app.Post("/uploads/image", anyone, h.UploadImage)

	client := app.Group("/client", h.auth.Require(models.RoleClient))
	client.Get("/me", h.ClientMe)
	client.Post("/onboarding", h.SaveOnboarding)
	client.Get("/onboarding", h.GetOnboarding)
	client.Get("/daily-targets", h.DailyTargets)
	client.Get("/workouts/active", h.ActiveWorkout)
	client.Get("/nutrition/active", h.ActiveNutrition)
	client.Get("/coaches", h.ListCoaches)
	client.Get("/coaches/:coach_user_id", h.GetCoach)
	client.Post("/checkout", h.Checkout)
	client.Get("/subscription", h.CurrentSubscription)
	client.Get("/conversations", h.ListConversations(models.SenderClient))
	client.Post("/conversations", h.OpenConversation)
	client.Get("/conversations/:conversation_id/messages", h.ListMessages(models.SenderClient))
	client.Post("/conversations/:conversation_id/messages", h.SendMessage(models.SenderClient))
	client.Patch("/conversations/:conversation_id/messages/:message_id/read", h.MarkRead(models.SenderClient))

	coach := app.Group("/coach", h.auth.Require(models.RoleCoach))
	coach.Get("/me/profile", h.CoachProfile)
	coach.Put("/me/profile", h.UpdateCoachProfile)
	coach.Get("/students", h.ListStudents)
	coach.Get("/students/:student_user_id/onboarding", h.StudentOnboarding)
	coach.Get("/students/:student_user_id/workout-programs", h.ListPrograms)
	coach.Post("/students/:student_user_id/workout-programs", h.CreateDraft)
	coach.Post("/students/:student_user_id/workout-programs/:program_id/assign", h.AssignProgram)
	coach.Get("/students/:student_user_id/active-program", h.StudentActiveProgram)
	coach.Get("/students/:student_user_id/nutrition-program", h.StudentNutrition)
	coach.Post("/students/:student_user_id/nutrition-program", h.PublishNutrition)
	coach.Get("/packages", h.ListPackages)
	coach.Post("/packages", h.CreatePackage)
	coach.Put("/packages/:package_id", h.UpdatePackage)
	coach.Get("/conversations", h.ListConversations(models.SenderCoach))
	coach.Get("/conversations/:conversation_id/messages", h.ListMessages(models.SenderCoach))
	coach.Post("/conversations/:conversation_id/messages", h.SendMessage(models.SenderCoach))
	coach.Patch("/conversations/:conversation_id/messages/:message_id/read", h.MarkRead(models.SenderCoach))
}

// currentUser returns the account the auth guard stored.
func currentUser(c *fiber.Ctx) (models.User, error) {
	u, ok := auth.User(c)
	if !ok {
		return models.User{}, fiber.ErrUnauthorized
	}
	return u, nil
}

func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "success": false})
	}
	return jsonOK(c, fiber.Map{"status": "ok"})
}
