package store

import (
	"go.uber.org/fx"

	"github.com/aerayy/fithub-backend/internal/auth"
	"github.com/aerayy/fithub-backend/internal/clients"
	"github.com/aerayy/fithub-backend/internal/coaches"
	"github.com/aerayy/fithub-backend/internal/exercises"
	"github.com/aerayy/fithub-backend/internal/foods"
	"github.com/aerayy/fithub-backend/internal/messaging"
	"github.com/aerayy/fithub-backend/internal/nutrition"
	"github.com/aerayy/fithub-backend/internal/subscriptions"
	"github.com/aerayy/fithub-backend/internal/workouts"
)

// Module provides every store as the interface its service consumes.
var Module = fx.Module(
	"store",
	fx.Provide(
		fx.Annotate(NewFoodStore, fx.As(new(foods.Store))),
		fx.Annotate(NewWorkoutStore, fx.As(new(workouts.Store))),
		fx.Annotate(NewCoachStore, fx.As(new(coaches.Store))),
		fx.Annotate(NewSubscriptionStore, fx.As(new(subscriptions.Store))),
		fx.Annotate(NewMessagingStore, fx.As(new(messaging.Store))),
		fx.Annotate(NewNutritionStore, fx.As(new(nutrition.Store))),
		fx.Annotate(NewClientStore, fx.As(new(clients.Store))),
		fx.Annotate(NewExerciseStore, fx.As(new(exercises.Store))),
		fx.Annotate(NewUserStore, fx.As(new(auth.Users))),
	),
)
