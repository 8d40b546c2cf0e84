// Package clients covers the client's own account: onboarding answers, the
// profile view and the daily targets derived from them.
package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

const maxListItems = 10

var weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

type Store interface {
	// SaveOnboarding stores the answers, copies the measurements onto the
	// client row and marks onboarding done, in one transaction.
	SaveOnboarding(ctx context.Context, o models.Onboarding) (models.Onboarding, error)
	GetOnboarding(ctx context.Context, userID int64) (models.Onboarding, error)
	Profile(ctx context.Context, userID int64) (models.ClientProfile, error)
	IsAssigned(ctx context.Context, coachID, clientID int64) (bool, error)
}

type OnboardingInput struct {
	FullName             *string  `json:"full_name"`
	Age                  *int     `json:"age"`
	Gender               *string  `json:"gender"`
	WeightKg             *float64 `json:"weight_kg"`
	HeightCm             *float64 `json:"height_cm"`
	TargetWeightKg       *float64 `json:"target_weight_kg"`
	GoalType             *string  `json:"goal_type"`
	ActivityLevel        *string  `json:"activity_level"`
	Experience           *string  `json:"experience"`
	BodyPartFocus        []string `json:"body_part_focus"`
	WorkoutPlace         []string `json:"workout_place"`
	PreferredWorkoutDays []string `json:"preferred_workout_days"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func inRange(name string, v *float64, lo, hi float64) error {
	if v != nil && (*v < lo || *v > hi) {
		return apperr.InvalidInput(fmt.Sprintf("%s must be between %g and %g", name, lo, hi))
	}
	return nil
}

func cleanList(name string, in []string) ([]string, error) {
	if len(in) > maxListItems {
		return nil, apperr.InvalidInput(fmt.Sprintf("%s takes at most %d items", name, maxListItems))
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (in OnboardingInput) onboarding(userID int64) (models.Onboarding, error) {
	o := models.Onboarding{
		UserID:         userID,
		FullName:       trimmed(in.FullName),
		Age:            in.Age,
		Gender:         trimmed(in.Gender),
		WeightKg:       in.WeightKg,
		HeightCm:       in.HeightCm,
		TargetWeightKg: in.TargetWeightKg,
		GoalType:       trimmed(in.GoalType),
		Experience:     trimmed(in.Experience),
	}
	if in.Age != nil && (*in.Age < 10 || *in.Age > 100) {
		return models.Onboarding{}, apperr.InvalidInput("age must be between 10 and 100")
	}
	if err := inRange("weight_kg", in.WeightKg, 20, 400); err != nil {
		return models.Onboarding{}, err
	}
	if err := inRange("height_cm", in.HeightCm, 100, 250); err != nil {
		return models.Onboarding{}, err
	}
	if err := inRange("target_weight_kg", in.TargetWeightKg, 20, 400); err != nil {
		return models.Onboarding{}, err
	}
	if lvl := trimmed(in.ActivityLevel); lvl != nil {
		v := strings.ToLower(*lvl)
		if _, ok := activityMultipliers[v]; !ok {
			return models.Onboarding{}, apperr.InvalidInput("activity_level must be one of sedentary, light, moderate, active, very_active")
		}
		o.ActivityLevel = &v
	}

	var err error
	if o.BodyPartFocus, err = cleanList("body_part_focus", in.BodyPartFocus); err != nil {
		return models.Onboarding{}, err
	}
	if o.WorkoutPlace, err = cleanList("workout_place", in.WorkoutPlace); err != nil {
		return models.Onboarding{}, err
	}
	if o.PreferredWorkoutDays, err = weekdaySet(in.PreferredWorkoutDays); err != nil {
		return models.Onboarding{}, err
	}
	return o, nil
}

// weekdaySet validates day keys and returns them deduplicated in week order.
func weekdaySet(in []string) ([]string, error) {
	seen := map[string]bool{}
	for _, d := range in {
		d = strings.ToLower(strings.TrimSpace(d))
		ok := false
		for _, w := range weekdays {
			if d == w {
				ok = true
				break
			}
		}
		if !ok {
			return nil, apperr.InvalidInput(fmt.Sprintf("unknown weekday %q", d))
		}
		seen[d] = true
	}
	out := []string{}
	for _, w := range weekdays {
		if seen[w] {
			out = append(out, w)
		}
	}
	return out, nil
}

type Service struct {
	store Store
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log.With().Str("component", "clients").Logger()}
}

func (s *Service) SaveOnboarding(ctx context.Context, userID int64, in OnboardingInput) (models.Onboarding, error) {
	o, err := in.onboarding(userID)
	if err != nil {
		return models.Onboarding{}, err
	}
	out, err := s.store.SaveOnboarding(ctx, o)
	if err != nil {
		return models.Onboarding{}, err
	}
	s.log.Info().Int64("client_id", userID).Msg("onboarding saved")
	return out, nil
}

func (s *Service) Onboarding(ctx context.Context, userID int64) (models.Onboarding, error) {
	return s.store.GetOnboarding(ctx, userID)
}

// StudentOnboarding lets a coach read an assigned student's answers.
func (s *Service) StudentOnboarding(ctx context.Context, coachID, clientID int64) (models.Onboarding, error) {
	ok, err := s.store.IsAssigned(ctx, coachID, clientID)
	if err != nil {
		return models.Onboarding{}, err
	}
	if !ok {
		return models.Onboarding{}, apperr.Forbidden("student not assigned to this coach")
	}
	return s.store.GetOnboarding(ctx, clientID)
}

func (s *Service) Me(ctx context.Context, userID int64) (models.ClientProfile, error) {
	return s.store.Profile(ctx, userID)
}

// DailyTargets needs finished onboarding with weight and height.
func (s *Service) DailyTargets(ctx context.Context, userID int64) (Targets, error) {
	p, err := s.store.Profile(ctx, userID)
	if err != nil {
		return Targets{}, err
	}
	if !p.OnboardingDone {
		return Targets{}, apperr.InvalidInput("onboarding not completed")
	}
	if p.WeightKg == nil || p.HeightCm == nil {
		return Targets{}, apperr.InvalidInput("missing client measurements")
	}
	m := Measurements{WeightKg: *p.WeightKg, HeightCm: *p.HeightCm, Age: p.Age}
	if p.Gender != nil {
		m.Gender = *p.Gender
	}
	if p.GoalType != nil {
		m.GoalType = *p.GoalType
	}
	if p.ActivityLevel != nil {
		m.ActivityLevel = *p.ActivityLevel
	}
	return ComputeTargets(m), nil
}
