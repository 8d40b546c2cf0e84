// Package nutrition manages coach-written meal plans. A client has at most
// one active plan; publishing a new one retires the previous plan.
package nutrition

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

const (
	DefaultTitle = "Nutrition Program"

	maxMeals       = 20
	maxTitleLen    = 120
	maxMealTypeLen = 40
	maxContentLen  = 4000
)

type Store interface {
	IsAssigned(ctx context.Context, coachID, clientID int64) (bool, error)
	// SetActive inserts p as the client's only active plan in one
	// transaction and returns it with ids filled in. It fails with
	// Forbidden when the client is not assigned to the coach.
	SetActive(ctx context.Context, p models.NutritionProgram) (models.NutritionProgram, error)
	ActiveProgram(ctx context.Context, clientID int64) (models.NutritionProgram, error)
}

type MealInput struct {
	MealType    string  `json:"meal_type"`
	Content     string  `json:"content"`
	OrderIndex  *int    `json:"order_index"`
	PlannedTime *string `json:"planned_time"`
}

type ProgramInput struct {
	Title string      `json:"title"`
	Meals []MealInput `json:"meals"`
}

// PlannedTime normalizes a wall clock time to "HH:MM". Seconds are accepted
// and dropped.
func PlannedTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", apperr.InvalidInput(fmt.Sprintf("planned_time %q must be HH:MM", s))
}

func (in ProgramInput) program(coachID, clientID int64) (models.NutritionProgram, error) {
	p := models.NutritionProgram{
		ClientUserID: clientID,
		CoachUserID:  coachID,
		Title:        strings.TrimSpace(in.Title),
		Meals:        make([]models.NutritionMeal, 0, len(in.Meals)),
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if utf8.RuneCountInString(p.Title) > maxTitleLen {
		return models.NutritionProgram{}, apperr.InvalidInput(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	if len(in.Meals) > maxMeals {
		return models.NutritionProgram{}, apperr.InvalidInput(fmt.Sprintf("at most %d meals per program", maxMeals))
	}
	for i, m := range in.Meals {
		meal := models.NutritionMeal{
			MealType:   strings.TrimSpace(m.MealType),
			Content:    strings.TrimSpace(m.Content),
			OrderIndex: i + 1,
		}
		if n := utf8.RuneCountInString(meal.MealType); n < 1 || n > maxMealTypeLen {
			return models.NutritionProgram{}, apperr.InvalidInput(fmt.Sprintf("meals[%d].meal_type must be 1 to %d characters", i, maxMealTypeLen))
		}
		if utf8.RuneCountInString(meal.Content) > maxContentLen {
			return models.NutritionProgram{}, apperr.InvalidInput(fmt.Sprintf("meals[%d].content is too long", i))
		}
		if m.OrderIndex != nil {
			if *m.OrderIndex < 0 {
				return models.NutritionProgram{}, apperr.InvalidInput(fmt.Sprintf("meals[%d].order_index must not be negative", i))
			}
			meal.OrderIndex = *m.OrderIndex
		}
		if m.PlannedTime != nil && strings.TrimSpace(*m.PlannedTime) != "" {
			t, err := PlannedTime(*m.PlannedTime)
			if err != nil {
				return models.NutritionProgram{}, err
			}
			meal.PlannedTime = &t
		}
		p.Meals = append(p.Meals, meal)
	}
	return p, nil
}

// SortMeals orders meals the way a day is eaten: timed meals by clock,
// untimed ones last, then by order index and id.
func SortMeals(meals []models.NutritionMeal) {
	sort.SliceStable(meals, func(i, j int) bool {
		a, b := meals[i], meals[j]
		switch {
		case a.PlannedTime != nil && b.PlannedTime == nil:
			return true
		case a.PlannedTime == nil && b.PlannedTime != nil:
			return false
		case a.PlannedTime != nil && *a.PlannedTime != *b.PlannedTime:
			return *a.PlannedTime < *b.PlannedTime
		case a.OrderIndex != b.OrderIndex:
			return a.OrderIndex < b.OrderIndex
		}
		return a.ID < b.ID
	})
}

type Service struct {
	store Store
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log.With().Str("component", "nutrition").Logger()}
}

// Publish replaces the client's active plan with in.
func (s *Service) Publish(ctx context.Context, coachID, clientID int64, in ProgramInput) (models.NutritionProgram, error) {
	p, err := in.program(coachID, clientID)
	if err != nil {
		return models.NutritionProgram{}, err
	}
	out, err := s.store.SetActive(ctx, p)
	if err != nil {
		return models.NutritionProgram{}, err
	}
	if out.Meals == nil {
		out.Meals = []models.NutritionMeal{}
	}
	SortMeals(out.Meals)
	s.log.Info().Int64("program_id", out.ID).Int64("client_id", clientID).Int64("coach_id", coachID).
		Int("meals", len(out.Meals)).Msg("nutrition program published")
	return out, nil
}

func (s *Service) GetActive(ctx context.Context, clientID int64) (models.NutritionProgram, error) {
	p, err := s.store.ActiveProgram(ctx, clientID)
	if err != nil {
		return models.NutritionProgram{}, err
	}
	if p.Meals == nil {
		p.Meals = []models.NutritionMeal{}
	}
	return p, nil
}

func (s *Service) GetActiveForCoach(ctx context.Context, coachID, clientID int64) (models.NutritionProgram, error) {
	ok, err := s.store.IsAssigned(ctx, coachID, clientID)
	if err != nil {
		return models.NutritionProgram{}, err
	}
	if !ok {
		return models.NutritionProgram{}, apperr.Forbidden("student not assigned to this coach")
	}
	return s.GetActive(ctx, clientID)
}
