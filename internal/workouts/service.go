// Package workouts manages coach-authored workout programs: drafts,
// assignment and the client's active week.
package workouts

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

type Store interface {
	IsAssigned(ctx context.Context, coachID, clientID int64) (bool, error)
	// CreateDraft inserts an inactive program with its days and exercise
	// rows in one transaction and returns the program id.
	CreateDraft(ctx context.Context, p models.WorkoutProgram, days []models.WorkoutDay) (int64, error)
	// Assign makes programID the only active program of clientID in one
	// transaction. It fails with Forbidden when the client is not assigned
	// to the coach and NotFound when the program is not theirs.
	Assign(ctx context.Context, coachID, clientID, programID int64) error
	ActiveProgram(ctx context.Context, clientID int64) (models.WorkoutProgram, []models.WorkoutDay, error)
	ListPrograms(ctx context.Context, coachID, clientID int64) ([]models.WorkoutProgram, error)
}

type Service struct {
	store Store
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log.With().Str("component", "workouts").Logger()}
}

func (s *Service) requireAssigned(ctx context.Context, coachID, clientID int64) error {
	ok, err := s.store.IsAssigned(ctx, coachID, clientID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("student not assigned to this coach")
	}
	return nil
}

// SaveDraft stores d as a new inactive program. Other programs of the
// client are left untouched.
func (s *Service) SaveDraft(ctx context.Context, coachID, clientID int64, d Draft) (int64, error) {
	if err := s.requireAssigned(ctx, coachID, clientID); err != nil {
		return 0, err
	}
	p := models.WorkoutProgram{
		ClientUserID: clientID,
		CoachUserID:  coachID,
		Title:        d.Title,
		WeekNumber:   d.WeekNumber,
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.WeekNumber < 1 {
		p.WeekNumber = DefaultWeekNumber
	}
	days := make([]models.WorkoutDay, 0, len(Weekdays))
	for i, key := range Weekdays {
		in, ok := d.Week[key]
		if !ok {
			continue
		}
		day := models.WorkoutDay{DayOfWeek: key, OrderIndex: i + 1}
		switch in.Kind {
		case DayStructured:
			day.Payload = in.Raw
			day.Exercises = Flatten(in.Structured)
		case DayLegacyFlat:
			day.Exercises = FlatRows(in.Flat)
		default:
			continue
		}
		days = append(days, day)
	}
	id, err := s.store.CreateDraft(ctx, p, days)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int64("program_id", id).Int64("client_id", clientID).Int64("coach_id", coachID).
		Int("days", len(days)).Msg("workout draft saved")
	return id, nil
}

// Assign activates programID for the client, deactivating whatever was
// active before. Assigning the active program again is a no-op.
func (s *Service) Assign(ctx context.Context, coachID, clientID, programID int64) (int64, error) {
	if err := s.store.Assign(ctx, coachID, clientID, programID); err != nil {
		return 0, err
	}
	s.log.Info().Int64("program_id", programID).Int64("client_id", clientID).Msg("workout program assigned")
	return programID, nil
}

func (s *Service) GetActive(ctx context.Context, clientID int64) (ActiveProgram, error) {
	p, days, err := s.store.ActiveProgram(ctx, clientID)
	if err != nil {
		return ActiveProgram{}, err
	}
	week, err := BuildWeek(days)
	if err != nil {
		return ActiveProgram{}, apperr.Internal("build week", err)
	}
	return ActiveProgram{Program: header(p), Week: week}, nil
}

// GetActiveForCoach is GetActive for a coach looking at an assigned student.
func (s *Service) GetActiveForCoach(ctx context.Context, coachID, clientID int64) (ActiveProgram, error) {
	if err := s.requireAssigned(ctx, coachID, clientID); err != nil {
		return ActiveProgram{}, err
	}
	return s.GetActive(ctx, clientID)
}

func (s *Service) ListForClient(ctx context.Context, coachID, clientID int64) ([]models.WorkoutProgram, error) {
	if err := s.requireAssigned(ctx, coachID, clientID); err != nil {
		return nil, err
	}
	programs, err := s.store.ListPrograms(ctx, coachID, clientID)
	if err != nil {
		return nil, err
	}
	if programs == nil {
		programs = []models.WorkoutProgram{}
	}
	return programs, nil
}
