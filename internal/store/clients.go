package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

type ClientStore struct {
	db *sql.DB
}

func NewClientStore(db *sql.DB) *ClientStore {
	return &ClientStore{db: db}
}

const onboardingColumns = `user_id, full_name, age, gender, weight_kg, height_cm, target_weight_kg,
	goal_type, activity_level, experience, body_part_focus, workout_place, preferred_workout_days, updated_at`

func scanOnboarding(r rowScanner) (models.Onboarding, error) {
	var (
		o                              models.Onboarding
		name, gender, goal, level, exp sql.NullString
		age                            sql.NullInt64
		weight, height, target         sql.NullFloat64
		focus, place, days             []string
	)
	if err := r.Scan(&o.UserID, &name, &age, &gender, &weight, &height, &target,
		&goal, &level, &exp, pq.Array(&focus), pq.Array(&place), pq.Array(&days), &o.UpdatedAt); err != nil {
		return models.Onboarding{}, err
	}
	o.FullName = strPtr(name)
	o.Age = intPtr(age)
	o.Gender = strPtr(gender)
	o.WeightKg = floatPtr(weight)
	o.HeightCm = floatPtr(height)
	o.TargetWeightKg = floatPtr(target)
	o.GoalType = strPtr(goal)
	o.ActivityLevel = strPtr(level)
	o.Experience = strPtr(exp)
	o.BodyPartFocus = nonNil(focus)
	o.WorkoutPlace = nonNil(place)
	o.PreferredWorkoutDays = nonNil(days)
	return o, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// SaveOnboarding replaces the stored answers. Client row fields keep their
// old value when an answer is left out.
func (s *ClientStore) SaveOnboarding(ctx context.Context, o models.Onboarding) (models.Onboarding, error) {
	var out models.Onboarding
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		out, err = scanOnboarding(tx.QueryRowContext(ctx, `
			INSERT INTO client_onboarding (user_id, full_name, age, gender, weight_kg, height_cm, target_weight_kg,
				goal_type, activity_level, experience, body_part_focus, workout_place, preferred_workout_days)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (user_id) DO UPDATE SET
				full_name = EXCLUDED.full_name,
				age = EXCLUDED.age,
				gender = EXCLUDED.gender,
				weight_kg = EXCLUDED.weight_kg,
				height_cm = EXCLUDED.height_cm,
				target_weight_kg = EXCLUDED.target_weight_kg,
				goal_type = EXCLUDED.goal_type,
				activity_level = EXCLUDED.activity_level,
				experience = EXCLUDED.experience,
				body_part_focus = EXCLUDED.body_part_focus,
				workout_place = EXCLUDED.workout_place,
				preferred_workout_days = EXCLUDED.preferred_workout_days,
				updated_at = NOW()
			RETURNING `+onboardingColumns,
			o.UserID, o.FullName, nullableInt(o.Age), o.Gender, o.WeightKg, o.HeightCm, o.TargetWeightKg,
			o.GoalType, o.ActivityLevel, o.Experience,
			pq.Array(o.BodyPartFocus), pq.Array(o.WorkoutPlace), pq.Array(o.PreferredWorkoutDays)))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO clients (user_id, gender, age, weight_kg, height_cm, goal_type, activity_level, onboarding_done)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
			ON CONFLICT (user_id) DO UPDATE SET
				gender = COALESCE(EXCLUDED.gender, clients.gender),
				age = COALESCE(EXCLUDED.age, clients.age),
				weight_kg = COALESCE(EXCLUDED.weight_kg, clients.weight_kg),
				height_cm = COALESCE(EXCLUDED.height_cm, clients.height_cm),
				goal_type = COALESCE(EXCLUDED.goal_type, clients.goal_type),
				activity_level = COALESCE(EXCLUDED.activity_level, clients.activity_level),
				onboarding_done = TRUE`,
			o.UserID, o.Gender, nullableInt(o.Age), o.WeightKg, o.HeightCm, o.GoalType, o.ActivityLevel); err != nil {
			return err
		}
		if o.FullName != nil {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET full_name = $1, updated_at = NOW() WHERE id = $2`, *o.FullName, o.UserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Onboarding{}, err
	}
	return out, nil
}

func (s *ClientStore) GetOnboarding(ctx context.Context, userID int64) (models.Onboarding, error) {
	o, err := scanOnboarding(s.db.QueryRowContext(ctx,
		`SELECT `+onboardingColumns+` FROM client_onboarding WHERE user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Onboarding{}, apperr.NotFound("onboarding not found")
	}
	if err != nil {
		return models.Onboarding{}, mapErr("get onboarding", err)
	}
	return o, nil
}

// Profile works before the client row exists; the LEFT JOIN leaves the
// client fields empty.
func (s *ClientStore) Profile(ctx context.Context, userID int64) (models.ClientProfile, error) {
	var (
		p                         models.ClientProfile
		name, gender, goal, level sql.NullString
		age, coach                sql.NullInt64
		weight, height            sql.NullFloat64
		done                      sql.NullBool
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.full_name, u.role,
		       c.onboarding_done, c.gender, c.age, c.weight_kg, c.height_cm,
		       c.goal_type, c.activity_level, c.assigned_coach_id
		FROM users u
		LEFT JOIN clients c ON c.user_id = u.id
		WHERE u.id = $1`, userID).Scan(&p.User.ID, &p.User.Email, &name, &p.User.Role,
		&done, &gender, &age, &weight, &height, &goal, &level, &coach)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ClientProfile{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return models.ClientProfile{}, mapErr("get client profile", err)
	}
	p.User.FullName = name.String
	p.OnboardingDone = done.Valid && done.Bool
	p.Gender = strPtr(gender)
	p.Age = intPtr(age)
	p.WeightKg = floatPtr(weight)
	p.HeightCm = floatPtr(height)
	p.GoalType = strPtr(goal)
	p.ActivityLevel = strPtr(level)
	p.AssignedCoachID = int64Ptr(coach)
	return p, nil
}

func (s *ClientStore) IsAssigned(ctx context.Context, coachID, clientID int64) (bool, error) {
	return isAssigned(ctx, s.db, coachID, clientID)
}
