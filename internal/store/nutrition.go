package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

type NutritionStore struct {
	db *sql.DB
}

func NewNutritionStore(db *sql.DB) *NutritionStore {
	return &NutritionStore{db: db}
}

const nutritionColumns = `id, client_user_id, coach_user_id, title, is_active, created_at, updated_at`

func scanNutrition(r rowScanner) (models.NutritionProgram, error) {
	var p models.NutritionProgram
	err := r.Scan(&p.ID, &p.ClientUserID, &p.CoachUserID, &p.Title, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// clockTime trims a TIME value ("09:30:00") to "HH:MM".
func clockTime(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	if len(s) > 5 {
		s = s[:5]
	}
	return &s
}

func (s *NutritionStore) IsAssigned(ctx context.Context, coachID, clientID int64) (bool, error) {
	return isAssigned(ctx, s.db, coachID, clientID)
}

// SetActive locks the client row like WorkoutStore.Assign, retires the
// current plan and inserts p as the active one.
func (s *NutritionStore) SetActive(ctx context.Context, p models.NutritionProgram) (models.NutritionProgram, error) {
	var out models.NutritionProgram
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockAssignedClient(ctx, tx, p.CoachUserID, p.ClientUserID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE nutrition_programs SET is_active = FALSE, updated_at = NOW()
			WHERE client_user_id = $1 AND is_active`, p.ClientUserID); err != nil {
			return err
		}
		var err error
		out, err = scanNutrition(tx.QueryRowContext(ctx, `
			INSERT INTO nutrition_programs (client_user_id, coach_user_id, title, is_active)
			VALUES ($1, $2, $3, TRUE)
			RETURNING `+nutritionColumns,
			p.ClientUserID, p.CoachUserID, p.Title))
		if err != nil {
			return err
		}
		out.Meals = make([]models.NutritionMeal, 0, len(p.Meals))
		for _, m := range p.Meals {
			var planned any
			if m.PlannedTime != nil {
				planned = *m.PlannedTime
			}
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO nutrition_meals (nutrition_program_id, meal_type, content, order_index, planned_time)
				VALUES ($1, $2, $3, $4, $5::time)
				RETURNING id`,
				out.ID, m.MealType, m.Content, m.OrderIndex, planned).Scan(&m.ID); err != nil {
				return err
			}
			out.Meals = append(out.Meals, m)
		}
		return nil
	})
	if err != nil {
		return models.NutritionProgram{}, err
	}
	return out, nil
}

func (s *NutritionStore) ActiveProgram(ctx context.Context, clientID int64) (models.NutritionProgram, error) {
	p, err := scanNutrition(s.db.QueryRowContext(ctx, `
		SELECT `+nutritionColumns+`
		FROM nutrition_programs
		WHERE client_user_id = $1 AND is_active
		LIMIT 1`, clientID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.NutritionProgram{}, apperr.NotFound("active nutrition program not found")
	}
	if err != nil {
		return models.NutritionProgram{}, mapErr("get active nutrition program", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meal_type, content, order_index, planned_time
		FROM nutrition_meals
		WHERE nutrition_program_id = $1
		ORDER BY planned_time NULLS LAST, order_index ASC, id ASC`, p.ID)
	if err != nil {
		return models.NutritionProgram{}, mapErr("list meals", err)
	}
	defer rows.Close()
	p.Meals = []models.NutritionMeal{}
	for rows.Next() {
		var (
			m       models.NutritionMeal
			planned sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.MealType, &m.Content, &m.OrderIndex, &planned); err != nil {
			return models.NutritionProgram{}, mapErr("scan meal", err)
		}
		m.PlannedTime = clockTime(planned)
		p.Meals = append(p.Meals, m)
	}
	if err := rows.Err(); err != nil {
		return models.NutritionProgram{}, mapErr("list meals", err)
	}
	return p, nil
}
