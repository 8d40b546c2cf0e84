package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

type WorkoutStore struct {
	db *sql.DB
}

func NewWorkoutStore(db *sql.DB) *WorkoutStore {
	return &WorkoutStore{db: db}
}

const programColumns = `id, client_user_id, coach_user_id, title, week_number, is_active, created_at, updated_at`

func scanProgram(r rowScanner) (models.WorkoutProgram, error) {
	var p models.WorkoutProgram
	err := r.Scan(&p.ID, &p.ClientUserID, &p.CoachUserID, &p.Title, &p.WeekNumber, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *WorkoutStore) IsAssigned(ctx context.Context, coachID, clientID int64) (bool, error) {
	return isAssigned(ctx, s.db, coachID, clientID)
}

func (s *WorkoutStore) CreateDraft(ctx context.Context, p models.WorkoutProgram, days []models.WorkoutDay) (int64, error) {
	var programID int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO workout_programs (client_user_id, coach_user_id, title, week_number, is_active)
			VALUES ($1, $2, $3, $4, FALSE)
			RETURNING id`,
			p.ClientUserID, p.CoachUserID, p.Title, p.WeekNumber).Scan(&programID); err != nil {
			return err
		}
		for _, d := range days {
			var dayID int64
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO workout_days (workout_program_id, day_of_week, order_index, day_payload)
				VALUES ($1, $2, $3, $4::jsonb)
				RETURNING id`,
				programID, d.DayOfWeek, d.OrderIndex, nullableJSON(d.Payload)).Scan(&dayID); err != nil {
				return err
			}
			for _, ex := range d.Exercises {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO workout_exercises (workout_day_id, exercise_name, sets, reps, notes, order_index)
					VALUES ($1, $2, $3, $4, $5, $6)`,
					dayID, ex.Name, nullableInt(ex.Sets), ex.Reps, ex.Notes, ex.OrderIndex); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return programID, nil
}

// Assign locks the client row so concurrent assigns for one client run one
// after another, checks ownership, then swaps the active program.
func (s *WorkoutStore) Assign(ctx context.Context, coachID, clientID, programID int64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockAssignedClient(ctx, tx, coachID, clientID); err != nil {
			return err
		}

		var one int
		err := tx.QueryRowContext(ctx, `
			SELECT 1 FROM workout_programs
			WHERE id = $1 AND coach_user_id = $2 AND client_user_id = $3`,
			programID, coachID, clientID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("workout program not found")
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE workout_programs SET is_active = FALSE, updated_at = NOW()
			WHERE client_user_id = $1 AND is_active AND id <> $2`,
			clientID, programID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE workout_programs SET is_active = TRUE, updated_at = NOW()
			WHERE id = $1`, programID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n != 1 {
			return apperr.NotFound("workout program not found")
		}
		return nil
	})
}

func (s *WorkoutStore) ActiveProgram(ctx context.Context, clientID int64) (models.WorkoutProgram, []models.WorkoutDay, error) {
	p, err := scanProgram(s.db.QueryRowContext(ctx, `
		SELECT `+programColumns+`
		FROM workout_programs
		WHERE client_user_id = $1 AND is_active
		LIMIT 1`, clientID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkoutProgram{}, nil, apperr.NotFound("active workout program not found")
	}
	if err != nil {
		return models.WorkoutProgram{}, nil, mapErr("get active program", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, day_of_week, order_index, day_payload
		FROM workout_days
		WHERE workout_program_id = $1
		ORDER BY order_index ASC, id ASC`, p.ID)
	if err != nil {
		return models.WorkoutProgram{}, nil, mapErr("list workout days", err)
	}
	var (
		days  []models.WorkoutDay
		index = map[int64]int{}
	)
	for rows.Next() {
		var (
			id      int64
			d       models.WorkoutDay
			payload []byte
		)
		if err := rows.Scan(&id, &d.DayOfWeek, &d.OrderIndex, &payload); err != nil {
			rows.Close()
			return models.WorkoutProgram{}, nil, mapErr("scan workout day", err)
		}
		if len(payload) > 0 {
			d.Payload = payload
		}
		index[id] = len(days)
		days = append(days, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.WorkoutProgram{}, nil, mapErr("list workout days", err)
	}
	if len(days) == 0 {
		return p, days, nil
	}

	ex, err := s.db.QueryContext(ctx, `
		SELECT e.workout_day_id, e.exercise_name, e.sets, e.reps, e.notes, e.order_index
		FROM workout_exercises e
		JOIN workout_days d ON d.id = e.workout_day_id
		WHERE d.workout_program_id = $1
		ORDER BY d.order_index ASC, e.order_index ASC, e.id ASC`, p.ID)
	if err != nil {
		return models.WorkoutProgram{}, nil, mapErr("list exercises", err)
	}
	defer ex.Close()
	for ex.Next() {
		var (
			dayID       int64
			row         models.ExerciseRow
			sets        sql.NullInt64
			reps, notes sql.NullString
		)
		if err := ex.Scan(&dayID, &row.Name, &sets, &reps, &notes, &row.OrderIndex); err != nil {
			return models.WorkoutProgram{}, nil, mapErr("scan exercise", err)
		}
		row.Sets = intPtr(sets)
		row.Reps = reps.String
		row.Notes = notes.String
		if i, ok := index[dayID]; ok {
			days[i].Exercises = append(days[i].Exercises, row)
		}
	}
	if err := ex.Err(); err != nil {
		return models.WorkoutProgram{}, nil, mapErr("list exercises", err)
	}
	return p, days, nil
}

func (s *WorkoutStore) ListPrograms(ctx context.Context, coachID, clientID int64) ([]models.WorkoutProgram, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+programColumns+`
		FROM workout_programs
		WHERE client_user_id = $1 AND coach_user_id = $2
		ORDER BY created_at DESC, id DESC`, clientID, coachID)
	if err != nil {
		return nil, mapErr("list programs", err)
	}
	defer rows.Close()
	out := []models.WorkoutProgram{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, mapErr("scan program", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list programs", err)
	}
	return out, nil
}
