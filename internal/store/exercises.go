package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/aerayy/fithub-backend/internal/exercises"
	"github.com/aerayy/fithub-backend/internal/models"
)

type ExerciseStore struct {
	db *sql.DB
}

func NewExerciseStore(db *sql.DB) *ExerciseStore {
	return &ExerciseStore{db: db}
}

func (s *ExerciseStore) SearchExercises(ctx context.Context, f exercises.Filter) ([]models.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, external_id, canonical_name, level, equipment, category,
		       primary_muscles, secondary_muscles, gif_url
		FROM exercise_library
		WHERE canonical_name ILIKE $1
		   OR external_id ILIKE $1
		   OR EXISTS (SELECT 1 FROM unnest(aliases) AS a WHERE a ILIKE $1)
		ORDER BY canonical_name ASC, id ASC
		LIMIT $2`, f.Pattern, f.Limit)
	if err != nil {
		return nil, mapErr("search exercises", err)
	}
	defer rows.Close()
	out := []models.Exercise{}
	for rows.Next() {
		var (
			e                             models.Exercise
			extID, level, equip, cat, gif sql.NullString
			primary, secondary            []string
		)
		if err := rows.Scan(&e.ID, &extID, &e.CanonicalName, &level, &equip, &cat,
			pq.Array(&primary), pq.Array(&secondary), &gif); err != nil {
			return nil, mapErr("scan exercise", err)
		}
		e.ExternalID = strPtr(extID)
		e.Level = strPtr(level)
		e.Equipment = strPtr(equip)
		e.Category = strPtr(cat)
		e.GifURL = strPtr(gif)
		e.PrimaryMuscles = nonNil(primary)
		e.SecondaryMuscles = nonNil(secondary)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("search exercises", err)
	}
	return out, nil
}
