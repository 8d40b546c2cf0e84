package workouts

import (
	"strings"

	"github.com/aerayy/fithub-backend/internal/models"
)

// SupersetMarker prefixes the notes of every row that came out of a
// superset. The grouping itself is not stored and is never rebuilt.
const SupersetMarker = "[SS]"

// Flatten turns a structured day into exercise rows: warm-up items first,
// then each block's items. A superset becomes one row per nested exercise.
func Flatten(p DayPayload) []models.ExerciseRow {
	var rows []models.ExerciseRow
	add := func(it Item, superset bool) {
		notes := it.Notes
		if superset {
			notes = supersetNote(notes)
		}
		rows = append(rows, models.ExerciseRow{
			Name:       strings.TrimSpace(it.Name),
			Sets:       it.Sets.Int(),
			Reps:       strings.TrimSpace(string(it.Reps)),
			Notes:      notes,
			OrderIndex: len(rows) + 1,
		})
	}
	walk := func(items []Item) {
		for _, it := range items {
			if it.Type == ItemSuperset {
				for _, sub := range it.Items {
					add(sub, true)
				}
				continue
			}
			add(it, false)
		}
	}
	walk(p.Warmup.Items)
	for _, b := range p.Blocks {
		walk(b.Items)
	}
	return rows
}

func supersetNote(notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return SupersetMarker
	}
	return SupersetMarker + " " + notes
}

// FlatRows converts a legacy exercise array into rows.
func FlatRows(flat []FlatExercise) []models.ExerciseRow {
	rows := make([]models.ExerciseRow, 0, len(flat))
	for i, ex := range flat {
		rows = append(rows, models.ExerciseRow{
			Name:       strings.TrimSpace(ex.Name),
			Sets:       ex.Sets.Int(),
			Reps:       strings.TrimSpace(string(ex.Reps)),
			Notes:      ex.Notes,
			OrderIndex: i + 1,
		})
	}
	return rows
}
