package workouts

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/aerayy/fithub-backend/internal/models"
)

// LegacyBlockTitle names the single block synthesized for days stored
// without a structured payload.
const LegacyBlockTitle = "Workout Block"

type ProgramHeader struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	WeekNumber int       `json:"week_number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ActiveProgram is what a client sees. Week holds every weekday; days
// without a workout are JSON null.
type ActiveProgram struct {
	Program ProgramHeader              `json:"program"`
	Week    map[string]json.RawMessage `json:"week"`
}

type legacyItem struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Sets  *int   `json:"sets"`
	Reps  string `json:"reps"`
	Notes string `json:"notes"`
}

type legacyBlock struct {
	Title string       `json:"title"`
	Items []legacyItem `json:"items"`
}

type legacyWarmup struct {
	DurationMin string       `json:"duration_min"`
	Items       []legacyItem `json:"items"`
}

type legacyDay struct {
	Title     string        `json:"title"`
	Kcal      string        `json:"kcal"`
	CoachNote string        `json:"coach_note"`
	Warmup    legacyWarmup  `json:"warmup"`
	Blocks    []legacyBlock `json:"blocks"`
}

func header(p models.WorkoutProgram) ProgramHeader {
	wn := p.WeekNumber
	if wn < 1 {
		wn = DefaultWeekNumber
	}
	return ProgramHeader{ID: p.ID, Title: p.Title, WeekNumber: wn, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

// BuildWeek maps stored days onto the seven weekdays. A stored payload is
// returned as is; otherwise the exercise rows are wrapped in one block.
func BuildWeek(days []models.WorkoutDay) (map[string]json.RawMessage, error) {
	week := make(map[string]json.RawMessage, len(Weekdays))
	for _, d := range Weekdays {
		week[d] = nil
	}
	for _, day := range days {
		if weekdayIndex(day.DayOfWeek) < 0 {
			continue
		}
		if isObject(day.Payload) {
			week[day.DayOfWeek] = day.Payload
			continue
		}
		if len(day.Exercises) == 0 {
			continue
		}
		raw, err := json.Marshal(legacyPayload(day.Exercises))
		if err != nil {
			return nil, err
		}
		week[day.DayOfWeek] = raw
	}
	return week, nil
}

func legacyPayload(rows []models.ExerciseRow) legacyDay {
	items := make([]legacyItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, legacyItem{Type: ItemExercise, Name: r.Name, Sets: r.Sets, Reps: r.Reps, Notes: r.Notes})
	}
	return legacyDay{
		Warmup: legacyWarmup{Items: []legacyItem{}},
		Blocks: []legacyBlock{{Title: LegacyBlockTitle, Items: items}},
	}
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
