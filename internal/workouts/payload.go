package workouts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aerayy/fithub-backend/internal/apperr"
)

const (
	DefaultTitle      = "Coach Workout Program"
	DefaultWeekNumber = 1
)

// Weekdays are the accepted week keys in display order.
var Weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func weekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// FlexString accepts a JSON string or number, as the mobile clients send
// sets, reps and calorie targets either way.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = FlexString(n.String())
	default:
		return fmt.Errorf("expected string or number, got %s", data)
	}
	return nil
}

// Int parses the value as a whole number. Anything else, such as "8-10",
// yields nil.
func (s FlexString) Int() *int {
	v := strings.TrimSpace(string(s))
	if v == "" {
		return nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == float64(int(f)) {
		n := int(f)
		return &n
	}
	return nil
}

const (
	ItemExercise = "exercise"
	ItemSuperset = "superset"
)

// Item is an exercise or a superset of exercises.
type Item struct {
	Type  string     `json:"type"`
	Name  string     `json:"name,omitempty"`
	Sets  FlexString `json:"sets,omitempty"`
	Reps  FlexString `json:"reps,omitempty"`
	Notes string     `json:"notes,omitempty"`
	Title string     `json:"title,omitempty"`
	Items []Item     `json:"items,omitempty"`
}

type Warmup struct {
	DurationMin FlexString `json:"duration_min"`
	Items       []Item     `json:"items"`
}

type Block struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// DayPayload is the structured form of one weekday.
type DayPayload struct {
	Title     string     `json:"title"`
	Kcal      FlexString `json:"kcal"`
	CoachNote string     `json:"coach_note"`
	Warmup    Warmup     `json:"warmup"`
	Blocks    []Block    `json:"blocks"`
}

// FlatExercise is one entry of the legacy per-day exercise array.
type FlatExercise struct {
	Name  string     `json:"name"`
	Sets  FlexString `json:"sets"`
	Reps  FlexString `json:"reps"`
	Notes string     `json:"notes"`
}

type DayKind int

const (
	DayEmpty DayKind = iota
	DayStructured
	DayLegacyFlat
)

// DayInput is a weekday as submitted by a coach: a structured payload, a
// legacy flat exercise list, or nothing.
type DayInput struct {
	Kind       DayKind
	Raw        json.RawMessage
	Structured DayPayload
	Flat       []FlatExercise
}

func (d *DayInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*d = DayInput{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, &d.Structured); err != nil {
			return err
		}
		d.Kind = DayStructured
		d.Raw = append(json.RawMessage(nil), data...)
	case '[':
		if err := json.Unmarshal(data, &d.Flat); err != nil {
			return err
		}
		if len(d.Flat) > 0 {
			d.Kind = DayLegacyFlat
		}
	default:
		return fmt.Errorf("day must be an object, an array or null")
	}
	return nil
}

// Draft is a coach's program submission.
type Draft struct {
	Title      string
	WeekNumber int
	Week       map[string]DayInput
}

// DecodeDraft parses a draft body, applying defaults and rejecting unknown
// weekday keys and malformed items.
func DecodeDraft(body []byte) (Draft, error) {
	var raw struct {
		Title      *string                    `json:"title"`
		WeekNumber *int                       `json:"week_number"`
		Week       map[string]json.RawMessage `json:"week"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Draft{}, apperr.InvalidInput("malformed program body")
	}
	d := Draft{Title: DefaultTitle, WeekNumber: DefaultWeekNumber, Week: map[string]DayInput{}}
	if raw.Title != nil && strings.TrimSpace(*raw.Title) != "" {
		d.Title = strings.TrimSpace(*raw.Title)
	}
	if raw.WeekNumber != nil {
		if *raw.WeekNumber < 1 {
			return Draft{}, apperr.InvalidInput("week_number must be positive")
		}
		d.WeekNumber = *raw.WeekNumber
	}
	for key, v := range raw.Week {
		if weekdayIndex(key) < 0 {
			return Draft{}, apperr.InvalidInput(fmt.Sprintf("unknown weekday %q", key))
		}
		var day DayInput
		if err := json.Unmarshal(v, &day); err != nil {
			return Draft{}, apperr.InvalidInput(fmt.Sprintf("invalid %s: %v", key, err))
		}
		if err := day.validate(); err != nil {
			return Draft{}, apperr.InvalidInput(fmt.Sprintf("invalid %s: %v", key, err))
		}
		d.Week[key] = day
	}
	return d, nil
}

func (d DayInput) validate() error {
	switch d.Kind {
	case DayStructured:
		if err := validateItems(d.Structured.Warmup.Items, true); err != nil {
			return fmt.Errorf("warmup: %w", err)
		}
		for i, b := range d.Structured.Blocks {
			if err := validateItems(b.Items, true); err != nil {
				return fmt.Errorf("block %d: %w", i+1, err)
			}
		}
	case DayLegacyFlat:
		for i, ex := range d.Flat {
			if strings.TrimSpace(ex.Name) == "" {
				return fmt.Errorf("exercise %d: name is required", i+1)
			}
		}
	}
	return nil
}

func validateItems(items []Item, allowSuperset bool) error {
	for i, it := range items {
		switch it.Type {
		case "", ItemExercise:
			if strings.TrimSpace(it.Name) == "" {
				return fmt.Errorf("item %d: name is required", i+1)
			}
		case ItemSuperset:
			if !allowSuperset {
				return fmt.Errorf("item %d: nested superset", i+1)
			}
			if err := validateItems(it.Items, false); err != nil {
				return fmt.Errorf("superset %d: %w", i+1, err)
			}
		default:
			return fmt.Errorf("item %d: unknown type %q", i+1, it.Type)
		}
	}
	return nil
}
