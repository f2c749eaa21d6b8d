package workouts

import (
	"errors"
	"fmt"
	"time"
)

// Type is the workout split day: push, pull or legs.
type Type string

const (
	TypePush Type = "push"
	TypePull Type = "pull"
	TypeLegs Type = "legs"
)

func (t Type) Valid() bool {
	switch t {
	case TypePush, TypePull, TypeLegs:
		return true
	default:
		return false
	}
}

// UnitBodyWeight marks catalog entries where the weight input
// is not applicable, and stays 0 by convention.
const UnitBodyWeight = "Body Weight"

// DateLayout is the wire and storage format for workout dates.
// Dates are timezone-naive calendar dates and are never converted
// through an instant, to keep month/week bucketing stable across zones.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// DateString renders a calendar date in the storage format.
func DateString(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// MonthPrefix is the "YYYY-MM" prefix shared by all dates of the given month.
func MonthPrefix(month time.Month, year int) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

type ExerciseEntry struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	Unit   string  `json:"unit"`
}

// Volume is sets * reps * weight. Body weight entries carry weight 0,
// so the formula applies uniformly.
func (e ExerciseEntry) Volume() float64 {
	return float64(e.Sets) * float64(e.Reps) * e.Weight
}

func (e ExerciseEntry) IsZero() bool {
	return e.Sets == 0 && e.Reps == 0 && e.Weight == 0
}

// FilterZeroEntries drops entries where sets, reps and weight are all 0.
func FilterZeroEntries(entries []ExerciseEntry) []ExerciseEntry {
	var filtered []ExerciseEntry
	for _, e := range entries {
		if !e.IsZero() {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

type Workout struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Date      string          `json:"date"`
	Type      Type            `json:"type"`
	Exercises []ExerciseEntry `json:"exercises"`
	CreatedAt time.Time       `json:"created_at"`
}

func (w Workout) TotalVolume() float64 {
	var total float64
	for _, e := range w.Exercises {
		total += e.Volume()
	}
	return total
}

// Validate checks the client-provided fields of a new workout.
// ID and CreatedAt are server-assigned and intentionally not checked.
func (w Workout) Validate() error {
	if w.Date == "" || w.Type == "" || len(w.Exercises) == 0 {
		return errors.New("missing required fields: date, type, or exercises")
	}
	if !ValidDate(w.Date) {
		return ErrInvalidDate
	}
	if !w.Type.Valid() {
		return fmt.Errorf("unknown workout type: %s", w.Type)
	}
	if len(FilterZeroEntries(w.Exercises)) == 0 {
		return errors.New("all exercise entries are empty")
	}
	return nil
}

// UpdateParams carries the fields of a partial update. Nil fields
// keep the stored value, mirroring a shallow merge.
type UpdateParams struct {
	UserID    *string          `json:"user_id,omitempty"`
	Date      *string          `json:"date,omitempty"`
	Type      *Type            `json:"type,omitempty"`
	Exercises *[]ExerciseEntry `json:"exercises,omitempty"`
}

func (p UpdateParams) Validate() error {
	if p.Date != nil && !ValidDate(*p.Date) {
		return ErrInvalidDate
	}
	if p.Type != nil && !p.Type.Valid() {
		return fmt.Errorf("unknown workout type: %s", *p.Type)
	}
	return nil
}

// ApplyTo merges the set fields into the stored workout.
func (p UpdateParams) ApplyTo(w *Workout) {
	if p.UserID != nil {
		w.UserID = *p.UserID
	}
	if p.Date != nil {
		w.Date = *p.Date
	}
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.Exercises != nil {
		w.Exercises = *p.Exercises
	}
}
