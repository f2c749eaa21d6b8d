package session

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/2beens/ppltracker/internal/workouts"
)

// Phase is the editor state: first pick a workout type, then fill in
// the per-exercise values. Rendering is up to the caller.
type Phase int

const (
	PhaseSelectingType Phase = iota
	PhaseEnteringExercises
)

var (
	ErrNoExercises   = errors.New("enter at least one exercise with sets, reps, or weight")
	ErrNoTypeChosen  = errors.New("no workout type selected")
	ErrWrongPhase    = errors.New("operation not valid in current phase")
	ErrUnknownTypeID = errors.New("unknown workout type")
)

// Input holds the raw per-exercise values as entered by the user.
// They stay strings until Build, where unparseable values coerce to 0.
type Input struct {
	Sets   string
	Reps   string
	Weight string
}

const (
	defaultSets = "3"
	defaultReps = "12"
)

// Editor walks a user through recording one workout for one date.
// Starting from an existing workout pre-seeds its values and skips
// straight to exercise entry (edit mode).
type Editor struct {
	date        string
	phase       Phase
	workoutType workouts.Type
	existingID  string
	inputs      map[string]Input
}

func NewEditor(date string, existing *workouts.Workout) *Editor {
	ed := &Editor{
		date:   date,
		phase:  PhaseSelectingType,
		inputs: make(map[string]Input),
	}

	if existing != nil {
		ed.existingID = existing.ID
		ed.workoutType = existing.Type
		ed.phase = PhaseEnteringExercises
		for _, e := range existing.Exercises {
			ed.inputs[e.ID] = Input{
				Sets:   nonZeroString(e.Sets),
				Reps:   nonZeroString(e.Reps),
				Weight: nonZeroFloatString(e.Weight),
			}
		}
	}

	return ed
}

func (ed *Editor) Phase() Phase             { return ed.phase }
func (ed *Editor) Date() string             { return ed.date }
func (ed *Editor) Type() workouts.Type      { return ed.workoutType }
func (ed *Editor) ExistingID() string       { return ed.existingID }
func (ed *Editor) IsEdit() bool             { return ed.existingID != "" }
func (ed *Editor) InputFor(id string) Input { return ed.inputs[id] }

// Exercises lists the catalog entries for the selected type.
func (ed *Editor) Exercises() []workouts.CatalogExercise {
	return workouts.Catalog[ed.workoutType]
}

// SelectType moves the editor into exercise entry. For new sessions
// every catalog exercise of that type is pre-seeded with the default
// sets/reps and an empty weight.
func (ed *Editor) SelectType(t workouts.Type) error {
	if ed.phase != PhaseSelectingType {
		return ErrWrongPhase
	}
	if !t.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownTypeID, t)
	}

	ed.workoutType = t
	ed.phase = PhaseEnteringExercises

	for _, ex := range workouts.Catalog[t] {
		ed.inputs[ex.ID] = Input{Sets: defaultSets, Reps: defaultReps}
	}
	return nil
}

// ChangeType goes back to type selection, dropping the entered values.
func (ed *Editor) ChangeType() error {
	if ed.phase != PhaseEnteringExercises {
		return ErrWrongPhase
	}
	ed.phase = PhaseSelectingType
	ed.workoutType = ""
	ed.inputs = make(map[string]Input)
	return nil
}

// SetInput records the raw values for one catalog exercise.
func (ed *Editor) SetInput(exerciseID string, in Input) error {
	if ed.phase != PhaseEnteringExercises {
		return ErrWrongPhase
	}
	ed.inputs[exerciseID] = in
	return nil
}

// Build combines catalog metadata with the entered values into a
// normalized workout. Unparseable numeric input coerces to 0, entries
// with all-zero values are dropped, and a workout left with no entries
// is rejected with ErrNoExercises. On success the caller persists the
// workout (update when ExistingID is set, save otherwise).
func (ed *Editor) Build() (*workouts.Workout, error) {
	if ed.phase != PhaseEnteringExercises {
		return nil, ErrNoTypeChosen
	}

	var entries []workouts.ExerciseEntry
	for _, ex := range workouts.Catalog[ed.workoutType] {
		in := ed.inputs[ex.ID]
		entry := workouts.ExerciseEntry{
			ID:     ex.ID,
			Name:   ex.Name,
			Sets:   atoiOrZero(in.Sets),
			Reps:   atoiOrZero(in.Reps),
			Weight: atofOrZero(in.Weight),
			Unit:   ex.Unit,
		}
		if entry.IsZero() {
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrNoExercises
	}

	return &workouts.Workout{
		Date:      ed.date,
		Type:      ed.workoutType,
		Exercises: entries,
	}, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func atofOrZero(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func nonZeroString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func nonZeroFloatString(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
