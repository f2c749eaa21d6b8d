package workouts

// CatalogExercise is one entry of the fixed exercise catalog.
// PR is a reference personal-record number used as an input hint,
// not a computed statistic.
type CatalogExercise struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	PR   float64 `json:"pr"`
	Unit string  `json:"unit"`
}

// Catalog holds the fixed push/pull/legs exercise lists.
// It is reference data and is never mutated at runtime.
var Catalog = map[Type][]CatalogExercise{
	TypePush: {
		{ID: "overhead-press", Name: "Overhead Press", PR: 20, Unit: "kg/lbs"},
		{ID: "lateral-raises", Name: "Lateral Raises", PR: 20, Unit: "kg/lbs"},
		{ID: "incline-bench-press", Name: "Incline Bench Press", PR: 20, Unit: "kg/lbs"},
		{ID: "bench-press", Name: "Bench Press", PR: 20, Unit: "kg/lbs"},
		{ID: "decline-dumbbell-press", Name: "Decline Dumbbell Press", PR: 20, Unit: "kg/lbs"},
		{ID: "overhead-tricep-extension", Name: "Overhead Tricep Extension", PR: 10, Unit: "kg/lbs"},
	},
	TypePull: {
		{ID: "face-pull", Name: "Face Pull", PR: 10, Unit: "kg/lbs"},
		{ID: "seated-cable-row", Name: "Seated Cable Row", PR: 20, Unit: "kg/lbs"},
		{ID: "chest-rows", Name: "Chest Rows", PR: 20, Unit: "kg/lbs"},
		{ID: "lat-pulldown", Name: "Lat Pulldown", PR: 20, Unit: "kg/lbs"},
		{ID: "hammer-curl", Name: "Hammer Curl", PR: 10, Unit: "kg/lbs"},
		{ID: "concentration-curls", Name: "Concentration Curls", PR: 10, Unit: "kg/lbs"},
	},
	TypeLegs: {
		{ID: "calf-raises", Name: "Calf Raises", PR: 0, Unit: UnitBodyWeight},
		{ID: "leg-extension", Name: "Leg Extension", PR: 20, Unit: "kg/lbs"},
		{ID: "romanian-deadlift", Name: "Romanian Deadlift", PR: 30, Unit: "kg/lbs"},
		{ID: "hip-thrust", Name: "Hip Thrust", PR: 20, Unit: "kg/lbs"},
		{ID: "leg-curl", Name: "Leg Curl", PR: 20, Unit: "kg/lbs"},
		{ID: "squat", Name: "Squat", PR: 30, Unit: "kg/lbs"},
	},
}
