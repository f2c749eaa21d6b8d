package stats

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/ppltracker/internal/workouts"
)

// All functions here are pure: they derive display statistics from the
// given workout list and never touch I/O or mutate their inputs.

// FilterByMonth returns the workouts whose date falls in the given
// calendar month. Dates are matched on their YYYY-MM prefix, so no
// timezone conversion can shift a workout into a neighboring month.
func FilterByMonth(records []workouts.Workout, month time.Month, year int) []workouts.Workout {
	prefix := workouts.MonthPrefix(month, year) + "-"
	var filtered []workouts.Workout
	for _, w := range records {
		if strings.HasPrefix(w.Date, prefix) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// CountByType tallies workouts per split type.
func CountByType(records []workouts.Workout) map[workouts.Type]int {
	counts := make(map[workouts.Type]int)
	for _, w := range records {
		counts[w.Type]++
	}
	return counts
}

// TotalVolume sums sets*reps*weight over all exercises of all given workouts.
func TotalVolume(records []workouts.Workout) float64 {
	var total float64
	for _, w := range records {
		total += w.TotalVolume()
	}
	return total
}

type WeekBucket struct {
	Week     string  `json:"week"`
	Workouts int     `json:"workouts"`
	Volume   float64 `json:"volume"`
}

// WeeklySeries partitions the month into week buckets. The first bucket
// starts on the Sunday on or before the 1st, buckets step 7 days until
// the last day of the month, and membership is an inclusive string
// comparison between bucket start and start+6 days. Every workout of the
// month lands in exactly one bucket.
func WeeklySeries(monthRecords []workouts.Workout, month time.Month, year int) []WeekBucket {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)
	start := firstDay.AddDate(0, 0, -int(firstDay.Weekday()))

	var weeks []WeekBucket
	for d := start; !d.After(lastDay); d = d.AddDate(0, 0, 7) {
		weekStart := d.Format(workouts.DateLayout)
		weekEnd := d.AddDate(0, 0, 6).Format(workouts.DateLayout)

		var count int
		var volume float64
		for _, w := range monthRecords {
			if w.Date >= weekStart && w.Date <= weekEnd {
				count++
				volume += w.TotalVolume()
			}
		}

		weeks = append(weeks, WeekBucket{
			Week:     "Week " + strconv.Itoa(len(weeks)+1),
			Workouts: count,
			Volume:   volume,
		})
	}
	return weeks
}

type DayCount struct {
	Day      int    `json:"day"`
	Date     string `json:"date"`
	Workouts int    `json:"workouts"`
}

// DailySeries returns one entry per calendar day of the month, counting
// workouts dated exactly on that day. By convention there is at most one
// workout per day, but this is not enforced here.
func DailySeries(monthRecords []workouts.Workout, month time.Month, year int) []DayCount {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()

	days := make([]DayCount, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := workouts.DateString(year, month, day)
		var count int
		for _, w := range monthRecords {
			if w.Date == date {
				count++
			}
		}
		days = append(days, DayCount{Day: day, Date: date, Workouts: count})
	}
	return days
}

type PersonalRecord struct {
	ExerciseID    string  `json:"exerciseId"`
	Name          string  `json:"name"`
	MaxWeight     float64 `json:"maxWeight"`
	MaxWeightDate string  `json:"maxWeightDate"`
	MaxVolume     float64 `json:"maxVolume"`
	MaxVolumeDate string  `json:"maxVolumeDate"`
	Unit          string  `json:"unit"`
}

// PersonalRecords folds over the given workouts and tracks, per distinct
// exercise id, the maximum single-entry weight and volume with the date
// each maximum was achieved. A later value only overwrites on strict
// greater-than, so ties resolve to the earliest date. Exercises whose
// max weight and max volume are both 0 are excluded. Result order is
// first-seen order.
func PersonalRecords(records []workouts.Workout) []PersonalRecord {
	byID := make(map[string]*PersonalRecord)
	var order []string

	for _, w := range records {
		for _, e := range w.Exercises {
			pr, ok := byID[e.ID]
			if !ok {
				pr = &PersonalRecord{
					ExerciseID: e.ID,
					Name:       e.Name,
					Unit:       e.Unit,
				}
				byID[e.ID] = pr
				order = append(order, e.ID)
			}
			if e.Weight > pr.MaxWeight {
				pr.MaxWeight = e.Weight
				pr.MaxWeightDate = w.Date
			}
			if volume := e.Volume(); volume > pr.MaxVolume {
				pr.MaxVolume = volume
				pr.MaxVolumeDate = w.Date
			}
		}
	}

	var result []PersonalRecord
	for _, id := range order {
		pr := byID[id]
		if pr.MaxWeight == 0 && pr.MaxVolume == 0 {
			continue
		}
		result = append(result, *pr)
	}
	return result
}

type ProgressionPoint struct {
	Date   string        `json:"date"`
	Volume float64       `json:"volume"`
	Type   workouts.Type `json:"type"`
}

// progressionWindow is the number of most recent workouts shown
// in the volume trend line, regardless of the selected month.
const progressionWindow = 12

// VolumeProgression sorts the entire collection ascending by date and
// maps the last 12 workouts to their total volume and type.
func VolumeProgression(allRecords []workouts.Workout) []ProgressionPoint {
	sorted := make([]workouts.Workout, len(allRecords))
	copy(sorted, allRecords)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	if len(sorted) > progressionWindow {
		sorted = sorted[len(sorted)-progressionWindow:]
	}

	var points []ProgressionPoint
	for _, w := range sorted {
		points = append(points, ProgressionPoint{
			Date:   w.Date,
			Volume: w.TotalVolume(),
			Type:   w.Type,
		})
	}
	return points
}

// Monthly is the composed per-month view served by the stats endpoint.
type Monthly struct {
	Month        int                   `json:"month"`
	Year         int                   `json:"year"`
	Workouts     int                   `json:"workouts"`
	CountByType  map[workouts.Type]int `json:"countByType"`
	TotalVolume  float64               `json:"totalVolume"`
	AvgVolume    float64               `json:"avgVolume"`
	WeeklySeries []WeekBucket          `json:"weeklySeries"`
	DailySeries  []DayCount            `json:"dailySeries"`
	Records      []PersonalRecord      `json:"personalRecords"`
}

// ComputeMonthly derives the full monthly stats view from the complete
// workout collection.
func ComputeMonthly(allRecords []workouts.Workout, month time.Month, year int) Monthly {
	monthRecords := FilterByMonth(allRecords, month, year)

	totalVolume := TotalVolume(monthRecords)
	avgVolume := 0.0
	if len(monthRecords) > 0 {
		avgVolume = totalVolume / float64(len(monthRecords))
	}

	return Monthly{
		Month:        int(month),
		Year:         year,
		Workouts:     len(monthRecords),
		CountByType:  CountByType(monthRecords),
		TotalVolume:  totalVolume,
		AvgVolume:    avgVolume,
		WeeklySeries: WeeklySeries(monthRecords, month, year),
		DailySeries:  DailySeries(monthRecords, month, year),
		Records:      PersonalRecords(monthRecords),
	}
}
