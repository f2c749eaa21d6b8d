package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/ppltracker/internal/workouts"
	"github.com/2beens/ppltracker/internal/workouts/stats"
)

var (
	calMonth int
	calYear  int
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Month grid with workout markers",
	RunE:  runCalendar,
}

func init() {
	now := time.Now()
	calendarCmd.Flags().IntVar(&calMonth, "month", int(now.Month()), "month (1-12)")
	calendarCmd.Flags().IntVar(&calYear, "year", now.Year(), "year")
}

func runCalendar(cmd *cobra.Command, _ []string) error {
	if calMonth < 1 || calMonth > 12 {
		return fmt.Errorf("invalid month: %d", calMonth)
	}
	month := time.Month(calMonth)

	all := apiClient.GetWorkouts(cmd.Context(), false)
	monthWorkouts := stats.FilterByMonth(all, month, calYear)

	byDate := make(map[string]workouts.Type)
	for _, w := range monthWorkouts {
		byDate[w.Date] = w.Type
	}

	color.New(color.Bold).Printf("%s %d\n", month, calYear)
	fmt.Println("Su Mo Tu We Th Fr Sa")

	firstDay := time.Date(calYear, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()

	// leading blanks up to the weekday of the 1st
	for i := 0; i < int(firstDay.Weekday()); i++ {
		fmt.Print("   ")
	}

	for day := 1; day <= daysInMonth; day++ {
		date := workouts.DateString(calYear, month, day)
		if t, ok := byDate[date]; ok {
			typeColor(t).Printf("%2d", day)
			fmt.Print(" ")
		} else {
			fmt.Printf("%2d ", day)
		}

		weekday := (int(firstDay.Weekday()) + day) % 7
		if weekday == 0 {
			fmt.Println()
		}
	}
	fmt.Println()

	fmt.Print("\nmarkers: ")
	typeColor(workouts.TypePush).Print("push ")
	typeColor(workouts.TypePull).Print("pull ")
	typeColor(workouts.TypeLegs).Print("legs")
	fmt.Println()

	return nil
}
