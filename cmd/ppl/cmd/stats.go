package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/ppltracker/internal/workouts"
	"github.com/2beens/ppltracker/internal/workouts/stats"
)

var (
	statsMonth int
	statsYear  int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Monthly stats: type split, volume, weekly series, personal records",
	RunE:  runStats,
}

func init() {
	now := time.Now()
	statsCmd.Flags().IntVar(&statsMonth, "month", int(now.Month()), "month (1-12)")
	statsCmd.Flags().IntVar(&statsYear, "year", now.Year(), "year")
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsMonth < 1 || statsMonth > 12 {
		return fmt.Errorf("invalid month: %d", statsMonth)
	}
	month := time.Month(statsMonth)

	all := apiClient.GetWorkouts(cmd.Context(), false)
	monthly := stats.ComputeMonthly(all, month, statsYear)

	color.New(color.Bold).Printf("%s %d\n", month, statsYear)
	fmt.Printf("workouts: %d  (push %d / pull %d / legs %d)\n",
		monthly.Workouts,
		monthly.CountByType[workouts.TypePush],
		monthly.CountByType[workouts.TypePull],
		monthly.CountByType[workouts.TypeLegs],
	)
	fmt.Printf("total volume: %.0f   avg per workout: %.0f\n\n", monthly.TotalVolume, monthly.AvgVolume)

	fmt.Println("weekly:")
	for _, week := range monthly.WeeklySeries {
		bar := strings.Repeat("#", week.Workouts)
		fmt.Printf("  %-7s %d workouts %-8s volume %.0f\n", week.Week, week.Workouts, bar, week.Volume)
	}

	if len(monthly.Records) > 0 {
		fmt.Println("\npersonal records:")
		for _, pr := range monthly.Records {
			fmt.Printf("  %-28s max weight %.1f (%s)  max volume %.0f (%s)\n",
				pr.Name, pr.MaxWeight, pr.MaxWeightDate, pr.MaxVolume, pr.MaxVolumeDate)
		}
	}

	if points := stats.VolumeProgression(all); len(points) > 0 {
		fmt.Println("\nvolume progression (last 12 workouts):")
		for _, p := range points {
			typeColor(p.Type).Printf("  %s %-5s", p.Date, p.Type)
			fmt.Printf(" %.0f\n", p.Volume)
		}
	}

	return nil
}
