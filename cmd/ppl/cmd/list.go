package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/ppltracker/internal/workouts"
)

var listRefresh bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show workout history, newest first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listRefresh, "refresh", false, "bypass the read cache")
}

func runList(cmd *cobra.Command, _ []string) error {
	all := apiClient.GetWorkouts(cmd.Context(), listRefresh)
	if len(all) == 0 {
		fmt.Println("no workouts recorded yet")
		return nil
	}

	for _, w := range all {
		typeColor(w.Type).Printf("%s  %-5s", w.Date, w.Type)
		fmt.Printf("  %d exercises, volume %.0f\n", len(w.Exercises), w.TotalVolume())
		for _, e := range w.Exercises {
			fmt.Printf("    %-28s %dx%d", e.Name, e.Sets, e.Reps)
			if e.Unit != workouts.UnitBodyWeight {
				fmt.Printf(" @ %.1f %s", e.Weight, e.Unit)
			}
			fmt.Println()
		}
	}

	return nil
}

func typeColor(t workouts.Type) *color.Color {
	switch t {
	case workouts.TypePush:
		return color.New(color.FgRed, color.Bold)
	case workouts.TypePull:
		return color.New(color.FgBlue, color.Bold)
	case workouts.TypeLegs:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}
