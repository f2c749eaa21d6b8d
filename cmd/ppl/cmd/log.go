package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/ppltracker/internal/session"
	"github.com/2beens/ppltracker/internal/workouts"
)

var logDate string

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record (or edit) the workout of a day",
	Long: `Walks through recording one workout: pick the split type, then enter
sets/reps/weight per exercise. Logging a date that already has a workout
edits that workout instead.`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "workout date as YYYY-MM-DD (default today)")
}

func runLog(cmd *cobra.Command, _ []string) error {
	date := logDate
	if date == "" {
		now := time.Now()
		date = workouts.DateString(now.Year(), now.Month(), now.Day())
	}
	if !workouts.ValidDate(date) {
		return workouts.ErrInvalidDate
	}

	// one workout per day: logging an existing date edits that record
	var existing *workouts.Workout
	for _, w := range apiClient.GetWorkouts(cmd.Context(), true) {
		if w.Date == date {
			existing = &w
			break
		}
	}

	editor := session.NewEditor(date, existing)
	in := bufio.NewScanner(os.Stdin)

	if editor.IsEdit() {
		fmt.Printf("editing existing %s workout on %s\n", editor.Type(), date)
	}

	for editor.Phase() == session.PhaseSelectingType {
		fmt.Printf("workout for %s - select type:\n", date)
		fmt.Println("  1) push   2) pull   3) legs   q) cancel")
		fmt.Print("> ")
		if !in.Scan() {
			return errors.New("input closed")
		}

		switch strings.TrimSpace(strings.ToLower(in.Text())) {
		case "1", "push":
			_ = editor.SelectType(workouts.TypePush)
		case "2", "pull":
			_ = editor.SelectType(workouts.TypePull)
		case "3", "legs":
			_ = editor.SelectType(workouts.TypeLegs)
		case "q", "quit", "cancel":
			fmt.Println("canceled")
			return nil
		default:
			fmt.Println("unknown choice")
		}
	}

	typeColor(editor.Type()).Printf("%s workout - %s\n", editor.Type(), date)
	fmt.Println("enter values per exercise (empty keeps the shown value, 0 skips):")

	for _, ex := range editor.Exercises() {
		current := editor.InputFor(ex.ID)
		fmt.Printf("\n%s", ex.Name)
		if ex.Unit != workouts.UnitBodyWeight && ex.PR > 0 {
			fmt.Printf(" (ref PR: %.0f %s)", ex.PR, ex.Unit)
		}
		fmt.Println()

		current.Sets = promptValue(in, "  sets", current.Sets)
		current.Reps = promptValue(in, "  reps", current.Reps)
		if ex.Unit != workouts.UnitBodyWeight {
			current.Weight = promptValue(in, "  weight", current.Weight)
		}

		if err := editor.SetInput(ex.ID, current); err != nil {
			return err
		}
	}

	workout, err := editor.Build()
	if err != nil {
		if errors.Is(err, session.ErrNoExercises) {
			color.Yellow("%s", err)
			return nil
		}
		return err
	}

	if editor.IsEdit() {
		updated, err := apiClient.UpdateWorkout(cmd.Context(), editor.ExistingID(), workouts.UpdateParams{
			Date:      &workout.Date,
			Type:      &workout.Type,
			Exercises: &workout.Exercises,
		})
		if err != nil {
			return err
		}
		color.Green("workout %s updated", updated.ID)
		return nil
	}

	saved, err := apiClient.SaveWorkout(cmd.Context(), *workout)
	if err != nil {
		return err
	}
	color.Green("workout %s saved", saved.ID)
	return nil
}

func promptValue(in *bufio.Scanner, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	if !in.Scan() {
		return current
	}
	entered := strings.TrimSpace(in.Text())
	if entered == "" {
		return current
	}
	return entered
}
