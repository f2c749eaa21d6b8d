package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/ppltracker/internal/client"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <workout-id>",
	Short: "Delete a workout by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	if !deleteYes {
		fmt.Printf("delete workout %s? [y/N] ", id)
		in := bufio.NewScanner(os.Stdin)
		if !in.Scan() || strings.ToLower(strings.TrimSpace(in.Text())) != "y" {
			fmt.Println("canceled")
			return nil
		}
	}

	confirmation, err := apiClient.DeleteWorkout(cmd.Context(), id)
	if errors.Is(err, client.ErrWorkoutNotFound) {
		return fmt.Errorf("workout %s not found", id)
	} else if err != nil {
		return err
	}

	color.Green("%s", confirmation.Message)
	return nil
}
