package availability

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	availabilityCommands "github.com/felixgeelhaar/rendezvous/internal/availability/application/commands"
)

var activateCmd = &cobra.Command{
	Use:   "activate [slot-id]",
	Short: "Use a slot for matching again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], true)
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate [slot-id]",
	Short: "Keep a slot but skip it when matching",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], false)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [slot-id]",
	Short: "Delete a slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		slotID, err := cli.ParseUserID("slot id", args[0])
		if err != nil {
			return err
		}
		if err := app.SlotHandler.Delete(cmd.Context(), availabilityCommands.DeleteSlotCommand{
			UserID: app.CurrentUserID,
			SlotID: slotID,
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted slot: %s\n", slotID)
		return nil
	},
}

func setActive(cmd *cobra.Command, rawID string, active bool) error {
	app, err := cli.RequireApp()
	if err != nil {
		return err
	}
	slotID, err := cli.ParseUserID("slot id", rawID)
	if err != nil {
		return err
	}
	if err := app.SlotHandler.SetActive(cmd.Context(), availabilityCommands.SetSlotActiveCommand{
		UserID: app.CurrentUserID,
		SlotID: slotID,
		Active: active,
	}); err != nil {
		return err
	}

	state := "inactive"
	if active {
		state = "active"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Slot %s is now %s\n", slotID, state)
	return nil
}
