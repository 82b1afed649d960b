package profile

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	identityProfile "github.com/felixgeelhaar/rendezvous/internal/identity/application/profile"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
)

// Cmd is the profile command group.
var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change your profile",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your name and time zone",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		p, err := app.Profiles.Get(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return err
		}
		tz, err := app.Profiles.Timezone(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User: %s\n", app.CurrentUserID)
		if p != nil && p.DisplayName() != "" {
			fmt.Fprintf(out, "Name: %s\n", p.DisplayName())
		}
		now, err := timezone.Format(time.Now(), tz)
		if err != nil {
			return err
		}
		source := ""
		if p == nil || p.Timezone() == "" {
			source = " (detected)"
		}
		fmt.Fprintf(out, "Time zone: %s%s\n", tz, source)
		fmt.Fprintf(out, "Local time: %s\n", now)
		return nil
	},
}

var timezoneCmd = &cobra.Command{
	Use:   "timezone [iana-name]",
	Short: "Set your time zone",
	Long: `Set the zone your availability is written in.

Examples:
  rendezvous profile timezone Europe/London
  rendezvous profile timezone America/New_York`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		p, err := app.Profiles.SetTimezone(cmd.Context(), identityProfile.SetTimezoneCommand{
			UserID:   app.CurrentUserID,
			Timezone: args[0],
		})
		if err != nil {
			return err
		}
		offset, err := timezone.OffsetOf(p.Timezone(), time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Time zone set to %s (UTC%s)\n", p.Timezone(), offset)
		return nil
	},
}

var nameCmd = &cobra.Command{
	Use:   "name [display-name]",
	Short: "Set your display name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		p, err := app.Profiles.Rename(cmd.Context(), app.CurrentUserID, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Display name set to %s\n", p.DisplayName())
		return nil
	},
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(timezoneCmd)
	Cmd.AddCommand(nameCmd)
}
