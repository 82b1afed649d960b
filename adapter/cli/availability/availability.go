package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Cmd is the availability command group.
var Cmd = &cobra.Command{
	Use:   "availability",
	Short: "Manage when you are free",
	Long: `Add weekly slots and one-off dates, block out exceptions, and see
which windows you share with a friend.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(weeklyCmd)
	Cmd.AddCommand(activateCmd)
	Cmd.AddCommand(deactivateCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(exceptCmd)
	Cmd.AddCommand(mutualCmd)
}

// parseDay accepts 0-6 or an English weekday name ("mon", "Monday").
func parseDay(value string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if v == name || v == name[:3] {
			return int(d), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n >= 0 && n <= 6 && len(v) == 1 {
		return n, nil
	}
	return 0, fmt.Errorf("invalid day %q (use 0-6 or a weekday name)", value)
}

// parseRange splits "HH:MM-HH:MM".
func parseRange(value string) (string, string, error) {
	start, end, ok := strings.Cut(value, "-")
	if !ok || start == "" || end == "" {
		return "", "", fmt.Errorf("invalid time range %q (use HH:MM-HH:MM)", value)
	}
	return strings.TrimSpace(start), strings.TrimSpace(end), nil
}
