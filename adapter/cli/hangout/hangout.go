package hangout

import "github.com/spf13/cobra"

// Cmd is the hangout command group.
var Cmd = &cobra.Command{
	Use:   "hangout",
	Short: "Record and manage hangouts",
	Long: `Record hangouts with friends and move them through their lifecycle.
Completed hangouts feed the patterns used by suggestions.`,
}

func init() {
	Cmd.AddCommand(recordCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(confirmCmd)
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(declineCmd)
}
