package cmd

import (
	"fmt"

	"github.com/brogergvhs/panelcut/internal/config"

	"github.com/spf13/cobra"
)

var switchToNew bool

var configNewCmd = &cobra.Command{
	Use:   "new <label>",
	Short: "Create a new config profile with default values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateConfig(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created new config: %s\n", path)

		if switchToNew {
			if err := config.SwitchConfig(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Switched to:", args[0])
		}
		return nil
	},
}

func init() {
	configNewCmd.Flags().BoolVar(&switchToNew, "switch", false, "make the new config active")
	configCmd.AddCommand(configNewCmd)
}
