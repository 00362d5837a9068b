package cli

import (
	"github.com/spf13/cobra"
)

// doctorCommand creates the "doctor" command.
func (c *CLI) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the local install store for missing, untracked, or orphaned state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newManager()
			if err != nil {
				return err
			}

			issues, err := m.Doctor(cmd.Context())
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				printSuccess("No issues found")
				return nil
			}
			for _, issue := range issues {
				printWarning("%s", issue)
			}
			return nil
		},
	}
}
