package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// listCommand creates the "list" command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every installed package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newManager()
			if err != nil {
				return err
			}

			records, err := m.ListInstalled(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No packages installed")
				return nil
			}

			for _, rec := range records {
				fmt.Printf("%s/%s\n", rec.RepoName, rec.PackageName)
				printKeyValue("  version", rec.ResolvedVersion)
				printKeyValue("  installed as", rec.InstalledAs.String())
				printKeyValue("  platform", rec.Platform.String())
			}
			return nil
		},
	}
}
