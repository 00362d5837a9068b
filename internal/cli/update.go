package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// updateCommand creates the "update" command.
func (c *CLI) updateCommand() *cobra.Command {
	var reinstall bool

	cmd := &cobra.Command{
		Use:   "update [package]...",
		Short: "Update explicitly installed packages to their latest matching release",
		Long:  "Update re-fetches every explicitly installed package (or only the ones named) and replaces its binaries if the resolved version changed. With --reinstall it replaces the binaries even when the version is unchanged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newManager()
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)
			if err := m.Update(cmd.Context(), args, reinstall); err != nil {
				return err
			}
			if len(args) == 0 {
				p.done("Updated all explicitly installed packages")
				printSuccess("Updated all explicitly installed packages")
				return nil
			}
			p.done(fmt.Sprintf("Updated %d package(s)", len(args)))
			printSuccess("Updated %s", joinArgs(args))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reinstall, "reinstall", false, "reinstall even if the resolved version is unchanged")
	return cmd
}
