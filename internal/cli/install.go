package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// installCommand creates the "install" command.
func (c *CLI) installCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install <package>...",
		Short: "Install one or more packages, resolving dependencies first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newManager()
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)
			if err := m.Install(cmd.Context(), args); err != nil {
				return err
			}
			p.done(fmt.Sprintf("Installed %d package(s)", len(args)))

			printSuccess("Installed %s", joinArgs(args))
			return nil
		},
	}
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += ", " + a
	}
	return out
}
