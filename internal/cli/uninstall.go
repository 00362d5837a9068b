package cli

import (
	"errors"

	"github.com/spf13/cobra"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

// uninstallCommand creates the "uninstall" command.
func (c *CLI) uninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <package>",
		Short: "Uninstall a package and sweep any dependencies left orphaned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newManager()
			if err != nil {
				return err
			}

			err = m.Uninstall(cmd.Context(), args[0])
			var breakErr *fetchyerrors.WouldBreakDependentsError
			if errors.As(err, &breakErr) {
				printError("Uninstalling %s would break: %v", breakErr.Package, breakErr.Dependents)
				printDetail("Uninstall those packages first")
				return err
			}
			if err != nil {
				return err
			}

			printSuccess("Uninstalled %s", args[0])
			return nil
		},
	}
}
