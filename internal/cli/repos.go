package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// addRepoCommand creates the "add-repo" command.
func (c *CLI) addRepoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-repo <path>",
		Short: "Add a repository document (DSL or JSON) to the local catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newManager()
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)
			repo, err := m.AddRepo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Added repository %s", repo.Name))

			printSuccess("Added repository %s (%d packages)", repo.Name, len(repo.Packages))
			for _, w := range repo.Warnings {
				printWarning("%s: %s", w.Package, w.Message)
			}
			return nil
		},
	}
}

// removeRepoCommand creates the "remove-repo" command.
func (c *CLI) removeRepoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-repo <name>",
		Short: "Remove a previously added repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newManager()
			if err != nil {
				return err
			}
			if err := m.RemoveRepo(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed repository %s", args[0])
			return nil
		},
	}
}

// listReposCommand creates the "list-repos" command.
func (c *CLI) listReposCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-repos",
		Short: "List every added repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newManager()
			if err != nil {
				return err
			}
			names, err := m.ListRepos(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No repositories added")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
