// Package cli implements the fetchy command-line interface: add-repo,
// remove-repo, list-repos, install, uninstall, update, list, graph, and
// doctor, built on cobra with verbose logging via charmbracelet/log in
// the same shape the teacher's tool wires its own command tree.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fetchy/fetchy/pkg/buildinfo"
	"github.com/fetchy/fetchy/pkg/config"
	"github.com/fetchy/fetchy/pkg/manager"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered. A --verbose flag switches the CLI's logger to debug
// level and attaches it to every command's context.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "fetchy",
		Short:        "Fetchy installs prebuilt binaries straight from release pages",
		Long:         `Fetchy is a user-space binary package manager: repositories declare where a package's releases live and how to pick the right binary for a platform, and fetchy resolves, downloads, and installs it into a local bin directory.`,
		Version:         buildinfo.Version,
		SilenceUsage:    true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.addRepoCommand())
	root.AddCommand(c.removeRepoCommand())
	root.AddCommand(c.listReposCommand())
	root.AddCommand(c.installCommand())
	root.AddCommand(c.uninstallCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.doctorCommand())

	return root
}

// newManager loads process configuration and wires a Manager for a
// single command invocation.
func (c *CLI) newManager() (*manager.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	m, err := manager.New(cfg)
	if err != nil {
		return nil, err
	}
	m.SetLogger(c.Logger)
	return m, nil
}
