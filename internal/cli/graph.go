package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/render/nodelink"
)

// graphCommand creates the "graph" command.
func (c *CLI) graphCommand() *cobra.Command {
	var detailed bool
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "graph [package]",
		Short: "Render a dependency graph as Graphviz DOT, SVG, PDF, or PNG",
		Long:  "With no argument, graph renders the full install graph. With a package argument, it renders the catalog subgraph reachable from that package, marking which of its dependencies are already installed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.newManager()
			if err != nil {
				return err
			}

			var ref string
			if len(args) == 1 {
				ref = args[0]
			}

			dot, err := m.Graph(cmd.Context(), ref, detailed)
			if err != nil {
				return err
			}

			output, err := renderGraph(dot, format)
			if err != nil {
				return err
			}

			if outPath == "" {
				if format == "dot" {
					fmt.Println(string(output))
					return nil
				}
				_, err := os.Stdout.Write(output)
				return err
			}
			if err := os.WriteFile(outPath, output, 0o644); err != nil {
				return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "writing %s", outPath)
			}
			printSuccess("Wrote %s", outPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include version and platform detail on each node")
	cmd.Flags().StringVar(&format, "format", "dot", "output format: dot, svg, pdf, or png")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func renderGraph(dot, format string) ([]byte, error) {
	switch format {
	case "", "dot":
		return []byte(dot), nil
	case "svg":
		return nodelink.RenderSVG(dot)
	case "pdf":
		return nodelink.RenderPDF(dot)
	case "png":
		return nodelink.RenderPNG(dot, 1.0)
	default:
		return nil, fetchyerrors.New(fetchyerrors.CodeRepositoryError, "unknown graph format %q", format)
	}
}
