// Package render provides SVG-to-PDF/PNG format conversion shared by
// Fetchy's dependency graph visualizer.
//
// # Overview
//
// The `fetchy graph` command (see pkg/depgraph and internal/cli) renders
// either the install graph of every installed package or the catalog
// subgraph reachable from one package. The [nodelink] subpackage turns a [dag.DAG] into Graphviz
// DOT and SVG; this package converts that SVG to PDF or PNG when the user
// asks for one of those output formats.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// [ToPDF] and [ToPNG] shell out to the external rsvg-convert tool (from
// librsvg); they return a descriptive error if it is not on PATH.
//
// [nodelink]: github.com/fetchy/fetchy/pkg/render/nodelink
// [dag.DAG]: github.com/fetchy/fetchy/pkg/dag
package render
