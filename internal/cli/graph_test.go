package cli

import (
	"testing"
)

func TestRenderGraphDotPassesThrough(t *testing.T) {
	dot := "digraph G {}\n"
	out, err := renderGraph(dot, "dot")
	if err != nil {
		t.Fatalf("renderGraph() error = %v", err)
	}
	if string(out) != dot {
		t.Errorf("renderGraph(dot) = %q, want %q", out, dot)
	}
}

func TestRenderGraphUnknownFormat(t *testing.T) {
	if _, err := renderGraph("digraph G {}\n", "bogus"); err == nil {
		t.Error("renderGraph() with an unknown format should error")
	}
}
