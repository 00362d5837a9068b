package cli

import (
	"bytes"
	"testing"
)

func TestRootCommandRegistersAllSubcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	want := []string{
		"add-repo", "remove-repo", "list-repos",
		"install", "uninstall", "update", "list",
		"graph", "doctor",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("RootCommand() missing subcommand %q", name)
		}
	}
}

func TestRootCommandVerboseFlagRaisesLogLevel(t *testing.T) {
	t.Setenv("FETCHY_HOME", t.TempDir())

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()

	root.SetArgs([]string{"list-repos", "--verbose"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	// Whether the subcommand itself succeeds does not matter here:
	// PersistentPreRun runs before it and is all this test exercises.
	_ = root.Execute()

	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("--verbose should raise the CLI logger to debug level, got %v", c.Logger.GetLevel())
	}
}
