package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func parseMockFlags(t *testing.T, args ...string) (*mockFlags, *cobra.Command) {
	t.Helper()
	var f mockFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return &f, cmd
}

func TestMockFlagsOnlyChangedFields(t *testing.T) {
	f, cmd := parseMockFlags(t, "--status", "404", "--chaos-level", "0")
	in, err := f.input(cmd)
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if in.StatusCode == nil || *in.StatusCode != 404 {
		t.Fatalf("expected status 404, got %v", in.StatusCode)
	}
	if in.ChaosLevel == nil || *in.ChaosLevel != 0 {
		t.Fatalf("explicit zero chaos level must be kept")
	}
	if in.Method != nil || in.Endpoint != nil || in.Template != nil || in.ChaosEnabled != nil || in.DelayMs != nil {
		t.Fatalf("unset flags must stay nil: %+v", in)
	}
}

func TestMockFlagsTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tpl.json")
	if err := os.WriteFile(path, []byte(`{"id":"{{uuid}}"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, cmd := parseMockFlags(t, "--template-file", path)
	in, err := f.input(cmd)
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if in.Template == nil || *in.Template != `{"id":"{{uuid}}"}` {
		t.Fatalf("unexpected template %v", in.Template)
	}

	f, cmd = parseMockFlags(t, "--template-file", path, "--template", "{}")
	if _, err := f.input(cmd); err == nil {
		t.Fatalf("expected error when both template flags are set")
	}
}
