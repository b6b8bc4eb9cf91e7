package main

import (
	"strings"
	"testing"

	"linklib/internal/api"
)

func TestRootCommandStructure(t *testing.T) {
	root := newRootCommand()

	want := []string{"build", "clean", "daemon", "status", "notify", "config"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestBuildCommandFlags(t *testing.T) {
	cmd := newBuildCommand(newCommandContext(nil))

	for _, flag := range []string{"shows", "clean", "clean-only"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("build command missing flag %q", flag)
		}
	}
	if got := cmd.Flags().Lookup("clean").DefValue; got != "none" {
		t.Errorf("clean default = %q, want none", got)
	}
}

func TestRenderBuildResponse(t *testing.T) {
	out := renderBuildResponse(api.BuildResponse{
		ShowsProcessed: 3,
		LinksCreated:   12,
		Warnings:       []string{"companion link failed"},
		Errors:         []string{"show 4: no existing source among 1 locations"},
		ReportPath:     "/tmp/build-report.txt",
	})

	for _, fragment := range []string{
		"Shows processed",
		"12",
		"warning: companion link failed",
		"error: show 4",
		"report: /tmp/build-report.txt",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("rendered output missing %q:\n%s", fragment, out)
		}
	}
}

func TestShouldSkipConfig(t *testing.T) {
	root := newRootCommand()
	for _, cmd := range root.Commands() {
		if cmd.Name() == "config" {
			if !shouldSkipConfig(cmd) {
				t.Error("config command should skip config loading")
			}
			return
		}
	}
	t.Fatal("config command not found")
}
