package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	t.Run("registers subcommands", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()

		want := map[string]bool{"crawl": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("subcommand %q not registered", name)
			}
		}
	})

	t.Run("help runs without error", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--help"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "crawlmap") {
			t.Error("help output should mention the program name")
		}
	})

	t.Run("has a verbose persistent flag", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if cmd.PersistentFlags().Lookup("verbose") == nil {
			t.Error("verbose persistent flag not registered")
		}
	})
}
