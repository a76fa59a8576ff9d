package main

import (
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "gdorking" {
			t.Errorf("expected use 'gdorking', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("silences cobra output", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected SilenceUsage and SilenceErrors")
		}
	})

	t.Run("has flags", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name       string
			persistent bool
			shorthand  string
			defValue   string
		}{
			{name: "debug", persistent: true, shorthand: "d", defValue: "false"},
			{name: "proxy", persistent: true, defValue: ""},
			{name: "tor", persistent: true, defValue: "false"},
			{name: "tor-timeout", persistent: true, defValue: "3m0s"},
			{name: "config", persistent: true, shorthand: "c", defValue: ""},
			{name: "id", shorthand: "i", defValue: "0"},
			{name: "output", shorthand: "o", defValue: ""},
		}

		for _, tt := range tests {
			flags := cmd.Flags()
			if tt.persistent {
				flags = cmd.PersistentFlags()
			}
			flag := flags.Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("%s: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		want := map[string]bool{"export": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})
}

func TestRootCmdRejectsArgs(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"unexpected"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestRootCmdConflictingTransports(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--proxy", "127.0.0.1:9050", "--tor", "--config", writeConfig(t, "")})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when both --proxy and --tor are set")
	}
}
