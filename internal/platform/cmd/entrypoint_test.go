package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	JournalPath string `env:"CMD_TEST_JOURNAL_PATH" envDefault:"journal.db"`
	Format      string `env:"CMD_TEST_FORMAT" envDefault:"json/v1"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("FREECIV_NOSTR_CMD_TEST_JOURNAL_PATH", "env.db")
	t.Setenv("FREECIV_NOSTR_CMD_TEST_FORMAT", "cbor/v1")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.JournalPath, "db", cfgRef.JournalPath, "journal path")
	fs.StringVar(&cfgRef.Format, "format", cfgRef.Format, "format")

	if err := ParseArgs(fs, []string{"-db", "flag.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.JournalPath != "flag.db" {
		t.Fatalf("expected flag value for journal path, got %q", cfgRef.JournalPath)
	}
	if cfgRef.Format != "cbor/v1" {
		t.Fatalf("expected env format, got %q", cfgRef.Format)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", RunOptions{}, func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceCLI, RunOptions{}, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("FREECIV_NOSTR_OTEL_ENDPOINT", "")

	want := errors.New("run failed")
	called := false
	err := RunWithTelemetry(context.Background(), ServiceCLI, RunOptions{}, func(context.Context) error {
		called = true
		return want
	})
	if !called {
		t.Fatal("expected run function to be called")
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected run error, got %v", err)
	}
}
