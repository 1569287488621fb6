package config

import (
	"flag"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("BONGA_TOKEN_SECRET", "s3cret")
	t.Setenv("BONGA_PORT", "9090")
	t.Setenv("BONGA_TIMEZONE", "UTC")

	cfg, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != "0.0.0.0:9090" {
		t.Fatalf("unexpected addr %s", cfg.Addr)
	}
	if cfg.Url() != "http://localhost:9090" {
		t.Fatalf("unexpected url %s", cfg.Url())
	}
	if cfg.TokenSecret != "s3cret" || cfg.TokenTTL != 900*time.Second {
		t.Fatalf("unexpected token settings %+v", cfg)
	}
	if cfg.SyncInterval != 24*time.Hour || cfg.Location != time.UTC {
		t.Fatalf("unexpected sync settings %+v", cfg)
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	t.Setenv("BONGA_TOKEN_SECRET", "from-env")

	cfg, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-token-secret", "from-flag",
		"-sync-interval", "1h",
		"-timezone", "Africa/Nairobi",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.TokenSecret != "from-flag" || cfg.SyncInterval != time.Hour {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Location.String() != "Africa/Nairobi" {
		t.Fatalf("unexpected location %s", cfg.Location)
	}
}

func TestParseRequiresSecretToServe(t *testing.T) {
	t.Setenv("BONGA_TOKEN_SECRET", "")

	if _, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), nil); err == nil {
		t.Fatal("expected missing secret error")
	}
	if _, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-sync-once"}); err != nil {
		t.Fatalf("sync-once should not need a secret: %v", err)
	}
}

func TestParseRejectsBadTimezone(t *testing.T) {
	_, err := Parse(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-token-secret", "x", "-timezone", "Mars/Olympus"})
	if err == nil {
		t.Fatal("expected timezone error")
	}
}
