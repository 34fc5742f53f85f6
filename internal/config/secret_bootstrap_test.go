package config

import (
	"testing"
)

func TestEnsureSecrets_GeneratesMissingAdminToken(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	if err := cfg.ensureSecrets(); err != nil {
		t.Fatalf("ensureSecrets() error = %v", err)
	}

	if cfg.Security.AdminToken == "" {
		t.Fatal("admin token should be auto-generated")
	}
	// 32 random bytes hex-encoded -> 64 chars.
	if len(cfg.Security.AdminToken) != 64 {
		t.Fatalf("admin token length = %d, want 64", len(cfg.Security.AdminToken))
	}
}

func TestEnsureSecrets_PreservesProvidedAdminToken(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Security: SecurityConfig{
			AdminToken: "keep-existing-admin-token",
		},
	}

	if err := cfg.ensureSecrets(); err != nil {
		t.Fatalf("ensureSecrets() error = %v", err)
	}

	if got := cfg.Security.AdminToken; got != "keep-existing-admin-token" {
		t.Fatalf("admin token changed unexpectedly: %q", got)
	}
}
