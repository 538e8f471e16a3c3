package config

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENCRYPTION_KEY", strings.Repeat("k", 32))
	t.Setenv("BLIND_INDEX_KEY", strings.Repeat("b", 16))
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_EXPIRATION_MINUTES", "")
	t.Setenv("HTTP_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.TokenTTL)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if len(cfg.EncryptionKey) != 32 {
		t.Errorf("EncryptionKey length = %d, want 32", len(cfg.EncryptionKey))
	}
}

func TestLoadEncryptionKeyLength(t *testing.T) {
	setRequiredEnv(t)

	// A mistyped key must fail startup, never be trimmed to size.
	for _, bad := range []string{
		strings.Repeat("k", 31),
		strings.Repeat("k", 33),
		base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 48))),
	} {
		t.Setenv("ENCRYPTION_KEY", bad)
		if _, err := Load(); err == nil {
			t.Errorf("key of length %d accepted, want error", len(bad))
		}
	}

	// Base64 of exactly 32 bytes decodes and loads.
	raw := strings.Repeat("\x01", 32)
	t.Setenv("ENCRYPTION_KEY", base64.StdEncoding.EncodeToString([]byte(raw)))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("base64 key: %v", err)
	}
	if string(cfg.EncryptionKey) != raw {
		t.Error("base64 key did not decode to the raw material")
	}
}

func TestLoadMissingSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("missing JWT_SECRET accepted, want error")
	}

	setRequiredEnv(t)
	t.Setenv("BLIND_INDEX_KEY", "short")
	if _, err := Load(); err == nil {
		t.Error("short BLIND_INDEX_KEY accepted, want error")
	}
}
