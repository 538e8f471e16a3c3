package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is read once at startup and never mutated afterwards. Services
// receive it (or the pieces they need) by value.
type Config struct {
	DatabaseURL string
	HTTPPort    string
	Env         string
	LogLevel    string

	JWTSecret []byte
	TokenTTL  time.Duration

	EncryptionKey []byte
	BlindIndexKey []byte
}

const defaultTokenMinutes = 30

// Load reads the environment. Missing or malformed secret material is an
// error: the process must refuse to start rather than degrade to plaintext
// or unsigned tokens.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is not set")
	}
	cfg.JWTSecret = []byte(secret)

	minutes := defaultTokenMinutes
	if s := os.Getenv("JWT_EXPIRATION_MINUTES"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("JWT_EXPIRATION_MINUTES must be a positive integer, got %q", s)
		}
		minutes = n
	}
	cfg.TokenTTL = time.Duration(minutes) * time.Minute

	// AES-256 wants exactly 32 bytes of key material; anything else is a
	// misconfigured key and must not be silently trimmed or padded.
	key, err := loadExactKey("ENCRYPTION_KEY", 32)
	if err != nil {
		return Config{}, err
	}
	cfg.EncryptionKey = key

	bidx, err := loadKey("BLIND_INDEX_KEY", 16)
	if err != nil {
		return Config{}, err
	}
	cfg.BlindIndexKey = bidx

	return cfg, nil
}

// loadKey reads a key from the environment, accepting either raw bytes or
// a base64 encoding, and enforces a minimum length.
func loadKey(name string, minLen int) ([]byte, error) {
	v := os.Getenv(name)
	if v == "" {
		return nil, fmt.Errorf("%s is not set", name)
	}
	key := []byte(v)
	if decoded, err := base64.StdEncoding.DecodeString(v); err == nil && len(decoded) >= minLen {
		key = decoded
	}
	if len(key) < minLen {
		return nil, fmt.Errorf("%s must be at least %d bytes (raw or base64)", name, minLen)
	}
	return key, nil
}

// loadExactKey is loadKey's strict cousin: the key must be exactly wantLen
// bytes, raw or after base64 decoding.
func loadExactKey(name string, wantLen int) ([]byte, error) {
	v := os.Getenv(name)
	if v == "" {
		return nil, fmt.Errorf("%s is not set", name)
	}
	if len(v) == wantLen {
		return []byte(v), nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(v); err == nil && len(decoded) == wantLen {
		return decoded, nil
	}
	return nil, fmt.Errorf("%s must be exactly %d bytes (raw or base64)", name, wantLen)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
