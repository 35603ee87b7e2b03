package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "CONFIDENCE_THRESHOLD", "RELAY_READ_TIMEOUT", "REDIS_ADDR", "ZONE_LOCALE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8001 {
		t.Errorf("Expected default port 8001, got %d", cfg.Port)
	}
	if cfg.ConfidenceThreshold != 0.15 {
		t.Errorf("Expected default confidence threshold 0.15, got %v", cfg.ConfidenceThreshold)
	}
	if cfg.RelayReadTimeout != 5*time.Second {
		t.Errorf("Expected default read timeout 5s, got %v", cfg.RelayReadTimeout)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("Expected redis disabled by default, got %q", cfg.RedisAddr)
	}
	if cfg.ZoneLocale != "zh" {
		t.Errorf("Expected zh locale, got %q", cfg.ZoneLocale)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.4")
	t.Setenv("RELAY_READ_TIMEOUT", "750ms")
	t.Setenv("RELAY_CONNECT_TIMEOUT", "3")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")
	t.Setenv("RELAY_PASSTHROUGH_ON_ERROR", "true")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.ConfidenceThreshold != 0.4 {
		t.Errorf("Expected threshold 0.4, got %v", cfg.ConfidenceThreshold)
	}
	if cfg.RelayReadTimeout != 750*time.Millisecond {
		t.Errorf("Expected 750ms, got %v", cfg.RelayReadTimeout)
	}
	if cfg.RelayConnectTimeout != 3*time.Second {
		t.Errorf("Expected bare seconds to parse as 3s, got %v", cfg.RelayConnectTimeout)
	}
	if cfg.UploadMaxBytes != 1024 {
		t.Errorf("Expected 1024, got %d", cfg.UploadMaxBytes)
	}
	if !cfg.RelayPassThrough {
		t.Error("Expected relay pass-through to be enabled")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "abc")
	t.Setenv("NMS_THRESHOLD", "x")
	t.Setenv("REDIS_TTL", "soon")

	cfg := Load()

	if cfg.Port != 8001 {
		t.Errorf("Expected fallback port, got %d", cfg.Port)
	}
	if cfg.NMSThreshold != 0.45 {
		t.Errorf("Expected fallback NMS threshold, got %v", cfg.NMSThreshold)
	}
	if cfg.RedisTTL != 24*time.Hour {
		t.Errorf("Expected fallback TTL, got %v", cfg.RedisTTL)
	}
}
