package server

import (
	"os"
	"path/filepath"
	"testing"

	"vc-valuation/pkg/constants"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "Empty falls back to default", input: "", want: constants.DefaultMaxUploadSizeBytes},
		{name: "Plain bytes", input: "1024", want: 1024},
		{name: "Bytes suffix", input: "512B", want: 512},
		{name: "Kilobytes", input: "256K", want: 256 * 1024},
		{name: "Kilobytes long suffix", input: "256KB", want: 256 * 1024},
		{name: "Megabytes", input: "10M", want: 10 * 1024 * 1024},
		{name: "Gigabytes", input: "1G", want: 1024 * 1024 * 1024},
		{name: "Lowercase unit", input: "2m", want: 2 * 1024 * 1024},
		{name: "Whitespace", input: " 5M ", want: 5 * 1024 * 1024},
		{name: "Missing number", input: "MB", wantErr: true},
		{name: "Unknown unit", input: "10T", wantErr: true},
		{name: "Garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, expected %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig("no-such-server-config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != constants.DefaultServerAddress {
		t.Errorf("address = %q, expected the default %q", cfg.Address, constants.DefaultServerAddress)
	}
	if cfg.UploadSizeBytes() != constants.DefaultMaxUploadSizeBytes {
		t.Errorf("upload size = %d, expected the default", cfg.UploadSizeBytes())
	}
	if cfg.Cache.Enabled {
		t.Error("cache should be disabled by default")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	data := []byte(`address: ":9090"
maxUploadSize: 1M
cache:
  enabled: true
logging:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != ":9090" {
		t.Errorf("address = %q, expected :9090", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 1024*1024 {
		t.Errorf("upload size = %d, expected 1M", cfg.UploadSizeBytes())
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled")
	}
	if cfg.Cache.TTLSeconds != constants.DefaultCacheTTLSeconds {
		t.Errorf("cache TTL = %d, expected the default %d when unset", cfg.Cache.TTLSeconds, constants.DefaultCacheTTLSeconds)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, expected debug", cfg.Logging.Level)
	}
}

func TestLoadConfigInvalidSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("maxUploadSize: bogus\n"), 0o644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for an unparseable upload size")
	}
}
