package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func setupHome(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Setenv("STAGECONNECT_HOME", dir)
	return dir
}

func TestInitializeCreatesDefaults(t *testing.T) {
	dir := setupHome(t)

	if err := Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if AppConfig.APIURL != DefaultAPIURL {
		t.Errorf("api_url = %q, want %q", AppConfig.APIURL, DefaultAPIURL)
	}
	if AppConfig.APIBase() != "http://localhost:8000/api" {
		t.Errorf("api base = %q", AppConfig.APIBase())
	}
	if AppConfig.Output != "table" || AppConfig.RequestTimeout != 0 {
		t.Errorf("unexpected defaults: %+v", AppConfig)
	}
	if GetConfigPath() != filepath.Join(dir, "config.yaml") {
		t.Errorf("config path = %q", GetConfigPath())
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	setupHome(t)
	t.Setenv("STAGECONNECT_API_URL", "https://stages.example.edu/")
	t.Setenv("STAGECONNECT_REQUEST_TIMEOUT", "15s")

	if err := Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if AppConfig.APIBase() != "https://stages.example.edu/api" {
		t.Errorf("api base = %q", AppConfig.APIBase())
	}
	if AppConfig.RequestTimeout != 15*time.Second {
		t.Errorf("timeout = %v", AppConfig.RequestTimeout)
	}
}

func TestInitializeRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"api url without scheme", "STAGECONNECT_API_URL", "localhost:8000"},
		{"unknown output", "STAGECONNECT_OUTPUT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHome(t)
			t.Setenv(tt.key, tt.val)
			if err := Initialize(); err == nil {
				t.Errorf("expected %s=%q to be rejected", tt.key, tt.val)
			}
		})
	}
}

func TestSetPersists(t *testing.T) {
	dir := setupHome(t)
	if err := Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := Set("output", "yaml"); err != nil {
		t.Fatalf("set: %v", err)
	}

	viper.Reset()
	t.Setenv("STAGECONNECT_HOME", dir)
	if err := Initialize(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if AppConfig.Output != "yaml" {
		t.Errorf("output = %q, want yaml", AppConfig.Output)
	}
	if !IsValidKey("api_url") || IsValidKey("openai_key") {
		t.Error("unexpected key validation")
	}
}

func TestSetKeepsEnvironmentOutOfFile(t *testing.T) {
	dir := setupHome(t)
	t.Setenv("STAGECONNECT_API_URL", "https://staging.example.edu")
	if err := Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := Set("output", "json"); err != nil {
		t.Fatalf("set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if strings.Contains(string(data), "staging.example.edu") {
		t.Errorf("environment api_url was written into config.yaml:\n%s", data)
	}

	stored, err := FileValue("api_url")
	if err != nil {
		t.Fatalf("file value: %v", err)
	}
	if stored != DefaultAPIURL {
		t.Errorf("stored api_url = %q, want %q", stored, DefaultAPIURL)
	}
	if out, _ := FileValue("output"); out != "json" {
		t.Errorf("stored output = %q, want json", out)
	}
}
