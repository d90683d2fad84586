package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func setRequiredKeys() {
	_ = os.Setenv("OPENAI_API_KEY", "sk-test")
	_ = os.Setenv("GEMINI_API_KEY", "gm-test")
}

func cleanupEnv() {
	for _, key := range GetEnvVars() {
		_ = os.Unsetenv(key)
	}
}

func TestLoadValidConfig(t *testing.T) {
	setRequiredKeys()
	_ = os.Setenv("PORT", "8002")
	_ = os.Setenv("ADDRESS", "127.0.0.1")
	_ = os.Setenv("ENV", "dev")
	_ = os.Setenv("LOG_LEVEL", "info")
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != "dev" {
		t.Errorf("Expected env dev, got %s", cfg.Env)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("Expected OpenAI key sk-test, got %s", cfg.OpenAIAPIKey)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cleanupEnv()
	setRequiredKeys()
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.RxNavBaseURL != DefaultRxNavBaseURL {
		t.Errorf("Expected default RxNav base URL, got %s", cfg.RxNavBaseURL)
	}
	if cfg.RxNavTimeout != 5*time.Second {
		t.Errorf("Expected default RxNav timeout 5s, got %s", cfg.RxNavTimeout)
	}
	if cfg.GroundingWait != 45*time.Second {
		t.Errorf("Expected default grounding timeout 45s, got %s", cfg.GroundingWait)
	}
	if cfg.AgentMaxTurns != 6 {
		t.Errorf("Expected default max turns 6, got %d", cfg.AgentMaxTurns)
	}
	if cfg.AgentModel != "gpt-4o-mini" {
		t.Errorf("Expected default agent model gpt-4o-mini, got %s", cfg.AgentModel)
	}
	if cfg.GroundingModel != "gemini-2.0-flash" {
		t.Errorf("Expected default grounding model gemini-2.0-flash, got %s", cfg.GroundingModel)
	}
}

func TestInvalidPort(t *testing.T) {
	testCases := []struct {
		port     string
		expected string
	}{
		{"abc", "PORT must be a valid number"},
		{"0", "PORT must be between 1 and 65535"},
		{"65536", "PORT must be between 1 and 65535"},
		{"80", "PORT 80 is privileged"},
	}

	for _, tc := range testCases {
		cleanupEnv()
		setRequiredKeys()
		_ = os.Setenv("PORT", tc.port)

		_, err := Load()
		if err == nil {
			t.Errorf("Expected error for port %s, got none", tc.port)
			continue
		}
		if !strings.Contains(err.Error(), tc.expected) {
			t.Errorf("Expected error containing %q for port %s, got %v", tc.expected, tc.port, err)
		}
	}
	cleanupEnv()
}

func TestMissingAPIKeys(t *testing.T) {
	testCases := []struct {
		name     string
		unset    string
		expected string
	}{
		{"missing openai key", "OPENAI_API_KEY", "OPENAI_API_KEY is not set"},
		{"missing gemini key", "GEMINI_API_KEY", "GEMINI_API_KEY is not set"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanupEnv()
			setRequiredKeys()
			_ = os.Unsetenv(tc.unset)
			defer cleanupEnv()

			_, err := Load()
			if err == nil {
				t.Fatal("Expected error, got none")
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %v", tc.expected, err)
			}
		})
	}
}

func TestInvalidBaseURL(t *testing.T) {
	cleanupEnv()
	setRequiredKeys()
	_ = os.Setenv("RXNAV_BASE_URL", "ftp://rxnav.nlm.nih.gov")
	defer cleanupEnv()

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for ftp base URL, got none")
	}
	if !strings.Contains(err.Error(), "must start with http") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestInvalidTimeouts(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero rxnav timeout", "RXNAV_TIMEOUT_SECONDS", "0"},
		{"negative rxnav timeout", "RXNAV_TIMEOUT_SECONDS", "-3"},
		{"huge grounding timeout", "GROUNDING_TIMEOUT_SECONDS", "600"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanupEnv()
			setRequiredKeys()
			_ = os.Setenv(tc.key, tc.value)
			defer cleanupEnv()

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s, got none", tc.key, tc.value)
			}
		})
	}
}

func TestInvalidMaxTurns(t *testing.T) {
	for _, turns := range []string{"0", "-1", "50"} {
		cleanupEnv()
		setRequiredKeys()
		_ = os.Setenv("AGENT_MAX_TURNS", turns)

		if _, err := Load(); err == nil {
			t.Errorf("Expected error for AGENT_MAX_TURNS=%s, got none", turns)
		}
	}
	cleanupEnv()
}

func TestValidateAllEnvVars(t *testing.T) {
	cleanupEnv()

	if err := ValidateAllEnvVars(); err == nil {
		t.Error("Expected error when API keys are missing, got none")
	}

	setRequiredKeys()
	defer cleanupEnv()

	if err := ValidateAllEnvVars(); err != nil {
		t.Errorf("Expected no error when API keys are set, got %v", err)
	}
}
