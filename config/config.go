// Package config has the configuration file for the app
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultRxNavBaseURL is the public RxNav REST endpoint used when
// RXNAV_BASE_URL is not set.
const DefaultRxNavBaseURL = "https://rxnav.nlm.nih.gov/REST"

// Config holds all application configuration
type Config struct {
	Port           string
	Address        string
	Env            string
	LogLevel       string
	MaxRequestBody int64 // Maximum request body size in bytes
	MaxHeaderSize  int64 // Maximum header size in bytes
	OpenAIAPIKey   string
	GeminiAPIKey   string
	RxNavBaseURL   string
	RxNavTimeout   time.Duration // Per-request timeout for vocabulary calls
	GroundingModel string
	GroundingWait  time.Duration // Upper bound for a grounded generation call
	AgentModel     string
	AgentMaxTurns  int // Tool-calling rounds before forcing a final answer
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnvWithDefault("PORT", "8000"),
		Address:        getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:            getEnvWithDefault("ENV", "dev"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		MaxRequestBody: getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576), // 1MB default
		MaxHeaderSize:  getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),  // 1MB default
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		RxNavBaseURL:   getEnvWithDefault("RXNAV_BASE_URL", DefaultRxNavBaseURL),
		RxNavTimeout:   time.Duration(getIntEnvWithDefault("RXNAV_TIMEOUT_SECONDS", 5)) * time.Second,
		GroundingModel: getEnvWithDefault("GROUNDING_MODEL", "gemini-2.0-flash"),
		GroundingWait:  time.Duration(getIntEnvWithDefault("GROUNDING_TIMEOUT_SECONDS", 45)) * time.Second,
		AgentModel:     getEnvWithDefault("AGENT_MODEL", "gpt-4o-mini"),
		AgentMaxTurns:  getIntEnvWithDefault("AGENT_MAX_TURNS", 6),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateAPIKeys(cfg); err != nil {
		return err
	}

	if err := validateBaseURL(cfg.RxNavBaseURL); err != nil {
		return fmt.Errorf("invalid RXNAV_BASE_URL: %w", err)
	}

	if err := validateTimeout(cfg.RxNavTimeout, "RXNAV_TIMEOUT_SECONDS"); err != nil {
		return err
	}

	if err := validateTimeout(cfg.GroundingWait, "GROUNDING_TIMEOUT_SECONDS"); err != nil {
		return err
	}

	if err := validateMaxTurns(cfg.AgentMaxTurns); err != nil {
		return fmt.Errorf("invalid AGENT_MAX_TURNS: %w", err)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Check for privileged ports
	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	// Loopback addresses are acceptable for development
	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env string) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	// 100MB upper bound, anything beyond that is a configuration mistake
	if size > 100*1024*1024 {
		return fmt.Errorf("%s is too large (max 100MB), got: %d", configName, size)
	}

	return nil
}

// validateAPIKeys checks that both backend credentials are present.
// The agent reasons through OpenAI and grounds prices through Gemini,
// so the service cannot start without either key.
func validateAPIKeys(cfg *Config) error {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	return nil
}

// validateBaseURL validates the vocabulary service base URL
func validateBaseURL(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return fmt.Errorf("base URL must start with http:// or https://, got: %s", baseURL)
	}

	return nil
}

// validateTimeout validates timeout configuration values
func validateTimeout(d time.Duration, configName string) error {
	if d <= 0 {
		return fmt.Errorf("invalid %s: must be positive, got: %s", configName, d)
	}

	if d > 5*time.Minute {
		return fmt.Errorf("invalid %s: too large (max 5m), got: %s", configName, d)
	}

	return nil
}

// validateMaxTurns validates the agent turn cap
func validateMaxTurns(turns int) error {
	if turns < 1 {
		return fmt.Errorf("AGENT_MAX_TURNS must be at least 1, got: %d", turns)
	}

	if turns > 20 {
		return fmt.Errorf("AGENT_MAX_TURNS is too large (max 20), got: %d", turns)
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"OPENAI_API_KEY",
		"GEMINI_API_KEY",
		"RXNAV_BASE_URL",
		"RXNAV_TIMEOUT_SECONDS",
		"GROUNDING_MODEL",
		"GROUNDING_TIMEOUT_SECONDS",
		"AGENT_MODEL",
		"AGENT_MAX_TURNS",
	}
}

// ValidateAllEnvVars checks if all required environment variables are set
func ValidateAllEnvVars() error {
	requiredVars := []string{"OPENAI_API_KEY", "GEMINI_API_KEY"}
	missingVars := []string{}

	for _, varName := range requiredVars {
		if os.Getenv(varName) == "" {
			missingVars = append(missingVars, varName)
		}
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
