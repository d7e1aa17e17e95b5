// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sabta/casedrill/internal/llm"
	"github.com/sabta/casedrill/internal/telemetry"
)

// Config is everything the binaries read from the environment.
type Config struct {
	// DBPath overrides the history database location. Empty means the
	// platform default.
	DBPath string

	ServerAddress   string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	Telemetry telemetry.Config

	// LLM is valid only when LLMEnabled is set.
	LLM        llm.Config
	LLMEnabled bool
}

// Load reads .env from the working directory if present, then the
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdown, err := getDuration("CASEDRILL_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	tracing, err := getBool("CASEDRILL_TRACING", false)
	if err != nil {
		return nil, err
	}

	tel := telemetry.DefaultConfig()
	tel.Enabled = tracing
	tel.Endpoint = getenvDefault("CASEDRILL_OTLP_ENDPOINT", tel.Endpoint)

	llmCfg, llmOK := llm.ConfigFromEnv()

	return &Config{
		DBPath:          os.Getenv("CASEDRILL_DB"),
		ServerAddress:   getenvDefault("CASEDRILL_ADDR", ":8080"),
		ShutdownTimeout: shutdown,
		CORSOrigins:     splitList(getenvDefault("CASEDRILL_CORS_ORIGINS", "*")),
		Telemetry:       tel,
		LLM:             llmCfg,
		LLMEnabled:      llmOK,
	}, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}

func getBool(k string, fallback bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a valid boolean: %w", k, v, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
