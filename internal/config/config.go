package config

import (
	"bufio"
	"os"
	"strings"
)

type Config struct {
	ProfilesDir string
	RunsDBPath  string
	LogLevel    string
	TargetKind  string
	TargetDSN   string
	DefaultMode string
}

// Load reads configuration from the environment, with a .env file in the
// working directory filling in unset variables.
func Load() *Config {
	loadDotEnv(".env")
	return &Config{
		ProfilesDir: getEnv("CHFILL_PROFILES_DIR", "./profiles"),
		RunsDBPath:  getEnv("CHFILL_RUNS_DB", "./chfill-runs.sqlite"),
		LogLevel:    getEnv("CHFILL_LOG_LEVEL", "info"),
		TargetKind:  getEnv("CHFILL_TARGET_KIND", ""),
		TargetDSN:   getEnv("CHFILL_TARGET_DSN", ""),
		DefaultMode: getEnv("CHFILL_DEFAULT_MODE", "append"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadDotEnv sets KEY=VALUE lines into the process environment without
// overriding variables that are already set.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
