package application

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds engine tuning that is not billing configuration proper:
// display currency and resolver fan-out.
type Config struct {
	Currency    string `yaml:"currency"`
	FanOutLimit int    `yaml:"fan_out_limit"`
}

// LoadConfig loads engine config from yaml (ENGINE_CONFIG path) or env.
func LoadConfig() (Config, error) {
	cfg := Config{
		Currency:    getenvDefault("CURRENCY", "USD"),
		FanOutLimit: getenvIntDefault("RESOLVER_FANOUT", 8),
	}

	if path := os.Getenv("ENGINE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.FanOutLimit <= 0 {
		cfg.FanOutLimit = 8
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
