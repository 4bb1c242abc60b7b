package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const envPrefix = "SIMPLEHTTP_"

type config struct {
	timeout         time.Duration
	remoteAddr      string
	maxResponseSize uint
	logLevel        slog.Level
	logJSON         bool
}

func parse() (*config, error) {
	timeout, err := getenvDuration(envPrefix+"TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	maxResponseSize, err := getenvUint(envPrefix+"MAX_RESPONSE_SIZE", 10<<20)
	if err != nil {
		return nil, err
	}

	logLevel, err := parseLogLevel(getenv(envPrefix+"LOG_LEVEL", "warn"))
	if err != nil {
		return nil, err
	}

	return &config{
		timeout:         timeout,
		remoteAddr:      getenv(envPrefix+"REMOTE_ADDR", ""),
		maxResponseSize: maxResponseSize,
		logLevel:        logLevel,
		logJSON:         getenvBool(envPrefix+"LOG_JSON", false),
	}, nil
}

// loadEnvFile does not override variables which are already set.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, errors.Errorf("invalid %sLOG_LEVEL value %q", envPrefix, s)
	}
	return level, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val == "true"
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return 0, errors.Errorf("invalid %s value %q", key, val)
	}
	return d, nil
}

func getenvUint(key string, def uint) (uint, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(val, 10, 0)
	if err != nil {
		return 0, errors.Errorf("invalid %s value %q", key, val)
	}
	return uint(n), nil
}
