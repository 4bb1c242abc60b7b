package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetenv(t *testing.T) {
	testcases := []struct {
		desc     string
		key      string
		val      string
		def      string
		expected string
	}{
		{
			desc:     "returns existing env",
			key:      "TEST_ENV_EXIST",
			val:      "value",
			def:      "default",
			expected: "value",
		},
		{
			desc:     "returns default when env missing",
			key:      "TEST_ENV_MISSING",
			def:      "default",
			expected: "default",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			assert.Equal(t, tc.expected, getenv(tc.key, tc.def))
		})
	}
}

func TestGetenvBool(t *testing.T) {
	testcases := []struct {
		desc     string
		val      string
		def      bool
		expected bool
	}{
		{desc: "true", val: "true", def: false, expected: true},
		{desc: "false", val: "false", def: true, expected: false},
		{desc: "missing", val: "", def: true, expected: true},
		{desc: "not true", val: "yes", def: true, expected: false},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tc.val)
			assert.Equal(t, tc.expected, getenvBool("TEST_BOOL", tc.def))
		})
	}
}

func TestGetenvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "")
	d, err := getenvDuration("TEST_DURATION", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	t.Setenv("TEST_DURATION", "150ms")
	d, err = getenvDuration("TEST_DURATION", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, d)

	for _, bad := range []string{"soon", "-1s"} {
		t.Setenv("TEST_DURATION", bad)
		_, err = getenvDuration("TEST_DURATION", time.Second)
		assert.Error(t, err, bad)
	}
}

func TestGetenvUint(t *testing.T) {
	t.Setenv("TEST_UINT", "1024")
	n, err := getenvUint("TEST_UINT", 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1024), n)

	t.Setenv("TEST_UINT", "-1")
	_, err = getenvUint("TEST_UINT", 1)
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	testcases := []struct {
		desc    string
		in      string
		want    slog.Level
		wantErr bool
	}{
		{desc: "lower case", in: "debug", want: slog.LevelDebug},
		{desc: "upper case", in: "ERROR", want: slog.LevelError},
		{desc: "offset", in: "info+2", want: slog.LevelInfo + 2},
		{desc: "unknown", in: "loud", wantErr: true},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := parseLogLevel(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDefaults(t *testing.T) {
	for _, key := range []string{"TIMEOUT", "REMOTE_ADDR", "MAX_RESPONSE_SIZE", "LOG_LEVEL", "LOG_JSON"} {
		t.Setenv(envPrefix+key, "")
	}

	cfg, err := parse()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "", cfg.RemoteAddr())
	assert.Equal(t, uint(10<<20), cfg.MaxResponseSize())
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())
	assert.False(t, cfg.LogJSON())
}

func TestParseInvalid(t *testing.T) {
	t.Setenv(envPrefix+"TIMEOUT", "never")

	_, err := parse()
	assert.ErrorContains(t, err, envPrefix+"TIMEOUT")
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SIMPLEHTTP_REMOTE_ADDR=10.0.0.1\nSIMPLEHTTP_TIMEOUT=5s\n"), 0o600))

	// Set variables are kept.
	t.Setenv(envPrefix+"TIMEOUT", "1s")
	t.Setenv(envPrefix+"REMOTE_ADDR", "")
	require.NoError(t, os.Unsetenv(envPrefix+"REMOTE_ADDR"))

	require.NoError(t, loadEnvFile(path))

	cfg, err := parse()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", cfg.RemoteAddr())
	assert.Equal(t, time.Second, cfg.Timeout())
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), ".env")))
}
