package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	ServerCreate      time.Duration // Timeout for server creation operations
	ServerIP          time.Duration // Timeout for waiting for server IP assignment
	Delete            time.Duration // Timeout for all delete operations
	VolumeAction      time.Duration // Timeout for volume attach/detach/resize actions
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - ONEBOX_TIMEOUT_SERVER_CREATE (default: 10m)
//   - ONEBOX_TIMEOUT_SERVER_IP (default: 90s)
//   - ONEBOX_TIMEOUT_DELETE (default: 5m)
//   - ONEBOX_TIMEOUT_VOLUME_ACTION (default: 2m)
//   - ONEBOX_RETRY_MAX_ATTEMPTS (default: 5)
//   - ONEBOX_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ServerCreate:      parseDuration("ONEBOX_TIMEOUT_SERVER_CREATE", 10*time.Minute),
		ServerIP:          parseDuration("ONEBOX_TIMEOUT_SERVER_IP", 90*time.Second),
		Delete:            parseDuration("ONEBOX_TIMEOUT_DELETE", 5*time.Minute),
		VolumeAction:      parseDuration("ONEBOX_TIMEOUT_VOLUME_ACTION", 2*time.Minute),
		RetryMaxAttempts:  parseInt("ONEBOX_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("ONEBOX_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// TestTimeouts returns short timeouts suitable for unit tests.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		ServerCreate:      30 * time.Second,
		ServerIP:          10 * time.Second,
		Delete:            30 * time.Second,
		VolumeAction:      10 * time.Second,
		RetryMaxAttempts:  3,
		RetryInitialDelay: 10 * time.Millisecond,
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
