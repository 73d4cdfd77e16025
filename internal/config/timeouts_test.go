package config

import (
	"testing"
	"time"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	clearTimeoutEnvVars(t)

	timeouts := LoadTimeouts()

	if timeouts.ServerCreate != 10*time.Minute {
		t.Errorf("Expected ServerCreate default 10m, got %v", timeouts.ServerCreate)
	}
	if timeouts.ServerIP != 90*time.Second {
		t.Errorf("Expected ServerIP default 90s, got %v", timeouts.ServerIP)
	}
	if timeouts.Delete != 5*time.Minute {
		t.Errorf("Expected Delete default 5m, got %v", timeouts.Delete)
	}
	if timeouts.VolumeAction != 2*time.Minute {
		t.Errorf("Expected VolumeAction default 2m, got %v", timeouts.VolumeAction)
	}
	if timeouts.RetryMaxAttempts != 5 {
		t.Errorf("Expected RetryMaxAttempts default 5, got %d", timeouts.RetryMaxAttempts)
	}
	if timeouts.RetryInitialDelay != 1*time.Second {
		t.Errorf("Expected RetryInitialDelay default 1s, got %v", timeouts.RetryInitialDelay)
	}
}

func TestLoadTimeouts_FromEnvironment(t *testing.T) {
	clearTimeoutEnvVars(t)
	t.Setenv("ONEBOX_TIMEOUT_SERVER_CREATE", "3m")
	t.Setenv("ONEBOX_TIMEOUT_SERVER_IP", "45s")
	t.Setenv("ONEBOX_RETRY_MAX_ATTEMPTS", "9")

	timeouts := LoadTimeouts()

	if timeouts.ServerCreate != 3*time.Minute {
		t.Errorf("Expected ServerCreate 3m, got %v", timeouts.ServerCreate)
	}
	if timeouts.ServerIP != 45*time.Second {
		t.Errorf("Expected ServerIP 45s, got %v", timeouts.ServerIP)
	}
	if timeouts.RetryMaxAttempts != 9 {
		t.Errorf("Expected RetryMaxAttempts 9, got %d", timeouts.RetryMaxAttempts)
	}
}

func TestLoadTimeouts_InvalidValuesFallBack(t *testing.T) {
	clearTimeoutEnvVars(t)
	t.Setenv("ONEBOX_TIMEOUT_DELETE", "not-a-duration")
	t.Setenv("ONEBOX_RETRY_MAX_ATTEMPTS", "many")

	timeouts := LoadTimeouts()

	if timeouts.Delete != 5*time.Minute {
		t.Errorf("Expected Delete to fall back to 5m, got %v", timeouts.Delete)
	}
	if timeouts.RetryMaxAttempts != 5 {
		t.Errorf("Expected RetryMaxAttempts to fall back to 5, got %d", timeouts.RetryMaxAttempts)
	}
}

func TestTestTimeouts(t *testing.T) {
	timeouts := TestTimeouts()

	if timeouts.ServerCreate > time.Minute {
		t.Errorf("Expected short ServerCreate for tests, got %v", timeouts.ServerCreate)
	}
	if timeouts.RetryInitialDelay > time.Second {
		t.Errorf("Expected short RetryInitialDelay for tests, got %v", timeouts.RetryInitialDelay)
	}
}

func clearTimeoutEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"ONEBOX_TIMEOUT_SERVER_CREATE",
		"ONEBOX_TIMEOUT_SERVER_IP",
		"ONEBOX_TIMEOUT_DELETE",
		"ONEBOX_TIMEOUT_VOLUME_ACTION",
		"ONEBOX_RETRY_MAX_ATTEMPTS",
		"ONEBOX_RETRY_INITIAL_DELAY",
	} {
		t.Setenv(name, "")
	}
}
