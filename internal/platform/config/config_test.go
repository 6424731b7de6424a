package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ORGDESK_ENVIRONMENT", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 400*time.Millisecond, cfg.Onboarding.AvailabilityDebounce)
	assert.Equal(t, 30*time.Minute, cfg.Onboarding.SessionTTL)
	assert.Equal(t, []string{"owner", "admin", "hr_admin"}, cfg.Auth.AllowedRoles)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 5, cfg.Verification.MaxAttempts)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.ChallengeWindow)
	assert.False(t, cfg.RegulatedMode())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ORGDESK_ENVIRONMENT", "development")
	t.Setenv("ORGDESK_SERVER_ADDR", ":9090")
	t.Setenv("ORGDESK_ONBOARDING_AVAILABILITY_DEBOUNCE", "250ms")
	t.Setenv("ORGDESK_KAFKA_BROKERS", "b1:9092, b2:9092,b1:9092")
	t.Setenv("ORGDESK_RATELIMIT_CHALLENGE_REQUESTS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Onboarding.AvailabilityDebounce)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.RateLimit.ChallengeRequests)
}

func TestLoad_RateLimitValidation(t *testing.T) {
	t.Setenv("ORGDESK_ENVIRONMENT", "development")
	t.Setenv("ORGDESK_RATELIMIT_CHALLENGE_REQUESTS", "0")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("ORGDESK_RATELIMIT_ENABLED", "false")
	_, err = Load()
	require.NoError(t, err)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ORGDESK_ONBOARDING_SESSION_TTL=45m\n"), 0o600))
	t.Setenv("ORGDESK_ENVIRONMENT", "development")
	// t.Setenv restores the variable godotenv sets once the test ends.
	t.Setenv("ORGDESK_ONBOARDING_SESSION_TTL", "")
	require.NoError(t, os.Unsetenv("ORGDESK_ONBOARDING_SESSION_TTL"))

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, cfg.Onboarding.SessionTTL)
}

func TestLoad_RegulatedRequiresSigningKey(t *testing.T) {
	t.Setenv("ORGDESK_ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SIGNING_KEY")
}
