// Package config loads service configuration from an optional .env file and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	pstrings "orgdesk/pkg/platform/strings"
)

// Config is the root configuration.
type Config struct {
	Environment  string
	LogLevel     string
	Server       Server
	Auth         Auth
	Postgres     PostgresConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Verification VerificationConfig
	Onboarding   OnboardingConfig
	RateLimit    RateLimitConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Auth configures access-token validation for admin-console callers.
type Auth struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	// AllowedRoles may drive onboarding; other roles get 403.
	AllowedRoles []string
}

// PostgresConfig configures the staff directory and audit stores.
// An empty URL selects in-memory stores.
type PostgresConfig struct {
	URL      string
	MaxConns int32
}

// RedisConfig configures the verification challenge store.
// An empty URL selects the in-memory store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit event sink and the notification topic that
// carries verification codes. No brokers disables both.
type KafkaConfig struct {
	Brokers           []string
	AuditTopic        string
	NotificationTopic string
	Partitions        int32
	ReplicationFactor int16
}

// VerificationConfig configures OTP challenges and document providers.
type VerificationConfig struct {
	ChallengeTTL       time.Duration
	MaxAttempts        int
	DocumentBaseURL    string
	DocumentAPIKey     string
	DocumentTimeout    time.Duration
	DocumentMaxRetries uint64
	BreakerFailures    int
	BreakerSuccesses   int
	BreakerCooldown    time.Duration
}

// OnboardingConfig configures wizard sessions.
type OnboardingConfig struct {
	AvailabilityDebounce time.Duration
	SessionTTL           time.Duration
	SweepInterval        time.Duration
}

// RateLimitConfig throttles admin-console callers per operator. The limiter
// shares Redis with challenges when Redis is configured.
type RateLimitConfig struct {
	Enabled           bool
	ChallengeRequests int
	ChallengeWindow   time.Duration
	WriteRequests     int
	WriteWindow       time.Duration
}

// RegulatedMode is true outside development; it forces a real signing key.
func (c Config) RegulatedMode() bool {
	return c.Environment != "development" && c.Environment != "test"
}

const devSigningKey = "dev-secret-key-change-in-production"

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("auth.jwt_signing_key", devSigningKey)
	v.SetDefault("auth.jwt_issuer", "orgdesk")
	v.SetDefault("auth.jwt_audience", "orgdesk-admin")
	v.SetDefault("auth.allowed_roles", "owner,admin,hr_admin")

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.max_conns", 10)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.audit_topic", "orgdesk.audit")
	v.SetDefault("kafka.notification_topic", "orgdesk.notifications")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)

	v.SetDefault("verification.challenge_ttl", "10m")
	v.SetDefault("verification.max_attempts", 5)
	v.SetDefault("verification.document_base_url", "")
	v.SetDefault("verification.document_api_key", "")
	v.SetDefault("verification.document_timeout", "5s")
	v.SetDefault("verification.document_max_retries", 3)
	v.SetDefault("verification.breaker_failures", 5)
	v.SetDefault("verification.breaker_successes", 3)
	v.SetDefault("verification.breaker_cooldown", "30s")

	v.SetDefault("onboarding.availability_debounce", "400ms")
	v.SetDefault("onboarding.session_ttl", "30m")
	v.SetDefault("onboarding.sweep_interval", "1m")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.challenge_requests", 5)
	v.SetDefault("ratelimit.challenge_window", "10m")
	v.SetDefault("ratelimit.write_requests", 120)
	v.SetDefault("ratelimit.write_window", "1m")
}

// Load reads envFiles (missing files are ignored) and then the environment.
// Keys map to upper-snake env vars under the ORGDESK_ prefix, e.g.
// ORGDESK_SERVER_ADDR or ORGDESK_ONBOARDING_SESSION_TTL.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("ORGDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Environment: v.GetString("environment"),
		LogLevel:    v.GetString("log_level"),
		Server: Server{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Auth: Auth{
			JWTSigningKey: v.GetString("auth.jwt_signing_key"),
			JWTIssuer:     v.GetString("auth.jwt_issuer"),
			JWTAudience:   v.GetString("auth.jwt_audience"),
			AllowedRoles:  splitList(v.GetString("auth.allowed_roles")),
		},
		Postgres: PostgresConfig{
			URL:      v.GetString("postgres.url"),
			MaxConns: v.GetInt32("postgres.max_conns"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("redis.url"),
			PoolSize:     v.GetInt("redis.pool_size"),
			MinIdleConns: v.GetInt("redis.min_idle_conns"),
			DialTimeout:  v.GetDuration("redis.dial_timeout"),
			ReadTimeout:  v.GetDuration("redis.read_timeout"),
			WriteTimeout: v.GetDuration("redis.write_timeout"),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(v.GetString("kafka.brokers")),
			AuditTopic:        v.GetString("kafka.audit_topic"),
			NotificationTopic: v.GetString("kafka.notification_topic"),
			Partitions:        v.GetInt32("kafka.partitions"),
			ReplicationFactor: int16(v.GetInt("kafka.replication_factor")),
		},
		Verification: VerificationConfig{
			ChallengeTTL:       v.GetDuration("verification.challenge_ttl"),
			MaxAttempts:        v.GetInt("verification.max_attempts"),
			DocumentBaseURL:    v.GetString("verification.document_base_url"),
			DocumentAPIKey:     v.GetString("verification.document_api_key"),
			DocumentTimeout:    v.GetDuration("verification.document_timeout"),
			DocumentMaxRetries: v.GetUint64("verification.document_max_retries"),
			BreakerFailures:    v.GetInt("verification.breaker_failures"),
			BreakerSuccesses:   v.GetInt("verification.breaker_successes"),
			BreakerCooldown:    v.GetDuration("verification.breaker_cooldown"),
		},
		Onboarding: OnboardingConfig{
			AvailabilityDebounce: v.GetDuration("onboarding.availability_debounce"),
			SessionTTL:           v.GetDuration("onboarding.session_ttl"),
			SweepInterval:        v.GetDuration("onboarding.sweep_interval"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           v.GetBool("ratelimit.enabled"),
			ChallengeRequests: v.GetInt("ratelimit.challenge_requests"),
			ChallengeWindow:   v.GetDuration("ratelimit.challenge_window"),
			WriteRequests:     v.GetInt("ratelimit.write_requests"),
			WriteWindow:       v.GetDuration("ratelimit.write_window"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.RegulatedMode() && c.Auth.JWTSigningKey == devSigningKey {
		return fmt.Errorf("ORGDESK_AUTH_JWT_SIGNING_KEY must be set in %s", c.Environment)
	}
	if len(c.Auth.AllowedRoles) == 0 {
		return fmt.Errorf("at least one allowed role is required")
	}
	if c.Onboarding.AvailabilityDebounce < 0 {
		return fmt.Errorf("availability debounce must not be negative")
	}
	if c.Onboarding.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.ChallengeRequests <= 0 || c.RateLimit.ChallengeWindow <= 0) {
		return fmt.Errorf("challenge rate limit must be positive when rate limiting is enabled")
	}
	if c.Verification.MaxAttempts <= 0 {
		return fmt.Errorf("verification max attempts must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	return pstrings.SplitList(raw, ",")
}
