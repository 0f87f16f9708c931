package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"dsledger/pkg/domain"
	pstrings "dsledger/pkg/platform/strings"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Server         Server
	Token          Token
	Database       Database
	Redis          RedisConfig
	Kafka          Kafka
	RateLimit      RateLimit
	AuditBuffer    int
	IdempotencyTTL time.Duration
	LogLevel       string
	PolicyFile     string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// Token identifies the token this process serves.
type Token struct {
	// Owner is bootstrapped as the only MASTER.
	Owner    common.Address
	Name     string
	Symbol   string
	Decimals int32
}

type Database struct {
	URL string
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Kafka struct {
	Brokers    []string
	AuditTopic string
	ClientID   string

	// RelayInterval is how often the audit outbox is polled.
	RelayInterval time.Duration
}

// RateLimit budgets requests per caller per minute. Zero disables a class.
type RateLimit struct {
	ReadPerMinute  int
	WritePerMinute int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		Server: Server{
			Addr:          envOr("LEDGER_ADDR", ":8080"),
			JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
			JWTIssuer:     envOr("JWT_ISSUER", "dsledger"),
			JWTAudience:   envOr("JWT_AUDIENCE", "dsledger-api"),
		},
		Token: Token{
			Name:   envOr("TOKEN_NAME", "Digital Security"),
			Symbol: envOr("TOKEN_SYMBOL", "DST"),
		},
		Database: Database{URL: os.Getenv("DATABASE_URL")},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Brokers:    pstrings.SplitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "ledger.audit"),
			ClientID:   envOr("KAFKA_CLIENT_ID", "dsledger"),
		},
		LogLevel:   envOr("LOG_LEVEL", "info"),
		PolicyFile: os.Getenv("POLICY_FILE"),
	}

	if cfg.Server.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.Server.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	if owner := os.Getenv("LEDGER_OWNER"); owner != "" {
		addr, err := domain.ParseAddress(owner)
		if err != nil {
			return Config{}, fmt.Errorf("LEDGER_OWNER: %w", err)
		}
		cfg.Token.Owner = addr
	}

	decimals, err := intEnv("TOKEN_DECIMALS", 18)
	if err != nil {
		return Config{}, err
	}
	if decimals < 0 || decimals > 36 {
		return Config{}, fmt.Errorf("TOKEN_DECIMALS must be between 0 and 36, got %d", decimals)
	}
	cfg.Token.Decimals = int32(decimals)

	if cfg.AuditBuffer, err = intEnv("AUDIT_BUFFER_SIZE", 1024); err != nil {
		return Config{}, err
	}

	if cfg.RateLimit.ReadPerMinute, err = intEnv("RATE_LIMIT_READ_PER_MIN", 600); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.WritePerMinute, err = intEnv("RATE_LIMIT_WRITE_PER_MIN", 120); err != nil {
		return Config{}, err
	}

	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Kafka.RelayInterval, err = durationEnv("KAFKA_RELAY_INTERVAL", time.Second); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}
