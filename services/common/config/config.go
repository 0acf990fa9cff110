// Package config holds the environment-driven settings every service shares.
package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	awspkg "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/pkg/aws"
)

// Base is embedded by each service's Config.
type Base struct {
	ServiceName        string
	Port               string
	Env                string
	AllowedOrigins     string
	JWTSecret          string
	AWSRegion          string
	AWSEndpoint        string
	RedisURL           string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	TracingEnabled     bool
	OTLPEndpoint       string
	UseSecrets         bool
}

// LoadBase reads .env (when present) and the shared variables.
func LoadBase(service, defaultPort string) Base {
	_ = godotenv.Load()

	return Base{
		ServiceName:        service,
		Port:               GetEnv("PORT", defaultPort),
		Env:                GetEnv("APP_ENV", "development"),
		AllowedOrigins:     GetEnv("ALLOWED_ORIGINS", "*"),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AWSRegion:          GetEnv("AWS_REGION", "us-east-1"),
		AWSEndpoint:        awspkg.Endpoint(),
		RedisURL:           os.Getenv("REDIS_URL"),
		RateLimitPerMinute: GetInt("RATE_LIMIT_PER_MINUTE", 100),
		RequestTimeout:     GetDuration("REQUEST_TIMEOUT", 30*time.Second),
		TracingEnabled:     GetBool("TRACING_ENABLED", false),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		UseSecrets:         GetBool("AWS_USE_SECRETS", false),
	}
}

func (b Base) IsProduction() bool { return b.Env == "production" }

// ApplySecrets overrides JWT_SECRET (and any extra targets, keyed by secret
// name) from Secrets Manager when AWS_USE_SECRETS=true. Failures keep the
// env-derived values.
func (b *Base) ApplySecrets(ctx context.Context, extra map[string]*string) {
	if !b.UseSecrets {
		return
	}
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return
	}
	targets := map[string]*string{b.ServiceName + "/JWT_SECRET": &b.JWTSecret}
	for k, v := range extra {
		targets[k] = v
	}
	awspkg.NewSecretsClient(awsCfg).Override(ctx, targets)
}

func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func GetBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// GetDuration accepts Go durations ("15s") or plain seconds ("15").
func GetDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if s, err := strconv.Atoi(raw); err == nil {
		return time.Duration(s) * time.Second
	}
	return fallback
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
