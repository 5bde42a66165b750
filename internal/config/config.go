package config

import (
	"errors"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIHost  string
	APIPort  string
	APIKey   string
	LogLevel string

	CourtListenerToken string
	CourtListenerURL   string

	BreakerEnabled      bool
	BreakerMinRequests  int
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration

	APIRateLimitRPS     float64
	APIRateLimitBurst   int
	APIMaxInFlight      int
	APIBackpressureWait time.Duration
	APIRequestTimeout   time.Duration
	APIShutdownTimeout  time.Duration

	PostgresDSN string

	NATSURL     string
	NATSSubject string

	S3Bucket     string
	S3Prefix     string
	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
}

func Load() Config {
	return Config{
		APIHost:  mustEnv("API_HOST", "127.0.0.1"),
		APIPort:  mustEnv("API_PORT", "8080"),
		APIKey:   mustEnv("API_KEY", ""),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		CourtListenerToken: mustEnv("COURTLISTENER_API_TOKEN", ""),
		CourtListenerURL:   mustEnv("COURTLISTENER_URL", "https://www.courtlistener.com/api/rest/v4/citation-lookup/"),

		BreakerEnabled:      mustEnvBool("BREAKER_ENABLED", true),
		BreakerMinRequests:  mustEnvInt("BREAKER_MIN_REQUESTS", 5),
		BreakerFailureRatio: mustEnvFloat("BREAKER_FAILURE_RATIO", 0.6),
		BreakerOpenTimeout:  time.Duration(mustEnvInt("BREAKER_OPEN_TIMEOUT_SECONDS", 30)) * time.Second,

		APIRateLimitRPS:     mustEnvFloat("API_RATE_LIMIT_RPS", 5),
		APIRateLimitBurst:   mustEnvInt("API_RATE_LIMIT_BURST", 10),
		APIMaxInFlight:      mustEnvInt("API_MAX_IN_FLIGHT", 8),
		APIBackpressureWait: time.Duration(mustEnvInt("API_BACKPRESSURE_WAIT_MS", 250)) * time.Millisecond,
		APIRequestTimeout:   time.Duration(mustEnvInt("API_REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		APIShutdownTimeout:  time.Duration(mustEnvInt("API_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,

		PostgresDSN: mustEnv("POSTGRES_DSN", ""),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "citecheck.report.saved"),

		S3Bucket:     mustEnv("CITECHECK_S3_BUCKET", ""),
		S3Prefix:     mustEnv("CITECHECK_S3_PREFIX", ""),
		AWSRegion:    mustEnv("AWS_REGION", "us-east-1"),
		AWSAccessKey: mustEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey: mustEnv("AWS_SECRET_ACCESS_KEY", ""),
	}
}

// ListenAddr is the API bind address. Binding beyond loopback requires
// API_KEY, because requests name server-side files.
func (c Config) ListenAddr() (string, error) {
	host := strings.TrimSpace(c.APIHost)
	if strings.TrimSpace(c.APIKey) == "" && !isLoopbackHost(host) {
		return "", errors.New("API_KEY is required when API_HOST is not a loopback address")
	}
	return net.JoinHostPort(host, c.APIPort), nil
}

func isLoopbackHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
