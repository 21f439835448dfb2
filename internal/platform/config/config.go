// Package config reads process configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"verigate/internal/verification/resilience"
)

// Config is the full process configuration.
type Config struct {
	Server    Server
	Log       Log
	Database  Database
	Redis     RedisConfig
	Kafka     Kafka
	S3        S3
	SendGrid  SendGrid
	Razorpay  Razorpay
	Executor  resilience.Policy
	Notify    Breaker
	Providers Providers
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type Log struct {
	Level  slog.Level
	Format string // json or text
	File   string // optional JSON copy of every record
}

// Database selects the Postgres store. An empty URL keeps everything in memory.
type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrate         bool
}

// RedisConfig backs the credential mirror and the document key index.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Kafka struct {
	Brokers           []string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

type S3 struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type SendGrid struct {
	APIKey    string
	FromEmail string
	FromName  string
	ReplyTo   string
	// TemplateIDs maps internal template names to SendGrid dynamic template ids.
	TemplateIDs map[string]string
}

type Razorpay struct {
	KeyID     string
	KeySecret string
}

// Breaker tunes the circuit breaker in front of the notification gateway.
type Breaker struct {
	FailureThreshold int
	SuccessThreshold int
	Cooldown         time.Duration
}

// ProviderCredentials configures one upstream. A provider with no APIKey is
// not registered.
type ProviderCredentials struct {
	BaseURL   string
	APIKey    string
	SecretKey string
}

func (p ProviderCredentials) Configured() bool {
	return p.APIKey != ""
}

type Providers struct {
	AICTE ProviderCredentials
	NCTE  ProviderCredentials
	CBSE  ProviderCredentials
	ICSE  ProviderCredentials
	// Boards is keyed by state board code (up, mp, rajasthan, ...).
	Boards map[string]ProviderCredentials
}

// FromEnv builds the configuration from environment variables so main stays lean.
// boardCodes lists the state boards whose {CODE}_BOARD_* variables are read.
func FromEnv(boardCodes []string) Config {
	policy := resilience.DefaultPolicy()
	policy.Attempts = getInt("VERIGATE_RETRY_ATTEMPTS", policy.Attempts)
	policy.BaseDelay = getDuration("VERIGATE_RETRY_BASE_DELAY", policy.BaseDelay)
	policy.PerAttemptTimeout = getDuration("VERIGATE_REQUEST_TIMEOUT", policy.PerAttemptTimeout)
	policy.FailFastOnClientError = getBool("VERIGATE_FAIL_FAST_4XX", false)

	return Config{
		Server: Server{
			Addr:            getEnv("VERIGATE_ADDR", ":8080"),
			RequestTimeout:  getDuration("VERIGATE_HTTP_TIMEOUT", 5*time.Minute),
			ShutdownTimeout: getDuration("VERIGATE_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Log: Log{
			Level:  parseLogLevel(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
			File:   os.Getenv("LOG_FILE"),
		},
		Database: Database{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			Migrate:         getBool("DATABASE_MIGRATE", true),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:           getList("KAFKA_BROKERS"),
			Topic:             getEnv("KAFKA_TOPIC", "verigate.verifications"),
			Partitions:        int32(getInt("KAFKA_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(getInt("KAFKA_TOPIC_REPLICATION", 1)),
		},
		S3: S3{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		SendGrid: SendGrid{
			APIKey:      os.Getenv("SENDGRID_API_KEY"),
			FromEmail:   os.Getenv("SENDGRID_FROM_EMAIL"),
			FromName:    os.Getenv("SENDGRID_FROM_NAME"),
			ReplyTo:     os.Getenv("SENDGRID_REPLY_TO_EMAIL"),
			TemplateIDs: getMap("SENDGRID_TEMPLATE_IDS"),
		},
		Razorpay: Razorpay{
			KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		},
		Executor: policy,
		Notify: Breaker{
			FailureThreshold: getInt("NOTIFY_BREAKER_FAILURES", 5),
			SuccessThreshold: getInt("NOTIFY_BREAKER_SUCCESSES", 1),
			Cooldown:         getDuration("NOTIFY_BREAKER_COOLDOWN", time.Minute),
		},
		Providers: Providers{
			AICTE:  providerFromEnv("AICTE"),
			NCTE:   providerFromEnv("NCTE"),
			CBSE:   providerFromEnv("CBSE"),
			ICSE:   providerFromEnv("ICSE"),
			Boards: boardsFromEnv(boardCodes),
		},
	}
}

// providerFromEnv reads {NAME}_API_BASE_URL, {NAME}_API_KEY and {NAME}_SECRET_KEY.
func providerFromEnv(name string) ProviderCredentials {
	return ProviderCredentials{
		BaseURL:   os.Getenv(name + "_API_BASE_URL"),
		APIKey:    os.Getenv(name + "_API_KEY"),
		SecretKey: os.Getenv(name + "_SECRET_KEY"),
	}
}

func boardsFromEnv(codes []string) map[string]ProviderCredentials {
	out := make(map[string]ProviderCredentials, len(codes))
	for _, code := range codes {
		prefix := strings.ToUpper(code) + "_BOARD_"
		out[code] = ProviderCredentials{
			BaseURL: os.Getenv(prefix + "API_URL"),
			APIKey:  os.Getenv(prefix + "API_KEY"),
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return n
}

func getBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return b
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return d
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getMap parses "name=value,name=value".
func getMap(key string) map[string]string {
	out := map[string]string{}
	for _, pair := range getList(key) {
		name, value, ok := strings.Cut(pair, "=")
		if ok && strings.TrimSpace(name) != "" {
			out[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	return out
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
