package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkgkafka "github.com/bibbank/credit-service/pkg/kafka"
	pkgpostgres "github.com/bibbank/credit-service/pkg/postgres"
	"github.com/bibbank/credit-service/pkg/tlsutil"
)

type DatabaseConfig struct {
	Host             string
	User             string
	Password         string
	Name             string
	SSLMode          string
	MigrationsSource string
	Port             int
	MaxConns         int
	MinConns         int
}

type KafkaConfig struct {
	Topic         string
	ClientID      string
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
	Brokers       []string
	TLS           bool
	SASLEnabled   bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a customer read cache is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type IngestConfig struct {
	CustomersFile string
	LoansFile     string
	// Schedule is a cron spec; empty disables scheduled ingestion.
	Schedule string
}

type ObservabilityConfig struct {
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
	SampleRatio  float64
	OTLPInsecure bool
}

// HTTPConfig tunes the REST listener. A zero RateLimit disables limiting.
type HTTPConfig struct {
	RateLimit       float64
	RateBurst       int
	Port            int
	ShutdownTimeout time.Duration
}

type Config struct {
	ServiceName    string
	TLS            tlsutil.ServerConfig
	Observability  ObservabilityConfig
	Ingest         IngestConfig
	Redis          RedisConfig
	DB             DatabaseConfig
	Kafka          KafkaConfig
	HTTP           HTTPConfig
	GRPCPort       int
	MetricsPort    int
	GRPCReflection bool
}

// Validate reports every missing or inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if c.Kafka.Topic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC must not be empty"))
	}
	if c.Kafka.SASLEnabled && (c.Kafka.SASLUsername == "" || c.Kafka.SASLPassword == "") {
		errs = append(errs, errors.New("KAFKA_SASL_USERNAME and KAFKA_SASL_PASSWORD are required when SASL is enabled"))
	}
	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLE_RATIO must be within [0,1], got %v", c.Observability.SampleRatio))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	if c.HTTP.RateLimit < 0 || (c.HTTP.RateLimit > 0 && c.HTTP.RateBurst < 1) {
		errs = append(errs, errors.New("HTTP_RATE_LIMIT must be >= 0 and HTTP_RATE_BURST >= 1 when limiting"))
	}
	if c.Ingest.Schedule != "" && (c.Ingest.CustomersFile == "" || c.Ingest.LoansFile == "") {
		errs = append(errs, errors.New("INGEST_SCHEDULE requires INGEST_CUSTOMERS_FILE and INGEST_LOANS_FILE"))
	}
	return errors.Join(errs...)
}

func Load() Config {
	return Config{
		GRPCPort:       getEnvInt("GRPC_PORT", 9090),
		MetricsPort:    getEnvInt("METRICS_PORT", 9100),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
		HTTP: HTTPConfig{
			Port:            getEnvInt("HTTP_PORT", 8080),
			RateLimit:       getEnvFloat("HTTP_RATE_LIMIT", 0),
			RateBurst:       getEnvInt("HTTP_RATE_BURST", 20),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		DB: DatabaseConfig{
			Host:             getEnv("DB_HOST", "localhost"),
			Port:             getEnvInt("DB_PORT", 5432),
			User:             getEnv("DB_USER", "credit"),
			Password:         getEnv("DB_PASSWORD", ""),
			Name:             getEnv("DB_NAME", "credit"),
			SSLMode:          getEnv("DB_SSLMODE", "require"),
			MaxConns:         getEnvInt("DB_MAX_CONNS", 10),
			MinConns:         getEnvInt("DB_MIN_CONNS", 2),
			MigrationsSource: getEnv("DB_MIGRATIONS_SOURCE", "file://migrations"),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS", "localhost:9092"),
			Topic:         getEnv("KAFKA_TOPIC", "credit.events"),
			ClientID:      getEnv("KAFKA_CLIENT_ID", "credit-service"),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLEnabled:   getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("REDIS_CUSTOMER_TTL", 10*time.Minute),
		},
		Ingest: IngestConfig{
			CustomersFile: getEnv("INGEST_CUSTOMERS_FILE", ""),
			LoansFile:     getEnv("INGEST_LOANS_FILE", ""),
			Schedule:      getEnv("INGEST_SCHEDULE", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			LogFormat:    getEnv("LOG_FORMAT", "json"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			OTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio:  getEnvFloat("OTEL_SAMPLE_RATIO", 1),
		},
		TLS: tlsutil.ServerConfig{
			CertFile:     getEnv("TLS_CERT_FILE", ""),
			KeyFile:      getEnv("TLS_KEY_FILE", ""),
			ClientCAFile: getEnv("TLS_CLIENT_CA_FILE", ""),
		},
		ServiceName: "credit-service",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}

func (c Config) MetricsAddr() string {
	return fmt.Sprintf(":%d", c.MetricsPort)
}

// Postgres converts the database settings for pkg/postgres.
func (d DatabaseConfig) Postgres(appName string) pkgpostgres.Config {
	return pkgpostgres.Config{
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Database: d.Name,
		SSLMode:  d.SSLMode,
		AppName:  appName,
		MaxConns: int32(d.MaxConns),
		MinConns: int32(d.MinConns),
	}
}

// Producer converts the Kafka settings for pkg/kafka.
func (k KafkaConfig) Producer() pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       k.Brokers,
		ClientID:      k.ClientID,
		TLS:           k.TLS,
		SASLEnabled:   k.SASLEnabled,
		SASLMechanism: k.SASLMechanism,
		SASLUsername:  k.SASLUsername,
		SASLPassword:  k.SASLPassword,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping empty entries.
func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
