package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	SERVER_PORT              string
	WORKER_POOL              string
	DB_URI                   string
	DB_NAME                  string
	DB_MAXPOOLSIZE           uint64
	DB_MINPOOLSIZE           uint64
	DB_MAXIDLETIME_INMINUTES int

	KAFKA_SERVER             string
	KAFKA_SECURITY_PROTOCOL  string
	KAFKA_SASL_MECHANISM     string
	KAFKA_SASL_USERNAME      string
	KAFKA_SASL_PASSWORD      string
	KAFKA_SESSION_TIMEOUT_MS int
	KAFKA_CLIENT_ID          string
	KAFKA_TOPIC              string
	KAFKA_RETRY_WINDOW_HOURS int

	REDIS_ADDR                    string
	REDIS_PASSWORD                string
	REDIS_DB                      int
	REDIS_ENABLE_TLS              bool
	REDIS_CONNECT_TIMEOUT_SECONDS int
	REDIS_CERT_CONTENT            string
	WALLET_SUMMARY_TTL_SECONDS    int

	// Group-level financial defaults, applied when a group does not override them.
	DEFAULT_INTEREST_RATE   float64
	DEFAULT_DURATION_MONTHS int
	DEFAULT_REPAYMENT_TYPE  string
	DEFAULT_USE_FLAT_RATE   bool
	BALANCE_TOLERANCE       float64
	TIMEOUT_IN_SECONDS      int
	SERVICE_NAME            string
	OTEL_URL                string
	LOG_LEVEL               string
)

type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	EnableTLS      bool          `yaml:"enable_tls"`
	ConnectTimeout time.Duration `yaml:"connect_timeout_seconds"`
	CertContent    string        `yaml:"cert_content"`
}

// LoadEnv loads the environment variables from a .env file
func LoadEnv() error {
	err := godotenv.Load("./../.env")
	if err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	LoadEnvValues()

	return nil
}

func LoadEnvValues() {
	SERVER_PORT = GetEnv("SERVER_PORT", "8080")
	WORKER_POOL = GetEnv("WORKER_POOL", "5")
	DB_URI = GetEnv("DB_URI", "mongodb://localhost:27017/?replicaSet=rs0")
	DB_NAME = GetEnv("DB_NAME", "BachatGatLedger")
	DB_MAXPOOLSIZE, _ = strconv.ParseUint(GetEnv("DB_MAXPOOLSIZE", "100"), 10, 64)
	DB_MINPOOLSIZE, _ = strconv.ParseUint(GetEnv("DB_MINPOOLSIZE", "10"), 10, 64)
	DB_MAXIDLETIME_INMINUTES, _ = strconv.Atoi(GetEnv("DB_MAXIDLETIME_INMINUTES", "5"))

	KAFKA_SERVER = GetEnv("KAFKA_SERVER", "")
	KAFKA_SECURITY_PROTOCOL = GetEnv("KAFKA_SECURITY_PROTOCOL", "PLAINTEXT")
	KAFKA_SASL_MECHANISM = GetEnv("KAFKA_SASL_MECHANISM", "")
	KAFKA_SASL_USERNAME = GetEnv("KAFKA_SASL_USERNAME", "")
	KAFKA_SASL_PASSWORD = GetEnv("KAFKA_SASL_PASSWORD", "")
	KAFKA_SESSION_TIMEOUT_MS, _ = strconv.Atoi(GetEnv("KAFKA_SESSION_TIMEOUT_MS", "45000"))
	KAFKA_CLIENT_ID = GetEnv("KAFKA_CLIENT_ID", "gatledger")
	KAFKA_TOPIC = GetEnv("KAFKA_TOPIC", "ledger-events")
	KAFKA_RETRY_WINDOW_HOURS, _ = strconv.Atoi(GetEnv("KAFKA_RETRY_WINDOW_HOURS", "24"))

	REDIS_ADDR = GetEnv("REDIS_ADDR", "localhost:6379")
	REDIS_PASSWORD = GetEnv("REDIS_PASSWORD", "")
	REDIS_DB, _ = strconv.Atoi(GetEnv("REDIS_DB", "0"))
	REDIS_ENABLE_TLS = GetEnv("REDIS_ENABLE_TLS", "false") == "true"
	REDIS_CONNECT_TIMEOUT_SECONDS, _ = strconv.Atoi(GetEnv("REDIS_CONNECT_TIMEOUT_SECONDS", "5"))
	REDIS_CERT_CONTENT = GetEnv("REDIS_CERT_CONTENT", "")
	WALLET_SUMMARY_TTL_SECONDS, _ = strconv.Atoi(GetEnv("WALLET_SUMMARY_TTL_SECONDS", "60"))

	DEFAULT_INTEREST_RATE, _ = strconv.ParseFloat(GetEnv("DEFAULT_INTEREST_RATE", "12.0"), 64)
	DEFAULT_DURATION_MONTHS, _ = strconv.Atoi(GetEnv("DEFAULT_DURATION_MONTHS", "12"))
	DEFAULT_REPAYMENT_TYPE = GetEnv("DEFAULT_REPAYMENT_TYPE", "emi")
	DEFAULT_USE_FLAT_RATE = GetEnv("DEFAULT_USE_FLAT_RATE", "false") == "true"
	BALANCE_TOLERANCE, _ = strconv.ParseFloat(GetEnv("BALANCE_TOLERANCE", "0.01"), 64)

	TIMEOUT_IN_SECONDS, _ = strconv.Atoi(GetEnv("TIMEOUT_IN_SECONDS", "20"))
	SERVICE_NAME = GetEnv("SERVICE_NAME", "gatledger")
	OTEL_URL = GetEnv("OTEL_URL", "localhost:4318")
	LOG_LEVEL = GetEnv("LOG_LEVEL", "info")
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:           REDIS_ADDR,
		Password:       REDIS_PASSWORD,
		DB:             REDIS_DB,
		EnableTLS:      REDIS_ENABLE_TLS,
		ConnectTimeout: time.Duration(REDIS_CONNECT_TIMEOUT_SECONDS) * time.Second,
		CertContent:    REDIS_CERT_CONTENT,
	}
}
