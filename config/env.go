package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Redis     RedisConfig
	Kafka     KafkaConfig
	DB        DBConfig
	Auth      AuthConfig
	Server    ServerConfig
	Events    EventsConfig
	Payroll   PayrollConfig
	Inventory InventoryConfig
	Log       LogConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	URL      string
}

// DSN prefers an explicit DATABASE_DSN over the discrete fields.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type AuthConfig struct {
	JWTSecret string
}

type ServerConfig struct {
	HTTPPort    string
	GRPCPort    string
	CORSOrigins []string
	RateLimit   string
	// OpsAddr is the gRPC operations service the gateway checks in its
	// detailed health check. Empty disables the check.
	OpsAddr string
}

type EventsConfig struct {
	Bus    string
	Prefix string
}

type PayrollConfig struct {
	WeeklyOff time.Weekday
}

type InventoryConfig struct {
	LowStockThreshold int
}

type LogConfig struct {
	Level  string
	Format string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	lowStock, err := strconv.Atoi(getEnv("LOW_STOCK_THRESHOLD", "5"))
	if err != nil || lowStock <= 0 {
		lowStock = 5
	}

	weeklyOff, err := ParseWeekday(getEnv("PAYROLL_WEEKLY_OFF", "sunday"))
	if err != nil {
		logrus.Warnf("invalid PAYROLL_WEEKLY_OFF, falling back to sunday: %v", err)
		weeklyOff = time.Sunday
	}

	return Config{
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getEnv("KAFKA_TOPIC", "bizops-events"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "bizops"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			URL:      getEnv("DATABASE_DSN", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Server: ServerConfig{
			HTTPPort:    getEnv("HTTP_PORT", "8080"),
			GRPCPort:    getEnv("GRPC_PORT", "50051"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
			RateLimit:   getEnv("RATE_LIMIT", "100-M"),
			OpsAddr:     getEnv("OPS_GRPC_ADDR", ""),
		},
		Events: EventsConfig{
			Bus:    strings.ToLower(getEnv("EVENT_BUS", "redis")),
			Prefix: getEnv("EVENT_PREFIX", "bizops:events"),
		},
		Payroll: PayrollConfig{
			WeeklyOff: weeklyOff,
		},
		Inventory: InventoryConfig{
			LowStockThreshold: lowStock,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
