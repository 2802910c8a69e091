package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultTrainFile   = "train.csv"
	DefaultBookingFile = "booking.csv"

	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

type Config struct {
	ServerPort string

	TrainFile     string
	BookingFile   string
	LedgerBackend string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// RabbitURL is optional; an empty value disables booking events and catalog commands.
	RabbitURL string

	CatalogReloadInterval time.Duration
}

func Load() *Config {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		TrainFile:     getEnv("TRAIN_FILE", DefaultTrainFile),
		BookingFile:   getEnv("BOOKING_FILE", DefaultBookingFile),
		LedgerBackend: getEnv("LEDGER_BACKEND", BackendCSV),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "reservation_db"),
		RabbitURL:     os.Getenv("RABBITMQ_URL"),
	}

	if v := os.Getenv("CATALOG_RELOAD_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("[Config] ignoring invalid CATALOG_RELOAD_INTERVAL %q: %v", v, err)
		} else {
			cfg.CatalogReloadInterval = d
		}
	}

	return cfg
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
