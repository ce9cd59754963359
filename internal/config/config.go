package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	BACKEND_URL               string
	JWT_SECRET                string
	STORE_DSN                 string
	REDIS_ADDRESS             string
	KAFKA_ADDRESS             string
	ES_URL                    string
	ES_USER                   string
	ES_PASSWORD               string
	EMAILJS_SERVICE_ID        string
	EMAILJS_ORDER_TEMPLATE_ID string
	EMAILJS_RESET_TEMPLATE_ID string
	EMAILJS_PUBLIC_KEY        string
	LOG_LEVEL                 string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		BACKEND_URL:               os.Getenv("BACKEND_URL"),
		JWT_SECRET:                os.Getenv("JWT_SECRET"),
		STORE_DSN:                 os.Getenv("STORE_DSN"),
		REDIS_ADDRESS:             os.Getenv("REDIS_ADDRESS"),
		KAFKA_ADDRESS:             os.Getenv("KAFKA_ADDRESS"),
		ES_URL:                    os.Getenv("ES_URL"),
		ES_USER:                   os.Getenv("ES_USER"),
		ES_PASSWORD:               os.Getenv("ES_PASSWORD"),
		EMAILJS_SERVICE_ID:        os.Getenv("EMAILJS_SERVICE_ID"),
		EMAILJS_ORDER_TEMPLATE_ID: os.Getenv("EMAILJS_ORDER_TEMPLATE_ID"),
		EMAILJS_RESET_TEMPLATE_ID: os.Getenv("EMAILJS_RESET_TEMPLATE_ID"),
		EMAILJS_PUBLIC_KEY:        os.Getenv("EMAILJS_PUBLIC_KEY"),
		LOG_LEVEL:                 os.Getenv("LOG_LEVEL"),
	}

	if config.BACKEND_URL == "" {
		return nil, fmt.Errorf("BACKEND_URL is required")
	}

	return config, nil
}

// InitStoreDB opens the local snapshot database. A postgres:// DSN selects the
// postgres driver, anything else is treated as a sqlite file path.
func InitStoreDB(cfg *Config) (*gorm.DB, error) {
	dsn := cfg.STORE_DSN
	if dsn == "" {
		dsn = "soratech_store.db"
	}

	var (
		db  *gorm.DB
		err error
	)
	if strings.HasPrefix(dsn, "postgres://") {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}
	return db, nil
}
