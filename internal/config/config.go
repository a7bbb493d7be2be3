package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	MongoURI        string
	MongoDB         string
	AssociationName string
	CurrencyCode    string
	ResyncSchedule  string
	TelegramToken   string
	TelegramChatID  int64
	FiscalYear      int
	Categories      []string
}

// Load loads configuration from environment variables
func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it.")
	}

	config := &Config{
		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDB:         os.Getenv("MONGODB_DB"),
		AssociationName: getEnv("ASSOCIATION_NAME", "Association"),
		CurrencyCode:    getEnv("CURRENCY_CODE", "DZD"),
		ResyncSchedule:  getEnv("RESYNC_SCHEDULE", "0 */6 * * *"),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		FiscalYear:      fiscalYear(),
		Categories: []string{
			"Fournitures",
			"Transport",
			"Evenements",
			"Communication",
			"Maintenance",
			"Autres",
		},
	}

	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			log.Fatal("Invalid TELEGRAM_CHAT_ID:", err)
		}
		config.TelegramChatID = chatID
	}

	// Validate required fields
	if config.MongoURI == "" {
		log.Fatal("MONGODB_URI not set")
	}
	if config.MongoDB == "" {
		log.Fatal("MONGODB_DB not set")
	}

	return config
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fiscalYear() int {
	if v := os.Getenv("FISCAL_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal("Invalid FISCAL_YEAR:", err)
		}
		return year
	}
	return time.Now().Year()
}
