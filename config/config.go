package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port           string
	AllowedOrigins string
	LogLevel       string
	LogFormat      string

	DBDriver       string // postgres, mysql or sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTKey             string
	TokenTTL           time.Duration
	PasswordIterations int

	WelcomeCredit   float64
	ReferralBonus   float64
	MinWithdrawal   float64
	DailyROIPercent float64
	ROIDays         int

	AccrualInterval time.Duration
	AccrualSchedule string // cron expression firing more often than AccrualInterval; empty disables the in-process scheduler
	CronKey         string // shared secret for the external scheduler trigger

	EmailSender    string
	EmailPassword  string // SMTP Password
	SendgridAPIKey string
}

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "3000"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),

		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "vaultgrow"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTKey:             getEnv("JWT_SECRET_KEY", "defaultSecret"),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
		PasswordIterations: getEnvInt("PASSWORD_ITERATIONS", 100000),

		WelcomeCredit:   getEnvFloat("WELCOME_CREDIT", 700),
		ReferralBonus:   getEnvFloat("REFERRAL_BONUS", 500),
		MinWithdrawal:   getEnvFloat("MIN_WITHDRAWAL", 3700),
		DailyROIPercent: getEnvFloat("DAILY_ROI_PERCENT", 15),
		ROIDays:         getEnvInt("ROI_DAYS", 5),

		AccrualInterval: getEnvDuration("ACCRUAL_INTERVAL", 10*time.Minute),
		AccrualSchedule: getEnv("ACCRUAL_SCHEDULE", "@every 1m"),
		CronKey:         getEnv("CRON_KEY", ""),

		EmailSender:    getEnv("EMAIL_SENDER", ""),
		EmailPassword:  getEnv("EMAIL_PASSWORD", ""),
		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
	}

	// Validate critical configuration
	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if cfg.CronKey == "" {
		log.Println("Warning: CRON_KEY is empty. The external ROI trigger is disabled.")
	}

	return cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return floatValue
}

// getEnvDuration accepts Go duration strings such as "10m" or "168h"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
