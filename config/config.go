package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	DBName string
	JWTKey string

	// Payment provider (checkout sessions, refunds)
	PaymentApiURL    string
	PaymentApiKey    string
	PaymentSecretKey string
	Currency         string

	// Billing policies
	PlatformFeePercent     float64 // platform's cut of each sale
	RefundWindowDays       int     // days after purchase a refund may be requested
	RefundAutoApproveUnder float64 // orders at or below this auto-approve
	RefundRequiresApproval bool    // force manual review regardless of amount
	MinPayoutAmount        float64 // minimum payout request
	EarningsHoldDays       int     // days before pending earnings become available

	// Notifications
	SendgridApiKey string
	EmailSender    string
	SenderName     string

	// Notification queue sizing
	NotifyWorkers   int
	NotifyQueueSize int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		DBName: getEnv("DB_NAME", "edumart"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		PaymentApiURL:    getEnv("PAYMENT_API_URL", "https://api.sandbox.paygate.io/v1"),
		PaymentApiKey:    getEnv("PAYMENT_API_KEY", ""),
		PaymentSecretKey: getEnv("PAYMENT_SECRET_KEY", ""),
		Currency:         getEnv("CURRENCY", "USD"),

		PlatformFeePercent:     getEnvFloat("PLATFORM_FEE_PERCENT", 30),
		RefundWindowDays:       getEnvInt("REFUND_WINDOW_DAYS", 30),
		RefundAutoApproveUnder: getEnvFloat("REFUND_AUTO_APPROVE_UNDER", 50),
		RefundRequiresApproval: getEnvBool("REFUND_REQUIRES_APPROVAL", false),
		MinPayoutAmount:        getEnvFloat("MIN_PAYOUT_AMOUNT", 50),
		EarningsHoldDays:       getEnvInt("EARNINGS_HOLD_DAYS", 30),

		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "billing@edumart.io"),
		SenderName:     getEnv("EMAIL_SENDER_NAME", "EduMart"),

		NotifyWorkers:   getEnvInt("NOTIFY_WORKERS", 4),
		NotifyQueueSize: getEnvInt("NOTIFY_QUEUE_SIZE", 256),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.PaymentApiKey == "" {
		log.Println("Warning: PAYMENT_API_KEY is empty. Checkout sessions will fail.")
	}
	if AppConfig.PlatformFeePercent < 0 || AppConfig.PlatformFeePercent > 100 {
		log.Fatalf("PLATFORM_FEE_PERCENT must be between 0 and 100, got %v", AppConfig.PlatformFeePercent)
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
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

// getEnvFloat retrieves an environment variable as a float or returns the default value
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

// getEnvBool retrieves an environment variable as a bool or returns the default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
