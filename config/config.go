package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Environment
	AppEnv string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// AI Provider
	AIProvider      string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string

	// Dialogue
	ModelTimeoutSeconds int
	ModelMaxRetries     int
	SessionTTLMinutes   int

	// Session cache (empty RedisAddr keeps sessions in process memory)
	RedisAddr     string
	RedisPassword string

	// Confirmation delivery
	ConfirmationMode        string // "simulated" or "smtp"
	ConfirmationFailureRate float64
	SMTPHost                string
	SMTPPort                int
	SMTPUser                string
	SMTPPassword            string
	SMTPFrom                string

	// Server
	ServerPort string
}

// Load loads configuration from environment variables
func Load() *Config {
	// Try to load .env file (optional for local development)
	_ = godotenv.Load()

	config := &Config{
		AppEnv: getEnv("APP_ENV", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "flightpass123"),
		DBName:     getEnv("DB_NAME", "flightbookings"),

		AIProvider:      getEnv("AI_PROVIDER", "rules"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-sonnet-20240229"),

		ModelTimeoutSeconds: getEnvInt("MODEL_TIMEOUT_SECONDS", 30),
		ModelMaxRetries:     getEnvInt("MODEL_MAX_RETRIES", 2),
		SessionTTLMinutes:   getEnvInt("SESSION_TTL_MINUTES", 30),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ConfirmationMode:        getEnv("CONFIRMATION_MODE", "simulated"),
		ConfirmationFailureRate: getEnvFloat("CONFIRMATION_FAILURE_RATE", 0.2),
		SMTPHost:                os.Getenv("SMTP_HOST"),
		SMTPPort:                getEnvInt("SMTP_PORT", 587),
		SMTPUser:                os.Getenv("SMTP_USER"),
		SMTPPassword:            os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:                getEnv("SMTP_FROM", "bookings@crewair.example"),

		ServerPort: getEnv("SERVER_PORT", "8080"),
	}

	// Validate AI provider configuration
	switch config.AIProvider {
	case "openai":
		if config.OpenAIAPIKey == "" {
			log.Println("WARNING: OPENAI_API_KEY not set")
		}
	case "anthropic":
		if config.AnthropicAPIKey == "" {
			log.Println("WARNING: ANTHROPIC_API_KEY not set")
		}
	case "rules":
		// Deterministic offline adapter, nothing to validate.
	default:
		log.Printf("WARNING: Unknown AI_PROVIDER: %s (using rules as fallback)\n", config.AIProvider)
		config.AIProvider = "rules"
	}

	if config.ConfirmationMode == "smtp" && config.SMTPHost == "" {
		log.Println("WARNING: CONFIRMATION_MODE=smtp but SMTP_HOST not set, using simulated delivery")
		config.ConfirmationMode = "simulated"
	}

	return config
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARNING: invalid value for %s: %q (using %d)", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("WARNING: invalid value for %s: %q (using %g)", key, value, defaultValue)
		return defaultValue
	}
	return f
}
