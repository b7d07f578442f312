package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	RedisURL      string
	Port          string
	Env           string
	WidgetBaseURL string

	// Secrets
	JWTSecret     string
	SessionSecret string
	OpenAIKey     string

	// Visitor sessions
	SessionTTL  time.Duration
	RoomIdleTTL time.Duration

	// Payments
	PaymentMode            string // "manual" or "mercadopago"
	MercadoPagoAccessToken string
	MercadoPagoSandbox     bool
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		RedisURL:               os.Getenv("REDIS_URL"),
		Port:                   os.Getenv("PORT"),
		Env:                    os.Getenv("ENV"),
		WidgetBaseURL:          os.Getenv("WIDGET_BASE_URL"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		SessionSecret:          os.Getenv("SESSION_SECRET"),
		OpenAIKey:              os.Getenv("OPENAI_API_KEY"),
		SessionTTL:             envDuration("SESSION_TTL", 24*time.Hour),
		RoomIdleTTL:            envDuration("ROOM_IDLE_TTL", 30*time.Minute),
		PaymentMode:            os.Getenv("PAYMENT_MODE"),
		MercadoPagoAccessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		MercadoPagoSandbox:     envBool("MERCADOPAGO_SANDBOX", true),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379/0"
	}
	if cfg.WidgetBaseURL == "" {
		cfg.WidgetBaseURL = "http://localhost:" + cfg.Port
	}
	if cfg.SessionSecret == "" {
		// Visitor tokens must never validate against dashboard tokens
		cfg.SessionSecret = cfg.JWTSecret + ".widget"
	}
	if cfg.PaymentMode == "" {
		cfg.PaymentMode = "manual"
	}

	return cfg
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
