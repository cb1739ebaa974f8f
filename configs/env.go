package configs

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the server needs. It is loaded once
// in main and passed by reference into each constructor.
type Config struct {
	Port              string
	MongoURI          string
	DatabaseName      string
	JWTSecret         string
	EmailUser         string
	EmailPass         string
	SMTPHost          string
	SMTPPort          int
	RazorpayKeyID     string
	RazorpayKeySecret string
	ClientURL         string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// A missing .env file is fine in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		MongoURI:          os.Getenv("MONGO_URI"),
		DatabaseName:      getEnv("DB_NAME", "raizen"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		EmailUser:         os.Getenv("EMAIL_USER"),
		EmailPass:         os.Getenv("EMAIL_PASS"),
		SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		ClientURL:         getEnv("CLIENT_URL", "http://localhost:5173"),
	}

	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, errors.New("SMTP_PORT must be a number")
	}
	cfg.SMTPPort = port

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI not found in environment variables")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("missing JWT_SECRET in env")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
