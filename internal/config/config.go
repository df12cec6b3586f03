package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds process-level settings read from the environment.
type Config struct {
	Port      string
	StorePath string
	MongoURI  string
	RedisAddr string
	JWTSecret string

	// MaxUploadBytes bounds the accepted PDF size.
	MaxUploadBytes int64
}

// Load reads configuration from a .env file (when present) and the
// environment, with development defaults.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, reading from system environment")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		StorePath:      getEnv("QUIZ_STORE_PATH", "quizzes.json"),
		MongoURI:       os.Getenv("MONGO_URI"),
		RedisAddr:      os.Getenv("REDIS_URI"),
		JWTSecret:      getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		MaxUploadBytes: 20 << 20,
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
