package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret   string
	JWTTTLHours int

	ServerPort string
	BaseURL    string

	// Recommendation relay: external Python scorer reached over stdio.
	PythonBin           string
	RecommendScript     string
	RecommendTimeoutSec int

	// A chapter counts as completed once watched_sec reaches
	// floor(duration_sec * CompleteThreshold).
	CompleteThreshold float64
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "3306"),
		DBUser:              getEnv("DB_USER", "root"),
		DBPassword:          getEnv("DB_PASSWORD", "password"),
		DBName:              getEnv("DB_NAME", "online_course_platform"),
		JWTSecret:           getEnv("JWT_SECRET", "secret"),
		JWTTTLHours:         getEnvInt("JWT_TTL_HOURS", 72),
		ServerPort:          getEnv("SERVER_PORT", "5000"),
		BaseURL:             getEnv("BASE_URL", "http://localhost:5000"),
		PythonBin:           getEnv("PYTHON_BIN", "python3"),
		RecommendScript:     getEnv("RECOMMEND_SCRIPT", "./scripts/recommend.py"),
		RecommendTimeoutSec: getEnvInt("RECOMMEND_TIMEOUT_SEC", 30),
		CompleteThreshold:   getEnvFloat("COMPLETE_THRESHOLD", 0.9),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
