package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	PostgresConnStr string

	JWTSecret string

	FirebaseCredentialsPath string

	CloudinaryURL string

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from the environment, sourcing a .env file when
// present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		CloudinaryURL:           getEnv("CLOUDINARY_URL", ""),
	}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	if db, err := strconv.Atoi(getEnv("REDIS_DB", "0")); err == nil {
		cfg.Redis.DB = db
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "text")

	return cfg
}

// IsProduction reports whether the server runs in a production-equivalent
// environment. The query-parameter auth bypass is refused when this is true.
func (c *Config) IsProduction() bool {
	return c.Env != "development" && c.Env != "test"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
