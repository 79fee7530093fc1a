package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	DatabaseURL     string
	RedisAddr       string
	JWTSecret       string
	DataDir         string
	AdminEmail      string
	AdminPassword   string
	BannerRotate    time.Duration
	SnapshotRefresh time.Duration
	LoginRatePerMin int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found")
	}

	return &Config{
		Port:            envInt("PORT", 8080),
		DatabaseURL:     env("DATABASE_URL", "postgres://streambox:streambox@db:5432/streambox?sslmode=disable"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		JWTSecret:       env("JWT_SECRET", "change-me-in-production"),
		DataDir:         env("DATA_DIR", "/data"),
		AdminEmail:      env("ADMIN_EMAIL", ""),
		AdminPassword:   env("ADMIN_PASSWORD", ""),
		BannerRotate:    time.Duration(envInt("BANNER_ROTATE_SECONDS", 5)) * time.Second,
		SnapshotRefresh: time.Duration(envInt("SNAPSHOT_REFRESH_MINUTES", 15)) * time.Minute,
		LoginRatePerMin: envInt("LOGIN_RATE_PER_MIN", 10),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return i
}
