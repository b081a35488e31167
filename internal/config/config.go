package config

import (
	"os"
	"strconv"
	"time"

	"web3_annotate/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	// Object storage (presigned uploads)
	S3Bucket    string
	S3KeyPrefix string
	UploadTTL   time.Duration

	// Wallet sign-in
	SignatureVerify bool

	// Redis rate limiting
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Load reads configuration from the environment (.env is honored when present).
// Missing required variables abort startup.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		logger.Warn("S3_BUCKET is not set, presigned upload endpoints disabled")
	}

	keyPrefix := os.Getenv("S3_KEY_PREFIX")
	if keyPrefix == "" {
		keyPrefix = "web3_annotate_s3"
	}

	uploadTTL := time.Hour
	if v := os.Getenv("UPLOAD_URL_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			uploadTTL = time.Duration(n) * time.Second
		}
	}

	// Sign-in proof verification fails closed unless explicitly disabled.
	signatureVerify := os.Getenv("SIGNATURE_VERIFY") != "false"

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return &Config{
		AppPort:         port,
		DatabaseURL:     dbURL,
		JWTSecret:       jwtSecret,
		S3Bucket:        bucket,
		S3KeyPrefix:     keyPrefix,
		UploadTTL:       uploadTTL,
		SignatureVerify: signatureVerify,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		APIRateLimit:    envInt("API_RATE_LIMIT", 60),
		APIRateWindow:   envWindow("API_RATE_WINDOW_SECONDS", time.Minute),
		AuthRateLimit:   envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow:  envWindow("AUTH_RATE_WINDOW_SECONDS", time.Minute),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envWindow(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
