package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultWhatsAppNumber = "916363278962"
	DefaultStoreName      = "Choudhary Perfumes"
	devAdminPassword      = "admin123"
)

type Config struct {
	Port           string
	Env            string
	SiteURL        string
	AllowedOrigins []string

	DatabaseDriver    string
	MongoURI          string
	DatabaseName      string
	MongoTransactions bool
	DatabaseURL       string

	RedisAddr     string
	RedisPassword string
	CartTTL       time.Duration

	StorageDriver     string
	R2Bucket          string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Endpoint        string
	R2PublicDomain    string
	GCSBucket         string
	GCSCredentials    string
	UploadDir         string
	MaxUploadBytes    int64

	AdminUsername string
	AdminPassword string
	SessionSecret string
	SessionTTL    time.Duration
	AdminUIDir    string

	WhatsAppFallback    string
	StoreName           string
	BannerRotateEvery   time.Duration
	FallbackBannerImage string
	ToastDuration       time.Duration
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, so tests can feed a map.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port: get("PORT", "8080"),
		Env:  strings.ToLower(get("APP_ENV", "development")),

		DatabaseDriver:    strings.ToLower(get("DATABASE_DRIVER", "mongo")),
		MongoURI:          get("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName:      get("DATABASE_NAME", "storefront"),
		MongoTransactions: parseBool(getenv("MONGODB_TRANSACTIONS")),
		DatabaseURL:       getenv("DATABASE_URL"),

		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		CartTTL:       time.Duration(parseIntDefault(getenv("CART_TTL_DAYS"), 30)) * 24 * time.Hour,

		StorageDriver:     strings.ToLower(get("STORAGE_DRIVER", "local")),
		R2Bucket:          getenv("R2_BUCKET"),
		R2AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
		R2Endpoint:        getenv("R2_ENDPOINT"),
		R2PublicDomain:    strings.TrimRight(getenv("R2_PUBLIC_DOMAIN"), "/"),
		GCSBucket:         getenv("GCS_BUCKET"),
		GCSCredentials:    getenv("CREDENTIALS_FILE_LOCATION"),
		UploadDir:         get("UPLOAD_DIR", "./uploads"),
		MaxUploadBytes:    int64(parseIntDefault(getenv("MAX_UPLOAD_SIZE_MB"), 5)) << 20,

		AdminUsername: get("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD"),
		SessionSecret: getenv("SESSION_SECRET"),
		SessionTTL:    time.Duration(parseIntDefault(getenv("SESSION_TTL_DAYS"), 7)) * 24 * time.Hour,
		AdminUIDir:    getenv("ADMIN_UI_DIR"),

		WhatsAppFallback:    get("WHATSAPP_FALLBACK_NUMBER", DefaultWhatsAppNumber),
		StoreName:           get("STORE_NAME", DefaultStoreName),
		BannerRotateEvery:   time.Duration(parseIntDefault(getenv("BANNER_ROTATE_SECONDS"), 5)) * time.Second,
		FallbackBannerImage: get("FALLBACK_BANNER_IMAGE", "/images/hero-bg.jpg"),
		ToastDuration:       time.Duration(parseIntDefault(getenv("TOAST_MILLIS"), 2000)) * time.Millisecond,
	}

	cfg.SiteURL = strings.TrimRight(get("SITE_URL", get("NEXT_PUBLIC_SITE_URL", "http://localhost:"+cfg.Port)), "/")

	for _, origin := range strings.Split(getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	switch cfg.DatabaseDriver {
	case "mongo", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseDriver == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}

	switch cfg.StorageDriver {
	case "r2":
		if cfg.R2Bucket == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2Endpoint == "" {
			return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
		}
	case "gcs":
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET is required for the gcs storage driver")
		}
	case "local":
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.AdminPassword == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("missing ADMIN_PASSWORD env var")
		}
		log.Println("ADMIN_PASSWORD not set, using the development default")
		cfg.AdminPassword = devAdminPassword
	}
	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("missing SESSION_SECRET env var")
		}
		log.Println("SESSION_SECRET not set, generating an ephemeral secret")
		cfg.SessionSecret = randomSecret()
	}

	return cfg, nil
}

func parseIntDefault(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseBool(v string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(v))
	return b
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
