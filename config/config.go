package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DirectoryConfig holds the settings of the provider directory service.
type DirectoryConfig struct {
	Port                string
	DatabaseURL         string
	IdentityServiceURL  string
	IdentityTimeout     time.Duration
	RequireActiveParent bool
	MaxTreeDepth        int
	CORSOrigins         []string
}

// AuthConfig holds the settings of the authentication service.
type AuthConfig struct {
	Port                 string
	DatabaseURL          string
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration
	OTPLength            int
	OTPTimeout           time.Duration
	FrontendURL          string
	CORSOrigins          []string
}

func LoadEnv() error {
	// A missing .env is fine: in deployed environments variables are set directly.
	_ = godotenv.Load()
	return nil
}

// optionalVars are reported at startup but do not stop a service.
var optionalVars = map[string]string{
	"FIREBASE_STORAGE_BUCKET":        "file uploads will fail",
	"GOOGLE_APPLICATION_CREDENTIALS": "Firebase features may not work",
	"FRONTEND_URL":                   "CORS may not work correctly",
}

var smtpVars = []string{"SMTP_HOST", "SMTP_PORT", "SMTP_FROM"}

func requireVars(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if os.Getenv(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}
	return nil
}

// ValidateEnv checks the variables every service needs.
func ValidateEnv() error {
	if err := requireVars("DATABASE_URL"); err != nil {
		return err
	}
	for key, consequence := range optionalVars {
		if os.Getenv(key) == "" {
			zap.L().Warn(key+" not set", zap.String("consequence", consequence))
		}
	}
	return nil
}

// ValidateAuthEnv adds the signing secret to ValidateEnv.
func ValidateAuthEnv() error {
	if err := ValidateEnv(); err != nil {
		return err
	}
	if err := requireVars("JWT_SECRET"); err != nil {
		return err
	}
	for _, key := range smtpVars {
		if os.Getenv(key) == "" {
			zap.L().Warn(key + " not set - verification emails will not be sent")
		}
	}
	return nil
}

func LoadDirectoryConfig() *DirectoryConfig {
	return &DirectoryConfig{
		Port:                GetEnv("PORT", "8000"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		IdentityServiceURL:  GetEnv("IDENTITY_SERVICE_URL", "http://127.0.0.1:8001"),
		IdentityTimeout:     GetDuration("IDENTITY_TIMEOUT", 3*time.Second),
		RequireActiveParent: GetBool("CATEGORY_REQUIRE_ACTIVE_PARENT", true),
		MaxTreeDepth:        GetInt("CATEGORY_MAX_DEPTH", 50),
		CORSOrigins:         corsOrigins(),
	}
}

func LoadAuthConfig() *AuthConfig {
	return &AuthConfig{
		Port:                 GetEnv("PORT", "8001"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		AccessTokenLifetime:  GetDuration("ACCESS_TOKEN_LIFETIME", 15*time.Minute),
		RefreshTokenLifetime: GetDuration("REFRESH_TOKEN_LIFETIME", 24*time.Hour),
		OTPLength:            GetInt("OTP_CODE_LENGTH", 6),
		OTPTimeout:           GetDuration("OTP_CODE_TIMEOUT", 300*time.Second),
		FrontendURL:          GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSOrigins:          corsOrigins(),
	}
}

func corsOrigins() []string {
	var origins []string
	for _, o := range []string{os.Getenv("FRONTEND_URL"), os.Getenv("ADMIN_URL")} {
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses key as a Go duration ("90s", "15m"). A bare integer is
// read as seconds.
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	zap.L().Warn("invalid duration, using default", zap.String("key", key), zap.String("value", value))
	return defaultValue
}

func GetInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("invalid integer, using default", zap.String("key", key), zap.String("value", value))
		return defaultValue
	}
	return n
}

func GetBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		zap.L().Warn("invalid boolean, using default", zap.String("key", key), zap.String("value", value))
		return defaultValue
	}
	return b
}
