package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Mongo  MongoConfig
	Auth   AuthConfig
	OAuth  OAuthConfig
	Media  MediaConfig
	Server ServerConfig
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string
	Database string
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// OAuthConfig holds social sign-in provider configuration
type OAuthConfig struct {
	GoogleClientID    string
	FacebookAppID     string
	FacebookAppSecret string
}

// MediaConfig holds blob storage configuration.
// Provider selects the active backend: "cloudinary" or "google_cloud".
type MediaConfig struct {
	Provider   string
	Cloudinary CloudinaryConfig
	GCS        GCSConfig
}

// CloudinaryConfig holds Cloudinary credentials
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// GCSConfig holds Google Cloud Storage settings
type GCSConfig struct {
	ProjectID       string
	Bucket          string
	CredentialsFile string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port      int
	WebAppURI string
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	// Mongo configuration
	var err error
	if cfg.Mongo.URI, err = requireEnv("MONGO_URI"); err != nil {
		return nil, err
	}
	if cfg.Mongo.Database, err = requireEnv("MONGO_DB_NAME"); err != nil {
		return nil, err
	}

	// Auth configuration
	if cfg.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}
	accessTTL := getEnvWithDefault("ACCESS_TOKEN_TTL_MINUTES", "15")
	accessMinutes, err := strconv.Atoi(accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ACCESS_TOKEN_TTL_MINUTES: %w", err)
	}
	cfg.Auth.AccessTokenTTL = time.Duration(accessMinutes) * time.Minute

	refreshTTL := getEnvWithDefault("REFRESH_TOKEN_TTL_MINUTES", "180")
	refreshMinutes, err := strconv.Atoi(refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REFRESH_TOKEN_TTL_MINUTES: %w", err)
	}
	cfg.Auth.RefreshTokenTTL = time.Duration(refreshMinutes) * time.Minute

	// OAuth configuration
	if cfg.OAuth.GoogleClientID, err = requireEnv("GOOGLE_CLIENT_ID"); err != nil {
		return nil, err
	}
	cfg.OAuth.FacebookAppID = getEnvWithDefault("FACEBOOK_APP_ID", "")
	cfg.OAuth.FacebookAppSecret = getEnvWithDefault("FACEBOOK_APP_SECRET", "")

	// Media configuration
	cfg.Media.Provider = getEnvWithDefault("MEDIA_PROVIDER", "cloudinary")
	switch cfg.Media.Provider {
	case "cloudinary":
		if cfg.Media.Cloudinary.CloudName, err = requireEnv("CLOUDINARY_CLOUD_NAME"); err != nil {
			return nil, err
		}
		if cfg.Media.Cloudinary.APIKey, err = requireEnv("CLOUDINARY_API_KEY"); err != nil {
			return nil, err
		}
		if cfg.Media.Cloudinary.APISecret, err = requireEnv("CLOUDINARY_API_SECRET"); err != nil {
			return nil, err
		}
		cfg.Media.Cloudinary.Folder = getEnvWithDefault("CLOUDINARY_FOLDER", "media")
	case "google_cloud":
		if cfg.Media.GCS.ProjectID, err = requireEnv("GCS_PROJECT_ID"); err != nil {
			return nil, err
		}
		if cfg.Media.GCS.Bucket, err = requireEnv("GCS_BUCKET"); err != nil {
			return nil, err
		}
		if cfg.Media.GCS.CredentialsFile, err = requireEnv("GCS_CREDENTIALS_FILE"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown MEDIA_PROVIDER %q", cfg.Media.Provider)
	}

	// Server configuration
	serverPort, err := requireEnv("SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}
	if cfg.Server.WebAppURI, err = requireEnv("WEBAPP_URI"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
