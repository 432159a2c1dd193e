package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envEnablePprof           = "ENABLE_PPROF"
	envContentAPIURL         = "ORCHARD_CONTENT_API_URL"
	envGraphQLURL            = "ORCHARD_GRAPHQL_URL"
	envMediaAPIURL           = "ORCHARD_MEDIA_API_URL"
	envTokenURL              = "ORCHARD_TOKEN_URL"
	envOAuthClientID         = "ORCHARD_CLIENT_ID"
	envOAuthUsername         = "ORCHARD_USERNAME"
	envOAuthPassword         = "ORCHARD_PASSWORD"
	envOAuthScope            = "ORCHARD_SCOPE"
	envTokenSigningKey       = "ORCHARD_TOKEN_SIGNING_KEY"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envRedisAddr             = "REDIS_ADDR"
	envRedisPassword         = "REDIS_PASSWORD"
	envRedisDB               = "REDIS_DB"
	envSessionTTL            = "SESSION_TTL"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envMediaBucket           = "MEDIA_BUCKET"
	envMediaURLPrefix        = "MEDIA_URL_PREFIX"
	envMaxUploadSize         = "MAX_UPLOAD_SIZE"
	envQueryPageSize         = "QUERY_PAGE_SIZE"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "dashboard"
	defaultDBUser             = "dashboard_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultRedisAddr          = "localhost:6379"
	defaultRedisDB            = 0
	defaultSessionTTL         = 24 * time.Hour
	defaultOAuthScope         = "openid profile roles"
	defaultMediaURLPrefix     = "/media"
	defaultMaxUploadSize      = int64(512 * 1024 * 1024)
	defaultQueryPageSize      = 100

	errPortRequiredFmt          = "PORT must be set"
	errContentAPIURLRequiredFmt = "ORCHARD_CONTENT_API_URL must be set"
	errGraphQLURLRequiredFmt    = "ORCHARD_GRAPHQL_URL must be set"
	errTokenURLRequiredFmt      = "ORCHARD_TOKEN_URL must be set"
	errClientIDRequiredFmt      = "ORCHARD_CLIENT_ID must be set"
	errSigningKeyRequiredFmt    = "ORCHARD_TOKEN_SIGNING_KEY must be set"
	errRegionRequiredFmt        = "REGION must be set"
	errAWSAccessKeyRequiredFmt  = "AWS_ACCESS_KEY_ID must be set"
	errAWSSecretKeyRequiredFmt  = "AWS_SECRET_ACCESS_KEY must be set"
	errMediaBucketRequiredFmt   = "MEDIA_BUCKET must be set"
	errInvalidConfigurationFmt  = "invalid configuration: %w"
)

type Config struct {
	Server   ServerConfig
	Orchard  OrchardConfig
	OAuth    OAuthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AWS      AWSConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	EnablePprof     bool
}

// OrchardConfig locates the external content store endpoints.
type OrchardConfig struct {
	ContentAPIURL string
	GraphQLURL    string
	MediaAPIURL   string
}

// OAuthConfig drives the password-grant token exchange with the identity
// provider. Username/Password are the service account the dashboard core
// authenticates as; interactive logins pass their own credentials through.
type OAuthConfig struct {
	TokenURL string
	ClientID string
	Username string
	Password string
	Scope    string
	// SigningKey is the HMAC key shared with the identity provider, used
	// to verify inbound bearer tokens before trusting their subject.
	SigningKey string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type AppConfig struct {
	MediaBucket    string
	MediaURLPrefix string
	MaxUploadSize  int64
	QueryPageSize  int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
			EnablePprof:     getBoolEnv(envEnablePprof, false),
		},
		Orchard: OrchardConfig{
			ContentAPIURL: os.Getenv(envContentAPIURL),
			GraphQLURL:    os.Getenv(envGraphQLURL),
			MediaAPIURL:   os.Getenv(envMediaAPIURL),
		},
		OAuth: OAuthConfig{
			TokenURL:   os.Getenv(envTokenURL),
			ClientID:   os.Getenv(envOAuthClientID),
			Username:   os.Getenv(envOAuthUsername),
			Password:   os.Getenv(envOAuthPassword),
			Scope:      getEnv(envOAuthScope, defaultOAuthScope),
			SigningKey: os.Getenv(envTokenSigningKey),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		Redis: RedisConfig{
			Addr:       getEnv(envRedisAddr, defaultRedisAddr),
			Password:   os.Getenv(envRedisPassword),
			DB:         getIntEnv(envRedisDB, defaultRedisDB),
			SessionTTL: getDurationEnv(envSessionTTL, defaultSessionTTL),
		},
		AWS: AWSConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
		},
		App: AppConfig{
			MediaBucket:    os.Getenv(envMediaBucket),
			MediaURLPrefix: getEnv(envMediaURLPrefix, defaultMediaURLPrefix),
			MaxUploadSize:  getInt64Env(envMaxUploadSize, defaultMaxUploadSize),
			QueryPageSize:  getIntEnv(envQueryPageSize, defaultQueryPageSize),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Orchard.ContentAPIURL == "" {
		return fmt.Errorf(errContentAPIURLRequiredFmt)
	}

	if c.Orchard.GraphQLURL == "" {
		return fmt.Errorf(errGraphQLURLRequiredFmt)
	}

	if c.OAuth.TokenURL == "" {
		return fmt.Errorf(errTokenURLRequiredFmt)
	}

	if c.OAuth.ClientID == "" {
		return fmt.Errorf(errClientIDRequiredFmt)
	}

	if c.OAuth.SigningKey == "" {
		return fmt.Errorf(errSigningKeyRequiredFmt)
	}

	if c.AWS.Region == "" {
		return fmt.Errorf(errRegionRequiredFmt)
	}

	if c.AWS.AccessKeyID == "" {
		return fmt.Errorf(errAWSAccessKeyRequiredFmt)
	}

	if c.AWS.SecretAccessKey == "" {
		return fmt.Errorf(errAWSSecretKeyRequiredFmt)
	}

	if c.App.MediaBucket == "" {
		return fmt.Errorf(errMediaBucketRequiredFmt)
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
