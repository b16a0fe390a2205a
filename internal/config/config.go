package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envMetadataDriver        = "METADATA_DRIVER"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envSQLitePath            = "SQLITE_PATH"
	envStorageDriver         = "STORAGE_DRIVER"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envS3Endpoint            = "S3_ENDPOINT"
	envS3ForcePathStyle      = "S3_FORCE_PATH_STYLE"
	envStorageBucket         = "STORAGE_BUCKET"
	envJWTSecret             = "JWT_SECRET"
	envPreviewURLTTL         = "PREVIEW_URL_TTL"
	envMaxFileSize           = "MAX_FILE_SIZE"
	envMaxBatchFiles         = "MAX_BATCH_FILES"
	envMaxFolderDepth        = "MAX_FOLDER_DEPTH"
	envDeletePolicy          = "DELETE_POLICY"
	envAuditEnabled          = "AUDIT_ENABLED"
	envEnableProfiling       = "ENABLE_PROFILING"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
	DriverS3       = "s3"

	DeletePolicyBestEffort = "best-effort"
	DeletePolicyStrict     = "strict"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerWriteTimeout = 60 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "drive"
	defaultDBUser             = "drive_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultSQLitePath         = "drive.db"
	defaultStorageBucket      = "user-files"
	defaultPreviewURLTTL      = 3600 * time.Second
	defaultMaxFileSize        = int64(10 * 1024 * 1024)
	defaultMaxBatchFiles      = 5
	defaultMaxFolderDepth     = 64
	minJWTSecretLength        = 32

	errPortRequiredFmt         = "PORT must be set"
	errDBPasswordRequiredFmt   = "DB_PASSWORD must be set when METADATA_DRIVER=postgres"
	errRegionRequiredFmt       = "REGION must be set when STORAGE_DRIVER=s3"
	errAWSAccessKeyRequiredFmt = "AWS_ACCESS_KEY_ID must be set when STORAGE_DRIVER=s3"
	errAWSSecretKeyRequiredFmt = "AWS_SECRET_ACCESS_KEY must be set when STORAGE_DRIVER=s3"
	errBucketRequiredFmt       = "STORAGE_BUCKET must not be empty"
	errJWTSecretRequiredFmt    = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errPositiveLimitFmt        = "%s must be greater than zero"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	Storage  StorageConfig
	JWT      JWTConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type SQLiteConfig struct {
	Path string
}

type StorageConfig struct {
	Driver          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	ForcePathStyle  bool
	Bucket          string
}

type JWTConfig struct {
	Secret string
}

type AppConfig struct {
	PreviewURLTTL  time.Duration
	MaxFileSize    int64
	MaxBatchFiles  int
	MaxFolderDepth int
	DeletePolicy   string
	AuditEnabled   bool
	// ProfilingEnabled exposes pprof to authenticated callers.
	ProfilingEnabled bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv(envMetadataDriver, DriverPostgres)),
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		SQLite: SQLiteConfig{
			Path: getEnv(envSQLitePath, defaultSQLitePath),
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(getEnv(envStorageDriver, DriverS3)),
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			Endpoint:        os.Getenv(envS3Endpoint),
			ForcePathStyle:  getBoolEnv(envS3ForcePathStyle, false),
			Bucket:          getEnv(envStorageBucket, defaultStorageBucket),
		},
		JWT: JWTConfig{
			Secret: os.Getenv(envJWTSecret),
		},
		App: AppConfig{
			PreviewURLTTL:    getSecondsEnv(envPreviewURLTTL, defaultPreviewURLTTL),
			MaxFileSize:      getInt64Env(envMaxFileSize, defaultMaxFileSize),
			MaxBatchFiles:    getIntEnv(envMaxBatchFiles, defaultMaxBatchFiles),
			MaxFolderDepth:   getIntEnv(envMaxFolderDepth, defaultMaxFolderDepth),
			DeletePolicy:     strings.ToLower(getEnv(envDeletePolicy, DeletePolicyBestEffort)),
			AuditEnabled:     getBoolEnv(envAuditEnabled, true),
			ProfilingEnabled: getBoolEnv(envEnableProfiling, false),
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

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf(errDBPasswordRequiredFmt)
		}
	case DriverSQLite, DriverMemory:
	default:
		return errors.New(messages.unsupportedValue(envMetadataDriver, c.Database.Driver))
	}

	switch c.Storage.Driver {
	case DriverS3:
		if c.Storage.Region == "" {
			return fmt.Errorf(errRegionRequiredFmt)
		}
		if c.Storage.AccessKeyID == "" {
			return fmt.Errorf(errAWSAccessKeyRequiredFmt)
		}
		if c.Storage.SecretAccessKey == "" {
			return fmt.Errorf(errAWSSecretKeyRequiredFmt)
		}
	case DriverMemory:
	default:
		return errors.New(messages.unsupportedValue(envStorageDriver, c.Storage.Driver))
	}

	if c.Storage.Bucket == "" {
		return fmt.Errorf(errBucketRequiredFmt)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf(errJWTSecretRequiredFmt)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf(errPositiveLimitFmt, envMaxFileSize)
	}
	if c.App.MaxBatchFiles <= 0 {
		return fmt.Errorf(errPositiveLimitFmt, envMaxBatchFiles)
	}
	if c.App.MaxFolderDepth <= 0 {
		return fmt.Errorf(errPositiveLimitFmt, envMaxFolderDepth)
	}
	if c.App.PreviewURLTTL <= 0 {
		return fmt.Errorf(errPositiveLimitFmt, envPreviewURLTTL)
	}

	switch c.App.DeletePolicy {
	case DeletePolicyBestEffort, DeletePolicyStrict:
	default:
		return errors.New(messages.unsupportedValue(envDeletePolicy, c.App.DeletePolicy))
	}

	return nil
}

// AuditActive reports whether audit events can be written. The audit trail lives in
// postgres, so other metadata drivers disable it.
func (c *Config) AuditActive() bool {
	return c.App.AuditEnabled && c.Database.Driver == DriverPostgres
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
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

// getSecondsEnv accepts a Go duration or a bare number of seconds.
func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
