package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdefghijklmnopqrstuvwxyz"

func TestLoadMemoryDriversWithDefaults(t *testing.T) {
	t.Setenv(envMetadataDriver, DriverMemory)
	t.Setenv(envStorageDriver, DriverMemory)
	t.Setenv(envJWTSecret, testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "user-files", cfg.Storage.Bucket)
	assert.Equal(t, time.Hour, cfg.App.PreviewURLTTL)
	assert.Equal(t, int64(10*1024*1024), cfg.App.MaxFileSize)
	assert.Equal(t, 5, cfg.App.MaxBatchFiles)
	assert.Equal(t, DeletePolicyBestEffort, cfg.App.DeletePolicy)
	assert.False(t, cfg.AuditActive())
}

func TestPreviewTTLAcceptsBareSeconds(t *testing.T) {
	t.Setenv(envMetadataDriver, DriverMemory)
	t.Setenv(envStorageDriver, DriverMemory)
	t.Setenv(envJWTSecret, testSecret)
	t.Setenv(envPreviewURLTTL, "120")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.App.PreviewURLTTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Driver: DriverPostgres, Password: "pw"},
			Storage: StorageConfig{
				Driver: DriverS3, Region: "us-east-1", AccessKeyID: "id", SecretAccessKey: "secret", Bucket: "user-files",
			},
			JWT: JWTConfig{Secret: testSecret},
			App: AppConfig{
				PreviewURLTTL: time.Hour, MaxFileSize: 1, MaxBatchFiles: 5, MaxFolderDepth: 8,
				DeletePolicy: DeletePolicyStrict,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing db password", mutate: func(c *Config) { c.Database.Password = "" }, wantErr: "DB_PASSWORD"},
		{name: "sqlite needs no password", mutate: func(c *Config) {
			c.Database.Driver = DriverSQLite
			c.Database.Password = ""
		}},
		{name: "unknown metadata driver", mutate: func(c *Config) { c.Database.Driver = "mongo" }, wantErr: "METADATA_DRIVER"},
		{name: "missing region", mutate: func(c *Config) { c.Storage.Region = "" }, wantErr: "REGION"},
		{name: "memory storage needs no credentials", mutate: func(c *Config) {
			c.Storage = StorageConfig{Driver: DriverMemory, Bucket: "user-files"}
		}},
		{name: "short secret", mutate: func(c *Config) { c.JWT.Secret = "short" }, wantErr: "JWT_SECRET"},
		{name: "zero batch", mutate: func(c *Config) { c.App.MaxBatchFiles = 0 }, wantErr: "MAX_BATCH_FILES"},
		{name: "unknown delete policy", mutate: func(c *Config) { c.App.DeletePolicy = "lenient" }, wantErr: "DELETE_POLICY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAuditActiveOnlyOnPostgres(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: DriverPostgres}, App: AppConfig{AuditEnabled: true}}
	assert.True(t, cfg.AuditActive())

	cfg.Database.Driver = DriverSQLite
	assert.False(t, cfg.AuditActive())
}
