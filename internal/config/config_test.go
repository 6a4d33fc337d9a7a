package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k3v9Qz7LmT2xWp8RbN4cYh6JdF1sGa0E"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(envDBPassword, "secret")
	t.Setenv(envJWTSecret, testSecret)
	for _, key := range []string{envPort, envDBName, envJWTExpiry, envPermissionCacheTTL, envPolicyFile, envPaginationPageSize,
		envAccessReviewBucket, envAWSRegion, envAWSAccessKeyID, envAWSSecretAccessKey, envMetricsEnabled, envPprofEnabled} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultServerPort, cfg.Server.Port)
	assert.Equal(t, defaultDBName, cfg.Database.Database)
	assert.Equal(t, defaultJWTExpiry, cfg.JWT.ExpiryDuration)
	assert.Equal(t, defaultPermissionCacheTTL, cfg.App.PermissionCacheTTL)
	assert.False(t, cfg.AccessReview.Enabled())
	assert.Empty(t, cfg.Policy.File)
	assert.False(t, cfg.Server.MetricsEnabled)
	assert.False(t, cfg.Server.PprofEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv(envPort, "9090")
	t.Setenv(envJWTExpiry, "15")
	t.Setenv(envPermissionCacheTTL, "5s")
	t.Setenv(envPolicyFile, "/etc/access/grant.rego")
	t.Setenv(envMetricsEnabled, "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.ExpiryDuration)
	assert.Equal(t, 5*time.Second, cfg.App.PermissionCacheTTL)
	assert.Equal(t, "/etc/access/grant.rego", cfg.Policy.File)
	assert.True(t, cfg.Server.MetricsEnabled)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv(envDBPassword, "")
	t.Setenv(envJWTSecret, testSecret)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), envDBPassword)
}

func TestValidate_JWTSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr string
	}{
		{"too short", "short", "at least"},
		{"low entropy", strings.Repeat("ab", 20), "entropy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(envJWTSecret, tt.secret)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_AccessReviewNeedsAWS(t *testing.T) {
	setRequired(t)
	t.Setenv(envAccessReviewBucket, "reviews")
	t.Setenv(envAWSRegion, "eu-west-1")

	_, err := Load()
	require.Error(t, err)

	t.Setenv(envAWSAccessKeyID, "AKIA")
	t.Setenv(envAWSSecretAccessKey, "shh")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AccessReview.Enabled())
}

func TestDatabaseConfig_URL(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5433, Database: "access", User: "app", Password: "p@ss", SSLMode: "require"}

	assert.Equal(t, "postgres://app:p%40ss@db:5433/access?sslmode=require", c.URL())
	assert.Contains(t, c.DSN(), "dbname=access")
}

func TestLoadDatabase(t *testing.T) {
	t.Setenv(envDBPassword, "")
	_, err := LoadDatabase()
	require.Error(t, err)

	t.Setenv(envDBPassword, "secret")
	t.Setenv(envDBHost, "db.internal")
	db, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", db.Host)
}
