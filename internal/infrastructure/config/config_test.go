package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envKeys lists every variable the tests touch so each subtest starts clean
var envKeys = []string{
	"PORTAL_APP_NAME",
	"PORTAL_APP_ENV",
	"PORTAL_APP_PORT",
	"PORTAL_DATABASE_DRIVER",
	"PORTAL_DATABASE_HOST",
	"PORTAL_DATABASE_PORT",
	"PORTAL_DATABASE_PASSWORD",
	"PORTAL_DATABASE_SSLMODE",
	"PORTAL_DATABASE_MAX_OPEN_CONNS",
	"PORTAL_DATABASE_MAX_IDLE_CONNS",
	"PORTAL_JWT_SECRET",
	"PORTAL_PRINTING_DEFAULT_MODE",
	"PORTAL_PRINTING_OVERSAMPLING",
	"PORTAL_PRINTING_RENDER_TIMEOUT",
	"PORTAL_PRINTING_MARGIN",
	"PORTAL_PRINTING_TEMPLATE_PATH",
	"PORTAL_PRINTING_ARCHIVE_ENABLED",
	"PORTAL_PRINTING_CHROME_NO_SANDBOX",
	"PORTAL_PRINTING_CHROME_REMOTE_URL",
	"PORTAL_STORAGE_BUCKET",
	"PORTAL_STORAGE_ACCESS_KEY",
	"PORTAL_STORAGE_SECRET_KEY",
	"PORTAL_SWAGGER_ENABLED",
	"PORTAL_SWAGGER_REQUIRE_AUTH",
	"PORTAL_TELEMETRY_SAMPLING_RATIO",
	"PORTAL_TELEMETRY_METRICS_ENABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "sli-service", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "portal", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)

		assert.Equal(t, "vector", cfg.Printing.DefaultMode)
		assert.Equal(t, 36.0, cfg.Printing.Margin)
		assert.Equal(t, 2.0, cfg.Printing.Oversampling)
		assert.Equal(t, 60*time.Second, cfg.Printing.RenderTimeout)
		assert.Empty(t, cfg.Printing.TemplatePath)
		assert.False(t, cfg.Printing.ArchiveEnabled)
		assert.False(t, cfg.Storage.Enabled())
		assert.False(t, cfg.Swagger.Enabled)
		assert.False(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, 60*time.Second, cfg.Telemetry.MetricsExportInterval)
	})

	t.Run("loads values from environment variables with PORTAL prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORTAL_APP_NAME", "test-app")
		t.Setenv("PORTAL_APP_PORT", "9000")
		t.Setenv("PORTAL_DATABASE_HOST", "testdb.local")
		t.Setenv("PORTAL_DATABASE_PORT", "5433")
		t.Setenv("PORTAL_PRINTING_DEFAULT_MODE", "raster")
		t.Setenv("PORTAL_PRINTING_OVERSAMPLING", "3")
		t.Setenv("PORTAL_PRINTING_RENDER_TIMEOUT", "45s")
		t.Setenv("PORTAL_PRINTING_MARGIN", "18")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "raster", cfg.Printing.DefaultMode)
		assert.Equal(t, 3.0, cfg.Printing.Oversampling)
		assert.Equal(t, 45*time.Second, cfg.Printing.RenderTimeout)
		assert.Equal(t, 18.0, cfg.Printing.Margin)
	})

	t.Run("archive requires storage credentials", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORTAL_PRINTING_ARCHIVE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "archive_enabled")

		t.Setenv("PORTAL_STORAGE_BUCKET", "sli-archive")
		t.Setenv("PORTAL_STORAGE_ACCESS_KEY", "key")
		t.Setenv("PORTAL_STORAGE_SECRET_KEY", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Storage.Enabled())
		assert.Equal(t, "sli/", cfg.Printing.ArchivePrefix)
	})

	t.Run("s3 template path requires storage credentials", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORTAL_PRINTING_TEMPLATE_PATH", "s3://forms/sli.html")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "template_path")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "idle conns exceed open conns",
			env:     map[string]string{"PORTAL_DATABASE_MAX_OPEN_CONNS": "10", "PORTAL_DATABASE_MAX_IDLE_CONNS": "20"},
			wantErr: "cannot exceed",
		},
		{
			name:    "negative idle conns",
			env:     map[string]string{"PORTAL_DATABASE_MAX_IDLE_CONNS": "-1"},
			wantErr: "max_idle_conns cannot be negative",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"PORTAL_DATABASE_DRIVER": "mysql"},
			wantErr: "database.driver",
		},
		{
			name:    "unknown render mode",
			env:     map[string]string{"PORTAL_PRINTING_DEFAULT_MODE": "bitmap"},
			wantErr: "printing.default_mode",
		},
		{
			name:    "oversampling too high",
			env:     map[string]string{"PORTAL_PRINTING_OVERSAMPLING": "8"},
			wantErr: "printing.oversampling",
		},
		{
			name:    "oversampling below one",
			env:     map[string]string{"PORTAL_PRINTING_OVERSAMPLING": "0.5"},
			wantErr: "printing.oversampling",
		},
		{
			name:    "margin wider than half the page",
			env:     map[string]string{"PORTAL_PRINTING_MARGIN": "400"},
			wantErr: "printing.margin",
		},
		{
			name:    "sampling ratio out of range",
			env:     map[string]string{"PORTAL_TELEMETRY_SAMPLING_RATIO": "1.5"},
			wantErr: "sampling_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORTAL_APP_ENV", "production")
		t.Setenv("PORTAL_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("PORTAL_DATABASE_PASSWORD", "secure-password")
		t.Setenv("PORTAL_DATABASE_SSLMODE", "require")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"requires jwt.secret", map[string]string{"PORTAL_JWT_SECRET": ""}, "jwt.secret is required in production"},
		{"requires long jwt.secret", map[string]string{"PORTAL_JWT_SECRET": "short-secret"}, "at least 32 characters"},
		{"requires database.password", map[string]string{"PORTAL_DATABASE_PASSWORD": ""}, "database.password is required"},
		{"requires ssl", map[string]string{"PORTAL_DATABASE_SSLMODE": "disable"}, "database.sslmode cannot be 'disable'"},
		{"rejects unsandboxed local chrome", map[string]string{"PORTAL_PRINTING_CHROME_NO_SANDBOX": "true"}, "chrome_no_sandbox"},
		{"rejects unprotected swagger", map[string]string{"PORTAL_SWAGGER_ENABLED": "true"}, "swagger endpoint must be disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidProductionBase(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("allows swagger behind authentication", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("PORTAL_SWAGGER_ENABLED", "true")
		t.Setenv("PORTAL_SWAGGER_REQUIRE_AUTH", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.RequireAuth)
	})

	t.Run("allows no-sandbox with a remote browser", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("PORTAL_PRINTING_CHROME_NO_SANDBOX", "true")
		t.Setenv("PORTAL_PRINTING_CHROME_REMOTE_URL", "ws://chrome:9222")

		_, err := Load()
		require.NoError(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "postgres", Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("sqlite uses the database name as path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "sqlite", DBName: "file:portal.db"}
		assert.Equal(t, "file:portal.db", cfg.DSN())
	})
}
