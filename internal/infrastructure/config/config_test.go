package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"BUDGETERP_APP_NAME":                       os.Getenv("BUDGETERP_APP_NAME"),
		"BUDGETERP_APP_ENV":                        os.Getenv("BUDGETERP_APP_ENV"),
		"BUDGETERP_APP_PORT":                       os.Getenv("BUDGETERP_APP_PORT"),
		"BUDGETERP_DATABASE_HOST":                  os.Getenv("BUDGETERP_DATABASE_HOST"),
		"BUDGETERP_DATABASE_PORT":                  os.Getenv("BUDGETERP_DATABASE_PORT"),
		"BUDGETERP_DATABASE_USER":                  os.Getenv("BUDGETERP_DATABASE_USER"),
		"BUDGETERP_DATABASE_PASSWORD":              os.Getenv("BUDGETERP_DATABASE_PASSWORD"),
		"BUDGETERP_DATABASE_DBNAME":                os.Getenv("BUDGETERP_DATABASE_DBNAME"),
		"BUDGETERP_DATABASE_SSLMODE":               os.Getenv("BUDGETERP_DATABASE_SSLMODE"),
		"BUDGETERP_DATABASE_MAX_OPEN_CONNS":        os.Getenv("BUDGETERP_DATABASE_MAX_OPEN_CONNS"),
		"BUDGETERP_DATABASE_MAX_IDLE_CONNS":        os.Getenv("BUDGETERP_DATABASE_MAX_IDLE_CONNS"),
		"BUDGETERP_RECOMMEND_CONFIDENCE_THRESHOLD": os.Getenv("BUDGETERP_RECOMMEND_CONFIDENCE_THRESHOLD"),
		"BUDGETERP_RECOMMEND_MATCH_STRATEGY":       os.Getenv("BUDGETERP_RECOMMEND_MATCH_STRATEGY"),
		"BUDGETERP_RECOMMEND_HISTORY_WINDOW_DAYS":  os.Getenv("BUDGETERP_RECOMMEND_HISTORY_WINDOW_DAYS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "budgeterp-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "budgeterp", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.InDelta(t, 0.7, cfg.Recommend.ConfidenceThreshold, 0.0001)
		assert.Equal(t, "fuzzy", cfg.Recommend.MatchStrategy)
		assert.Equal(t, 365, cfg.Recommend.HistoryWindowDays)
	})

	t.Run("loads values from environment variables with BUDGETERP prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("BUDGETERP_APP_NAME", "test-app")
		os.Setenv("BUDGETERP_APP_PORT", "9000")
		os.Setenv("BUDGETERP_DATABASE_HOST", "testdb.local")
		os.Setenv("BUDGETERP_DATABASE_PORT", "5433")
		os.Setenv("BUDGETERP_DATABASE_USER", "testuser")
		os.Setenv("BUDGETERP_DATABASE_PASSWORD", "testpass")
		os.Setenv("BUDGETERP_RECOMMEND_CONFIDENCE_THRESHOLD", "0.85")
		os.Setenv("BUDGETERP_RECOMMEND_MATCH_STRATEGY", "exact")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.InDelta(t, 0.85, cfg.Recommend.ConfidenceThreshold, 0.0001)
		assert.Equal(t, "exact", cfg.Recommend.MatchStrategy)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("BUDGETERP_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("BUDGETERP_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects confidence threshold outside unit interval", func(t *testing.T) {
		clearEnv()
		os.Setenv("BUDGETERP_RECOMMEND_CONFIDENCE_THRESHOLD", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "confidence_threshold")
	})

	t.Run("rejects unknown match strategy", func(t *testing.T) {
		clearEnv()
		os.Setenv("BUDGETERP_RECOMMEND_MATCH_STRATEGY", "approximate")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "match_strategy")
	})

	t.Run("production requires database password and ssl", func(t *testing.T) {
		clearEnv()
		os.Setenv("BUDGETERP_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "budget",
		Password: "p@ss/word",
		DBName:   "budgeterp",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfigAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
