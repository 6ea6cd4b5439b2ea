package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GO_ENV", "test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGODB_CONNECTION_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DBNAME", "engagement_test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Address)
	assert.Equal(t, 72, cfg.JwtTTLHours)
	assert.Equal(t, 4, cfg.BulkConcurrency)
	assert.Equal(t, 60, cfg.AnalyticsWorkerIntervalSeconds)
	assert.Equal(t, 10, cfg.AnalyticsFreshMinutes)
	assert.False(t, cfg.InviteEmailsEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BULK_CONCURRENCY", "0")
	t.Setenv("INVITE_EMAILS_ENABLED", "true")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.BulkConcurrency)
	assert.True(t, cfg.InviteEmailsEnabled)
	assert.Equal(t, 2525, cfg.SMTP_Port)
}
