package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "Asia/Tokyo", cfg.Attendance.Timezone)
	require.NotNil(t, cfg.Attendance.Location)
	assert.True(t, cfg.Attendance.RoundEnabled)
	assert.Equal(t, 15, cfg.Attendance.RoundStepMinutes)
	assert.Equal(t, "nearest", cfg.Attendance.RoundMode)
	assert.Equal(t, 450, cfg.Attendance.DailyOvertimeThresholdMinutes)
	assert.Equal(t, 450, cfg.Attendance.StandardWorkdayMinutes)
	assert.Equal(t, 90, cfg.Attendance.GroupBreakMinutes)
	assert.True(t, cfg.Attendance.BreakPolicyEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Attendance.SiteCacheTTL)
}

func TestLoad_MissingPasswordFails(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoad_MissingJWTSecretFails(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestLoad_BadTimezoneFails(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ATTENDANCE_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ATTENDANCE_TIMEZONE")
}

func TestLoad_BadRoundModeFails(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ROUND_MODE", "banker")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadStepFails(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ROUND_STEP_MINUTES", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "nippo",
		Password: "pw",
		Name:     "nippo_prod",
		SSLMode:  "require",
	}}

	assert.Equal(t,
		"postgres://nippo:pw@db.internal:5433/nippo_prod?sslmode=require",
		cfg.DatabaseURL(),
	)
}
