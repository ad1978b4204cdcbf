package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test that LoadConfig returns a non-nil config and respects APPENV=test
func TestLoadConfigAndConnectMySQL_TestEnv(t *testing.T) {
	t.Setenv("APPENV", "test")

	cfg := LoadConfig()
	require.NotNil(t, cfg)

	db, err := ConnectMySQL()
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Equal(t, "sqlite", db.Dialector.Name())
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("RECORD_BACKEND", "")
	t.Setenv("RECORD_COLLECTION", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("MESSAGE_TTL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := fromEnv()
	assert.Equal(t, BackendSQL, cfg.RecordBackend)
	assert.Equal(t, "scans", cfg.RecordCollection)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3*time.Second, cfg.MessageTTL)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APPPORT", "8080")
	t.Setenv("RECORD_BACKEND", " Firestore ")
	t.Setenv("RECORD_COLLECTION", "patients")
	t.Setenv("FIREBASE_PROJECT_ID", "clinic-dev")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MESSAGE_TTL", "5s")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://clinic.example.com,,")

	cfg := fromEnv()
	assert.Equal(t, uint16(8080), cfg.AppPort)
	assert.Equal(t, BackendFirestore, cfg.RecordBackend)
	assert.Equal(t, "patients", cfg.RecordCollection)
	assert.Equal(t, "clinic-dev", cfg.FirebaseProjectID)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.MessageTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://clinic.example.com"}, cfg.CORSOrigins)
}

func TestFromEnvUnknownBackendFallsBackToSQL(t *testing.T) {
	t.Setenv("RECORD_BACKEND", "mongodb")
	assert.Equal(t, BackendSQL, fromEnv().RecordBackend)
}

func TestDurationEnvInvalid(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	assert.Equal(t, time.Minute, durationEnv("SESSION_TTL", time.Minute))

	t.Setenv("SESSION_TTL", "-5s")
	assert.Equal(t, time.Minute, durationEnv("SESSION_TTL", time.Minute))
}
