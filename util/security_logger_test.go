package util

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/ariebrainware/patient-registry/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestLogger captures security log output until the test ends.
func setupTestLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	original := securityLogger
	securityLogger = log.New(buf, "[SECURITY] ", log.Lmsgprefix)
	t.Cleanup(func() { securityLogger = original })
	return buf
}

func setupSecurityDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:security_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.SecurityLog{}))
	SetSecurityLoggerDB(db)
	t.Cleanup(func() { SetSecurityLoggerDB(nil) })
	return db
}

func TestSanitizeLogValue(t *testing.T) {
	assert.Equal(t, "hello world", sanitizeLogValue("hello\nworld"))
	assert.Equal(t, "a b c", sanitizeLogValue("a\rb\tc"))

	long := strings.Repeat("x", 250)
	got := sanitizeLogValue(long)
	assert.Len(t, got, 203)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestLogSecurityEvent_Line(t *testing.T) {
	buf := setupTestLogger(t)

	LogLoginFailure("a@clinic.test\nEvent=FORGED", "203.0.113.9", "agent/1.0", "invalid password")

	out := buf.String()
	assert.Contains(t, out, "Event=LOGIN_FAILURE")
	assert.Contains(t, out, "Email=a@clinic.test Event=FORGED")
	assert.Contains(t, out, "Message=Login failed: invalid password")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestLogSecurityEvent_DetailsNotPrinted(t *testing.T) {
	buf := setupTestLogger(t)

	LogRecordChange(EventRecordDeleted, "uid-a", "a@clinic.test", "rec-9")

	out := buf.String()
	assert.Contains(t, out, "Event=RECORD_DELETED")
	assert.Contains(t, out, "DetailsCount=1")
	assert.NotContains(t, out, "record_id")
}

func TestLogSecurityEvent_Persisted(t *testing.T) {
	setupTestLogger(t)
	db := setupSecurityDB(t)

	LogLoginSuccess("uid-a", "a@clinic.test", "127.0.0.1", "agent/1.0")
	LogRecordChange(EventRecordCreated, "uid-a", "a@clinic.test", "rec-1")

	var entries []model.SecurityLog
	require.NoError(t, db.Order("id").Find(&entries).Error)
	require.Len(t, entries, 2)

	assert.Equal(t, "LOGIN_SUCCESS", entries[0].EventType)
	assert.Equal(t, "uid-a", entries[0].UserID)
	assert.Empty(t, entries[0].Location)

	assert.Equal(t, "RECORD_CREATED", entries[1].EventType)
	assert.JSONEq(t, `{"record_id":"rec-1"}`, string(entries[1].Details))
}
