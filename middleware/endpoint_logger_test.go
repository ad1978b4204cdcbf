package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariebrainware/patient-registry/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func captureSecurityLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := util.GetSecurityLoggerForTest()
	util.SetSecurityLoggerForTest(log.New(&buf, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix))
	t.Cleanup(func() { util.SetSecurityLoggerForTest(original) })
	return &buf
}

func TestEndpointCallLogger_BasicRequest(t *testing.T) {
	buf := captureSecurityLog(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(EndpointCallLogger())
	r.GET("/patient", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patient?foo=bar", nil)
	req.RemoteAddr = "192.168.1.100:1234"
	req.Header.Set("User-Agent", "TestAgent/1.0")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	out := buf.String()
	assert.Contains(t, out, "Event=ENDPOINT_CALL")
	assert.Contains(t, out, "GET /patient -> 200")
	assert.Contains(t, out, "192.168.1.100")
	assert.Contains(t, out, "TestAgent/1.0")
}

func TestEndpointCallLogger_WithUser(t *testing.T) {
	buf := captureSecurityLog(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(EndpointCallLogger())
	r.POST("/patient", func(c *gin.Context) {
		SetUser(c, "uid-42", "doc@clinic.test")
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/patient", nil))

	out := buf.String()
	assert.Contains(t, out, "UserID=uid-42")
	assert.Contains(t, out, "Email=doc@clinic.test")
	assert.Contains(t, out, "POST /patient -> 400")
}
