package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms_backend/platform/config"
	"lms_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "https://edemyclient.onrender.com"

func init() {
	gin.SetMode(gin.TestMode)
}

func newCORSEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(CORS(&config.Config{CORSOrigin: testOrigin}))
	engine.OPTIONS("/*path", Preflight())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return engine
}

func TestCORSPreflightFromAllowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/course/all", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	newCORSEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET,POST,PUT,DELETE,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSPreflightFromForeignOriginStillCarriesFixedPolicy(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/anything/at/all", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Headers", "content-type,authorization")
	w := httptest.NewRecorder()
	newCORSEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,PUT,DELETE,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "content-type,authorization", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORSPreflightWithoutOrigin(t *testing.T) {
	w := httptest.NewRecorder()
	newCORSEngine().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/stripe", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,PUT,DELETE,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSPreflightFromAllowedOriginEchoesRequestedHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/course/all", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-clerk-client")
	w := httptest.NewRecorder()
	newCORSEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "content-type,x-clerk-client", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORSSimpleRequestFromAllowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", testOrigin)
	w := httptest.NewRecorder()
	newCORSEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSForeignOriginIsNotRejectedServerSide(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	newCORSEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEqual(t, "https://evil.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

type captured struct {
	raw     []byte
	hasRaw  bool
	reached bool
	bound   map[string]interface{}
}

func newBodyEngine(maxBytes int64, got *captured) *gin.Engine {
	engine := gin.New()
	engine.Use(BodyParser(maxBytes, "/stripe"))
	handler := func(c *gin.Context) {
		got.raw, got.hasRaw = httpkit.RawBody(c)
		got.reached = true
		if c.ContentType() == "application/json" && !got.hasRaw {
			_ = c.ShouldBindJSON(&got.bound)
		}
		c.Status(http.StatusOK)
	}
	engine.POST("/stripe", handler)
	engine.POST("/clerk", handler)
	return engine
}

func TestBodyParserKeepsRawBytesOnRawPath(t *testing.T) {
	var got captured
	payload := []byte{0x00, 0xff, '{', 'n', 'o', 't', ' ', 'j', 's', 'o', 'n', 0x7f}

	req := httptest.NewRequest(http.MethodPost, "/stripe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newBodyEngine(1024, &got).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, got.hasRaw)
	assert.Equal(t, payload, got.raw)
	assert.Nil(t, got.bound)
}

func TestBodyParserChecksJSONElsewhere(t *testing.T) {
	var got captured
	req := httptest.NewRequest(http.MethodPost, "/clerk", strings.NewReader(`{"type":"user.created","data":{"id":"user_1"}}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := httptest.NewRecorder()
	newBodyEngine(1024, &got).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, got.reached)
	assert.Equal(t, "user.created", got.bound["type"], "body must stay readable for handlers")
	assert.False(t, got.hasRaw)
}

func TestBodyParserRejectsMalformedJSON(t *testing.T) {
	for _, body := range []string{`{"type":`, `{"a":1} trailing`, `not json`} {
		var got captured
		req := httptest.NewRequest(http.MethodPost, "/clerk", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newBodyEngine(1024, &got).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		var resp httpkit.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid JSON body", resp.Error)
		assert.False(t, got.reached, body)
	}
}

func TestBodyParserIgnoresNonJSONContentType(t *testing.T) {
	var got captured
	req := httptest.NewRequest(http.MethodPost, "/clerk", strings.NewReader("plain text"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	newBodyEngine(1024, &got).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, got.reached)
	assert.False(t, got.hasRaw)
}

func TestBodyParserEnforcesLimit(t *testing.T) {
	var got captured
	req := httptest.NewRequest(http.MethodPost, "/stripe", strings.NewReader(strings.Repeat("a", 64)))
	w := httptest.NewRecorder()
	newBodyEngine(16, &got).ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
