// Package middleware holds the router-level middleware whose position in the
// chain matters: the cross-origin policy and the per-path body strategy.
package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lms_backend/platform/config"
	"lms_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AllowedMethods is the fixed method list of the cross-origin policy.
var AllowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodOptions,
}

var defaultAllowedHeaders = []string{"Origin", "Content-Type", "Authorization", httpkit.RequestIDHeader}

const preflightMaxAge = 12 * time.Hour

// CORS installs the fixed cross-origin policy. Simple requests from the
// allowed origin go through gin-contrib/cors; every other request still
// receives the fixed allow-origin header so the browser, not the server,
// blocks it. Preflights are answered here with 204 for any origin and echo
// the requested headers.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	origin := cfg.GetCORSOrigin()
	policy := cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     AllowedMethods,
		AllowHeaders:     defaultAllowedHeaders,
		ExposeHeaders:    []string{httpkit.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           preflightMaxAge,
	})

	return func(c *gin.Context) {
		preflight := c.Request.Method == http.MethodOptions
		if !preflight && c.GetHeader("Origin") == origin {
			policy(c)
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")

		if !preflight {
			c.Next()
			return
		}

		h.Set("Access-Control-Allow-Methods", strings.Join(AllowedMethods, ","))
		if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
			h.Set("Access-Control-Allow-Headers", requested)
			h.Add("Vary", "Access-Control-Request-Headers")
		} else {
			h.Set("Access-Control-Allow-Headers", strings.Join(defaultAllowedHeaders, ","))
		}
		h.Set("Access-Control-Max-Age", strconv.Itoa(int(preflightMaxAge/time.Second)))
		c.AbortWithStatus(http.StatusNoContent)
	}
}

// Preflight terminates OPTIONS requests that reach routing.
func Preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNoContent)
	}
}

// BodyParser reads each request body once, up to maxBytes, and selects a
// strategy by path. Paths in rawPaths keep the exact bytes under
// httpkit.ContextRawBodyKey. Every other path with a JSON content type must
// hold exactly one JSON value, or the request is rejected with 400. The body
// is restored afterwards so handlers can bind into DTOs.
func BodyParser(maxBytes int64, rawPaths ...string) gin.HandlerFunc {
	raw := make(map[string]struct{}, len(rawPaths))
	for _, p := range rawPaths {
		raw[p] = struct{}{}
	}

	return func(c *gin.Context) {
		_, isRaw := raw[c.Request.URL.Path]
		if !isRaw && (c.Request.Body == nil || c.Request.Body == http.NoBody) {
			c.Next()
			return
		}

		body, err := readBody(c, maxBytes)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, httpkit.ErrorResponse{Error: "request body too large"})
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, httpkit.ErrorResponse{Error: "failed to read request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if isRaw {
			c.Set(httpkit.ContextRawBodyKey, body)
			c.Next()
			return
		}

		if !isJSONContentType(c.ContentType()) || len(bytes.TrimSpace(body)) == 0 {
			c.Next()
			return
		}

		if err := checkJSON(body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, httpkit.ErrorResponse{Error: "invalid JSON body", Details: err.Error()})
			return
		}
		c.Next()
	}
}

func readBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	if c.Request.Body == nil {
		return []byte{}, nil
	}
	defer c.Request.Body.Close()
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes))
}

func isJSONContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "application/json" {
		return true
	}
	return strings.HasPrefix(ct, "application/") && strings.HasSuffix(ct, "+json")
}

// checkJSON accepts exactly one JSON value; trailing data is an error.
func checkJSON(body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))

	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
