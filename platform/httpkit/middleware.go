// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"lms_backend/platform/config"
	"lms_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// ContextIdentityKey is the gin context key for the caller's Identity.
	ContextIdentityKey = "identity"
	// ContextRawBodyKey is the gin context key for an unparsed request body.
	ContextRawBodyKey = "rawBody"

	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"
	// SessionCookieName is the cookie the auth provider's frontend SDK sets.
	SessionCookieName = "__session"

	errInvalidToken = "invalid token"
	tokenLeeway     = 5 * time.Second
)

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()

		reqLog := log.WithContext(c.Request.Context())
		if len(c.Errors) > 0 {
			reqLog.HTTPError(c.Request.Method, path, status, c.Errors.Last(), clientIP)
			return
		}
		reqLog.HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// IPRateLimiter manages per-IP rate limiters.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	limiter, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return limiter.(*rate.Limiter)
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := i.getLimiter(ip)

		if !limiter.Allow() {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// Authenticate returns middleware that verifies the auth provider's session
// token and attaches the resulting Identity. Requests without a valid token
// continue as anonymous; protection is applied per group with RequireAuth.
// The PEM key is parsed once, so a malformed key fails at startup.
func Authenticate(cfg config.AuthConfig) (gin.HandlerFunc, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.GetClerkJWTKey()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse session verification key: %w", err)
	}
	parties := cfg.GetClerkAuthorizedParties()

	return func(c *gin.Context) {
		rawToken, ok := extractSessionToken(c)
		if !ok {
			SetIdentity(c, anonymous)
			c.Next()
			return
		}

		claims, err := parseSessionClaims(rawToken, key, parties)
		if err != nil {
			SetIdentity(c, anonymous)
			c.Next()
			return
		}

		id := NewIdentity(claims.subject, claims.sessionID, claims.role)
		SetIdentity(c, id)
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, id.UserID())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}, nil
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if MustGetIdentity(c) == nil {
			return
		}
		c.Next()
	}
}

// RequireRole returns middleware that checks if the user has the specified role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		if !id.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
			return
		}
		c.Next()
	}
}

type sessionClaims struct {
	subject   string
	sessionID string
	role      string
}

func extractSessionToken(c *gin.Context) (string, bool) {
	if token, ok := extractBearerToken(c.GetHeader("Authorization")); ok {
		return token, true
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie), true
	}
	return "", false
}

func extractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	rawToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if rawToken == "" {
		return "", false
	}

	return rawToken, true
}

func parseSessionClaims(rawToken string, key *rsa.PublicKey, parties []string) (sessionClaims, error) {
	parsed, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(tokenLeeway),
	)
	if err != nil || !parsed.Valid {
		return sessionClaims{}, errors.New(errInvalidToken)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return sessionClaims{}, errors.New(errInvalidToken)
	}

	subject, _ := claims.GetSubject()
	if strings.TrimSpace(subject) == "" {
		return sessionClaims{}, errors.New(errInvalidToken)
	}

	if len(parties) > 0 {
		azp, _ := claims["azp"].(string)
		if azp != "" && !slices.Contains(parties, azp) {
			return sessionClaims{}, errors.New(errInvalidToken)
		}
	}

	sid, _ := claims["sid"].(string)
	return sessionClaims{
		subject:   subject,
		sessionID: sid,
		role:      extractRole(claims),
	}, nil
}

// extractRole reads the role from a custom session claim, either nested under
// "metadata" or at the top level.
func extractRole(claims jwt.MapClaims) string {
	if metadata, ok := claims["metadata"].(map[string]interface{}); ok {
		if role, ok := metadata["role"].(string); ok {
			return role
		}
	}
	role, _ := claims["role"].(string)
	return role
}
