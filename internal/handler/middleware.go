package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Eamse/gaon/internal/auth"
	"github.com/Eamse/gaon/internal/db"
	"github.com/Eamse/gaon/internal/service"
)

// RequestLogger logs one line per request with method, path, status and
// latency.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// RequireAuth validates the Bearer token and stores the claims in the
// context. Responses distinguish a missing token, an expired token, an
// invalid token and a token whose account no longer exists.
func (a *API) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respondError(c, http.StatusUnauthorized, "인증 토큰이 필요합니다")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, err := auth.ParseToken(token, []byte(a.jwtSecret))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				respondError(c, http.StatusUnauthorized, "토큰이 만료되었습니다. 다시 로그인해주세요")
			default:
				respondError(c, http.StatusUnauthorized, "유효하지 않은 토큰입니다")
			}
			c.Abort()
			return
		}

		if _, err := a.users.Get(claims.UserID); err != nil {
			respondError(c, http.StatusUnauthorized, "계정을 찾을 수 없습니다")
			c.Abort()
			return
		}

		c.Set(auth.ClaimsKey, claims)
		c.Next()
	}
}

// currentClaims pulls the parsed claims RequireAuth stored earlier.
func currentClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(auth.ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// ipLimiter 로그인 시도 제한용 IP별 토큰 버킷.
type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter throttles login attempts per client IP: a burst of five,
// refilled once a minute. Stale entries are evicted in the background.
type LoginLimiter struct {
	mu       sync.Mutex
	visitors map[string]*ipLimiter
}

// NewLoginLimiter creates the limiter and starts its eviction loop.
func NewLoginLimiter() *LoginLimiter {
	l := &LoginLimiter{visitors: make(map[string]*ipLimiter)}
	go l.evictLoop()
	return l
}

func (l *LoginLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.visitors[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rate.Every(time.Minute), 5)}
		l.visitors[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (l *LoginLimiter) evictLoop() {
	for {
		time.Sleep(5 * time.Minute)

		l.mu.Lock()
		for ip, entry := range l.visitors {
			if time.Since(entry.lastSeen) > 10*time.Minute {
				delete(l.visitors, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware rejects requests once the caller's bucket runs dry.
func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			respondError(c, http.StatusTooManyRequests, "로그인 시도가 너무 많습니다. 잠시 후 다시 시도해주세요")
			c.Abort()
			return
		}
		c.Next()
	}
}

// VisitLogger records public page views. The client IP is hashed with
// the configured salt before it is stored; a failed insert never affects
// the response.
func (a *API) VisitLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		log := db.VisitLog{
			IPHash:    service.HashIP(a.visitSalt, c.ClientIP()),
			UserAgent: truncate(c.Request.UserAgent(), 255),
			Path:      truncate(c.Request.URL.Path, 255),
			Referrer:  truncate(c.Request.Referer(), 255),
			CreatedAt: time.Now().UTC(),
		}
		if err := a.metrics.RecordVisit(log); err != nil {
			a.logger.Warn("방문 로그 적재 실패", slog.Any("error", err))
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
