package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"tech-debt-manager/src/service/auth"
	"tech-debt-manager/src/service/metrics"
)

const (
	userKey  = "techdebt_user"
	tokenKey = "techdebt_token"
)

// SetUser stores the authenticated user in the gin context
func SetUser(c *gin.Context, user auth.User) {
	c.Set(userKey, user)
}

// GetUser returns the authenticated user, if any
func GetUser(c *gin.Context) (auth.User, bool) {
	if v, exists := c.Get(userKey); exists {
		if user, ok := v.(auth.User); ok {
			return user, true
		}
	}
	return auth.User{}, false
}

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		user, err := authenticator.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		SetUser(c, user)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// extractBearerToken parses "Authorization: Bearer <token>". The scheme is case-insensitive.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// RequestMetrics records request counts and latency by route template
func RequestMetrics(recorder *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// limiterIdleTTL is the minimum time an IP's limiter is kept after its last attempt
const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiters holds one token bucket per client IP. Limiters idle for longer
// than idle are dropped; idle is never shorter than a full bucket refill, so an
// evicted limiter would have been full anyway.
type loginLimiters struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	mu        sync.Mutex
	byIP      map[string]*ipLimiter
	lastSweep time.Time

	now func() time.Time
}

func newLoginLimiters(limit float64, burst int) *loginLimiters {
	burst = max(1, burst)
	refill := time.Duration(float64(burst) / limit * float64(time.Second))
	return &loginLimiters{
		limit: rate.Limit(limit),
		burst: burst,
		idle:  max(limiterIdleTTL, refill),
		byIP:  make(map[string]*ipLimiter),
		now:   time.Now,
	}
}

func (l *loginLimiters) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idle {
		l.sweepLocked(now)
	}

	entry, ok := l.byIP[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byIP[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *loginLimiters) sweepLocked(now time.Time) {
	for ip, entry := range l.byIP {
		if now.Sub(entry.lastSeen) >= l.idle {
			delete(l.byIP, ip)
		}
	}
	l.lastSweep = now
}

func (l *loginLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byIP)
}

// LoginThrottle limits login attempts per client IP. A zero limit disables it.
func LoginThrottle(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return loginThrottle(newLoginLimiters(limit, burst))
}

func loginThrottle(limiters *loginLimiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too Many Attempts."})
			return
		}
		c.Next()
	}
}
