package rest

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Gunvolt24/techstore/internal/cache/memory"
	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/pkg/clock"
	"github.com/Gunvolt24/techstore/pkg/metrics"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const ctxPrincipalKey = "principal"

// bearerToken — токен из "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}

// RequireAuth — пускает только с действующей сессией; principal кладётся в gin-контекст.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}
		p, err := h.auth.Principal(c.Request.Context(), token)
		if err != nil {
			h.fail(c, "auth", err)
			return
		}
		c.Set(ctxPrincipalKey, p)
		c.Next()
	}
}

// RequireAdmin — ставится после RequireAuth.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		isAdmin, err := h.auth.IsAdmin(c.Request.Context(), p.UserID)
		if err != nil {
			h.fail(c, "admin lookup", err)
			return
		}
		if !isAdmin {
			h.fail(c, "admin check", errForbidden)
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(ctxPrincipalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

// HandlerTimeout — дедлайн на обработку запроса; 0 — без ограничения.
func HandlerTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

const (
	limiterCapacity = 10_000
	// за это время простоя бакет всё равно бы наполнился заново
	limiterIdleTTL = 10 * time.Minute
)

// ipLimiter — token bucket на IP клиента. Бакеты живут в LRU: число IP ограничено,
// простаивающие вытесняются.
type ipLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets *memory.LRU[*rate.Limiter]
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &ipLimiter{
		limit:   limit,
		burst:   burst,
		buckets: memory.NewLRU[*rate.Limiter]("sign_in_limiter", limiterCapacity, limiterIdleTTL, clock.NewReal()),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.buckets.Get(ip)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.buckets.Set(ip, lim)
	}
	l.mu.Unlock()
	return lim.Allow()
}

// rateLimit — 429 при превышении лимита для IP. Лимит <= 0 отключает проверку.
func (h *Handler) rateLimit(l *ipLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.limit <= 0 {
			c.Next()
			return
		}
		if !l.allow(c.ClientIP()) {
			metrics.SignIns.WithLabelValues("limited").Inc()
			h.log.Warnf(c.Request.Context(), "sign-in rate limited ip=%s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
