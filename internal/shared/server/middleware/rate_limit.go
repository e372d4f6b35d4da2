package middleware

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"careerlytics-backend/internal/shared/server/respond"
)

const (
	RateGroupDefault = "DEFAULT"
	RateGroupUpload  = "UPLOAD"
	RateGroupSubmit  = "SUBMIT"
)

// RateLimitRule is a token bucket: Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// DefaultRateLimitRules throttles the expensive write paths only.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		RateGroupUpload: {Rate: 1.0 / 10, Burst: 3},
		RateGroupSubmit: {Rate: 1, Burst: 5},
	}
}

// LimitGroup tags the route with a rate-limit group.
func LimitGroup(group string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("rateGroup", group)
		c.Next()
	}
}

// RateLimiter keeps one bucket per principal and group.
type RateLimiter struct {
	mu      sync.Mutex
	rules   map[string]RateLimitRule
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter builds a limiter; now defaults to time.Now.
func NewRateLimiter(rules map[string]RateLimitRule, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		rules:   rules,
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// Limit enforces the group set by LimitGroup, keyed by user or client IP.
// Routes without a group, or groups without a rule, pass through.
func (l *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		group := c.GetString("rateGroup")
		if group == "" {
			group = RateGroupDefault
		}
		rule, ok := l.rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = c.ClientIP()
		}
		allowed, retryAfter := l.Allow(principal+"|"+group, rule)
		if allowed {
			c.Next()
			return
		}
		respond.RetryLater(c, "rate_limited", "Too many requests", retryAfter, gin.H{
			"retryAfterMs": retryAfter.Milliseconds(),
		})
	}
}

// Allow takes a token from the bucket at key and reports how long to wait if empty.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: float64(rule.Burst), last: now}
		l.buckets[key] = bucket
	}
	if elapsed := now.Sub(bucket.last).Seconds(); elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens--
		return true, 0
	}
	wait := (1 - bucket.tokens) / rule.Rate
	return false, time.Duration(math.Ceil(wait*1000)) * time.Millisecond
}

// For tags the route with group and enforces it in one route-level handler.
// A nil limiter lets everything through.
func (l *RateLimiter) For(group string) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := l.Limit()
	return func(c *gin.Context) {
		c.Set("rateGroup", group)
		limit(c)
	}
}
