// Package ratelimit throttles mutating RPCs per signed-in member.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/mcdev12/pickswap/go/internal/auth"
)

// Limit is a token bucket refilled at RequestsPerMinute holding up to Burst tokens
type Limit struct {
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
	Burst             int     `yaml:"burst"`
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per member
type Limiter struct {
	limit   Limit
	limited map[string]bool
	clock   clockwork.Clock

	mu       sync.Mutex
	visitors map[string]*entry
}

// New creates a Limiter applied to the given procedures
func New(limit Limit, clock clockwork.Clock, procedures ...string) *Limiter {
	limited := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		limited[p] = true
	}
	return &Limiter{
		limit:    limit,
		limited:  limited,
		clock:    clock,
		visitors: make(map[string]*entry),
	}
}

// Allow reports whether key may make another request now
func (l *Limiter) Allow(key string) bool {
	now := l.clock.Now()
	return l.obtain(key, now).AllowN(now, 1)
}

func (l *Limiter) obtain(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.visitors[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	perSecond := l.limit.RequestsPerMinute / 60.0
	if perSecond <= 0 {
		perSecond = 1
	}
	burst := l.limit.Burst
	if burst <= 0 {
		burst = 1
	}
	e := &entry{limiter: rate.NewLimiter(rate.Limit(perSecond), burst), lastSeen: now}
	l.visitors[key] = e
	return e.limiter
}

// Sweep drops buckets idle for longer than idle
func (l *Limiter) Sweep(idle time.Duration) int {
	cutoff := l.clock.Now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	dropped := 0
	for key, e := range l.visitors {
		if e.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			dropped++
		}
	}
	return dropped
}

// Run sweeps idle buckets every interval until ctx is done
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := l.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			l.Sweep(interval)
		}
	}
}

// Interceptor rejects limited procedures with ResourceExhausted once the
// caller's bucket is empty. It must run after the auth interceptor.
func (l *Limiter) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient || !l.limited[req.Spec().Procedure] {
				return next(ctx, req)
			}
			p, ok := auth.FromContext(ctx)
			if !ok {
				return next(ctx, req)
			}
			if !l.Allow(p.UserID.String()) {
				return nil, connect.NewError(connect.CodeResourceExhausted, errors.New("too many requests, slow down"))
			}
			return next(ctx, req)
		}
	}
}
