package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5/request"
	"golang.org/x/time/rate"

	"github.com/Virenishere/backend-assignment-portal/internal/apperr"
	"github.com/Virenishere/backend-assignment-portal/internal/metrics"
	"github.com/Virenishere/backend-assignment-portal/internal/model"
)

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	ID        string
	TokenID   string
	ExpiresAt time.Time
}

type principalKey struct {
	kind model.Kind
}

func withPrincipal(ctx context.Context, kind model.Kind, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{kind: kind}, p)
}

func PrincipalFromContext(ctx context.Context, kind model.Kind) (Principal, bool) {
	p, ok := ctx.Value(principalKey{kind: kind}).(Principal)
	return p, ok
}

func UserIDFromContext(ctx context.Context) string {
	p, _ := PrincipalFromContext(ctx, model.KindUser)
	return p.ID
}

func AdminIDFromContext(ctx context.Context) string {
	p, _ := PrincipalFromContext(ctx, model.KindAdmin)
	return p.ID
}

// tokenCookie is userToken / adminToken.
func tokenCookie(kind model.Kind) string {
	return string(kind) + "Token"
}

// tokenHeader is user-token / admin-token.
func tokenHeader(kind model.Kind) string {
	return string(kind) + "-token"
}

// tokenFromRequest prefers the kind's cookie, then its header, then a bearer Authorization header.
func tokenFromRequest(r *http.Request, kind model.Kind) string {
	if cookie, err := r.Cookie(tokenCookie(kind)); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	extractor := request.MultiExtractor{
		request.HeaderExtractor{tokenHeader(kind)},
		request.BearerExtractor{},
	}
	token, err := extractor.ExtractToken(r)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *Server) requirePrincipal(kind model.Kind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, kind)
			if token == "" {
				metrics.AuthFailure(string(kind), apperr.CodeMissingToken)
				writeError(w, apperr.Unauthenticated(apperr.CodeMissingToken, kind.Title()+" token is required"))
				return
			}

			invalid := apperr.Forbidden(apperr.CodeInvalidToken, "Invalid or expired "+string(kind)+" token")
			claims, err := s.tokens.Verify(kind, token)
			if err != nil {
				metrics.AuthFailure(string(kind), apperr.CodeInvalidToken)
				writeError(w, invalid)
				return
			}

			revoked, err := s.revoker.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				s.handleError(w, r, apperr.Internal(err))
				return
			}
			if revoked {
				metrics.AuthFailure(string(kind), "revoked_token")
				writeError(w, invalid)
				return
			}

			ctx := withPrincipal(r.Context(), kind, Principal{
				ID:        claims.PrincipalID,
				TokenID:   claims.ID,
				ExpiresAt: claims.ExpiresAt.Time,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientIP(r)) {
			writeError(w, apperr.TooManyRequests())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// maxBuckets bounds the limiter's memory. New addresses are refused once it is reached.
const maxBuckets = 10000

// ipLimiter is a token bucket per client IP. Idle buckets are swept on access.
type ipLimiter struct {
	mu         sync.Mutex
	limit      rate.Limit
	burst      int
	idleTTL    time.Duration
	maxBuckets int
	buckets    map[string]*ipBucket
	lastSweep  time.Time
	now        func() time.Time
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newIPLimiter returns nil when perSecond is not positive, which disables limiting.
func newIPLimiter(perSecond float64, burst int) *ipLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &ipLimiter{
		limit:      rate.Limit(perSecond),
		burst:      burst,
		idleTTL:    5 * time.Minute,
		maxBuckets: maxBuckets,
		buckets:    make(map[string]*ipBucket),
		now:        time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	if ip == "" {
		ip = "unknown"
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > time.Minute {
		l.sweep(now)
	}

	b, ok := l.buckets[ip]
	if !ok {
		if len(l.buckets) >= l.maxBuckets {
			l.sweep(now)
			if len(l.buckets) >= l.maxBuckets {
				return false
			}
		}
		b = &ipBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (l *ipLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// clientIP keys on the connection address. Forwarding headers are honoured only through
// middleware.RealIP, which the router mounts when TRUSTED_PROXY is set.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
