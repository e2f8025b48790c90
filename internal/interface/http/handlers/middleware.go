package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// APIKeyAuth checks the API key of each request against bcrypt hashes.
// Accepted keys are remembered by digest so bcrypt runs once per key.
type APIKeyAuth struct {
	headerName string
	hashes     [][]byte

	mu       sync.RWMutex
	accepted map[string]struct{}
}

// NewAPIKeyAuth creates an authenticator for the given bcrypt hashes.
func NewAPIKeyAuth(headerName string, hashes []string) *APIKeyAuth {
	a := &APIKeyAuth{
		headerName: headerName,
		accepted:   make(map[string]struct{}),
	}
	for _, h := range hashes {
		if h = strings.TrimSpace(h); h != "" {
			a.hashes = append(a.hashes, []byte(h))
		}
	}
	return a
}

// HashAPIKey returns the bcrypt hash to configure for key.
func HashAPIKey(key string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// IsValid checks if an API key matches one of the configured hashes.
func (a *APIKeyAuth) IsValid(key string) bool {
	if key == "" {
		return false
	}
	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])

	a.mu.RLock()
	_, ok := a.accepted[digest]
	a.mu.RUnlock()
	if ok {
		return true
	}

	for _, h := range a.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			a.mu.Lock()
			a.accepted[digest] = struct{}{}
			a.mu.Unlock()
			return true
		}
	}
	return false
}

// Middleware rejects requests without a valid key with 401.
func (a *APIKeyAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(a.headerName)
		if key == "" {
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if key == "" {
			writeRawError(w, http.StatusUnauthorized, "missing_api_key", "API key is required")
			return
		}
		if !a.IsValid(key) {
			writeRawError(w, http.StatusUnauthorized, "invalid_api_key", "Invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// OBSERVABILITY MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// RequestObserver records one request.
type RequestObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

// WriteHeader records the status code.
func (rw *StatusRecorder) WriteHeader(code int) {
	rw.Status = code
	rw.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware labels requests with their chi route pattern, so that
// path parameters never become label values.
func MetricsMiddleware(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			observer.ObserveHTTP(r.Method, route, rw.Status, time.Since(start))
		})
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SECURITY MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// SecurityHeadersMiddleware adds security-related headers.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// RequestSizeLimitMiddleware limits the size of request bodies.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeRawError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func writeRawError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"success":false,"error":{"code":"` + code + `","message":"` + message + `"}}`))
}
