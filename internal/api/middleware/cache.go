package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/providers"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/observability"
)

// CacheConfig holds cache settings for a route
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware caches catalog GET responses. The catalog is effectively
// static, so generous TTLs are safe; selection and guide routes never pass
// through here because their responses are per-session.
type CacheMiddleware struct {
	cache        providers.CacheProvider
	metrics      *observability.Metrics
	routeConfigs map[string]CacheConfig
}

// NewCacheMiddleware creates a new cache middleware
func NewCacheMiddleware(cache providers.CacheProvider, metrics *observability.Metrics) *CacheMiddleware {
	return &CacheMiddleware{
		cache:   cache,
		metrics: metrics,
		routeConfigs: map[string]CacheConfig{
			"/api/procedures": {TTLSeconds: 1800, Enabled: true}, // 30 minutes (prefix match covers /{id})
			"/api/bundles":    {TTLSeconds: 1800, Enabled: true},
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		cfg := m.routeConfig(r.URL.Path)
		if !cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		key := cacheKey(r)

		if cached, err := m.cache.Get(r.Context(), key); err == nil {
			observability.RecordCacheHit(r.Context(), m.metrics, key)
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		observability.RecordCacheMiss(r.Context(), m.metrics, key)
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), key, recorder.body.Bytes(), cfg.TTLSeconds); err != nil {
				observability.LoggerFromContext(r.Context()).Warn().
					Err(err).
					Str("cache_key", key).
					Msg("Failed to cache response")
			}
		}
	})
}

func (m *CacheMiddleware) routeConfig(path string) CacheConfig {
	if cfg, ok := m.routeConfigs[path]; ok {
		return cfg
	}
	for pattern, cfg := range m.routeConfigs {
		if strings.HasPrefix(path, pattern+"/") {
			return cfg
		}
	}
	return CacheConfig{Enabled: false}
}

func cacheKey(r *http.Request) string {
	key := fmt.Sprintf("http:%s", r.URL.Path)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	return key
}

// responseRecorder captures the response body for caching while passing it
// through to the client
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rec *responseRecorder) WriteHeader(statusCode int) {
	rec.statusCode = statusCode
	rec.ResponseWriter.WriteHeader(statusCode)
}

func (rec *responseRecorder) Write(data []byte) (int, error) {
	rec.body.Write(data)
	return rec.ResponseWriter.Write(data)
}
