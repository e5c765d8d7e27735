package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	auth "github.com/mind-engage/studyquiz/internal/auth/middleware"
	"github.com/mind-engage/studyquiz/internal/platform/logger"
)

// RequestLogger logs one line per request once the response is written,
// including the caller identity established further down the chain.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			caller := &auth.Principal{}
			r = r.WithContext(auth.WithPrincipal(r.Context(), caller))
			start := time.Now()
			defer func() {
				kv := []interface{}{
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				}
				if caller.Sub != "" {
					kv = append(kv, "sub", caller.Sub, "role", caller.Role)
				}
				if ww.Status() >= 500 {
					log.Warn("request", kv...)
					return
				}
				log.Info("request", kv...)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
