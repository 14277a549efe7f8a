package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wroteHeader {
		sr.status = code
		sr.wroteHeader = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wroteHeader = true
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// accessFields collects fields that handlers deeper in the chain want on the
// access log line.
type accessFields struct {
	mu     sync.Mutex
	fields []zap.Field
}

const accessFieldsKey = contextKey("access_fields")

// Annotate adds fields to the access log entry of the current request.
// It is a no-op outside Logging.
func Annotate(ctx context.Context, fields ...zap.Field) {
	af, ok := ctx.Value(accessFieldsKey).(*accessFields)
	if !ok {
		return
	}
	af.mu.Lock()
	af.fields = append(af.fields, fields...)
	af.mu.Unlock()
}

// Logging writes one access log line per request.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := newStatusRecorder(w)
			af := &accessFields{}

			next.ServeHTTP(sr, r.WithContext(context.WithValue(r.Context(), accessFieldsKey, af)))

			fields := []zap.Field{
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.String("method", r.Method),
				zap.String("host", r.Host),
				zap.String("path", r.URL.Path),
				zap.Int("status", sr.status),
				zap.Int64("bytes", sr.bytes),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			}
			if loc := sr.Header().Get("Location"); loc != "" {
				fields = append(fields, zap.String("location", loc))
			}
			af.mu.Lock()
			fields = append(fields, af.fields...)
			af.mu.Unlock()

			switch {
			case sr.status >= http.StatusInternalServerError:
				logger.Error("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
		})
	}
}
