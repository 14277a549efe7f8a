package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives one observation per response.
type HTTPRecorder interface {
	RecordHTTPStatus(statusCode int)
	RecordHTTPLatency(d time.Duration)
}

// Metrics returns middleware that records response codes and latency.
func Metrics(rec HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := newStatusRecorder(w)
			next.ServeHTTP(sr, r)

			rec.RecordHTTPStatus(sr.status)
			rec.RecordHTTPLatency(time.Since(start))
		})
	}
}
