package httpx

import (
	"log"
	"net/http"
	"time"
)

// statusRecorder remembers what was sent so it can be logged afterwards.
// writeErr keeps the first failed write, e.g. after the write deadline.
type statusRecorder struct {
	http.ResponseWriter
	status   int
	bytes    int64
	writeErr error
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status != 0 {
		return
	}
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.WriteHeader(http.StatusOK)
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	if err != nil && sr.writeErr == nil {
		sr.writeErr = err
	}
	return n, err
}

func (sr *statusRecorder) wroteHeader() bool {
	return sr.status != 0
}

// statusCode is what the client was sent, 200 when the handler wrote nothing.
func (sr *statusRecorder) statusCode() int {
	if sr.status == 0 {
		return http.StatusOK
	}
	return sr.status
}

func AccessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(sr, r)

		log.Printf("access method=%s path=%s query=%q client=%s status=%d bytes=%d duration_ms=%d request_id=%s write_error=%v",
			r.Method,
			r.URL.Path,
			r.URL.RawQuery,
			clientKey(r),
			sr.statusCode(),
			sr.bytes,
			time.Since(start).Milliseconds(),
			RequestIDFrom(r),
			sr.writeErr,
		)
	})
}
