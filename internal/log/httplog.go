package log

import (
	"time"
)

// HTTPLogEntry represents an HTTP request/response log entry
type HTTPLogEntry struct {
	RequestID  string
	Method     string
	Path       string
	Query      string
	Status     int
	Duration   time.Duration
	Size       int64
	RemoteAddr string
	UserAgent  string
}

// LogHTTPRequest writes an access log line for a completed request. Server
// errors are logged at error level, client errors at warn.
func LogHTTPRequest(e HTTPLogEntry) {
	ensure()

	kv := []interface{}{
		"request_id", e.RequestID,
		"method", e.Method,
		"path", e.Path,
		"status", e.Status,
		"duration_ms", e.Duration.Milliseconds(),
		"size", e.Size,
		"remote_addr", e.RemoteAddr,
		"user_agent", e.UserAgent,
	}
	if e.Query != "" {
		kv = append(kv, "query", e.Query)
	}

	switch {
	case e.Status >= 500:
		log.Errorw("http request", kv...)
	case e.Status >= 400:
		log.Warnw("http request", kv...)
	default:
		log.Infow("http request", kv...)
	}
}
