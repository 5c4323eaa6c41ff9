package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"ms-eventos/internal/auth"
)

// Record is the audit trail entry emitted once per request-response
// cycle. The Authorization value is always masked before it gets here.
type Record struct {
	Method         string                 `json:"method"`
	URL            string                 `json:"url"`
	Path           string                 `json:"path"`
	IP             string                 `json:"ip"`
	UserAgent      string                 `json:"user_agent"`
	Timestamp      string                 `json:"timestamp"`
	Authorization  string                 `json:"authorization,omitempty"`
	RequestBody    map[string]interface{} `json:"request_body,omitempty"`
	StatusCode     int                    `json:"status_code"`
	ResponseTimeMS float64                `json:"response_time_ms"`
}

// Sink receives a copy of every audit record, e.g. a Kafka producer.
type Sink interface {
	PublishAuditRecord(key string, record interface{}) error
}

// RequestLogger is the severity-channel surface the middleware needs;
// *logger.Logger satisfies it.
type RequestLogger interface {
	Info(category, message string)
	Warn(category, message string)
	Error(category, message string)
}

// loggedBodyFields are the only request fields that make it into the
// audit trail; everything else in the body is left out.
var loggedBodyFields = []string{"descricao", "data_inicio", "data_final", "cancelado"}

// Middleware wraps the whole pipeline, the auth gate included, so
// rejected requests are logged too. Severity follows the response
// status: 5xx at error, 4xx at warning, everything else at info.
func Middleware(log RequestLogger, sink Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			record := Record{
				Method:    r.Method,
				URL:       fullURL(r),
				Path:      r.URL.Path,
				IP:        clientIP(r),
				UserAgent: r.UserAgent(),
				Timestamp: time.Now().Format("2006-01-02 15:04:05"),
			}

			if header := r.Header.Get("Authorization"); header != "" {
				record.Authorization = "Bearer " + auth.MaskToken(auth.ExtractToken(header))
			}

			if body := peekBodyFields(r); len(body) > 0 {
				record.RequestBody = body
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			record.StatusCode = status
			record.ResponseTimeMS = math.Round(float64(time.Since(start).Nanoseconds())/1e6*100) / 100

			payload, _ := json.Marshal(record)
			switch {
			case status >= 500:
				log.Error("API", fmt.Sprintf("API Request - Server Error %s", payload))
			case status >= 400:
				log.Warn("API", fmt.Sprintf("API Request - Client Error %s", payload))
			default:
				log.Info("API", fmt.Sprintf("API Request %s", payload))
			}

			if sink != nil {
				if err := sink.PublishAuditRecord(record.Path, record); err != nil {
					log.Error("AUDIT", fmt.Sprintf("Failed to publish audit record: %v", err))
				}
			}
		})
	}
}

// peekBodyFields reads the body to collect the recognized event
// fields, then restores it so the handler can decode it again.
func peekBodyFields(r *http.Request) map[string]interface{} {
	if r.Body == nil {
		return nil
	}

	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return nil
	}

	var full map[string]interface{}
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil
	}

	fields := make(map[string]interface{})
	for _, name := range loggedBodyFields {
		if value, ok := full[name]; ok {
			fields[name] = value
		}
	}
	return fields
}

func fullURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.RequestURI
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
