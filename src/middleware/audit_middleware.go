package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Parameter names whose presence marks a request as carrying PII. Requests
// matching these are audited even when the client sent DNT.
var sensitiveParams = []*regexp.Regexp{
	regexp.MustCompile(`(?i)email`),
	regexp.MustCompile(`(?i)phone`),
	regexp.MustCompile(`(?i)ssn`),
	regexp.MustCompile(`(?i)password`),
	regexp.MustCompile(`(?i)address`),
	regexp.MustCompile(`(?i)card`),
	regexp.MustCompile(`(?i)dob|birth`),
}

// statusRecorder captures the status code and body size the handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// AuditMiddleware records every API request after it completes. Writes are
// best-effort in a goroutine; an audit failure never affects the response.
func AuditMiddleware(pool *pgxpool.Pool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// detect before the handler runs, while a form body is still readable
			sensitive := HasSensitiveParams(r)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if r.Header.Get("DNT") == "1" && !sensitive {
				return
			}

			entry := buildAuditEntry(r, rec.status, rec.size, sensitive)
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := db.InsertAuditLog(ctx, pool, entry); err != nil {
					log.Printf("ERROR: Failed to write audit log for %s %s: %v", r.Method, r.URL.Path, err)
				}
			}()
		})
	}
}

func buildAuditEntry(r *http.Request, status, size int, sensitive bool) *models.AuditLog {
	meta, _ := json.Marshal(map[string]any{
		"method":        r.Method,
		"status":        status,
		"response_size": size,
		"sensitive":     sensitive,
	})

	entry := &models.AuditLog{
		Action:       "api_access",
		ResourceType: "endpoint",
		ResourceID:   r.URL.Path,
		Metadata:     meta,
	}
	if userID, ok := UserID(r); ok {
		entry.UserID = &userID
	}
	if ip := ClientIP(r); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := r.UserAgent(); ua != "" {
		entry.UserAgent = &ua
	}
	return entry
}

// HasSensitiveParams reports whether any query or form parameter name looks
// like PII. Only urlencoded form bodies are inspected; JSON bodies are not
// parsed.
func HasSensitiveParams(r *http.Request) bool {
	for name := range r.URL.Query() {
		if matchesSensitiveParam(name) {
			return true
		}
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		_ = r.ParseForm()
		for name := range r.PostForm {
			if matchesSensitiveParam(name) {
				return true
			}
		}
	}
	return false
}

func matchesSensitiveParam(name string) bool {
	for _, re := range sensitiveParams {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// ClientIP resolves the originating address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// first hop is the client
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LogPIIExport records a PII access row for report downloads. Best-effort,
// called from the report handlers.
func LogPIIExport(pool *pgxpool.Pool, r *http.Request, format string, recordCount int) {
	var userID *int
	if id, ok := UserID(r); ok {
		userID = &id
	}
	var ip *string
	if v := ClientIP(r); v != "" {
		ip = &v
	}
	hash := util.HashValue(strconv.Itoa(recordCount) + ":" + format)
	reason := "user-initiated report download"

	entry := &models.PIIAccessLog{
		UserID:            userID,
		PIIType:           "financial",
		Action:            "export",
		FieldName:         "amount",
		ModelName:         "transactions",
		RecordID:          format,
		IPAddress:         ip,
		AccessedValueHash: &hash,
		AccessReason:      &reason,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.InsertPIIAccessLog(ctx, pool, entry); err != nil {
			log.Printf("ERROR: Failed to write PII access log: %v", err)
		}
	}()
}
