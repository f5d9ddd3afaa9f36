package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dhnam02/crm-api/internal/logging"
)

const bodyLogLimit = 8 * 1024

// redactJSON scrubs credential-ish fields from a JSON body before logging.
// Non-JSON input passes through untouched.
func redactJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return raw
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw
	}
	out, err := json.Marshal(scrub(v))
	if err != nil {
		return raw
	}
	return out
}

func scrub(x any) any {
	switch v := x.(type) {
	case map[string]any:
		for k, val := range v {
			switch strings.ToLower(k) {
			case "password", "authorization", "token", "secret", "client_secret", "access_token":
				v[k] = "***redacted***"
			default:
				v[k] = scrub(val)
			}
		}
		return v
	case []any:
		for i := range v {
			v[i] = scrub(v[i])
		}
		return v
	default:
		return v
	}
}

func readCapped(r io.Reader, n int) (body []byte, truncated bool) {
	var buf bytes.Buffer
	_, _ = io.CopyN(&buf, r, int64(n+1))
	b := buf.Bytes()
	if len(b) > n {
		return b, true
	}
	return b, false
}

// Logging injects a request-scoped slog.Logger and logs one line per request
// with status, duration, and a capped, redacted JSON request body.
func Logging(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-Id", reqID)

		l := base.With(
			"req_id", reqID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"remote", c.ClientIP(),
		)
		logging.With(c, l)

		var reqBody string
		if strings.Contains(c.GetHeader("Content-Type"), "application/json") && c.Request.Body != nil {
			body, truncated := readCapped(c.Request.Body, bodyLogLimit)
			// hand the handlers the already-read prefix plus whatever is left;
			// the server closes the underlying body
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), c.Request.Body))
			if truncated {
				// too large to redact reliably; log a marker only
				reqBody = "...omitted: body exceeds log limit..."
			} else {
				reqBody = string(redactJSON(body))
			}
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"dur_ms", time.Since(start).Milliseconds(),
			"resp_bytes", c.Writer.Size(),
		}
		if reqBody != "" {
			attrs = append(attrs, "req_body", reqBody)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		if status >= http.StatusBadRequest {
			l.Error("http_request", attrs...)
			return
		}
		l.Info("http_request", attrs...)
	}
}
