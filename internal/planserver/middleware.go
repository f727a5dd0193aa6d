package planserver

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ds-destinationsolutions/cdk-nextjs/internal/logx"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/requestid"
)

// ensureRequestID echoes a caller-provided request id or mints one, and stores
// it in the gin context under the header key for the access logger.
func ensureRequestID(headerKey string) gin.HandlerFunc {
	headerKey = requestid.ResolveHeaderKey(headerKey)
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerKey))
		if id == "" {
			id = requestid.Gen()
		}
		c.Set(headerKey, id)
		c.Header(headerKey, id)
		c.Next()
	}
}

// apiKeyMiddleware guards the /api group with a bearer key. An empty
// configured key leaves the preview open, which is the local-dev default.
func apiKeyMiddleware(apiKey string) gin.HandlerFunc {
	expected := strings.TrimSpace(apiKey)
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}
		got := clientAPIKey(c)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"kind": "unauthorized", "message": "missing or invalid api key"},
			})
			return
		}
		c.Next()
	}
}

// clientAPIKey pulls the key from Authorization: Bearer, falling back to the
// x-api-key header.
func clientAPIKey(c *gin.Context) string {
	if v, ok := strings.CutPrefix(strings.TrimSpace(c.GetHeader("Authorization")), "Bearer "); ok {
		if key := strings.TrimSpace(v); key != "" {
			return key
		}
	}
	return strings.TrimSpace(c.GetHeader("x-api-key"))
}

// requestLogger writes one access line per request.
func requestLogger(l *log.Logger, color bool, headerKey string, formatter *logx.AccessFormatter, st *state) gin.HandlerFunc {
	headerKey = requestid.ResolveHeaderKey(headerKey)
	if l == nil {
		l = log.New(os.Stdout, "", 0)
	}
	render := logx.FormatRequestLine
	if formatter != nil {
		render = formatter.Render
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Println(render(accessLine(c, st, headerKey, start), color))
	}
}

// accessLine assembles the per-request line. Plan metadata from the current
// snapshot rides along so lines answer "which plan was served".
func accessLine(c *gin.Context, st *state, headerKey string, start time.Time) logx.Line {
	snap := st.Snapshot()
	return logx.Line{
		Time:     time.Now(),
		Status:   c.Writer.Status(),
		Latency:  time.Since(start),
		ClientIP: c.ClientIP(),
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		Fields: map[string]any{
			"request_id": c.GetString(headerKey),
			"app":        snap.Plan.AppName,
			"topology":   string(snap.Plan.Topology),
			"behaviors":  len(snap.Plan.Behaviors),
		},
	}
}
