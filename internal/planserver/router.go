package planserver

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ds-destinationsolutions/cdk-nextjs/internal/logx"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/requestid"
)

type behaviorRow struct {
	PathPattern    string `json:"path_pattern"`
	Origin         string `json:"origin"`
	CachePolicy    string `json:"cache_policy"`
	ViewerProtocol string `json:"viewer_protocol"`
	Compress       bool   `json:"compress"`
	EdgeHooks      int    `json:"edge_hooks"`
}

func NewRouter(
	cfg *config.Config,
	st *state,
	accessLogger *log.Logger,
	accessLoggerColor bool,
	requestIDHeaderKey string,
	accessFormatter *logx.AccessFormatter,
) *gin.Engine {
	headerKey := requestid.ResolveHeaderKey(requestIDHeaderKey)
	r := gin.New()
	r.Use(ensureRequestID(headerKey))
	if cfg.Logging.AccessLog {
		r.Use(requestLogger(accessLogger, accessLoggerColor, headerKey, accessFormatter, st))
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":       true,
			"uptime_s": time.Now().Unix() - st.StartedAtUnix(),
		})
	})

	api := r.Group("/api")
	api.Use(apiKeyMiddleware(cfg.Preview.APIKey))

	api.GET("/plan", func(c *gin.Context) {
		snap := st.Snapshot()
		body := gin.H{
			"plan":     snap.Plan,
			"built_at": snap.BuiltAt.UTC().Format(time.RFC3339),
			"stale":    snap.LastErr != nil,
		}
		if snap.LastErr != nil {
			body["error"] = snap.LastErr.Error()
		}
		c.JSON(http.StatusOK, body)
	})

	api.GET("/behaviors", func(c *gin.Context) {
		snap := st.Snapshot()
		rows := make([]behaviorRow, 0, len(snap.Plan.Behaviors))
		for _, b := range snap.Plan.Behaviors {
			rows = append(rows, rowFromEntry(b))
		}
		c.JSON(http.StatusOK, gin.H{
			"behaviors": rows,
			"default":   rowFromEntry(snap.Plan.DefaultBehavior),
		})
	})

	api.POST("/synthesize", func(c *gin.Context) {
		var in distconfig.Inputs
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{"kind": "invalid_request", "message": err.Error()},
			})
			return
		}
		plan, err := distconfig.Synthesize(in)
		if err != nil {
			status, kind := classifySynthesisError(err)
			c.JSON(status, gin.H{
				"error": gin.H{"kind": kind, "message": err.Error()},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"plan": plan})
	})

	return r
}

func rowFromEntry(b distconfig.RouteEntry) behaviorRow {
	return behaviorRow{
		PathPattern:    b.PathPattern,
		Origin:         string(b.OriginKind),
		CachePolicy:    b.CachePolicy.Name,
		ViewerProtocol: string(b.ViewerProtocol),
		Compress:       b.Compress,
		EdgeHooks:      len(b.EdgeHooks),
	}
}

// classifySynthesisError maps the engine's error taxonomy onto HTTP statuses:
// missing inputs are the caller's request being incomplete, the rest are
// well-formed requests whose content the platform rejects.
func classifySynthesisError(err error) (int, string) {
	var (
		limitErr   *distconfig.LimitExceededError
		patternErr *distconfig.InvalidPatternError
		dupErr     *distconfig.DuplicatePatternError
		inputErr   *distconfig.MissingInputError
	)
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, "missing_required_input"
	case errors.As(err, &limitErr):
		return http.StatusUnprocessableEntity, "configuration_limit_exceeded"
	case errors.As(err, &patternErr):
		return http.StatusUnprocessableEntity, "invalid_path_pattern"
	case errors.As(err, &dupErr):
		return http.StatusUnprocessableEntity, "duplicate_path_pattern"
	default:
		return http.StatusInternalServerError, "synthesis_failed"
	}
}
