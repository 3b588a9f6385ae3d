// Package httpapi wires the read-only status API (Gin) to the status
// service, middleware and route handlers.
//
// Middleware order:
//  1. OpenTelemetry tracing
//  2. RequestID
//  3. Logger (query and header scrubbing)
//  4. Recovery
//  5. Body size limit
//  6. Prometheus metrics
//  7. Rate limiter (per client IP)
//  8. CORS and security headers
//  9. gzip
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-booster-bot/internal/config"
	"github.com/tbourn/go-booster-bot/internal/http/docs"
	"github.com/tbourn/go-booster-bot/internal/http/handlers"
	"github.com/tbourn/go-booster-bot/internal/http/middleware"
)

// maxBodyBytes caps request bodies. The API is read-only, so anything large
// is noise.
const maxBodyBytes = 64 << 10

// NewRouter builds a gin engine in cfg.GinMode with every route registered.
func NewRouter(svc handlers.StatusService, cfg config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	RegisterRoutes(r, svc, cfg)
	return r
}

// RegisterRoutes attaches middleware, operational endpoints (/health,
// /metrics, optional /swagger) and the status API under cfg.APIBasePath.
func RegisterRoutes(r *gin.Engine, svc handlers.StatusService, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(middleware.LogOptions{MaskHeaders: []string{"X-API-Key"}}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst).Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svc)
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/orders/:id", h.GetOrder)
		api.GET("/claims", h.ListClaims)
		api.GET("/links", h.ListLinks)
		api.GET("/recovery", h.GetRecovery)
		api.GET("/log/stats", h.GetLogStats)
		api.GET("/log/entries", h.ListLogEntries)
	}
}

// corsMiddleware allows every origin when none are configured, otherwise
// only the listed ones. Only reads are exposed.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "If-None-Match", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "ETag", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		base.AllowAllOrigins = true
		// gin-contrib/cors skips requests without an Origin header; set the
		// wildcard for those too so plain probes see it.
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{cors.New(base)}
}

// limitBody caps the request body at maxBytes.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
