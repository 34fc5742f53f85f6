// Package api is the diagnostic/introspection HTTP surface of
// SPEC_FULL.md §4.8: a small read-mostly gin router over the validator's
// object graph, its trace log, and the unit-test escape hatch. It is
// never the path mutating SAI operations travel — that is the driver
// ABI (internal/sai/abi) over the request pipeline.
//
// Import Path (ADR-0016): github.com/sonic-net/sai-redis-go/internal/api
package api

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sonic-net/sai-redis-go/internal/api/middleware"
	"github.com/sonic-net/sai-redis-go/internal/config"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/pipeline"
	"github.com/sonic-net/sai-redis-go/internal/sai/validator"
)

// NewRouter wires the diagnostic surface's routes: core answers object
// graph queries, trace tails ring's most recent lines, schema resolves
// attribute names for rendering, and cfg supplies CORS and the admin
// bearer token.
func NewRouter(cfg *config.Config, core *validator.Core, tracer *pipeline.Tracer, ring *pipeline.RingBuffer, schema *metadata.Schema) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.ErrorHandler())
	router.Use(cors.New(buildCORSConfig(cfg)))

	h := &handlers{core: core, tracer: tracer, ring: ring, schema: schema}

	router.GET("/healthz", h.healthz)
	router.GET("/v1/objects/:type", h.listObjects)
	router.GET("/v1/objects/:type/:key", h.getObject)
	router.GET("/v1/trace", h.trace)
	router.GET("/v1/logs", h.logs)
	router.GET("/v1/refcounts/:oid", h.refCount)

	admin := router.Group("/v1/admin", middleware.AdminAuth(cfg.Security.AdminToken))
	admin.POST("/unittest-enable", h.unitTestEnable)
	admin.POST("/unittest/allow-readonly-set-once", h.allowReadonlySetOnce)

	return router
}

func buildCORSConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if cfg.Server.UnsafeAllowAllOrigins {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}

	origins := sanitizeAllowedOrigins(cfg.Server.AllowedOrigins)
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	corsCfg.AllowOrigins = origins
	return corsCfg
}

func sanitizeAllowedOrigins(origins []string) []string {
	cleaned := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" || origin == "*" {
			continue
		}
		cleaned = append(cleaned, origin)
	}
	return slices.Compact(cleaned)
}
