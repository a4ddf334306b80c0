package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shemigam1/dream-devs-assesment/internal/analytics"
	"github.com/shemigam1/dream-devs-assesment/internal/config"
	"github.com/shemigam1/dream-devs-assesment/internal/handlers"
	"github.com/shemigam1/dream-devs-assesment/internal/metrics"
	"github.com/shemigam1/dream-devs-assesment/internal/store"
)

// NewRouter wires public endpoints and the analytics API.
// Public: /health, /ready, /metrics
// Analytics: cfg.APIRoute (default /analytics) + the five read endpoints
func NewRouter(cfg config.Config, st *store.PostgresStore) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(requestID())
	r.Use(observe())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.APIRoute)
	handlers.RegisterAnalyticsRoutes(api, analytics.New(st))

	return r
}

// requestID echoes the client's X-Request-ID or assigns a fresh one, so
// log lines and responses for one request can be correlated.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// observe records request latency per route and status.
func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
