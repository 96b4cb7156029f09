package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-mostaql-watcher/internal/watcher"
)

// StatusProvider reports the state of the last watcher cycle.
type StatusProvider interface {
	Status() watcher.Status
}

// NewRouter exposes a health report at / and Prometheus metrics at /metrics.
func NewRouter(status StatusProvider, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Mostaql watcher is running!",
			"status":  "healthy",
			"watcher": status.Status(),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return r
}
