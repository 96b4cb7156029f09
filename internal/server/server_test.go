package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mostaql-watcher/internal/metrics"
	"go-mostaql-watcher/internal/watcher"
)

type staticStatus watcher.Status

func (s staticStatus) Status() watcher.Status { return watcher.Status(s) }

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealth(t *testing.T) {
	finished := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := NewRouter(staticStatus{Cycles: 3, LastFinished: finished, LastError: "boom"}, prometheus.NewRegistry())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status  string         `json:"status"`
		Watcher watcher.Status `json:"watcher"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, int64(3), body.Watcher.Cycles)
	assert.Equal(t, "boom", body.Watcher.LastError)
	assert.True(t, finished.Equal(body.Watcher.LastFinished))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveItem(metrics.OutcomeNotified)
	m.ObserveCycle(nil, 0.2)

	r := NewRouter(staticStatus{}, reg)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `watcher_items_total{outcome="notified"} 1`)
	assert.Contains(t, w.Body.String(), `watcher_cycles_total{result="ok"} 1`)
}
