package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(Handler()))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping", "200"))
	assert.Equal(t, before+1, after)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "foodhub_http_requests_total"))
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(statusUpdates.WithLabelValues("CANCELLED"))
	RecordStatusUpdate("CANCELLED")
	assert.Equal(t, before+1, testutil.ToFloat64(statusUpdates.WithLabelValues("CANCELLED")))

	created := testutil.ToFloat64(ordersCreated)
	RecordOrderCreated()
	assert.Equal(t, created+1, testutil.ToFloat64(ordersCreated))
}
