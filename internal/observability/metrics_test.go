package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/remotext/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)

	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("remotext", "GET", "/health", 200, 12*time.Millisecond)
	RecordFrame("ok")
	RecordKey("text", "appended")
	RecordCommand("set_color", true)
	RecordMessage("sent", true)
	RecordBytes("tx", 12)
	RecordDrop("bytes")
	RecordSend(3 * time.Millisecond)

	before := testutil.ToFloat64(irFrames.WithLabelValues("foreign"))
	RecordFrame("foreign")
	if got := testutil.ToFloat64(irFrames.WithLabelValues("foreign")); got != before+1 {
		t.Fatalf("foreign frames got=%v want=%v", got, before+1)
	}
}

func TestMiddlewareRecordsRoute(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), RequestMetricsMiddleware("test-node"))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status got=%d want=%d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `remotext_http_requests_total{method="GET",node="test-node",path="/ping",status="200"}`) {
		t.Fatalf("metrics output missing /ping request")
	}
}
