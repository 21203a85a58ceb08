package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/matzehuels/hapticfloor/pkg/observability"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.ReloadsTotal == nil || r.TicksTotal == nil || r.HTTPRequestsTotal == nil {
		t.Fatal("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestFloorHooks(t *testing.T) {
	r := NewRegistry()
	h := floorHooks{r}
	ctx := context.Background()

	h.OnReload(ctx, "rev", 3, 5, time.Millisecond, nil)
	h.OnReload(ctx, "", 0, 0, time.Millisecond, errors.New("bad"))
	h.OnTick(ctx, 2, 2)
	h.OnTick(ctx, 2, 3)

	if got := counterValue(t, r.ReloadsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("reloads ok = %v, want 1", got)
	}
	if got := counterValue(t, r.ReloadsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("reloads error = %v, want 1", got)
	}
	if got := gaugeValue(t, r.ActiveNodes); got != 0 {
		t.Errorf("active nodes = %v, want 0 after failed reload", got)
	}
	if got := counterValue(t, r.TicksTotal); got != 2 {
		t.Errorf("ticks = %v, want 2", got)
	}
	if got := counterValue(t, r.BankOverflowTotal); got != 1 {
		t.Errorf("overflow = %v, want 1", got)
	}
}

func TestCacheAndHTTPHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	cacheHooks{r}.OnCacheHit(ctx, "mesh")
	cacheHooks{r}.OnCacheMiss(ctx, "mesh")
	cacheHooks{r}.OnCacheMiss(ctx, "mesh")
	httpHooks{r}.OnResponse(ctx, "PUT", "/layout", 422, time.Millisecond)

	if got := counterValue(t, r.CacheRequestsTotal.WithLabelValues("mesh", "miss")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
	if got := counterValue(t, r.HTTPRequestsTotal.WithLabelValues("PUT", "/layout", "422")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}
}

func TestInstall(t *testing.T) {
	r := NewRegistry()
	r.Install()
	defer observability.Reset()

	observability.Floor().OnTick(context.Background(), 1, 1)
	if got := counterValue(t, r.TicksTotal); got != 1 {
		t.Errorf("ticks via installed hooks = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.TicksTotal.Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "hapticfloor_ticks_total 1") {
		t.Errorf("exposition missing ticks counter:\n%s", body)
	}
}

func TestMetricNamesPrefixed(t *testing.T) {
	r := NewRegistry()
	r.ReloadsTotal.WithLabelValues("ok").Inc()
	r.CacheRequestsTotal.WithLabelValues("mesh", "hit").Inc()

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	for _, m := range families {
		if !strings.HasPrefix(m.GetName(), "hapticfloor_") {
			t.Errorf("Metric %s does not have hapticfloor_ prefix", m.GetName())
		}
	}
}
