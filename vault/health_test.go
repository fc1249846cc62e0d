package vault_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/fyaic/multimedia-to-note/observability"
	"github.com/fyaic/multimedia-to-note/resilience"
	"github.com/fyaic/multimedia-to-note/vault"
)

func clientFor(t *testing.T, h http.Handler, opts ...vault.Option) *vault.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	host, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	p, _ := strconv.Atoi(port)
	c, err := vault.NewClient(vault.Config{
		Host:   host,
		Port:   p,
		APIKey: "secret",
		Retry:  resilience.RetryPolicy{MaxAttempts: 1},
	}, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func rootReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    observability.HealthStatus
	}{
		{
			"authenticated",
			rootReply(http.StatusOK, `{"status":"OK","service":"Obsidian Local REST API","authenticated":true,"versions":{"obsidian":"1.5.3","self":"3.0.1"}}`),
			observability.HealthStatusUp,
		},
		{
			"key rejected",
			rootReply(http.StatusOK, `{"status":"OK","service":"Obsidian Local REST API","authenticated":false}`),
			observability.HealthStatusDegraded,
		},
		{
			"not json",
			rootReply(http.StatusOK, `<html></html>`),
			observability.HealthStatusDegraded,
		},
		{
			"server error",
			rootReply(http.StatusInternalServerError, `{"message":"boom"}`),
			observability.HealthStatusDown,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := clientFor(t, tc.handler)
			h := c.CheckHealth(context.Background())
			if h.Status != tc.want {
				t.Errorf("expected %s, got %s (%s)", tc.want, h.Status, h.Message)
			}
			if h.Name != "obsidian" || h.Details["url"] == "" {
				t.Errorf("unexpected health %+v", h)
			}
		})
	}
}

func TestCheckHealth_Versions(t *testing.T) {
	c := clientFor(t, rootReply(http.StatusOK, `{"authenticated":true,"service":"Obsidian Local REST API","versions":{"obsidian":"1.5.3"}}`))
	h := c.CheckHealth(context.Background())
	if h.Details["version.obsidian"] != "1.5.3" || h.Details["service"] != "Obsidian Local REST API" {
		t.Errorf("unexpected details %v", h.Details)
	}

	sh := observability.CheckAll(context.Background(), "vault", "dev", c)
	if sh.Status != observability.HealthStatusUp || len(sh.Components) != 1 {
		t.Errorf("unexpected service health %+v", sh)
	}
}

func TestCheckHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host, port, _ := net.SplitHostPort(srv.Listener.Addr().String())
	srv.Close()

	p, _ := strconv.Atoi(port)
	c, err := vault.NewClient(vault.Config{Host: host, Port: p, APIKey: "secret", Retry: resilience.RetryPolicy{MaxAttempts: 1}})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if h := c.CheckHealth(context.Background()); h.Status != observability.HealthStatusDown || h.Message == "" {
		t.Errorf("expected down with a message, got %+v", h)
	}
}

func TestUpsert_Telemetry(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	fv := &fakeVault{}
	c := clientFor(t, fv, vault.WithTracerProvider(tp), vault.WithMeterProvider(mp))

	if _, err := c.Upsert(context.Background(), "ok.md", []byte("x")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	atomic.StoreInt32(&fv.status, http.StatusUnauthorized)
	if _, err := c.Upsert(context.Background(), "denied.md", []byte("x")); err == nil {
		t.Fatal("expected error")
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	for i, want := range []string{"ok.md", "denied.md"} {
		s := spans[i]
		if s.Name() != "vault.upsert" {
			t.Errorf("unexpected span name %q", s.Name())
		}
		var note string
		for _, kv := range s.Attributes() {
			if kv.Key == attribute.Key(observability.AttrNote) {
				note = kv.Value.AsString()
			}
		}
		if note != want {
			t.Errorf("span %d: expected note %q, got %q", i, want, note)
		}
	}
	if spans[0].Status().Code == codes.Error || spans[1].Status().Code != codes.Error {
		t.Errorf("unexpected span statuses %v / %v", spans[0].Status(), spans[1].Status())
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	byStatus := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "vault.notes.synced" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value(attribute.Key(observability.AttrStatus))
				byStatus[v.AsString()] += dp.Value
			}
		}
	}
	if byStatus[observability.StatusOK] != 1 || byStatus[observability.StatusError] != 1 {
		t.Errorf("expected one ok and one error note, got %v", byStatus)
	}
}
