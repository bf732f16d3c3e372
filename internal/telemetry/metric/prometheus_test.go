package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// scrape renders the registry through its HTTP handler.
func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func expectContains(t *testing.T, body string, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if !strings.Contains(body, line) {
			t.Errorf("expected %q in metrics output", line)
		}
	}
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.CommandsTotal == nil || r.CommandDuration == nil {
		t.Error("command metrics are nil")
	}
	if r.ConnectionsActive == nil || r.ConnectionsTotal == nil || r.ConnectionErrors == nil {
		t.Error("connection metrics are nil")
	}
}

func TestHandler_RuntimeCollectors(t *testing.T) {
	body := scrape(t, NewRegistry())
	expectContains(t, body, "go_goroutines", "process_")
}

func TestCommandMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordCommand("get", 100*time.Microsecond)
	r.RecordCommand("get", 200*time.Microsecond)
	r.RecordCommand("set", time.Millisecond)

	body := scrape(t, r)
	expectContains(t, body,
		`respkv_commands_total{command="get"} 2`,
		`respkv_commands_total{command="set"} 1`,
		`respkv_command_duration_seconds_count{command="get"} 2`,
		"respkv_command_duration_seconds_bucket",
	)
}

func TestConnectionMetrics(t *testing.T) {
	r := NewRegistry()

	r.ConnOpened()
	r.ConnOpened()
	r.ConnClosed()
	r.RecordConnError("protocol")

	body := scrape(t, r)
	expectContains(t, body,
		"respkv_connections_total 2",
		"respkv_connections_active 1",
		`respkv_connection_errors_total{reason="protocol"} 1`,
	)
}

func TestKeysExpired(t *testing.T) {
	r := NewRegistry()
	r.IncKeysExpired()
	r.IncKeysExpired()

	expectContains(t, scrape(t, r), "respkv_keys_expired_total 2")
}

func TestNilRegistry(t *testing.T) {
	var r *Registry

	// Should not panic
	r.RecordCommand("ping", time.Millisecond)
	r.ConnOpened()
	r.ConnClosed()
	r.RecordConnError("write")
	r.IncKeysExpired()
	if err := r.RegisterStore(fakeStats{}); err != nil {
		t.Errorf("RegisterStore() on nil registry error = %v", err)
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.ConnOpened()
				r.RecordCommand("ping", time.Microsecond)
				r.ConnClosed()
			}
		}()
	}
	wg.Wait()

	expectContains(t, scrape(t, r),
		`respkv_commands_total{command="ping"} 1000`,
		"respkv_connections_active 0",
	)
}
