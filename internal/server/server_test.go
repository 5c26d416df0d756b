package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/atikulmunna/piqlog/internal/aggregator"
	"github.com/atikulmunna/piqlog/internal/hub"
	"github.com/atikulmunna/piqlog/internal/metrics"
	"github.com/atikulmunna/piqlog/internal/model"
	"github.com/atikulmunna/piqlog/internal/scan"
)

func newTestServer(t *testing.T) (*httptest.Server, chan model.Entry, *aggregator.Aggregator) {
	t.Helper()
	input := make(chan model.Entry, 16)
	h := hub.New(input)
	agg := aggregator.New(h.Dropped)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Start(ctx)

	srv := httptest.NewServer(New(h, agg, metrics.New(), "").Handler())
	t.Cleanup(srv.Close)
	return srv, input, agg
}

func TestHealthz(t *testing.T) {
	srv, _, agg := newTestServer(t)
	agg.Record(&scan.Report{Source: "a.log", Lines: 3})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["files_scanned"] != float64(1) {
		t.Errorf("expected 1 file scanned, got %v", body["files_scanned"])
	}
}

func TestStatsAndMetrics(t *testing.T) {
	srv, _, agg := newTestServer(t)
	agg.Record(&scan.Report{Source: "a.log", Lines: 3, Entries: []model.Entry{{}}})

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	var stats aggregator.Stats
	err = json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalEntries != 1 || stats.LinesScanned != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from /metrics, got %d", resp.StatusCode)
	}
}

func TestWebSocketStream(t *testing.T) {
	srv, input, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?level=F"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Give the handler time to subscribe before publishing.
	time.Sleep(100 * time.Millisecond)

	input <- model.Entry{Summary: model.Summary{LineNumber: 1, LogLevel: model.Some("I"), Log: "skipped"}}
	input <- model.Entry{Summary: model.Summary{LineNumber: 2, LogLevel: model.Some("F"), Log: "fatal"}}

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var got model.Entry
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Summary.LineNumber != 2 || got.Summary.Log != "fatal" {
		t.Errorf("expected the F entry only, got %+v", got.Summary)
	}
}
