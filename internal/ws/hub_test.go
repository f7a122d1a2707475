package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pulsemon/pulsemon/internal/daystore"
	"github.com/pulsemon/pulsemon/internal/domain"
)

type rawEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) rawEnvelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e rawEnvelope
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	return e
}

func TestHub_ReplaysCurrentStateOnAttach(t *testing.T) {
	store := daystore.New(time.UTC)
	code := 200
	store.Record(domain.CheckResult{
		CheckedAt:      time.Now().UTC(),
		StatusCode:     &code,
		ResponseTimeMS: 12,
		Success:        true,
	})
	hub := NewHub(zap.NewNop(), store)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv.URL)
	defer conn.Close()

	e := readEnvelope(t, conn)
	if e.Type != TypeCurrentState {
		t.Fatalf("want currentState first, got %q", e.Type)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(e.Payload, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Current.Summary.TotalChecks != 1 || len(snap.Days) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestHub_BroadcastsEventsToObserver(t *testing.T) {
	store := daystore.New(time.UTC)
	hub := NewHub(zap.NewNop(), store)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv.URL)
	defer conn.Close()
	readEnvelope(t, conn) // currentState

	// Wait for registration before broadcasting.
	deadline := time.After(time.Second)
	for hub.ClientCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("observer never registered")
		case <-time.After(time.Millisecond):
		}
	}

	rec := domain.CheckResult{CheckedAt: time.Now().UTC(), Success: false, Error: "timeout"}
	hub.PublishCheck(rec)
	hub.PublishSummary(domain.Summary{TotalChecks: 1, Failed: 1, UptimePercentage: "0.00", AverageResponseTimeMS: "N/A"})
	hub.PublishDays(store.Days())

	types := []string{TypeNewCheck, TypeSummaryUpdate, TypeDailySummaryUpdate}
	for _, want := range types {
		e := readEnvelope(t, conn)
		if e.Type != want {
			t.Fatalf("want %q, got %q", want, e.Type)
		}
	}
}

func TestHub_ConcurrentAttachAndBroadcast(t *testing.T) {
	store := daystore.New(time.UTC)
	hub := NewHub(zap.NewNop(), store)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	// Hammer the hub from the publisher side while observers attach,
	// so replay writes and broadcast writes land on the same
	// connections at the same time.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				hub.PublishDays(store.Days())
				time.Sleep(100 * time.Microsecond)
			}
		}
	}()

	for i := 0; i < 10; i++ {
		conn := dial(t, srv.URL)
		// The replay must always arrive before any broadcast.
		if e := readEnvelope(t, conn); e.Type != TypeCurrentState {
			t.Fatalf("observer %d: want currentState first, got %q", i, e.Type)
		}
		conn.Close()
	}

	close(stop)
	wg.Wait()
}

func TestHub_DropSignalsWriterShutdown(t *testing.T) {
	store := daystore.New(time.UTC)
	hub := NewHub(zap.NewNop(), store)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv.URL)
	defer conn.Close()
	readEnvelope(t, conn)

	deadline := time.After(time.Second)
	for hub.ClientCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("observer never registered")
		case <-time.After(time.Millisecond):
		}
	}

	hub.mu.RLock()
	var c *client
	for cl := range hub.clients {
		c = cl
	}
	hub.mu.RUnlock()

	hub.drop(c)
	select {
	case <-c.done:
		// writer told to shut down immediately, not on its next ping
	case <-time.After(time.Second):
		t.Fatalf("done not closed after drop")
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("client still registered after drop")
	}
	hub.drop(c) // second drop must be a no-op
}

func TestHub_DropsDeadObserverOnBroadcast(t *testing.T) {
	store := daystore.New(time.UTC)
	hub := NewHub(zap.NewNop(), store)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv.URL)
	readEnvelope(t, conn)
	conn.Close()

	// Broadcast until the hub notices the closed connection.
	deadline := time.After(2 * time.Second)
	for hub.ClientCount() > 0 {
		hub.PublishSummary(domain.Summary{UptimePercentage: "N/A", AverageResponseTimeMS: "N/A"})
		select {
		case <-deadline:
			t.Fatalf("dead observer never dropped")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
