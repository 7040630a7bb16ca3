package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tallowisp/gazeshim/internal/hook"
	"github.com/tallowisp/gazeshim/internal/infrastructure/config"
	"github.com/tallowisp/gazeshim/internal/infrastructure/logging"
	"github.com/tallowisp/gazeshim/internal/openvr"
	"github.com/tallowisp/gazeshim/internal/telemetry"
)

func newTestServer(t *testing.T) (*Server, *telemetry.Recorder) {
	t.Helper()

	recorder := telemetry.NewRecorder()
	cfg := config.Default()
	s, err := New(Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Logger:   logging.Default(),
		Recorder: recorder,
		Hooks:    hook.NewRegistry(),
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.started = time.Now()
	s.hub = NewHub(cfg.WebSocket, s.logger)
	return s, recorder
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Deps{Recorder: telemetry.NewRecorder()}); err == nil {
		t.Error("New() without logger succeeded")
	}
	if _, err := New(Deps{Logger: logging.Default()}); err == nil {
		t.Error("New() without recorder succeeded")
	}
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "test" {
		t.Errorf("response = %+v, want status ok and version test", resp)
	}
}

func TestHandleStatus(t *testing.T) {
	s, recorder := newTestServer(t)
	recorder.Cycle()
	recorder.Publish("HMD-1", telemetry.Fallback())

	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Shimmed {
		t.Error("status reports shimmed with no plugin attached")
	}
	if resp.Counters.Cycles != 1 || resp.Counters.Publishes != 1 {
		t.Errorf("counters = %+v, want one cycle and one publish", resp.Counters)
	}
}

func TestHandleSample(t *testing.T) {
	s, recorder := newTestServer(t)
	router := s.buildRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sample", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status before publish = %d, want %d", rec.Code, http.StatusNotFound)
	}

	recorder.Publish("HMD-1", telemetry.Sample{Valid: true, Direction: openvr.Forward, SensorTime: 2.5})

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sample", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status after publish = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp sampleResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Serial != "HMD-1" || !resp.Sample.Valid || resp.Sample.SensorTime != 2.5 {
		t.Errorf("response = %+v, want the published sample", resp)
	}
}

func TestHandleHooksEmpty(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/hooks", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestWebSocketSampleStream(t *testing.T) {
	s, _ := newTestServer(t)

	ts := httptest.NewServer(s.buildRouter())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the client before broadcasting.
	deadline := time.Now().Add(time.Second)
	for s.hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.hub.ClientCount() == 0 {
		t.Fatal("client never registered with the hub")
	}

	s.hub.BroadcastSample("HMD-1", telemetry.Sample{Valid: true, Direction: openvr.Forward})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}
	if msg.Type != WSTypeSample || msg.Serial != "HMD-1" {
		t.Errorf("message = %+v, want a sample for HMD-1", msg)
	}
}
