package main

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oszuidwest/zwfm-ledmeter/internal/config"
	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
)

type staticMeter struct {
	frame types.Frame
}

func (m staticMeter) Frame() types.Frame { return m.frame }

func (m staticMeter) Status() types.EngineStatus {
	return types.EngineStatus{State: types.StateRunning, Input: "capture", Output: "gpio"}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.New()
	m := staticMeter{frame: types.Frame{Level: -6, PeakLevel: -2, Lights: []bool{true, true, false}}}
	srv := httptest.NewServer(NewServer(cfg, m, NewVersionChecker()).SetupRoutes())
	t.Cleanup(srv.Close)
	return srv
}

func authHeader() http.Header {
	token := base64.StdEncoding.EncodeToString([]byte(config.DefaultWebUsername + ":" + config.DefaultWebPassword))
	return http.Header{"Authorization": {"Basic " + token}}
}

func TestStaticRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status without credentials = %d, want 401", resp.StatusCode)
	}
}

func TestStaticFiles(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path        string
		status      int
		contentType string
		contains    string
	}{
		{"/", http.StatusOK, "text/html", Version},
		{"/style.css", http.StatusOK, "text/css", ".light"},
		{"/app.js", http.StatusOK, "application/javascript", "WebSocket"},
		{"/missing", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+tt.path, nil)
			req.Header = authHeader()
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.contentType != "" && resp.Header.Get("Content-Type") != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", resp.Header.Get("Content-Type"), tt.contentType)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
			if strings.Contains(string(body), "{{VERSION}}") || strings.Contains(string(body), "{{YEAR}}") {
				t.Error("template placeholders left in body")
			}
		})
	}
}

func TestWebSocketStreamsStatusAndFrames(t *testing.T) {
	srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, authHeader())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}

	var status struct {
		Type   string             `json:"type"`
		Engine types.EngineStatus `json:"engine"`
		Meter  map[string]any     `json:"meter"`
	}
	if err := conn.ReadJSON(&status); err != nil {
		t.Fatalf("read status: %v", err)
	}
	if status.Type != "status" || status.Engine.State != types.StateRunning {
		t.Errorf("first message = %+v, want running status", status)
	}
	if status.Meter["mode"] != "bar" {
		t.Errorf("meter mode = %v, want bar", status.Meter["mode"])
	}

	var frame struct {
		Type  string      `json:"type"`
		Frame types.Frame `json:"frame"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if frame.Type != "frame" || frame.Frame.Level != -6 || len(frame.Frame.Lights) != 3 {
		t.Errorf("frame message = %+v", frame)
	}
}

func TestWebSocketUnknownTestIsIgnored(t *testing.T) {
	srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, authHeader())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "test_pager"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	// The stream keeps going.
	for range 3 {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg["type"] == "test_result" {
			t.Fatalf("unexpected test result %v", msg)
		}
	}
}
