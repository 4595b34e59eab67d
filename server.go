package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/oszuidwest/zwfm-ledmeter/internal/config"
	"github.com/oszuidwest/zwfm-ledmeter/internal/notify"
	"github.com/oszuidwest/zwfm-ledmeter/internal/server"
	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
)

// Monitor update intervals.
const (
	frameInterval  = 100 * time.Millisecond
	statusInterval = 3 * time.Second
)

// Meter is the running meter as seen by the live monitor.
type Meter interface {
	Frame() types.Frame
	Status() types.EngineStatus
}

// Server is an HTTP server that provides the live monitor for the meter.
type Server struct {
	config   config.Config
	meter    Meter
	sessions *server.SessionManager
	commands *server.CommandHandler
	version  *VersionChecker
}

// NewServer returns a new Server for the meter m.
func NewServer(cfg config.Config, m Meter, version *VersionChecker) *Server {
	email := cfg.Notifications.Email
	commands := server.NewCommandHandler(
		cfg.Notifications.LogPath,
		map[string]func() error{
			"webhook": func() error { return notify.SendTestWebhook(cfg.Notifications.WebhookURL) },
			"log":     func() error { return notify.WriteTestLog(cfg.Notifications.LogPath) },
			"email":   func() error { return notify.SendTestEmail(&email) },
		},
	)

	return &Server{
		config:   cfg,
		meter:    m,
		sessions: server.NewSessionManager(),
		commands: commands,
		version:  version,
	}
}

// handleWebSocket streams meter frames and status to the client.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := server.UpgradeConnection(w, r)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer util.SafeCloseFunc(conn, "websocket connection")()

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			var cmd server.WSCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			s.commands.Handle(cmd, conn)
		}
	}()

	frameTicker := time.NewTicker(frameInterval)
	statusTicker := time.NewTicker(statusInterval)
	defer frameTicker.Stop()
	defer statusTicker.Stop()

	if err := conn.WriteJSON(s.status()); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-frameTicker.C:
			if err := conn.WriteJSON(map[string]any{
				"type":  "frame",
				"frame": s.meter.Frame(),
			}); err != nil {
				return
			}
		case <-statusTicker.C:
			if err := conn.WriteJSON(s.status()); err != nil {
				return
			}
		}
	}
}

// status builds the periodic status message.
func (s *Server) status() map[string]any {
	cfg := s.config
	mode := "bar"
	if cfg.Meter.Single {
		mode = "single"
	}
	return map[string]any{
		"type":   "status",
		"engine": s.meter.Status(),
		"meter": map[string]any{
			"rate":         cfg.Meter.Rate,
			"ref_level":    cfg.Meter.RefLevel,
			"lights":       cfg.Meter.Lights,
			"mode":         mode,
			"peak_hold":    cfg.Meter.PeakHold,
			"scale":        cfg.Meter.Scale,
			"decay":        cfg.DecayStep(),
			"decay_window": cfg.DecayWindowTicks(),
		},
		"silence": cfg.SilenceDetection,
		"alerts": map[string]bool{
			"webhook": cfg.HasWebhook(),
			"log":     cfg.HasLogPath(),
			"email":   cfg.HasEmail(),
		},
		"platform": runtime.GOOS,
		"version":  s.version.GetInfo(),
	}
}

// SetupRoutes returns an [http.Handler] configured with all application routes.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()
	basicAuth := s.sessions.AuthMiddleware(s.config.Web.Username, s.config.Web.Password)

	mux.HandleFunc("/ws", basicAuth(s.handleWebSocket))
	mux.HandleFunc("/", basicAuth(s.handleStatic))

	return mux
}

// staticFile represents an embedded static file with its content type and content.
type staticFile struct {
	contentType string
	content     string
	name        string
}

// staticFiles maps URL paths to their corresponding static file definitions.
var staticFiles = map[string]staticFile{
	"/style.css": {
		contentType: "text/css",
		content:     styleCSS,
		name:        "style.css",
	},
	"/app.js": {
		contentType: "application/javascript",
		content:     appJS,
		name:        "app.js",
	},
}

// handleStatic serves the embedded monitor files.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	if path == "/index.html" {
		w.Header().Set("Content-Type", "text/html")
		html := strings.Replace(indexHTML, "{{VERSION}}", Version, 1)
		html = strings.ReplaceAll(html, "{{YEAR}}", fmt.Sprintf("%d", time.Now().Year()))
		if _, err := w.Write([]byte(html)); err != nil {
			slog.Error("failed to write index.html", "error", err)
		}
		return
	}

	if file, ok := staticFiles[path]; ok {
		w.Header().Set("Content-Type", file.contentType)
		if _, err := w.Write([]byte(file.content)); err != nil {
			slog.Error("failed to write static file", "file", file.name, "error", err)
		}
		return
	}

	http.NotFound(w, r)
}

// Start begins listening and serving HTTP requests on the configured port.
// Returns an *http.Server that can be used for graceful shutdown.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.config.Web.Port)
	slog.Info("starting web server", "addr", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	return srv
}
