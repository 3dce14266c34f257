// Package server streams finished rasters to browser clients over websockets
// and answers camera timeline queries for the preview page.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/config"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/precompute"
	"github.com/faemiyah/faemiyah-demoscene-2018-08-40k-intro-cassini/timeline"
)

// cameraRequest is the only message clients send: a timestamp to resolve
type cameraRequest struct {
	Stamp *int `json:"stamp"`
}

// Hub is a precompute.Uploader that broadcasts previews to every connected client.
// New clients receive every preview sent so far.
type Hub struct {
	settings config.PreviewSettings
	timeline *timeline.Timeline
	limiter  *rate.Limiter
	upgrader websocket.Upgrader
	logger   *slog.Logger

	clients      map[*websocket.Conn]*sync.Mutex
	clientsMutex sync.RWMutex

	history      []PreviewData
	historyMutex sync.Mutex
}

// NewHub creates a hub. tl may be nil, in which case camera queries are rejected.
func NewHub(settings config.PreviewSettings, tl *timeline.Timeline) *Hub {
	h := &Hub{
		settings: settings,
		timeline: tl,
		limiter:  rate.NewLimiter(rate.Limit(settings.BroadcastsPerSecond), max(settings.Burst, 1)),
		logger:   slog.With("component", "preview"),
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.settings.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(h.settings.AllowedOrigins, origin)
}

// Handler serves /ws and /healthz behind the CORS policy
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","clients":%d}`, h.ClientCount())
	})

	c := cors.New(cors.Options{
		AllowedOrigins: h.settings.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	h.logger.Debug("CORS configured", "allowed_origins", h.settings.AllowedOrigins)
	return c.Handler(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (h *Hub) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              h.settings.Addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("Preview server starting", "addr", h.settings.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.closeClients()
		return srv.Shutdown(shutdownCtx)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	// The history lock orders replay against live broadcasts so each preview arrives exactly once
	connMutex := &sync.Mutex{}
	h.historyMutex.Lock()
	h.clientsMutex.Lock()
	h.clients[conn] = connMutex
	h.clientsMutex.Unlock()
	err = h.replay(conn, connMutex)
	h.historyMutex.Unlock()

	defer func() {
		h.clientsMutex.Lock()
		delete(h.clients, conn)
		h.clientsMutex.Unlock()
	}()
	if err != nil {
		return
	}

	for {
		var req cameraRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("WebSocket read error", "error", err)
			}
			return
		}
		if err := send(conn, connMutex, h.resolveCamera(req)); err != nil {
			return
		}
	}
}

// replay sends the greeting and every earlier preview. Callers hold historyMutex.
func (h *Hub) replay(conn *websocket.Conn, mutex *sync.Mutex) error {
	if err := send(conn, mutex, HelloData{Type: "hello", Previews: len(h.history)}); err != nil {
		return err
	}
	for _, p := range h.history {
		if err := send(conn, mutex, p); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hub) resolveCamera(req cameraRequest) any {
	if h.timeline == nil {
		return ErrorData{Type: "error", Message: "no camera timeline loaded"}
	}
	if req.Stamp == nil {
		return ErrorData{Type: "error", Message: "missing stamp"}
	}
	f, err := h.timeline.Resolve(*req.Stamp)
	if err != nil {
		return ErrorData{Type: "error", Message: err.Error()}
	}
	return createFrameData(*req.Stamp, f)
}

func send(conn *websocket.Conn, mutex *sync.Mutex, v any) error {
	mutex.Lock()
	defer mutex.Unlock()
	return conn.WriteJSON(v)
}

// Upload turns the result into previews, waits for the broadcast budget and sends them
func (h *Hub) Upload(ctx context.Context, r precompute.Result) error {
	previews, err := createPreviews(r, h.settings.Size)
	if err != nil {
		return err
	}
	if len(previews) == 0 {
		h.logger.Debug("No preview for result", "name", r.Name)
		return nil
	}
	if err := h.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("preview %s: %w", r.Name, err)
	}

	h.historyMutex.Lock()
	h.history = append(h.history, previews...)
	for _, p := range previews {
		h.broadcast(p)
	}
	h.historyMutex.Unlock()
	h.logger.Info("Preview broadcast", "name", r.Name, "previews", len(previews), "clients", h.ClientCount())
	return nil
}

func (h *Hub) broadcast(v any) {
	h.clientsMutex.RLock()
	clientsToRemove := []*websocket.Conn{}
	for client, mutex := range h.clients {
		if err := send(client, mutex, v); err != nil {
			h.logger.Warn("WebSocket write error", "error", err)
			client.Close()
			clientsToRemove = append(clientsToRemove, client)
		}
	}
	h.clientsMutex.RUnlock()

	if len(clientsToRemove) > 0 {
		h.clientsMutex.Lock()
		for _, client := range clientsToRemove {
			delete(h.clients, client)
		}
		h.clientsMutex.Unlock()
	}
}

func (h *Hub) closeClients() {
	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()
	for client := range h.clients {
		client.Close()
	}
}
