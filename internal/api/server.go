// Package api serves the admin slider API, embed sessions, and the
// health, readiness and metrics endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/AaronLay10/SliderEngine/internal/embed"
	"github.com/AaronLay10/SliderEngine/internal/events"
	"github.com/AaronLay10/SliderEngine/internal/logger"
	"github.com/AaronLay10/SliderEngine/internal/storage"
)

// readiness tracks the dependencies /ready reports on.
var readiness = struct {
	mu            sync.RWMutex
	storeReady    bool
	mqttConnected bool
	mqttOptional  bool
}{mqttOptional: true}

// SetStoreReady records whether the slider store is usable.
func SetStoreReady(ready bool) {
	readiness.mu.Lock()
	readiness.storeReady = ready
	readiness.mu.Unlock()
}

// SetMQTTStatus records the broker connection and whether /ready requires it.
func SetMQTTStatus(connected, optional bool) {
	readiness.mu.Lock()
	readiness.mqttConnected = connected
	readiness.mqttOptional = optional
	readiness.mu.Unlock()
}

// StatsSource reports bridge counters for /metrics. *mqtt.Bridge
// implements it.
type StatsSource interface {
	Stats() (published, received int64)
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	store     storage.Store
	embeds    *embed.Registry
	log       *logger.Logger
	bridge    StatsSource
	startTime time.Time

	httpServer *http.Server
}

func NewServer(store storage.Store, embeds *embed.Registry, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		store:     store,
		embeds:    embeds,
		log:       log,
		startTime: time.Now(),
	}
}

// SetBridge exposes MQTT bridge counters on /metrics.
func (s *Server) SetBridge(b StatsSource) {
	s.bridge = b
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ready", readyHandler).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.metricsHandler).Methods(http.MethodGet)
	r.HandleFunc("/events", RequireAdmin(eventsHandler)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sliders", RequireAdmin(s.listSliders)).Methods(http.MethodGet)
	api.HandleFunc("/sliders", RequireAdmin(s.saveSlider)).Methods(http.MethodPost)
	api.HandleFunc("/sliders/{id:[0-9]+}", RequireAdmin(s.getSlider)).Methods(http.MethodGet)
	api.HandleFunc("/sliders/{id:[0-9]+}", RequireAdmin(s.updateSlider)).Methods(http.MethodPut)
	api.HandleFunc("/sliders/{id:[0-9]+}", RequireAdmin(s.deleteSlider)).Methods(http.MethodDelete)

	api.HandleFunc("/embeds", RequireAnyRole(s.listEmbeds)).Methods(http.MethodGet)
	api.HandleFunc("/embeds", RequireAnyRole(s.createEmbed)).Methods(http.MethodPost)
	api.HandleFunc("/embeds/{id}", RequireAnyRole(s.getEmbed)).Methods(http.MethodGet)
	api.HandleFunc("/embeds/{id}", RequireAnyRole(s.deleteEmbed)).Methods(http.MethodDelete)
	api.HandleFunc("/embeds/{id}/input", RequireAnyRole(s.embedInput)).Methods(http.MethodPost)

	// Render payloads are public, like the embed markup they feed.
	r.HandleFunc("/sliders/{id:[0-9]+}/embed", s.renderSlider).Methods(http.MethodGet)
	r.HandleFunc("/ws/embeds/{id}", RequireAnyRole(s.wsEmbedHandler))

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"ts"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   "slider-api",
		Hostname:  host,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// CheckStatus is one entry of the readiness report.
type CheckStatus struct {
	Status   string `json:"status"`
	Optional bool   `json:"optional,omitempty"`
}

type ReadinessResponse struct {
	Ready  bool                   `json:"ready"`
	Checks map[string]CheckStatus `json:"checks"`
}

func readyHandler(w http.ResponseWriter, r *http.Request) {
	readiness.mu.RLock()
	storeReady := readiness.storeReady
	mqttConnected := readiness.mqttConnected
	mqttOptional := readiness.mqttOptional
	readiness.mu.RUnlock()

	resp := ReadinessResponse{Ready: true, Checks: map[string]CheckStatus{}}

	if storeReady {
		resp.Checks["store"] = CheckStatus{Status: "ok"}
	} else {
		resp.Checks["store"] = CheckStatus{Status: "not_ready"}
		resp.Ready = false
	}

	switch {
	case mqttConnected:
		resp.Checks["mqtt"] = CheckStatus{Status: "ok", Optional: mqttOptional}
	case mqttOptional:
		resp.Checks["mqtt"] = CheckStatus{Status: "unavailable", Optional: true}
	default:
		resp.Checks["mqtt"] = CheckStatus{Status: "not_ready"}
		resp.Ready = false
	}

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func eventsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, events.Snapshot())
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. TLS is used when InitTLS found a certificate.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	tlsCfg, err := BuildTLSConfig()
	if err != nil {
		return err
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig:         tlsCfg,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.httpServer.TLSConfig != nil {
			s.log.Info("API listening (TLS)", "addr", addr)
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			s.log.Info("API listening", "addr", addr)
			err = s.httpServer.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events.CloseAllSubscribers()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is the envelope of mutating endpoints.
type Response struct {
	OK    bool        `json:"ok"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

func writeOK(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Response{OK: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{OK: false, Error: msg})
}
