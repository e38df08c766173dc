package api

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/AaronLay10/SliderEngine/internal/events"
	"github.com/AaronLay10/SliderEngine/internal/version"
)

// metricsHandler returns Prometheus-compatible metrics in text format.
func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.startTime).Seconds()
	eventsTotal := events.TotalCount()
	wsClients := events.SubscriberCount()

	sliders := -1
	if n, err := s.store.Count(r.Context()); err == nil {
		sliders = n
	}
	embeds := 0
	if s.embeds != nil {
		embeds = s.embeds.Count()
	}

	readiness.mu.RLock()
	storeReady := readiness.storeReady
	mqttConnected := readiness.mqttConnected
	readiness.mu.RUnlock()

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	writeMetric := func(name, mtype, help string, value interface{}, labels string) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s %s\n", name, mtype)
		if labels != "" {
			fmt.Fprintf(w, "%s{%s} %v\n", name, labels, value)
		} else {
			fmt.Fprintf(w, "%s %v\n", name, value)
		}
	}

	labels := fmt.Sprintf(`instance="%s",version="%s"`, hostname, version.Version)

	writeMetric("slider_uptime_seconds", "gauge",
		"Number of seconds since the service started", uptime, labels)
	writeMetric("slider_events_total", "counter",
		"Total number of events emitted since startup", eventsTotal, labels)
	writeMetric("slider_sliders", "gauge",
		"Number of stored sliders (-1 if the store is unreachable)", sliders, labels)
	writeMetric("slider_embeds_active", "gauge",
		"Number of attached embed sessions", embeds, labels)
	writeMetric("slider_event_subscribers", "gauge",
		"Number of live event subscribers (WebSocket clients and bridges)", wsClients, labels)
	writeMetric("slider_store_ready", "gauge",
		"Whether the slider store is ready (1) or not (0)", boolGauge(storeReady), labels)
	writeMetric("slider_mqtt_connected", "gauge",
		"Whether MQTT broker is connected (1) or not (0)", boolGauge(mqttConnected), labels)

	if s.bridge != nil {
		published, received := s.bridge.Stats()
		writeMetric("slider_mqtt_published_total", "counter",
			"Embed events published to MQTT", published, labels)
		writeMetric("slider_mqtt_received_total", "counter",
			"Input commands received over MQTT", received, labels)
	}
}

func boolGauge(b bool) int {
	if b {
		return 1
	}
	return 0
}
