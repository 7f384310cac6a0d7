package planner

import (
	"encoding/json"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Probes lists the connections health checks look at. A nil client means
// the feature is disabled and does not count against readiness.
type Probes struct {
	MQTT          mqtt.Client
	MinErrorAge   time.Duration // influx write errors younger than this fail /readyz
	MQTTRequired  bool
	InfluxEnabled bool
}

type healthStatus struct {
	Status          string  `json:"status"`
	CatalogPipes    int     `json:"catalog_pipes"`
	MQTTConnected   bool    `json:"mqtt_connected"`
	InfluxOK        bool    `json:"influx_ok"`
	LastWriteErrorS float64 `json:"last_write_error_age_sec,omitempty"`
}

func (s *Service) health(p Probes) (healthStatus, bool) {
	minAge := p.MinErrorAge
	if minAge <= 0 {
		minAge = 30 * time.Second
	}
	st := healthStatus{
		CatalogPipes:  s.catalog.Len(),
		MQTTConnected: p.MQTT != nil && p.MQTT.IsConnectionOpen(),
		InfluxOK:      s.recorder != nil && s.recorder.LastErrorAge() > minAge,
	}
	if s.recorder != nil {
		st.LastWriteErrorS = s.recorder.LastErrorAge().Seconds()
	}

	mqttOK := !p.MQTTRequired || st.MQTTConnected
	influxOK := !p.InfluxEnabled || st.InfluxOK
	ready := st.CatalogPipes > 0 && mqttOK && influxOK
	switch {
	case ready:
		st.Status = "ok"
	case st.CatalogPipes > 0:
		// the engine still answers over HTTP
		st.Status = "degraded"
	default:
		st.Status = "down"
	}
	return st, ready
}

func newHealthHandler(s *Service, p Probes) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		st, _ := s.health(p)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(st)
	})
}

func newReadyHandler(s *Service, p Probes) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, ready := s.health(p)
		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(struct {
			Ready bool `json:"ready"`
		}{ready})
	})
}
