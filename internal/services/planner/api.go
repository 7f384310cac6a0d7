package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
)

const maxRequestBody = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func intParam(r *http.Request, key string, def, min, max int) int {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if n < min {
				return min
			}
			if max > 0 && n > max {
				return max
			}
			return n
		}
	}
	return def
}

// NewHTTPMux exposes the planner:
//
//	POST /plans?project=ID          compute a scenario
//	GET  /plans/{id}                a plan still held in memory
//	GET  /plans/latest              recent plans (source=auto|influx|cache, minutes, limit)
//	GET  /catalog/pipes, /catalog/fittings, /catalog/drippers
//	GET  /healthz, /readyz, /metrics
func NewHTTPMux(svc *Service, probes Probes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", newHealthHandler(svc, probes))
	mux.Handle("GET /readyz", newReadyHandler(svc, probes))
	mux.Handle("GET /metrics", svc.metrics.Handler())

	mux.HandleFunc("POST /plans", func(w http.ResponseWriter, r *http.Request) {
		var req messages.ScenarioRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			svc.metrics.rejected.WithLabelValues("http").Inc()
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON: " + err.Error()})
			return
		}
		project := strings.TrimSpace(r.URL.Query().Get("project"))
		evt, err := svc.compute(r.Context(), "http", project, req)
		if err != nil {
			code := http.StatusInternalServerError
			if messages.IsValidation(err) {
				code = http.StatusBadRequest
			}
			writeJSON(w, code, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, evt)
	})

	mux.HandleFunc("GET /plans/latest", func(w http.ResponseWriter, r *http.Request) {
		source := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("source")))
		if source == "" {
			source = "auto"
		}
		minutes := intParam(r, "minutes", 24*60, 1, 7*24*60)
		limit := intParam(r, "limit", 20, 1, 500)

		var list []messages.PlanSummary
		used := ""
		if svc.recorder != nil && (source == "influx" || source == "auto") {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			got, err := svc.recorder.QueryLatest(ctx, minutes, limit)
			cancel()
			if err != nil {
				w.Header().Set("X-Error", "influx-query-error")
			} else if len(got) > 0 {
				list, used = got, "influx"
			}
		}
		if used == "" {
			list, used = svc.Latest(minutes, limit), "cache"
		}

		w.Header().Set("X-Data-Source", used)
		writeJSON(w, http.StatusOK, list)
	})

	mux.HandleFunc("GET /plans/{id}", func(w http.ResponseWriter, r *http.Request) {
		evt, ok := svc.Plan(r.PathValue("id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "plan not found"})
			return
		}
		writeJSON(w, http.StatusOK, evt)
	})

	mux.HandleFunc("GET /catalog/pipes", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, svc.catalog.Pipes())
	})
	mux.HandleFunc("GET /catalog/fittings", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, svc.catalog.Fittings())
	})
	mux.HandleFunc("GET /catalog/drippers", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, svc.catalog.Drippers())
	})

	return mux
}
