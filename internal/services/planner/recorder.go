package planner

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
)

// Measurement holds one point per computed plan.
const Measurement = "drip_plan"

// Recorder writes plans to InfluxDB asynchronously and remembers the last
// write failure for /healthz and /readyz.
type Recorder struct {
	client   influxdb2.Client
	org      string
	bucket   string
	writeAPI api.WriteAPI

	mu      sync.RWMutex
	lastErr time.Time
}

func NewRecorder(client influxdb2.Client, org, bucket string) *Recorder {
	r := &Recorder{
		client:   client,
		org:      org,
		bucket:   bucket,
		writeAPI: client.WriteAPI(org, bucket),
		lastErr:  time.Now().Add(-24 * time.Hour),
	}
	go func() {
		for err := range r.writeAPI.Errors() {
			if err != nil {
				r.mu.Lock()
				r.lastErr = time.Now()
				r.mu.Unlock()
				log.Printf("planner: influx write error: %v", err)
			}
		}
	}()
	return r
}

// Record queues the plan; it never blocks on the network.
func (r *Recorder) Record(evt messages.PlanComputedEvent) {
	r.writeAPI.WritePoint(PlanToPoint(evt))
}

// Flush forces pending points out.
func (r *Recorder) Flush() {
	r.writeAPI.Flush()
}

// LastErrorAge reports how long ago the last write failed.
func (r *Recorder) LastErrorAge() time.Duration {
	if r == nil {
		return 99999 * time.Hour
	}
	r.mu.RLock()
	t := r.lastErr
	r.mu.RUnlock()
	return time.Since(t)
}

// PlanToPoint flattens a computed plan. Low-cardinality values are tags.
func PlanToPoint(evt messages.PlanComputedEvent) *write.Point {
	res := evt.Result
	tags := map[string]string{
		"mode":         string(evt.Request.Mode),
		"main_pipe_mm": strconv.FormatFloat(res.MainPipeMM(), 'f', -1, 64),
		"range":        res.RangeClassification,
	}
	if evt.ProjectID != "" {
		tags["project_id"] = evt.ProjectID
	}

	fields := map[string]interface{}{
		"plan_id":                     evt.PlanID,
		"length_m":                    evt.Request.LengthM,
		"total_flow_lh":               res.TotalFlowLH,
		"required_inlet_pressure_bar": res.RequiredInletPressureBar,
		"catalog_fallback":            res.CatalogFallback,
	}
	if n := len(res.GraphData.Y); n > 0 {
		fields["end_pressure_bar"] = res.GraphData.Y[n-1]
	}
	if d := res.DebugInfo; d != nil {
		fields["velocity_ms"] = d.Velocity
		fields["reynolds"] = d.Reynolds
		fields["friction_factor"] = d.FrictionF
		fields["internal_dia_mm"] = d.InternalDia
	}

	t := evt.Timestamp
	if t.IsZero() {
		t = time.Now()
	}
	return influxdb2.NewPoint(Measurement, tags, fields, t)
}

func buildFlux(bucket string, minutes, limit int) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == %q)
  |> filter(fn: (r) => r._field == "plan_id" or r._field == "length_m" or r._field == "total_flow_lh" or r._field == "required_inlet_pressure_bar")
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> group()
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:%d)
`, bucket, minutes, Measurement, limit)
}

// QueryLatest reads back the most recent plans within the last minutes.
func (r *Recorder) QueryLatest(ctx context.Context, minutes, limit int) ([]messages.PlanSummary, error) {
	res, err := r.client.QueryAPI(r.org).Query(ctx, buildFlux(r.bucket, minutes, limit))
	if err != nil {
		return nil, err
	}
	defer res.Close()

	out := make([]messages.PlanSummary, 0, limit)
	for res.Next() {
		rec := res.Record()
		pipe, _ := strconv.ParseFloat(stringOf(rec.ValueByKey("main_pipe_mm")), 64)
		out = append(out, messages.PlanSummary{
			PlanID:                   stringOf(rec.ValueByKey("plan_id")),
			ProjectID:                stringOf(rec.ValueByKey("project_id")),
			Mode:                     stringOf(rec.ValueByKey("mode")),
			MainPipeMM:               pipe,
			LengthM:                  floatOf(rec.ValueByKey("length_m")),
			TotalFlowLH:              floatOf(rec.ValueByKey("total_flow_lh")),
			RequiredInletPressureBar: floatOf(rec.ValueByKey("required_inlet_pressure_bar")),
			Timestamp:                rec.Time().UTC().Format(time.RFC3339),
		})
	}
	if res.Err() != nil {
		return out, res.Err()
	}
	return out, nil
}

func stringOf(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func floatOf(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	}
	return 0
}
