package planner

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/LeonardoBeccarini/drip_planner/internal/catalog"
	"github.com/LeonardoBeccarini/drip_planner/internal/hydraulics"
	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
	"github.com/LeonardoBeccarini/drip_planner/pkg/rabbitmq"
)

// Config wires the optional collaborators. Zero values disable them.
type Config struct {
	Catalog     *catalog.Catalog
	Recorder    *Recorder                 // nil: no InfluxDB history
	Publishers  rabbitmq.PublisherFactory // nil: results are not broadcast
	ResultTopic string                    // "{project}" template
	CacheSize   int
}

// Service is the single entry point shared by the HTTP, MQTT and gRPC front
// ends: validate, run the engine, then fan the result out.
type Service struct {
	catalog     *catalog.Catalog
	engine      *hydraulics.Engine
	recorder    *Recorder
	publishers  rabbitmq.PublisherFactory
	resultTopic string
	recent      *recentPlans
	metrics     *Metrics

	now   func() time.Time
	newID func() string
}

func NewService(cfg Config) *Service {
	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	topic := cfg.ResultTopic
	if topic == "" {
		topic = "plan/result/{project}"
	}
	return &Service{
		catalog:     cat,
		engine:      hydraulics.NewEngine(cat),
		recorder:    cfg.Recorder,
		publishers:  cfg.Publishers,
		resultTopic: topic,
		recent:      newRecentPlans(cfg.CacheSize),
		metrics:     NewMetrics(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *Service) Catalog() *catalog.Catalog { return s.catalog }
func (s *Service) Metrics() *Metrics         { return s.metrics }

// Compute validates and runs one scenario as given; defaults are applied
// only when decoding JSON. Recording and publishing failures are logged,
// never returned.
func (s *Service) Compute(ctx context.Context, projectID string, req messages.ScenarioRequest) (messages.PlanComputedEvent, error) {
	return s.compute(ctx, "api", projectID, req)
}

func (s *Service) compute(ctx context.Context, source, projectID string, req messages.ScenarioRequest) (messages.PlanComputedEvent, error) {
	if err := ctx.Err(); err != nil {
		return messages.PlanComputedEvent{}, err
	}
	if err := req.Validate(); err != nil {
		s.metrics.rejected.WithLabelValues(source).Inc()
		return messages.PlanComputedEvent{}, err
	}

	start := time.Now()
	res := s.engine.Run(req)
	s.metrics.duration.Observe(time.Since(start).Seconds())

	evt := messages.PlanComputedEvent{
		PlanID:    s.newID(),
		ProjectID: projectID,
		Request:   req,
		Result:    res,
		Timestamp: s.now().UTC(),
	}

	s.metrics.computed.WithLabelValues(string(req.Mode)).Inc()
	s.metrics.inlet.WithLabelValues(string(req.Mode)).Observe(res.RequiredInletPressureBar)
	if res.CatalogFallback {
		s.metrics.fallbacks.Inc()
	}

	s.recent.add(evt)
	if s.recorder != nil {
		s.recorder.Record(evt)
	}
	s.publish(projectID, evt)

	log.Printf("planner: plan %s project=%q mode=%s pipe=%vmm inlet=%.3fbar",
		evt.PlanID, projectID, req.Mode, res.MainPipeMM(), res.RequiredInletPressureBar)
	return evt, nil
}

func (s *Service) publish(projectID string, payload interface{}) {
	if s.publishers == nil {
		return
	}
	topic := rabbitmq.FormatTopic(s.resultTopic, projectID)
	if err := s.publishers(topic).PublishMessage(payload); err != nil {
		log.Printf("planner: publish on %s failed: %v", topic, err)
	}
}

// Latest returns recent plans from memory, newest first.
func (s *Service) Latest(minutes, limit int) []messages.PlanSummary {
	return s.recent.latest(s.now().Add(-time.Duration(minutes)*time.Minute), limit)
}

// Plan looks up a plan still held in memory.
func (s *Service) Plan(planID string) (messages.PlanComputedEvent, bool) {
	return s.recent.get(planID)
}
