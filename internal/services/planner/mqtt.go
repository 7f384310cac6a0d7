package planner

import (
	"context"
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
	"github.com/LeonardoBeccarini/drip_planner/pkg/dedup"
	"github.com/LeonardoBeccarini/drip_planner/pkg/rabbitmq"
)

// RequestHandler turns plan/request/{project} messages into computed plans.
// Identical payloads redelivered within the dedup TTL are dropped.
func (s *Service) RequestHandler(d *dedup.Deduper) rabbitmq.Handler {
	return func(topic string, msg mqtt.Message) error {
		if d != nil && !d.ShouldProcessPayload(msg.Payload()) {
			return nil
		}
		project := rabbitmq.ProjectFromTopic(topic)

		var req messages.ScenarioRequest
		if err := json.Unmarshal(msg.Payload(), &req); err != nil {
			log.Printf("planner: invalid JSON on %s: %v", topic, err)
			s.metrics.rejected.WithLabelValues("mqtt").Inc()
			s.reject(project, err)
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.compute(ctx, "mqtt", project, req); err != nil {
			log.Printf("planner: rejected request on %s: %v", topic, err)
			s.reject(project, err)
		}
		return nil
	}
}

func (s *Service) reject(projectID string, err error) {
	s.publish(projectID, messages.PlanRejectedEvent{
		ProjectID: projectID,
		Error:     err.Error(),
		Timestamp: s.now().UTC(),
	})
}
