package rabbitmq

import (
	"encoding/json"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher publishes payloads on a single topic.
type IPublisher interface {
	PublishMessage(message interface{}) error
	PublishMessageQos(qos byte, retained bool, message interface{}) error
}

// PublisherFactory yields a publisher bound to topic.
type PublisherFactory func(topic string) IPublisher

type Publisher struct {
	client mqtt.Client
	topic  string
}

func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// NewFactory binds publishers to a shared client.
func NewFactory(client mqtt.Client) PublisherFactory {
	return func(topic string) IPublisher { return NewPublisher(client, topic) }
}

// PublishMessage sends with the topic's default QoS, not retained.
func (p *Publisher) PublishMessage(message interface{}) error {
	return p.PublishMessageQos(qosFor(p.topic), false, message)
}

// PublishMessageQos accepts string, []byte or any JSON-marshalable value.
func (p *Publisher) PublishMessageQos(qos byte, retained bool, message interface{}) error {
	var payload []byte
	switch m := message.(type) {
	case string:
		payload = []byte(m)
	case []byte:
		payload = m
	default:
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}
		payload = b
	}

	token := p.client.Publish(p.topic, qos, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish on %s: %w", p.topic, token.Error())
	}
	return nil
}

// FormatTopic fills a "{project}" template.
func FormatTopic(tmpl, projectID string) string {
	if strings.TrimSpace(projectID) == "" {
		projectID = "default"
	}
	return strings.ReplaceAll(tmpl, "{project}", projectID)
}

// ProjectFromTopic takes the last topic level, e.g. "plan/request/garden-7" -> "garden-7".
func ProjectFromTopic(topic string) string {
	parts := strings.Split(strings.Trim(topic, "/"), "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-1]
}
