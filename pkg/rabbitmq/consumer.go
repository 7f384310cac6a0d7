package rabbitmq

import (
	"context"
	"log"
	"runtime/debug"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one message received on a subscription.
type Handler func(topic string, message mqtt.Message) error

// IConsumer subscribes and blocks until its context is cancelled.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler Handler)
}

type Consumer struct {
	client  mqtt.Client
	handler Handler
	topics  []string
}

func NewConsumer(client mqtt.Client, handler Handler, topics ...string) *Consumer {
	return &Consumer{client: client, topics: topics, handler: handler}
}

func (c *Consumer) SetHandler(handler Handler) {
	c.handler = handler
}

// Plan requests and results must survive a broker hiccup; everything else is best effort.
func qosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "plan/request") || strings.HasPrefix(t, "plan/result") {
		return 1
	}
	return 0
}

// ConsumeMessage subscribes to every topic, blocks until ctx is done, then unsubscribes.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	for _, topic := range c.topics {
		topic := topic
		token := c.client.Subscribe(topic, qosFor(topic), func(_ mqtt.Client, msg mqtt.Message) {
			c.dispatch(msg)
		})
		if token.Wait() && token.Error() != nil {
			log.Printf("mqtt: error subscribing to %s: %v", topic, token.Error())
			continue
		}
		log.Printf("mqtt: subscribed to %s", topic)
	}

	<-ctx.Done()

	if len(c.topics) > 0 {
		c.client.Unsubscribe(c.topics...).Wait()
	}
}

// dispatch runs the handler for one message. A panic is logged and the
// message dropped; paho would otherwise crash the process from its router goroutine.
func (c *Consumer) dispatch(msg mqtt.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("mqtt: panic handling message on %s: %v\n%s", msg.Topic(), r, debug.Stack())
		}
	}()
	if c.handler == nil {
		log.Printf("mqtt: no handler set for topic %s", msg.Topic())
		return
	}
	if err := c.handler(msg.Topic(), msg); err != nil {
		log.Printf("mqtt: error handling message on %s: %v", msg.Topic(), err)
	}
}
