package planner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/messages"
	"github.com/LeonardoBeccarini/drip_planner/pkg/dedup"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func TestRequestHandler_ComputesAndPublishes(t *testing.T) {
	bus := &fakeBus{}
	s := newTestService(t, bus)
	h := s.RequestHandler(dedup.New(time.Minute, 100))

	msg := fakeMessage{
		topic:   "plan/request/garden-7",
		payload: []byte(`{"mode":"planters","length_m":30,"num_outlets":3,"specific_flows_lh":[2,2,2]}`),
	}
	require.NoError(t, h(msg.topic, msg))
	// QoS1 redelivery of the same payload
	require.NoError(t, h(msg.topic, msg))

	out := bus.sent()
	require.Len(t, out, 1)
	assert.Equal(t, "plan/result/garden-7", out[0].topic)

	var evt messages.PlanComputedEvent
	require.NoError(t, json.Unmarshal(out[0].payload, &evt))
	assert.Equal(t, "garden-7", evt.ProjectID)
	assert.Equal(t, 1.15, evt.Result.RequiredInletPressureBar)
}

func TestRequestHandler_RejectsBadPayloads(t *testing.T) {
	bus := &fakeBus{}
	s := newTestService(t, bus)
	h := s.RequestHandler(nil)

	require.NoError(t, h("plan/request/p1", fakeMessage{payload: []byte(`not json`)}))
	require.NoError(t, h("plan/request/p2", fakeMessage{payload: []byte(`{"mode":"continuous","length_m":-1}`)}))

	out := bus.sent()
	require.Len(t, out, 2)
	assert.Equal(t, "plan/result/p1", out[0].topic)
	assert.Equal(t, "plan/result/p2", out[1].topic)

	var rej messages.PlanRejectedEvent
	require.NoError(t, json.Unmarshal(out[1].payload, &rej))
	assert.Equal(t, "p2", rej.ProjectID)
	assert.Contains(t, rej.Error, "length_m")
}

func TestRequestHandler_HugeOutletCountIsRejected(t *testing.T) {
	bus := &fakeBus{}
	s := newTestService(t, bus)
	h := s.RequestHandler(nil)

	msg := fakeMessage{payload: []byte(`{"mode":"planters","length_m":30,"num_outlets":4611686018427387903}`)}
	require.NotPanics(t, func() { require.NoError(t, h("plan/request/p3", msg)) })

	out := bus.sent()
	require.Len(t, out, 1)
	var rej messages.PlanRejectedEvent
	require.NoError(t, json.Unmarshal(out[0].payload, &rej))
	assert.Contains(t, rej.Error, "num_outlets")
}
