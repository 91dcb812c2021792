package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cinema-ticketing/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleEvent() Event {
	return Event{
		Type:       BookingCreated,
		OccurredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		BookingID:  7,
		ShowID:     3,
		UserID:     2,
		Status:     "Pending",
		SeatLabels: []string{"A01", "A02"},
	}
}

func TestNew_FallsBackToNoop(t *testing.T) {
	log := zap.NewNop()

	tests := []struct {
		name string
		cfg  utils.EventConfig
	}{
		{"none", utils.EventConfig{Broker: BrokerNone}},
		{"empty", utils.EventConfig{}},
		{"unknown", utils.EventConfig{Broker: "carrier-pigeon"}},
		{"rabbitmq without url", utils.EventConfig{Broker: BrokerRabbitMQ}},
		{"kafka without brokers", utils.EventConfig{Broker: BrokerKafka, KafkaTopic: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg, log)
			_, ok := p.(*noopPublisher)
			assert.True(t, ok)
			assert.NoError(t, p.Publish(context.Background(), sampleEvent()))
			assert.NoError(t, p.Close())
		})
	}
}

func TestBuildPublishing(t *testing.T) {
	msg, err := buildPublishing(sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "booking.created", msg.Type)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, sampleEvent(), decoded)
}

func TestBuildMessage_KeyedByShow(t *testing.T) {
	msg, err := buildMessage(sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "3", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, "booking.created", string(msg.Headers[0].Value))
}

func TestBuildMessage_FallsBackToBookingKey(t *testing.T) {
	e := sampleEvent()
	e.ShowID = 0

	msg, err := buildMessage(e)
	require.NoError(t, err)
	assert.Equal(t, "7", string(msg.Key))
}

func TestEvent_OmitsEmptyFields(t *testing.T) {
	body, err := json.Marshal(Event{Type: ShowsRemoved, ShowIDs: []int64{1, 2}})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.NotContains(t, fields, "booking_id")
	assert.NotContains(t, fields, "seat_labels")
	assert.Equal(t, "shows.removed", fields["type"])
}
