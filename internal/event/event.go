package event

import (
	"context"
	"time"

	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type Type string

const (
	ShowScheduled    Type = "show.scheduled"
	ShowsRemoved     Type = "shows.removed"
	BookingCreated   Type = "booking.created"
	BookingCancelled Type = "booking.cancelled"
	SeatSwapped      Type = "booking.seat_swapped"
	PaymentRemoved   Type = "payment.removed"
	BookingPurged    Type = "booking.purged"
)

// Event is a notification about a committed state change. Publishing happens
// after commit, so consumers never see an event for rolled back work.
type Event struct {
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	BookingID  int64     `json:"booking_id,omitempty"`
	ShowID     int64     `json:"show_id,omitempty"`
	ShowIDs    []int64   `json:"show_ids,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	SeatLabels []string  `json:"seat_labels,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

const (
	BrokerNone     = "none"
	BrokerRabbitMQ = "rabbitmq"
	BrokerKafka    = "kafka"
)

// New picks the publisher named by cfg.Broker. A broker that cannot be
// reached at startup degrades to the noop publisher.
func New(cfg utils.EventConfig, log *zap.Logger) Publisher {
	switch cfg.Broker {
	case BrokerRabbitMQ:
		p, err := NewAMQPPublisher(cfg.RabbitMQURL, log)
		if err != nil {
			log.Warn("RabbitMQ unavailable, events disabled", zap.Error(err))
			return NewNoopPublisher(log)
		}
		return p
	case BrokerKafka:
		p, err := NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Warn("Kafka unavailable, events disabled", zap.Error(err))
			return NewNoopPublisher(log)
		}
		return p
	case "", BrokerNone:
		return NewNoopPublisher(log)
	default:
		log.Warn("Unknown event broker, events disabled", zap.String("broker", cfg.Broker))
		return NewNoopPublisher(log)
	}
}
