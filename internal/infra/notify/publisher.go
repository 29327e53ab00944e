package notify

import (
	"context"
	"encoding/json"
	"time"

	"karabox/internal/domain/reservation"
	"karabox/internal/pkg/config"
	"karabox/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const confirmedQueue = "reservation.confirmed"

// ConfirmedEvent is the message other services (door controller, analytics)
// consume when a booking lands.
type ConfirmedEvent struct {
	ReservationID string    `json:"reservation_id"`
	BoxID         int       `json:"box_id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	CustomerEmail string    `json:"customer_email"`
	PriceCents    int64     `json:"price_cents"`
}

type EventPublisher interface {
	PublishConfirmed(ctx context.Context, res *reservation.Reservation) error
}

func NewEventPublisher(cfg config.EventsConfig) EventPublisher {
	if cfg.AMQPURL == "" {
		return &unconfiguredPublisher{}
	}
	return &amqpPublisher{url: cfg.AMQPURL}
}

type unconfiguredPublisher struct{}

func (p *unconfiguredPublisher) PublishConfirmed(context.Context, *reservation.Reservation) error {
	return errs.Mark(errs.New("event broker not configured"), errs.ErrDependencyUnavailable)
}

type amqpPublisher struct {
	url string
}

// PublishConfirmed dials per publish. Booking volume is low enough that a
// persistent channel is not worth the reconnect handling; failures are logged
// by the workflow and never interrupt the request.
func (p *amqpPublisher) PublishConfirmed(ctx context.Context, res *reservation.Reservation) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "amqp dial failed"), errs.ErrDependencyUnavailable)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return errs.Wrap(err, "amqp channel open failed")
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(confirmedQueue, true, false, false, false, nil); err != nil {
		return errs.Wrap(err, "amqp queue declare failed")
	}

	rng := res.Range()
	body, err := json.Marshal(ConfirmedEvent{
		ReservationID: res.ID().String(),
		BoxID:         res.BoxID(),
		Start:         rng.Start,
		End:           rng.End,
		CustomerEmail: res.CustomerEmail(),
		PriceCents:    res.PriceCents(),
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode confirmed event")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", confirmedQueue, false, false, pub); err != nil {
		return errs.Wrap(err, "amqp publish failed")
	}
	return nil
}
