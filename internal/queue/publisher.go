package queue

import (
    "context"
    "encoding/json"
    "errors"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"
)

// Publisher delivers reservation events.  Implementations must be safe for
// concurrent use; a failed publish never affects the caller's outcome.
type Publisher interface {
    Publish(ctx context.Context, ev ReservationEvent) error
    Close() error
}

// NopPublisher drops every event.  It is used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }
func (NopPublisher) Close() error                                    { return nil }

// dialTimeout bounds the broker dial made inside a request.
const dialTimeout = 2 * time.Second

// AMQPPublisher keeps one connection and channel to the broker and
// re-dials lazily after either is closed.
type AMQPPublisher struct {
    url string
    log zerolog.Logger

    mu   sync.Mutex
    conn *amqp.Connection
    ch   *amqp.Channel
}

// NewAMQPPublisher returns a publisher for url.  The first dial happens on
// the first Publish so the service starts even when the broker is down.
func NewAMQPPublisher(url string, log zerolog.Logger) *AMQPPublisher {
    return &AMQPPublisher{url: url, log: log.With().Str("component", "publisher").Logger()}
}

// channel returns an open channel with the queue declared.  Callers hold mu.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() {
        return p.ch, nil
    }
    if p.conn == nil || p.conn.IsClosed() {
        conn, err := amqp.DialConfig(p.url, amqp.Config{Heartbeat: 10 * time.Second, Locale: "en_US", Dial: amqp.DefaultDial(dialTimeout)})
        if err != nil {
            return nil, err
        }
        p.conn = conn
    }
    ch, err := p.conn.Channel()
    if err != nil {
        return nil, err
    }
    if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        return nil, err
    }
    p.ch = ch
    return ch, nil
}

// Publish sends ev as a persistent JSON message to QueueName via the
// default exchange.
func (p *AMQPPublisher) Publish(ctx context.Context, ev ReservationEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    p.mu.Lock()
    defer p.mu.Unlock()
    ch, err := p.channel()
    if err != nil {
        p.log.Warn().Err(err).Str("event", ev.Type).Uint64("reservation_id", ev.ReservationID).Msg("broker unavailable, event dropped")
        return err
    }
    err = ch.PublishWithContext(ctx, "", QueueName, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Type:         ev.Type,
        Body:         body,
    })
    if err != nil {
        p.log.Warn().Err(err).Str("event", ev.Type).Uint64("reservation_id", ev.ReservationID).Msg("publish failed")
    }
    return err
}

// Close closes the channel and connection if open.
func (p *AMQPPublisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    var errs []error
    if p.ch != nil {
        errs = append(errs, ignoreClosed(p.ch.Close()))
    }
    if p.conn != nil {
        errs = append(errs, ignoreClosed(p.conn.Close()))
    }
    p.ch, p.conn = nil, nil
    return errors.Join(errs...)
}

func ignoreClosed(err error) error {
    if errors.Is(err, amqp.ErrClosed) {
        return nil
    }
    return err
}
