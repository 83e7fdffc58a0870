package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"
)

// LogFile is the audit log the consumer appends to, relative to its dir.
const LogFile = "reservations.log"

// StartConsumer consumes QueueName and appends one line per event to
// dir/reservations.log.  It reconnects with exponential backoff (capped
// at 30s) and returns ctx.Err() once ctx is done.  Malformed messages are
// rejected without requeue; local write failures are requeued.
func StartConsumer(ctx context.Context, url, dir string, log zerolog.Logger) error {
    log = log.With().Str("component", "consumer").Logger()
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Warn().Err(err).Dur("retry_in", backoff).Msg("dial broker failed")
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            backoff = min(backoff*2, 30*time.Second)
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, dir, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn().Err(err).Msg("consume loop ended, reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, dir string, log zerolog.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn().Err(err).Msg("set QoS failed")
    }
    if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            settle(ctx, d, handleMessage(dir, d.Body), log)
        }
    }
}

// ErrMalformed marks a payload that can never be handled.
var ErrMalformed = errors.New("malformed event")

// retryDelay is waited before requeueing a delivery that failed locally.
var retryDelay = time.Second

// settle acks d on success.  Malformed payloads are dropped; anything else
// (the log file is unwritable) is requeued after retryDelay.
func settle(ctx context.Context, d amqp.Delivery, err error, log zerolog.Logger) {
    switch {
    case err == nil:
        _ = d.Ack(false)
    case errors.Is(err, ErrMalformed):
        log.Error().Err(err).Msg("dropping malformed message")
        _ = d.Nack(false, false)
    default:
        log.Warn().Err(err).Dur("retry_in", retryDelay).Msg("handle message failed, requeueing")
        sleep(ctx, retryDelay)
        _ = d.Nack(false, true)
    }
}

func handleMessage(dir string, body []byte) error {
    var ev ReservationEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("%w: %w", ErrMalformed, err)
    }
    if ev.Type == "" || ev.ReservationID == 0 {
        return fmt.Errorf("%w: missing type or reservation id", ErrMalformed)
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(formatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// formatLine renders ev as a single human-readable line.
func formatLine(ev ReservationEvent) string {
    var b strings.Builder
    fmt.Fprintf(&b, "[%s] %s | domain=%s | reservation_id=%d | student_id=%s | status=%s",
        ev.OccurredAt, ev.Type, ev.Domain, ev.ReservationID, ev.StudentID, ev.Status)
    switch ev.Domain {
    case DomainCafeteria:
        fmt.Fprintf(&b, " | date=%s | meal_type_id=%d", ev.Date, ev.MealTypeID)
    case DomainSports:
        fmt.Fprintf(&b, " | facility_id=%d | start=%s | end=%s", ev.FacilityID, ev.StartTime, ev.EndTime)
    }
    b.WriteByte('\n')
    return b.String()
}
