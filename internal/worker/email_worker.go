package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/venky2821/finalproject/internal/infra"
	"github.com/venky2821/finalproject/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const emailMaxAttempts = 3

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Sender delivers one message. *infra.Mailer satisfies it.
type Sender interface {
	Send(msg infra.Message) error
}

// EmailWorker delivers queued emails. Each job gets a few attempts with
// exponential backoff, all through the SMTP circuit breaker; jobs that still
// fail are parked in the dead letter queue.
type EmailWorker struct {
	sender  Sender
	cb      *infra.CircuitBreaker
	rdb     *redis.Client
	metrics *metrics.AppMetrics
	backoff time.Duration
}

func NewEmailWorker(sender Sender, cb *infra.CircuitBreaker, rdb *redis.Client, m *metrics.AppMetrics) *EmailWorker {
	return &EmailWorker{sender: sender, cb: cb, rdb: rdb, metrics: m, backoff: time.Second}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if len(payload.To) == 0 {
		log.Warn().Str("subject", payload.Subject).Msg("email_worker: no recipients, skipping")
		return
	}

	msg := infra.Message{To: payload.To, Subject: payload.Subject, Body: payload.Body}
	err := withRetry(ctx, emailMaxAttempts, w.backoff, func(attempt int) error {
		return w.cb.Execute(func() error { return w.sender.Send(msg) })
	})
	if err != nil {
		w.metrics.RecordEmail(ctx, false)
		log.Error().Err(err).Strs("to", payload.To).Str("subject", payload.Subject).
			Msg("email_worker: delivery failed")
		SendToDLQ(ctx, w.rdb, QueueEmail, jobTypeEmail, raw,
			fmt.Sprintf("max attempts (%d) exceeded: %s", emailMaxAttempts, err), emailMaxAttempts)
		return
	}
	w.metrics.RecordEmail(ctx, true)
	log.Info().Strs("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: sent")
}

// withRetry calls fn up to maxAttempts times, waiting base, 2*base, 4*base …
// between attempts.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := base * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
