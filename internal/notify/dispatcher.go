package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

const defaultDeliveryTimeout = 10 * time.Second

// Dispatcher hands a confirmation off for delivery. Dispatch never reports
// failure to the caller: a booking is not undone because an email bounced.
type Dispatcher interface {
	Dispatch(ctx context.Context, c Confirmation)
}

// Observer receives delivery outcomes (satisfied by the Prometheus metrics).
type Observer interface {
	ObserveNotification(provider string, err error)
}

// Deliver renders and sends a confirmation synchronously.
func Deliver(ctx context.Context, sender EmailSender, c Confirmation) error {
	if sender == nil {
		return fmt.Errorf("notify: no email sender configured")
	}
	if strings.TrimSpace(c.PatientEmail) == "" {
		return fmt.Errorf("notify: confirmation %s has no recipient", c.AppointmentID)
	}
	return sender.Send(ctx, BuildConfirmationEmail(c))
}

// AsyncDispatcher sends confirmations on a background goroutine with a
// bounded, cancellation-detached context.
type AsyncDispatcher struct {
	sender   EmailSender
	timeout  time.Duration
	observer Observer
	logger   *logging.Logger
	wg       sync.WaitGroup
}

// NewAsyncDispatcher builds a fire-and-forget dispatcher.
func NewAsyncDispatcher(sender EmailSender, timeout time.Duration, observer Observer, logger *logging.Logger) *AsyncDispatcher {
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	return &AsyncDispatcher{
		sender:   sender,
		timeout:  timeout,
		observer: observer,
		logger:   logger.Named("notify.async"),
	}
}

// Dispatch starts delivery and returns immediately.
func (d *AsyncDispatcher) Dispatch(ctx context.Context, c Confirmation) {
	if strings.TrimSpace(c.PatientEmail) == "" {
		d.logger.Warn("skipping confirmation: patient email unknown", "appointment_id", c.AppointmentID)
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		err := Deliver(sendCtx, d.sender, c)
		if d.observer != nil {
			d.observer.ObserveNotification(providerName(d.sender), err)
		}
		if err != nil {
			d.logger.Error("appointment confirmation failed", "error", err, "appointment_id", c.AppointmentID)
			return
		}
		d.logger.Info("appointment confirmation sent", "appointment_id", c.AppointmentID)
	}()
}

// Wait blocks until in-flight deliveries finish. Used on shutdown and in tests.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}

// queueSender is the enqueue half of the notification queue.
type queueSender interface {
	Send(ctx context.Context, body string) error
}

// queuePayload is the JSON envelope placed on the queue.
type queuePayload struct {
	ID           string       `json:"id"`
	Confirmation Confirmation `json:"confirmation"`
	EnqueuedAt   time.Time    `json:"enqueued_at"`
}

// QueueDispatcher publishes confirmations to a queue drained by Worker.
type QueueDispatcher struct {
	queue   queueSender
	timeout time.Duration
	logger  *logging.Logger
}

// NewQueueDispatcher wraps a queue sender.
func NewQueueDispatcher(queue queueSender, timeout time.Duration, logger *logging.Logger) *QueueDispatcher {
	if queue == nil {
		panic("notify: queue cannot be nil")
	}
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	return &QueueDispatcher{queue: queue, timeout: timeout, logger: logger.Named("notify.queue")}
}

// Dispatch enqueues the confirmation; enqueue failures are logged only.
func (d *QueueDispatcher) Dispatch(ctx context.Context, c Confirmation) {
	if strings.TrimSpace(c.PatientEmail) == "" {
		d.logger.Warn("skipping confirmation: patient email unknown", "appointment_id", c.AppointmentID)
		return
	}
	body, err := json.Marshal(queuePayload{ID: uuid.NewString(), Confirmation: c, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		d.logger.Error("failed to encode confirmation", "error", err, "appointment_id", c.AppointmentID)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()
	if err := d.queue.Send(sendCtx, string(body)); err != nil {
		d.logger.Error("failed to enqueue confirmation", "error", err, "appointment_id", c.AppointmentID)
		return
	}
	d.logger.Info("appointment confirmation queued", "appointment_id", c.AppointmentID)
}

func providerName(sender EmailSender) string {
	if sender == nil {
		return "none"
	}
	return sender.Provider()
}

var (
	_ Dispatcher = (*AsyncDispatcher)(nil)
	_ Dispatcher = (*QueueDispatcher)(nil)
)
