package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

const (
	defaultWorkerCount   = 1
	maxWaitSeconds       = 20
	maxReceiveBatchSize  = 10
	deleteTimeoutSeconds = 5
)

type workerConfig struct {
	workers          int
	receiveWaitSecs  int
	receiveBatchSize int
	timeout          time.Duration
}

// WorkerOption customizes worker behavior.
type WorkerOption func(*workerConfig)

// WithWorkerCount sets the number of concurrent consumer goroutines.
func WithWorkerCount(count int) WorkerOption {
	return func(cfg *workerConfig) {
		if count > 0 {
			cfg.workers = count
		}
	}
}

// WithReceiveWaitSeconds sets the SQS long-poll wait duration.
func WithReceiveWaitSeconds(seconds int) WorkerOption {
	return func(cfg *workerConfig) {
		if seconds < 0 {
			return
		}
		if seconds > maxWaitSeconds {
			seconds = maxWaitSeconds
		}
		cfg.receiveWaitSecs = seconds
	}
}

// WithReceiveBatchSize sets how many messages to fetch per poll.
func WithReceiveBatchSize(size int) WorkerOption {
	return func(cfg *workerConfig) {
		if size <= 0 {
			return
		}
		if size > maxReceiveBatchSize {
			size = maxReceiveBatchSize
		}
		cfg.receiveBatchSize = size
	}
}

// WithDeliveryTimeout bounds a single email send.
func WithDeliveryTimeout(timeout time.Duration) WorkerOption {
	return func(cfg *workerConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// jobQueue is the consuming half of the notification queue.
type jobQueue interface {
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// Worker drains queued confirmations and delivers them by email. Jobs whose
// delivery fails are left on the queue so they are redelivered after the
// visibility timeout.
type Worker struct {
	queue    jobQueue
	sender   EmailSender
	observer Observer
	cfg      workerConfig
	logger   *logging.Logger
	wg       sync.WaitGroup
}

// NewWorker creates a confirmation worker.
func NewWorker(queue jobQueue, sender EmailSender, observer Observer, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if queue == nil {
		panic("notify: queue cannot be nil")
	}
	if sender == nil {
		panic("notify: sender cannot be nil")
	}
	cfg := workerConfig{
		workers:          defaultWorkerCount,
		receiveWaitSecs:  maxWaitSeconds,
		receiveBatchSize: maxReceiveBatchSize,
		timeout:          defaultDeliveryTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Worker{
		queue:    queue,
		sender:   sender,
		observer: observer,
		cfg:      cfg,
		logger:   logger.Named("notify.worker"),
	}
}

// Start launches worker goroutines until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.cfg.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i+1)
	}
}

// Wait blocks until all worker goroutines exit.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()
	w.logger.Debug("notify worker started", "worker_id", workerID)

	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("notify worker stopping", "worker_id", workerID)
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, w.cfg.receiveBatchSize, w.cfg.receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			w.logger.Error("failed to receive confirmation jobs", "error", err, "worker_id", workerID)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg queueMessage) {
	var payload queuePayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		w.logger.Error("failed to decode confirmation job", "error", err, "msg_id", msg.ID)
		w.deleteMessage(context.Background(), msg.ReceiptHandle)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, w.cfg.timeout)
	defer cancel()
	err := Deliver(sendCtx, w.sender, payload.Confirmation)
	if w.observer != nil {
		w.observer.ObserveNotification(w.sender.Provider(), err)
	}
	if err != nil {
		w.logger.Error("confirmation delivery failed, leaving job for redelivery",
			"error", err,
			"job_id", payload.ID,
			"appointment_id", payload.Confirmation.AppointmentID,
		)
		return
	}

	w.logger.Info("confirmation delivered", "job_id", payload.ID, "appointment_id", payload.Confirmation.AppointmentID)
	w.deleteMessage(context.Background(), msg.ReceiptHandle)
}

func (w *Worker) deleteMessage(ctx context.Context, receiptHandle string) {
	if receiptHandle == "" {
		return
	}
	deleteCtx, cancel := context.WithTimeout(ctx, deleteTimeoutSeconds*time.Second)
	defer cancel()

	if err := w.queue.Delete(deleteCtx, receiptHandle); err != nil {
		w.logger.Error("failed to delete confirmation job", "error", err)
	}
}
