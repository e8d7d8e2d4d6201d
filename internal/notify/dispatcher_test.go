package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []EmailMessage
	ctxErrs []error
	err     error
}

func (r *recordingSender) Send(ctx context.Context, msg EmailMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	return r.err
}

func (r *recordingSender) Provider() string { return "recording" }

func (r *recordingSender) messages() []EmailMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmailMessage(nil), r.sent...)
}

type recordingObserver struct {
	mu       sync.Mutex
	provider []string
	errs     []error
}

func (o *recordingObserver) ObserveNotification(provider string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.provider = append(o.provider, provider)
	o.errs = append(o.errs, err)
}

func TestDeliver_RequiresSenderAndRecipient(t *testing.T) {
	err := Deliver(context.Background(), nil, sampleConfirmation())
	assert.Error(t, err)

	c := sampleConfirmation()
	c.PatientEmail = ""
	err = Deliver(context.Background(), &recordingSender{}, c)
	assert.Error(t, err)
}

func TestAsyncDispatcher_SendsDetachedFromCaller(t *testing.T) {
	sender := &recordingSender{}
	observer := &recordingObserver{}
	d := NewAsyncDispatcher(sender, time.Second, observer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, sampleConfirmation())
	cancel()
	d.Wait()

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "asha@example.com", msgs[0].To)
	assert.NoError(t, sender.ctxErrs[0], "send context must not inherit caller cancellation")
	assert.Equal(t, []string{"recording"}, observer.provider)
	assert.Equal(t, []error{nil}, observer.errs)
}

func TestAsyncDispatcher_FailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	observer := &recordingObserver{}
	d := NewAsyncDispatcher(sender, time.Second, observer, nil)

	d.Dispatch(context.Background(), sampleConfirmation())
	d.Wait()

	require.Len(t, observer.errs, 1)
	assert.Error(t, observer.errs[0])
}

func TestAsyncDispatcher_SkipsMissingEmail(t *testing.T) {
	sender := &recordingSender{}
	d := NewAsyncDispatcher(sender, 0, nil, nil)

	c := sampleConfirmation()
	c.PatientEmail = " "
	d.Dispatch(context.Background(), c)
	d.Wait()

	assert.Empty(t, sender.messages())
}

type recordingQueue struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (q *recordingQueue) Send(ctx context.Context, body string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.bodies = append(q.bodies, body)
	return q.err
}

func TestQueueDispatcher_EnqueuesPayload(t *testing.T) {
	queue := &recordingQueue{}
	d := NewQueueDispatcher(queue, time.Second, nil)

	d.Dispatch(context.Background(), sampleConfirmation())

	require.Len(t, queue.bodies, 1)
	var payload queuePayload
	require.NoError(t, json.Unmarshal([]byte(queue.bodies[0]), &payload))
	assert.NotEmpty(t, payload.ID)
	assert.Equal(t, "appt-1", payload.Confirmation.AppointmentID)
	assert.True(t, payload.Confirmation.AppointmentAt.Equal(sampleConfirmation().AppointmentAt))
}

func TestQueueDispatcher_EnqueueErrorIsSwallowed(t *testing.T) {
	queue := &recordingQueue{err: errors.New("queue unavailable")}
	d := NewQueueDispatcher(queue, time.Second, nil)

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), sampleConfirmation())
	})
}

func TestNewQueueDispatcher_PanicsOnNilQueue(t *testing.T) {
	assert.Panics(t, func() { NewQueueDispatcher(nil, 0, nil) })
}
