package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GoArmGo/ProfileApp/internal/logger"
	"github.com/GoArmGo/ProfileApp/internal/messaging/payloads"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ackRecorder struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *ackRecorder) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestHandleDelivery(t *testing.T) {
	body := []byte(`{"id":"e1","type":"user.registered","email":"a@x.io","occurred_at":"2024-05-01T10:00:00Z"}`)

	tests := []struct {
		name        string
		body        []byte
		handlerErr  error
		wantAck     bool
		wantNack    bool
		wantRequeue bool
		wantCalled  bool
	}{
		{name: "processed", body: body, wantAck: true, wantCalled: true},
		{name: "handler failure requeues", body: body, handlerErr: errors.New("disk full"), wantNack: true, wantRequeue: true, wantCalled: true},
		{name: "malformed dropped", body: []byte("{not json"), wantNack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ackRecorder{}
			msg := amqp.Delivery{Acknowledger: rec, Body: tt.body}

			var got payloads.UserEvent
			called := false
			handleDelivery(context.Background(), logger.Discard(), msg, func(_ context.Context, e payloads.UserEvent) error {
				called = true
				got = e
				return tt.handlerErr
			})

			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantAck, rec.acked)
			assert.Equal(t, tt.wantNack, rec.nacked)
			assert.Equal(t, tt.wantRequeue, rec.requeue)
			if tt.wantCalled {
				require.Equal(t, "e1", got.ID)
				assert.Equal(t, payloads.UserRegistered, got.Type)
				assert.Equal(t, "a@x.io", got.Email)
				assert.True(t, got.OccurredAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
			}
		})
	}
}
