package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abgdnv/productboard/pkg/messaging"
	"github.com/abgdnv/productboard/pkg/messaging/events"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	subject string
	payload []byte
	err     error
}

func (f *fakeStream) Publish(_ context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	f.subject = subject
	f.payload = payload
	if f.err != nil {
		return nil, f.err
	}
	return &jetstream.PubAck{Stream: "PRODUCTS", Sequence: 1}, nil
}

func Test_NatsPublisher_Publish(t *testing.T) {
	// given
	stream := &fakeStream{}
	publisher := NewNatsPublisher(stream)
	event := events.ProductCreatedEvent{ProductID: 7, Name: "Widget", Price: "9.99", CreatedAt: time.Unix(0, 0).UTC()}
	// when
	err := publisher.Publish(context.Background(), event)
	// then
	require.NoError(t, err)
	assert.Equal(t, messaging.ProductsCreatedSubject, stream.subject)
	var decoded events.ProductCreatedEvent
	require.NoError(t, json.Unmarshal(stream.payload, &decoded))
	assert.Equal(t, event, decoded)
}

func Test_NatsPublisher_PublishError(t *testing.T) {
	brokerDown := errors.New("no responders")
	publisher := NewNatsPublisher(&fakeStream{err: brokerDown})

	err := publisher.Publish(context.Background(), events.ProductDeletedEvent{ProductID: 1})

	assert.ErrorIs(t, err, brokerDown)
}
