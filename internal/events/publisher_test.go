package events

import (
	"context"
	"errors"
	"testing"

	"github.com/gsousaaa/ecommerce-aws/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTransport struct {
	targets  []string
	payloads []interface{}
	err      error
}

func (f *fakeTransport) InvokeAsync(_ context.Context, target string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}

	f.targets = append(f.targets, target)
	f.payloads = append(f.payloads, payload)

	return nil
}

func TestPublisher_PublishHandsEventToTransport(t *testing.T) {
	transport := &fakeTransport{}
	pub := NewPublisher(transport, "product-events", zap.NewNop())

	event := sampleEvent()
	require.NoError(t, pub.Publish(context.Background(), event))

	require.Equal(t, []string{"product-events"}, transport.targets)
	require.Len(t, transport.payloads, 1)
	require.Equal(t, event, transport.payloads[0].(*domain.ProductEvent))
}

func TestPublisher_PublishSurfacesTransportError(t *testing.T) {
	transport := &fakeTransport{err: errors.New("broker unreachable")}
	pub := NewPublisher(transport, "product-events", zap.NewNop())

	err := pub.Publish(context.Background(), sampleEvent())
	require.ErrorContains(t, err, "broker unreachable")
}

func TestPublisher_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	transport := &fakeTransport{err: errors.New("broker unreachable")}
	pub := NewPublisher(transport, "product-events", zap.NewNop())

	for i := 0; i < 5; i++ {
		require.Error(t, pub.Publish(context.Background(), sampleEvent()))
	}

	// Once open, the transport is no longer reached even if it recovers.
	transport.err = nil
	require.Error(t, pub.Publish(context.Background(), sampleEvent()))
	require.Empty(t, transport.targets)
}
