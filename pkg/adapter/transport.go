package adapter

import "context"

// Transport performs the network call to the hosted inference service.
// It owns authentication, region selection and connection management.
type Transport interface {
	Invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error)
}

// TransportFunc is a function adapter for Transport.
type TransportFunc func(ctx context.Context, modelID string, payload []byte) ([]byte, error)

// Invoke implements Transport.
func (f TransportFunc) Invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error) {
	return f(ctx, modelID, payload)
}

var _ Transport = TransportFunc(nil)
