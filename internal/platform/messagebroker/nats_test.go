package messagebroker

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNatsClient_PublishWithoutConnection(t *testing.T) {
	c := &NatsClient{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := c.Publish(context.Background(), "phonebook.item.created", []byte("{}"))
	assert.ErrorIs(t, err, ErrNotConnected)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Publish(ctx, "phonebook.item.created", nil), context.Canceled)

	assert.NotPanics(t, c.Close)
}

func TestNewNatsClient_Unreachable(t *testing.T) {
	_, err := NewNatsClient("nats://127.0.0.1:1", "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
