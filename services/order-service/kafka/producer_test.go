package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishKeysByOrder(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "order.created", log: zap.NewNop()}

	require.NoError(t, p.Publish(context.Background(), "order-1", map[string]string{"orderId": "order-1"}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order-1", string(w.msgs[0].Key))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &body))
	assert.Equal(t, "order-1", body["orderId"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishWrapsWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &Producer{writer: w, topic: "order.created", log: zap.NewNop()}

	err := p.Publish(context.Background(), "k", struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order.created")
}
