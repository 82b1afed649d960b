package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPublisher_RecordsEnvelopes(t *testing.T) {
	p := NewLogPublisher(nil)
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, Envelope{MessageID: "1", RoutingKey: "a", Payload: []byte(`{}`)}))
	require.NoError(t, p.Publish(ctx, Envelope{MessageID: "2", RoutingKey: "b"}))

	sent := p.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "a", sent[0].RoutingKey)
	assert.Equal(t, "2", sent[1].MessageID)

	sent[0].RoutingKey = "mutated"
	assert.Equal(t, "a", p.Sent()[0].RoutingKey)
	assert.NoError(t, p.Close())
}
