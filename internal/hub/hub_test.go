package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages [][]byte
	err      error
}

func (w *fakeWriter) WriteMessage(messageType int, data []byte) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, data)
	return nil
}

func testConn(w *fakeWriter) *Conn {
	return NewConn(w)
}

func TestBroadcastReachesAllStreamSubscribers(t *testing.T) {
	h := New(zap.NewNop())
	a, b := &fakeWriter{}, &fakeWriter{}
	other := &fakeWriter{}

	h.Register(StreamMessages, testConn(a))
	h.Register(StreamMessages, testConn(b))
	h.Register(StreamSettings, testConn(other))

	h.Broadcast(StreamMessages, Event{Type: EventMessageCreated, Data: map[string]string{"id": "m1"}})

	require.Len(t, a.messages, 1)
	require.Len(t, b.messages, 1)
	assert.Empty(t, other.messages, "settings subscribers must not see message events")

	var evt Event
	require.NoError(t, json.Unmarshal(a.messages[0], &evt))
	assert.Equal(t, EventMessageCreated, evt.Type)
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := New(zap.NewNop())
	w := &fakeWriter{}
	conn := testConn(w)

	h.Register(StreamMessages, conn)
	h.Unregister(StreamMessages, conn)
	h.Broadcast(StreamMessages, Event{Type: EventMessagesCleared})

	assert.Empty(t, w.messages)
	assert.Zero(t, h.Subscribers(StreamMessages))
}

func TestLikesStreamsAreScopedPerIdentity(t *testing.T) {
	h := New(zap.NewNop())
	u1, u2 := &fakeWriter{}, &fakeWriter{}

	h.Register(LikesStream("visitor-1"), testConn(u1))
	h.Register(LikesStream("visitor-2"), testConn(u2))

	h.Broadcast(LikesStream("visitor-1"), Event{Type: EventMessageLiked})

	assert.Len(t, u1.messages, 1)
	assert.Empty(t, u2.messages)
}

func TestBroadcastSurvivesWriteErrors(t *testing.T) {
	h := New(zap.NewNop())
	dead := &fakeWriter{err: assert.AnError}
	alive := &fakeWriter{}

	h.Register(StreamMessages, testConn(dead))
	h.Register(StreamMessages, testConn(alive))

	h.Broadcast(StreamMessages, Event{Type: EventMessageDeleted})

	assert.Len(t, alive.messages, 1)
}

func TestBroadcastToEmptyStreamIsNoop(t *testing.T) {
	h := New(zap.NewNop())
	h.Broadcast(StreamMessages, Event{Type: EventMessagesCleared})
	assert.Zero(t, h.Subscribers(StreamMessages))
}
