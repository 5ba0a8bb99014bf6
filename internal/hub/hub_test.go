package hub

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studio-service/internal/model"
)

type fakeConn struct {
	messages []Message
	failing  bool
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.failing {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, v.(Message))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestBroadcastSkipsOrigin(t *testing.T) {
	h := New(zap.NewNop())
	origin := &fakeConn{}
	other := &fakeConn{}
	room := StudioRoom(1)

	h.Join(room, "origin", origin)
	h.Join(room, "other", other)

	h.Broadcast(room, EventDiscussion, "payload", "origin")

	assert.Empty(t, origin.messages, "originating connection must not receive its own echo")
	require.Len(t, other.messages, 1)
	assert.Equal(t, EventDiscussion, other.messages[0].Event)
}

func TestBroadcastOnlyReachesTheRoom(t *testing.T) {
	h := New(zap.NewNop())
	inRoom := &fakeConn{}
	elsewhere := &fakeConn{}

	h.Join(DiscussionRoom(7), "a", inRoom)
	h.Join(DiscussionRoom(8), "b", elsewhere)

	h.Broadcast(DiscussionRoom(7), EventPost, "payload", "")

	assert.Len(t, inRoom.messages, 1)
	assert.Empty(t, elsewhere.messages)
}

func TestBroadcastDropsUnwritableConnections(t *testing.T) {
	h := New(zap.NewNop())
	broken := &fakeConn{failing: true}
	healthy := &fakeConn{}
	room := StudioRoom(1)

	h.Join(room, "broken", broken)
	h.Join(room, "healthy", healthy)

	h.Broadcast(room, EventDiscussion, "payload", "")

	assert.True(t, broken.closed)
	assert.Equal(t, 1, h.RoomSize(room))
	assert.Len(t, healthy.messages, 1)
}

func TestLeaveAll(t *testing.T) {
	h := New(zap.NewNop())
	conn := &fakeConn{}

	h.Join(StudioRoom(1), "c", conn)
	h.Join(DiscussionRoom(2), "c", conn)
	h.LeaveAll("c")

	assert.Zero(t, h.RoomSize(StudioRoom(1)))
	assert.Zero(t, h.RoomSize(DiscussionRoom(2)))

	h.Broadcast(StudioRoom(1), EventDiscussion, "payload", "")
	assert.Empty(t, conn.messages)
}

// overlapConn flags any two writes that run at the same time.
type overlapConn struct {
	active  int32
	overlap int32
	writes  int32
}

func (c *overlapConn) WriteJSON(v interface{}) error {
	if atomic.AddInt32(&c.active, 1) > 1 {
		atomic.StoreInt32(&c.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.active, -1)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func (c *overlapConn) Close() error { return nil }

func TestSafeConnSerializesConcurrentBroadcasts(t *testing.T) {
	h := New(zap.NewNop())
	raw := &overlapConn{}
	h.Join(StudioRoom(1), "c", NewSafeConn(raw))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Broadcast(StudioRoom(1), EventPost, "payload", "")
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&raw.overlap), "writes must never interleave")
	assert.EqualValues(t, 8, atomic.LoadInt32(&raw.writes))
}

func TestDiscussionChangedTargetsStudioRoom(t *testing.T) {
	h := New(zap.NewNop())
	conn := &fakeConn{}
	h.Join(StudioRoom(42), "c", conn)

	d := &model.Discussion{ID: 5, StudioID: 42, Name: "Practice Notes"}
	h.DiscussionChanged(ActionAdded, d, "")

	require.Len(t, conn.messages, 1)
	assert.Equal(t, EventDiscussion, conn.messages[0].Event)
	payload := conn.messages[0].Data.(discussionPayload)
	assert.Equal(t, ActionAdded, payload.ActionType)
	assert.Equal(t, d, payload.Discussion)
}

func TestPostChangedTargetsDiscussionRoom(t *testing.T) {
	h := New(zap.NewNop())
	conn := &fakeConn{}
	h.Join(DiscussionRoom(5), "c", conn)

	p := &model.Post{ID: 9, DiscussionID: 5, Content: "hello"}
	h.PostChanged(ActionDeleted, p, "")

	require.Len(t, conn.messages, 1)
	payload := conn.messages[0].Data.(postPayload)
	assert.Equal(t, ActionDeleted, payload.ActionType)
	assert.Equal(t, p, payload.Post)
}
