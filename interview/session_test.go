package interview

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vib1247-cyber/Codepulse/domain"
)

func TestWritePumpFlushesAndStops(t *testing.T) {
	c, _ := newTestCoordinator()
	socket := new(MockNetworkSession)
	s := NewSession(domain.User{Id: "alice"}, socket, c)

	written := make(chan []byte, 1)
	socket.On("Write", mock.Anything).Run(func(args mock.Arguments) {
		written <- args.Get(0).([]byte)
	}).Return(nil).Once()
	socket.On("Close", mock.Anything).Return().Once()

	go s.WritePump()

	s.Enqueue([]byte(`{"type":"heartbeat"}`))
	select {
	case data := <-written:
		assert.JSONEq(t, `{"type":"heartbeat"}`, string(data))
	case <-time.After(time.Second):
		t.Fatal("frame never reached the socket")
	}

	s.close("")
	socket.AssertExpectations(t)
}

func TestWritePumpClosesOnWriteFailure(t *testing.T) {
	c, _ := newTestCoordinator()
	socket := new(MockNetworkSession)
	s := NewSession(domain.User{Id: "alice"}, socket, c)

	socket.On("Write", mock.Anything).Return(errors.New("broken pipe")).Once()
	closed := make(chan struct{})
	socket.On("Close", mock.Anything).Run(func(mock.Arguments) {
		close(closed)
	}).Return().Once()

	go s.WritePump()
	s.Enqueue([]byte(`{}`))

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("write failure did not close the session")
	}
}

func TestReadPumpDetachesOnError(t *testing.T) {
	c, store := newTestCoordinator()
	room := domain.Room{RoomId: "room-1", Participants: []string{"alice", "bob"}}

	alice := attach(t, c, "alice")
	joinRoom(t, c, store, alice, room)

	socket := new(MockNetworkSession)
	bob := NewSession(domain.User{Id: "bob"}, socket, c)
	c.Attach(bob)
	nextFrame(t, bob) // connection greeting
	joinRoom(t, c, store, bob, room)
	nextFrame(t, alice) // user_joined for bob

	// One frame in, then the connection dies.
	socket.On("Read").Return([]byte(`{"type":"ping"}`), nil).Once()
	socket.On("Read").Return([]byte(nil), errors.New("connection reset")).Once()
	socket.On("Close", mock.Anything).Return().Once()

	bob.ReadPump()

	frame := nextFrame(t, bob)
	require.Equal(t, MsgPong, frame["type"])

	frame = nextFrame(t, alice)
	assert.Equal(t, MsgUserLeft, frame["type"])
	assert.Equal(t, "bob", frame["userId"])
	assert.Equal(t, 1, c.ClientCount())
	socket.AssertExpectations(t)
}
