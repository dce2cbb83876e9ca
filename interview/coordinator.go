package interview

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const HeartbeatInterval = time.Second * 30

// Coordinator mediates all realtime traffic for active rooms. It owns
// the ephemeral connection-to-room membership maps; nothing here is
// persisted, and a process restart drops every live membership while
// the Room records survive in the store.
//
// Each inbound message type maps to one handler through the dispatch
// table built in NewCoordinator. Handlers always act on the session's
// authenticated identity.
type Coordinator struct {
	store         RoomStore
	tickerCreator PeriodicTickerChannelCreator

	mu       sync.RWMutex
	sessions map[string]*Session            // socketId -> every open connection
	memberOf map[string]string              // socketId -> joined roomId
	rooms    map[string]map[string]*Session // roomId -> joined sessions

	handlers map[string]func(ctx context.Context, s *Session, msg clientMessage)
}

func NewCoordinator(store RoomStore, tickerCreator PeriodicTickerChannelCreator) *Coordinator {
	c := &Coordinator{
		store:         store,
		tickerCreator: tickerCreator,
		sessions:      make(map[string]*Session),
		memberOf:      make(map[string]string),
		rooms:         make(map[string]map[string]*Session),
	}
	c.handlers = map[string]func(ctx context.Context, s *Session, msg clientMessage){
		MsgJoinRoom:        c.handleJoin,
		MsgCodeUpdate:      c.handleCodeUpdate,
		MsgWebRTCOffer:     c.handleSignal,
		MsgWebRTCAnswer:    c.handleSignal,
		MsgWebRTCCandidate: c.handleSignal,
		MsgPing:            c.handlePing,
	}
	return c
}

// Run drives the heartbeat until stop closes. Connections that stop
// answering the pings sent here run into their read deadline and clean
// up through Session.ReadPump like any other disconnect.
func (c *Coordinator) Run(stop <-chan struct{}) {
	ticker := c.tickerCreator.Create(HeartbeatInterval)

	for {
		select {
		case <-ticker:
			c.heartbeat()
		case <-stop:
			return
		}
	}
}

func (c *Coordinator) heartbeat() {
	c.mu.RLock()
	targets := make([]*Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		targets = append(targets, s)
	}
	c.mu.RUnlock()

	frame := mustMarshal(heartbeatMessage{
		Type:        MsgHeartbeat,
		Timestamp:   nowTimestamp(),
		ClientCount: len(targets),
	})

	for _, s := range targets {
		s.RequestPing()
		s.Enqueue(frame)
	}
}

// Attach registers a freshly authenticated connection and tells it who
// it is on this channel.
func (c *Coordinator) Attach(s *Session) {
	c.mu.Lock()
	c.sessions[s.id] = s
	c.mu.Unlock()

	log.Info().Str("socket_id", s.id).Str("user_id", s.user.Id).Msg("connection attached")

	s.Enqueue(mustMarshal(connectionMessage{
		Type:      MsgConnection,
		Status:    "connected",
		UserId:    s.user.Id,
		SocketId:  s.id,
		Timestamp: nowTimestamp(),
	}))
}

// Detach removes a connection entirely: its room membership first, then
// its registration. Called from the read pump on any disconnect.
func (c *Coordinator) Detach(s *Session) {
	c.Leave(s)

	c.mu.Lock()
	delete(c.sessions, s.id)
	c.mu.Unlock()

	log.Info().Str("socket_id", s.id).Str("user_id", s.user.Id).Msg("connection detached")
}

// Dispatch decodes a frame and routes it through the handler table.
func (c *Coordinator) Dispatch(ctx context.Context, s *Session, data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.Enqueue(newErrorMessage("invalid message format"))
		return
	}

	handler, ok := c.handlers[msg.Type]
	if !ok {
		s.Enqueue(newErrorMessage("unknown message type"))
		return
	}

	handler(ctx, s, msg)
}

// handleJoin validates the join against the Room Store, registers the
// membership, notifies the other members and replies with the current
// code snapshot so late joiners see live state.
func (c *Coordinator) handleJoin(ctx context.Context, s *Session, msg clientMessage) {
	room, err := c.store.GetRoomByRoomId(ctx, msg.RoomId)
	if err != nil {
		s.Enqueue(newErrorMessage("room not found"))
		return
	}

	// Membership is checked against the authenticated identity; the
	// failure is reported to this connection only, never broadcast.
	if !room.IsParticipant(s.user.Id) {
		log.Warn().
			Str("socket_id", s.id).
			Str("user_id", s.user.Id).
			Str("room_id", msg.RoomId).
			Msg("join refused, not a participant")
		s.Enqueue(newErrorMessage("not a participant of this room"))
		return
	}

	joined := mustMarshal(presenceMessage{
		Type:     MsgUserJoined,
		UserId:   s.user.Id,
		SocketId: s.id,
	})

	c.mu.Lock()
	// A connection lives in at most one room; joining another one
	// implicitly leaves the first.
	prev, wasMember := c.memberOf[s.id]
	if wasMember && prev != room.RoomId {
		c.leaveLocked(s, prev)
	}
	members, ok := c.rooms[room.RoomId]
	if !ok {
		members = make(map[string]*Session)
		c.rooms[room.RoomId] = members
	}
	members[s.id] = s
	c.memberOf[s.id] = room.RoomId
	// A rejoin of the current room only refreshes the snapshot; the
	// others already saw this user arrive.
	if !wasMember || prev != room.RoomId {
		for id, member := range members {
			if id == s.id {
				continue
			}
			member.Enqueue(joined)
		}
	}
	// Enqueued under the lock so no concurrently accepted code_update
	// can reach the joiner ahead of the snapshot it postdates.
	s.Enqueue(mustMarshal(codeUpdateMessage{
		Type:     MsgCodeUpdate,
		Code:     room.Code,
		Language: room.Language,
	}))
	c.mu.Unlock()

	log.Info().Str("socket_id", s.id).Str("user_id", s.user.Id).Str("room_id", room.RoomId).Msg("joined room")
}

// handleCodeUpdate persists the shared buffer and fans the update out to
// every other member. Updates from connections that never joined the
// room are dropped without a reply: an unauthorized caller learns
// nothing about the room, and no attacker-supplied state reaches the
// participants.
func (c *Coordinator) handleCodeUpdate(ctx context.Context, s *Session, msg clientMessage) {
	c.mu.RLock()
	roomId, joined := c.memberOf[s.id]
	c.mu.RUnlock()

	if !joined || roomId != msg.RoomId {
		log.Warn().
			Str("socket_id", s.id).
			Str("user_id", s.user.Id).
			Str("room_id", msg.RoomId).
			Msg("code update from non-member dropped")
		return
	}

	// The live broadcast is the source of truth for liveness; the store
	// is eventual. A failed write is logged and the fan-out proceeds.
	if err := c.store.UpdateRoomCode(ctx, roomId, msg.Code, msg.Language); err != nil {
		log.Error().Err(err).Str("room_id", roomId).Msg("failed to persist code update")
	}

	// The frame mirrors the write: an omitted language leaves the stored
	// language unchanged, so receivers keep theirs unchanged too.
	frame := mustMarshal(codeUpdateMessage{
		Type:     MsgCodeUpdate,
		Code:     msg.Code,
		Language: msg.Language,
	})

	// Enqueueing under the write lock keeps accepted updates in one
	// order for every receiver. The sender is never echoed.
	c.mu.Lock()
	for id, member := range c.rooms[roomId] {
		if id == s.id {
			continue
		}
		member.Enqueue(frame)
	}
	c.mu.Unlock()
}

// handleSignal forwards WebRTC negotiation metadata verbatim to the
// addressed connection, tagged with the sender. Best-effort: a missing
// recipient drops the message silently.
func (c *Coordinator) handleSignal(_ context.Context, s *Session, msg clientMessage) {
	c.mu.RLock()
	recipient, ok := c.sessions[msg.To]
	c.mu.RUnlock()

	if !ok {
		log.Debug().Str("socket_id", s.id).Str("to", msg.To).Str("kind", msg.Type).Msg("signal recipient gone, dropped")
		return
	}

	recipient.Enqueue(mustMarshal(signalMessage{
		Type:      msg.Type,
		From:      s.id,
		Offer:     msg.Offer,
		Answer:    msg.Answer,
		Candidate: msg.Candidate,
	}))
}

func (c *Coordinator) handlePing(_ context.Context, s *Session, msg clientMessage) {
	s.Enqueue(mustMarshal(pongMessage{
		Type:       MsgPong,
		Timestamp:  msg.Timestamp,
		ServerTime: nowTimestamp(),
	}))
}

// Leave removes the connection from its room, notifying whoever stays.
// The persisted Room record is untouched: leaving the realtime channel
// is not a lifecycle action.
func (c *Coordinator) Leave(s *Session) {
	c.mu.Lock()
	roomId, ok := c.memberOf[s.id]
	if ok {
		c.leaveLocked(s, roomId)
	}
	c.mu.Unlock()
}

func (c *Coordinator) leaveLocked(s *Session, roomId string) {
	delete(c.memberOf, s.id)

	members, ok := c.rooms[roomId]
	if !ok {
		return
	}
	delete(members, s.id)
	if len(members) == 0 {
		delete(c.rooms, roomId)
		return
	}

	left := mustMarshal(presenceMessage{
		Type:     MsgUserLeft,
		UserId:   s.user.Id,
		SocketId: s.id,
	})
	for _, member := range members {
		member.Enqueue(left)
	}
}

// ClientCount reports how many connections are currently attached.
func (c *Coordinator) ClientCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}
