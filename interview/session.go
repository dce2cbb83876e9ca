package interview

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/vib1247-cyber/Codepulse/domain"
)

// Session is one live authenticated connection. The user identity is
// bound at handshake time by the gateway; handlers never trust a
// client-supplied userId.
type Session struct {
	id     string
	user   domain.User
	socket NetworkSession

	send     chan []byte
	pingChan chan struct{}
	limiter  *rate.Limiter

	closeOnce sync.Once
	done      chan struct{}

	coordinator *Coordinator
}

func NewSession(user domain.User, socket NetworkSession, coordinator *Coordinator) *Session {
	return &Session{
		id:          uuid.NewString(),
		user:        user,
		socket:      socket,
		send:        make(chan []byte, 256),
		pingChan:    make(chan struct{}, 1),
		limiter:     rate.NewLimiter(rate.Limit(20), 40),
		done:        make(chan struct{}),
		coordinator: coordinator,
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) UserId() string {
	return s.user.Id
}

// Enqueue hands a frame to the write pump without blocking. Frames to a
// session whose buffer is full are dropped; a receiver that slow is on
// its way to being reaped by the heartbeat anyway.
func (s *Session) Enqueue(data []byte) {
	select {
	case s.send <- data:
	default:
		log.Warn().Str("socket_id", s.id).Msg("send buffer full, dropping frame")
	}
}

func (s *Session) RequestPing() {
	select {
	case s.pingChan <- struct{}{}:
	default:
	}
}

func (s *Session) close(reason string) {
	s.closeOnce.Do(func() {
		close(s.done)
		s.socket.Close(reason)
	})
}

// ReadPump decodes inbound frames and hands them to the coordinator's
// dispatch table. Returning (for any reason) detaches the session:
// explicit close, network error and heartbeat timeout all funnel
// through the same cleanup.
func (s *Session) ReadPump() {
	defer func() {
		s.coordinator.Detach(s)
		s.close("")
	}()

	for {
		data, err := s.socket.Read()
		if err != nil {
			return
		}

		if !s.limiter.Allow() {
			log.Warn().Str("socket_id", s.id).Str("user_id", s.user.Id).Msg("rate limit exceeded, dropping message")
			continue
		}

		s.coordinator.Dispatch(context.Background(), s, data)
	}
}

func (s *Session) WritePump() {
	for {
		select {
		case data := <-s.send:
			if err := s.socket.Write(data); err != nil {
				s.close("")
				return
			}
		case <-s.pingChan:
			if err := s.socket.Ping(); err != nil {
				s.close("")
				return
			}
		case <-s.done:
			return
		}
	}
}
