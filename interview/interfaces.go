package interview

import (
	"context"
	"time"

	"github.com/vib1247-cyber/Codepulse/domain"
)

// RoomStore is the durable record of interview sessions. Admission
// methods (AddParticipant, ClaimWaitingRoom) must be atomic conditional
// updates: the two-participant cap is enforced at write time, never by
// a read followed by a write.
type RoomStore interface {
	CreateRoom(ctx context.Context, roomId, creatorId, questionId string) (domain.Room, error)
	GetRoomByRoomId(ctx context.Context, roomId string) (domain.Room, error)
	AddParticipant(ctx context.Context, roomId, userId string) (domain.Room, error)
	ClaimWaitingRoom(ctx context.Context, userId string, filters domain.RoomFilters) (domain.Room, error)
	UpdateRoomCode(ctx context.Context, roomId, code, language string) error
	CompleteRoom(ctx context.Context, roomId string) (domain.Room, error)
}

// QuestionSupplier yields questions at room-creation time.
type QuestionSupplier interface {
	RandomQuestion(ctx context.Context, filters domain.RoomFilters) (domain.Question, error)
	GetQuestionById(ctx context.Context, id string) (domain.Question, error)
}

// TokenResolver authenticates realtime handshakes before they reach the
// coordinator.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (domain.User, error)
}

type NetworkSession interface {
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
	Close(reason string)
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}
