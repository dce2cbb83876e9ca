package interview

import (
	"context"
	"errors"

	"github.com/vib1247-cyber/Codepulse/domain"
)

// Matchmaker pairs users into waiting rooms or creates new ones. All
// admission goes through the store's atomic primitives, shared with the
// realtime path, so the two-participant cap holds across both channels.
type Matchmaker struct {
	store     RoomStore
	questions QuestionSupplier
	newRoomId func() string
}

func NewMatchmaker(store RoomStore, questions QuestionSupplier) *Matchmaker {
	return &Matchmaker{
		store:     store,
		questions: questions,
		newRoomId: NewRoomId,
	}
}

// FindOrCreateRoom claims the oldest waiting room matching the filters,
// or creates a fresh one around a supplied question when none exists.
func (m *Matchmaker) FindOrCreateRoom(ctx context.Context, userId string, filters domain.RoomFilters) (domain.Room, error) {
	room, err := m.store.ClaimWaitingRoom(ctx, userId, filters)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, domain.ErrRoomNotFound) {
		return domain.Room{}, err
	}

	question, err := m.questions.RandomQuestion(ctx, filters)
	if err != nil {
		return domain.Room{}, err
	}

	return m.store.CreateRoom(ctx, m.newRoomId(), userId, question.Id)
}

// JoinRoom admits userId into a known room. Idempotent for users
// already admitted; ErrRoomNotFound / ErrRoomFull otherwise.
func (m *Matchmaker) JoinRoom(ctx context.Context, roomId, userId string) (domain.Room, error) {
	return m.store.AddParticipant(ctx, roomId, userId)
}

// CreateRoom creates a new waiting room for userId. When questionId is
// empty a random question is assigned.
func (m *Matchmaker) CreateRoom(ctx context.Context, userId, questionId string) (domain.Room, error) {
	var question domain.Question
	var err error

	if questionId == "" {
		question, err = m.questions.RandomQuestion(ctx, domain.RoomFilters{})
	} else {
		question, err = m.questions.GetQuestionById(ctx, questionId)
	}
	if err != nil {
		return domain.Room{}, err
	}

	return m.store.CreateRoom(ctx, m.newRoomId(), userId, question.Id)
}

// GetRoom returns a room to one of its participants.
func (m *Matchmaker) GetRoom(ctx context.Context, roomId, userId string) (domain.Room, error) {
	room, err := m.store.GetRoomByRoomId(ctx, roomId)
	if err != nil {
		return domain.Room{}, err
	}
	if !room.IsParticipant(userId) {
		return domain.Room{}, domain.ErrNotParticipant
	}
	return room, nil
}

// CompleteRoom ends a session explicitly. Leaving the realtime channel
// never completes a room; only this does.
func (m *Matchmaker) CompleteRoom(ctx context.Context, roomId, userId string) (domain.Room, error) {
	room, err := m.store.GetRoomByRoomId(ctx, roomId)
	if err != nil {
		return domain.Room{}, err
	}
	if !room.IsParticipant(userId) {
		return domain.Room{}, domain.ErrNotParticipant
	}
	return m.store.CompleteRoom(ctx, roomId)
}
