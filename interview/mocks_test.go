package interview

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vib1247-cyber/Codepulse/domain"
)

// --- RoomStore ---

type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) CreateRoom(ctx context.Context, roomId, creatorId, questionId string) (domain.Room, error) {
	args := m.Called(ctx, roomId, creatorId, questionId)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomStore) GetRoomByRoomId(ctx context.Context, roomId string) (domain.Room, error) {
	args := m.Called(ctx, roomId)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomStore) AddParticipant(ctx context.Context, roomId, userId string) (domain.Room, error) {
	args := m.Called(ctx, roomId, userId)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomStore) ClaimWaitingRoom(ctx context.Context, userId string, filters domain.RoomFilters) (domain.Room, error) {
	args := m.Called(ctx, userId, filters)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomStore) UpdateRoomCode(ctx context.Context, roomId, code, language string) error {
	args := m.Called(ctx, roomId, code, language)
	return args.Error(0)
}

func (m *MockRoomStore) CompleteRoom(ctx context.Context, roomId string) (domain.Room, error) {
	args := m.Called(ctx, roomId)
	return args.Get(0).(domain.Room), args.Error(1)
}

// --- QuestionSupplier ---

type MockQuestionSupplier struct {
	mock.Mock
}

func (m *MockQuestionSupplier) RandomQuestion(ctx context.Context, filters domain.RoomFilters) (domain.Question, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(domain.Question), args.Error(1)
}

func (m *MockQuestionSupplier) GetQuestionById(ctx context.Context, id string) (domain.Question, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Question), args.Error(1)
}

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockNetworkSession) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockNetworkSession) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockNetworkSession) Close(reason string) {
	m.Called(reason)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}
