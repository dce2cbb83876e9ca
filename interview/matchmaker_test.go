package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vib1247-cyber/Codepulse/domain"
)

func newTestMatchmaker() (*Matchmaker, *MockRoomStore, *MockQuestionSupplier) {
	store := new(MockRoomStore)
	questions := new(MockQuestionSupplier)
	m := NewMatchmaker(store, questions)
	m.newRoomId = func() string { return "room-fixed" }
	return m, store, questions
}

func TestFindOrCreateRoomClaimsWaitingRoom(t *testing.T) {
	m, store, questions := newTestMatchmaker()
	filters := domain.RoomFilters{Difficulty: "medium"}
	claimed := domain.Room{
		RoomId:       "room-old",
		Participants: []string{"alice", "bob"},
		Status:       domain.RoomInProgress,
	}

	store.On("ClaimWaitingRoom", mock.Anything, "bob", filters).Return(claimed, nil).Once()

	room, err := m.FindOrCreateRoom(context.Background(), "bob", filters)

	require.NoError(t, err)
	assert.Equal(t, claimed, room)
	// A successful claim never creates anything.
	store.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	questions.AssertNotCalled(t, "RandomQuestion", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestFindOrCreateRoomCreatesWhenNoneWaiting(t *testing.T) {
	m, store, questions := newTestMatchmaker()
	filters := domain.RoomFilters{Topic: "graphs"}
	created := domain.Room{RoomId: "room-fixed", Participants: []string{"alice"}, Status: domain.RoomWaiting}

	store.On("ClaimWaitingRoom", mock.Anything, "alice", filters).Return(domain.Room{}, domain.ErrRoomNotFound).Once()
	questions.On("RandomQuestion", mock.Anything, filters).Return(domain.Question{Id: "q-1"}, nil).Once()
	store.On("CreateRoom", mock.Anything, "room-fixed", "alice", "q-1").Return(created, nil).Once()

	room, err := m.FindOrCreateRoom(context.Background(), "alice", filters)

	require.NoError(t, err)
	assert.Equal(t, created, room)
	store.AssertExpectations(t)
	questions.AssertExpectations(t)
}

func TestFindOrCreateRoomPropagatesClaimFailure(t *testing.T) {
	m, store, questions := newTestMatchmaker()
	boom := errors.New("connection reset")

	store.On("ClaimWaitingRoom", mock.Anything, "alice", domain.RoomFilters{}).Return(domain.Room{}, boom).Once()

	_, err := m.FindOrCreateRoom(context.Background(), "alice", domain.RoomFilters{})

	assert.ErrorIs(t, err, boom)
	questions.AssertNotCalled(t, "RandomQuestion", mock.Anything, mock.Anything)
}

func TestFindOrCreateRoomNoQuestionAvailable(t *testing.T) {
	m, store, questions := newTestMatchmaker()
	filters := domain.RoomFilters{Difficulty: "hard", Topic: "bit-manipulation"}

	store.On("ClaimWaitingRoom", mock.Anything, "alice", filters).Return(domain.Room{}, domain.ErrRoomNotFound).Once()
	questions.On("RandomQuestion", mock.Anything, filters).Return(domain.Question{}, domain.ErrNoQuestionAvailable).Once()

	_, err := m.FindOrCreateRoom(context.Background(), "alice", filters)

	assert.ErrorIs(t, err, domain.ErrNoQuestionAvailable)
	store.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRoomWithExplicitQuestion(t *testing.T) {
	m, store, questions := newTestMatchmaker()
	created := domain.Room{RoomId: "room-fixed", Participants: []string{"alice"}, Status: domain.RoomWaiting}

	questions.On("GetQuestionById", mock.Anything, "q-7").Return(domain.Question{Id: "q-7"}, nil).Once()
	store.On("CreateRoom", mock.Anything, "room-fixed", "alice", "q-7").Return(created, nil).Once()

	room, err := m.CreateRoom(context.Background(), "alice", "q-7")

	require.NoError(t, err)
	assert.Equal(t, created, room)
	questions.AssertExpectations(t)
}

func TestCreateRoomWithUnknownQuestion(t *testing.T) {
	m, store, questions := newTestMatchmaker()

	questions.On("GetQuestionById", mock.Anything, "q-missing").Return(domain.Question{}, domain.ErrQuestionNotFound).Once()

	_, err := m.CreateRoom(context.Background(), "alice", "q-missing")

	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	store.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRoomPicksRandomQuestionWhenUnspecified(t *testing.T) {
	m, store, questions := newTestMatchmaker()
	created := domain.Room{RoomId: "room-fixed", Participants: []string{"alice"}, Status: domain.RoomWaiting}

	questions.On("RandomQuestion", mock.Anything, domain.RoomFilters{}).Return(domain.Question{Id: "q-3"}, nil).Once()
	store.On("CreateRoom", mock.Anything, "room-fixed", "alice", "q-3").Return(created, nil).Once()

	_, err := m.CreateRoom(context.Background(), "alice", "")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestJoinRoomDelegatesToStore(t *testing.T) {
	m, store, _ := newTestMatchmaker()
	joined := domain.Room{RoomId: "room-1", Participants: []string{"alice", "bob"}, Status: domain.RoomInProgress}

	store.On("AddParticipant", mock.Anything, "room-1", "bob").Return(joined, nil).Once()

	room, err := m.JoinRoom(context.Background(), "room-1", "bob")

	require.NoError(t, err)
	assert.Equal(t, joined, room)
}

func TestGetRoomRejectsOutsiders(t *testing.T) {
	m, store, _ := newTestMatchmaker()
	room := domain.Room{RoomId: "room-1", Participants: []string{"alice", "bob"}}

	store.On("GetRoomByRoomId", mock.Anything, "room-1").Return(room, nil).Twice()

	got, err := m.GetRoom(context.Background(), "room-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, room, got)

	_, err = m.GetRoom(context.Background(), "room-1", "mallory")
	assert.ErrorIs(t, err, domain.ErrNotParticipant)
}

func TestCompleteRoomRequiresParticipation(t *testing.T) {
	m, store, _ := newTestMatchmaker()
	room := domain.Room{RoomId: "room-1", Participants: []string{"alice", "bob"}, Status: domain.RoomInProgress}

	store.On("GetRoomByRoomId", mock.Anything, "room-1").Return(room, nil).Once()

	_, err := m.CompleteRoom(context.Background(), "room-1", "mallory")

	assert.ErrorIs(t, err, domain.ErrNotParticipant)
	store.AssertNotCalled(t, "CompleteRoom", mock.Anything, mock.Anything)
}

func TestCompleteRoomByParticipant(t *testing.T) {
	m, store, _ := newTestMatchmaker()
	room := domain.Room{RoomId: "room-1", Participants: []string{"alice", "bob"}, Status: domain.RoomInProgress}
	completed := room
	completed.Status = domain.RoomCompleted

	store.On("GetRoomByRoomId", mock.Anything, "room-1").Return(room, nil).Once()
	store.On("CompleteRoom", mock.Anything, "room-1").Return(completed, nil).Once()

	got, err := m.CompleteRoom(context.Background(), "room-1", "alice")

	require.NoError(t, err)
	assert.Equal(t, domain.RoomCompleted, got.Status)
	store.AssertExpectations(t)
}
