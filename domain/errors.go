package domain

import "errors"

var (
	UnexpectedDatabaseError = errors.New("database-error")
	ErrDuplicateUsername    = errors.New("duplicate-username")
	ErrUserNotFound         = errors.New("user-not-found")
)

var (
	ErrRoomNotFound        = errors.New("room-not-found")
	ErrRoomFull            = errors.New("room-full")
	ErrRoomCompleted       = errors.New("room-completed")
	ErrNotParticipant      = errors.New("not-a-participant")
	ErrQuestionNotFound    = errors.New("question-not-found")
	ErrNoQuestionAvailable = errors.New("no-question-available")
)

var (
	ErrInvalidSigningAlg     = errors.New("invalid-signing-alg")
	ErrExpiredToken          = errors.New("expired-token")
	ErrInvalidTokenSignature = errors.New("invalid-token-signature")
	ErrCorruptedToken        = errors.New("corrupted-token")
)

var UnexpectedTokenGenerationError = errors.New("token-generation-error")
