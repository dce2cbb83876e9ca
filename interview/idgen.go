package interview

import "github.com/google/uuid"

// NewRoomId generates the opaque external handle for a room.
func NewRoomId() string {
	return "room-" + uuid.NewString()
}
