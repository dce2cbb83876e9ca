package domain

import "time"

type User struct {
	Id           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

type Question struct {
	Id           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Difficulty   string    `json:"difficulty"`
	Topics       []string  `json:"topics"`
	SampleInput  string    `json:"sampleInput"`
	SampleOutput string    `json:"sampleOutput"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Room statuses. Transitions are forward-only:
// waiting -> in_progress -> completed.
const (
	RoomWaiting    = "waiting"
	RoomInProgress = "in_progress"
	RoomCompleted  = "completed"
)

const DefaultLanguage = "javascript"

// Room is a persisted interview session. RoomId is the external handle;
// Participants holds at most two distinct user ids.
type Room struct {
	Id           string     `json:"-"`
	RoomId       string     `json:"roomId"`
	Participants []string   `json:"participants"`
	QuestionId   string     `json:"questionId"`
	Code         string     `json:"code"`
	Language     string     `json:"language"`
	Status       string     `json:"status"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (r *Room) IsParticipant(userId string) bool {
	for _, p := range r.Participants {
		if p == userId {
			return true
		}
	}
	return false
}

// RoomFilters narrows matchmaking and question supply. Zero values mean
// "no constraint".
type RoomFilters struct {
	Difficulty string
	Topic      string
}
