package interview

import (
	"encoding/json"
	"time"
)

// Realtime message types. The wire format is JSON both ways; every
// frame carries a "type" field that drives dispatch.
const (
	MsgJoinRoom        = "join_room"
	MsgCodeUpdate      = "code_update"
	MsgWebRTCOffer     = "webrtc_offer"
	MsgWebRTCAnswer    = "webrtc_answer"
	MsgWebRTCCandidate = "webrtc_ice_candidate"
	MsgUserJoined      = "user_joined"
	MsgUserLeft        = "user_left"
	MsgError           = "error"
	MsgHeartbeat       = "heartbeat"
	MsgConnection      = "connection"
	MsgPing            = "ping"
	MsgPong            = "pong"
)

// clientMessage is the superset envelope of everything a client may
// send. Unused fields stay zero for any given type.
type clientMessage struct {
	Type      string          `json:"type"`
	RoomId    string          `json:"roomId,omitempty"`
	UserId    string          `json:"userId,omitempty"`
	Code      string          `json:"code,omitempty"`
	Language  string          `json:"language,omitempty"`
	To        string          `json:"to,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

type codeUpdateMessage struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

type presenceMessage struct {
	Type     string `json:"type"`
	UserId   string `json:"userId,omitempty"`
	SocketId string `json:"socketId"`
}

type signalMessage struct {
	Type      string          `json:"type"`
	From      string          `json:"from"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type heartbeatMessage struct {
	Type        string `json:"type"`
	Timestamp   string `json:"timestamp"`
	ClientCount int    `json:"clientCount"`
}

type connectionMessage struct {
	Type      string `json:"type"`
	Status    string `json:"status"`
	UserId    string `json:"userId"`
	SocketId  string `json:"socketId"`
	Timestamp string `json:"timestamp"`
}

type pongMessage struct {
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
	ServerTime string `json:"serverTime"`
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// All server message types marshal cleanly; this is unreachable
		// short of a programming error.
		panic(err)
	}
	return data
}

func newErrorMessage(message string) []byte {
	return mustMarshal(errorMessage{Type: MsgError, Message: message})
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
