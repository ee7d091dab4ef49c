// Package proto defines the JSON envelopes exchanged over the websocket.
package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeCreateRoom  = "createRoom"
	InboundTypeJoinRoom    = "joinRoom"
	InboundTypeSendMessage = "sendMessage"
	InboundTypeSendFile    = "sendFile"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventRoomCreated    = "roomCreated"
	EventRoomJoined     = "roomJoined"
	EventPastMessages   = "pastMessages"
	EventPastFiles      = "pastFiles"
	EventReceiveMessage = "receiveMessage"
	EventReceiveFile    = "receiveFile"
)

// JoinData requests to join an existing room by its code.
type JoinData struct {
	Room string `json:"roomCode"`
}

// SendMessageData carries a chat message bound for a room.
type SendMessageData struct {
	Room    string         `json:"roomCode"`
	Message MessagePayload `json:"message"`
}

// SendFileData carries a file bound for a room.
type SendFileData struct {
	Room string      `json:"roomCode"`
	File FilePayload `json:"file"`
}

// MessagePayload is a chat message on the wire. ID and Sender are assigned by
// the server; Timestamp is the client-observed send time in unix milliseconds.
type MessagePayload struct {
	ID        int64  `json:"id,omitempty"`
	Text      string `json:"text"`
	Sender    string `json:"sender,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// FilePayload is a file share on the wire. Data is a self-describing encoded
// blob (base64 data URL) suitable for direct rendering or download.
type FilePayload struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	MediaType string `json:"type"`
	Data      string `json:"data"`
	Sender    string `json:"sender,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// RoomAck reports the outcome of a createRoom or joinRoom request.
type RoomAck struct {
	Success bool   `json:"success"`
	Room    string `json:"roomCode,omitempty"`
	Message string `json:"message,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
