package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomCreated acknowledges room creation to the creator.
	EventRoomCreated EventKind = iota
	// EventRoomJoined acknowledges a join attempt, successful or not.
	EventRoomJoined
	// EventHistory delivers message and file history to a client upon joining.
	EventHistory
	// EventRoomMessage notifies room members about a chat message.
	EventRoomMessage
	// EventRoomFile notifies room members about a shared file.
	EventRoomFile
	// EventError notifies a client about a domain error.
	EventError
)

// RoomAck reports the outcome of a create or join request.
type RoomAck struct {
	Success bool
	Room    string
	Reason  string
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	Ack      *RoomAck
	Message  Message
	File     FileShare
	Messages []Message   // For EventHistory
	Files    []FileShare // For EventHistory
	Error    *CoreError
}
