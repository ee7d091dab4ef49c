package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom allocates a fresh room and joins the creator to it.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom subscribes the client to an existing room.
	CommandJoinRoom
	// CommandSendMessage relays a chat message to room participants.
	CommandSendMessage
	// CommandSendFile relays a file to room participants.
	CommandSendFile
)

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	Room    string
	Message Message
	File    FileShare
}
