package core

import "time"

// Room groups clients subscribed to the same code and owns the ordered
// message and file logs replayed to late joiners.
type Room struct {
	Code       string
	clients    map[*Client]struct{}
	messages   []Message
	files      []FileShare
	nextSeq    int64
	lastActive time.Time
}

// NewRoom constructs a room with no clients and empty history.
func NewRoom(code string) *Room {
	return &Room{
		Code:       code,
		clients:    make(map[*Client]struct{}),
		lastActive: time.Now(),
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	r.lastActive = time.Now()
	return true
}

// RemoveClient deletes a client from the room. Returns true if removed.
func (r *Room) RemoveClient(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// Broadcast sends an event to all clients in the room, including the sender.
// Returns how many deliveries were dropped due to slow consumers.
func (r *Room) Broadcast(event *Event) int {
	dropped := 0
	for client := range r.clients {
		select {
		case client.Events <- event:
		default:
			// Drop if slow consumer.
			dropped++
		}
	}
	return dropped
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.clients) == 0
}

// Members returns the current member count.
func (r *Room) Members() int {
	return len(r.clients)
}

// Messages returns a copy of the ordered message log.
func (r *Room) Messages() []Message {
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Files returns a copy of the ordered file log.
func (r *Room) Files() []FileShare {
	out := make([]FileShare, len(r.files))
	copy(out, r.files)
	return out
}

// IdleSince returns the time of the last join or append.
func (r *Room) IdleSince() time.Time {
	return r.lastActive
}

func (r *Room) appendMessage(msg Message, maxLen int) Message {
	r.nextSeq++
	msg.ID = r.nextSeq
	msg.Room = r.Code
	r.messages = append(r.messages, msg)
	if maxLen > 0 && len(r.messages) > maxLen {
		r.messages = r.messages[len(r.messages)-maxLen:]
	}
	r.lastActive = time.Now()
	return msg
}

func (r *Room) appendFile(file FileShare, maxLen int) FileShare {
	r.nextSeq++
	file.ID = r.nextSeq
	file.Room = r.Code
	r.files = append(r.files, file)
	if maxLen > 0 && len(r.files) > maxLen {
		r.files = r.files[len(r.files)-maxLen:]
	}
	r.lastActive = time.Now()
	return file
}
