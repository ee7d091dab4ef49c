package core

import (
	"math/rand/v2"
	"strings"
)

const (
	codeAlphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	defaultCodeLength = 5
)

// Limits bound room history growth. Zero values disable the corresponding cap.
type Limits struct {
	CodeLength  int
	MaxMessages int
	MaxFiles    int
}

// Registry maps live room codes to room state. It is the source of truth for
// membership and history. Not safe for concurrent use: all mutations happen on
// the hub's event loop, which keeps each operation atomic without locking.
type Registry struct {
	rooms  map[string]*Room
	limits Limits
}

// NewRegistry constructs an empty registry.
func NewRegistry(limits Limits) *Registry {
	if limits.CodeLength <= 0 {
		limits.CodeLength = defaultCodeLength
	}
	return &Registry{
		rooms:  make(map[string]*Room),
		limits: limits,
	}
}

// CreateRoom allocates a room under a freshly generated unique code.
func (reg *Registry) CreateRoom() *Room {
	code := reg.newCode()
	room := NewRoom(code)
	reg.rooms[code] = room
	return room
}

// newCode draws random codes until one is unused. The key space vastly exceeds
// the expected live room count, so rejection sampling terminates quickly.
func (reg *Registry) newCode() string {
	var b strings.Builder
	for {
		b.Reset()
		for range reg.limits.CodeLength {
			b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
		}
		code := b.String()
		if _, taken := reg.rooms[code]; !taken {
			return code
		}
	}
}

// Room looks up a live room by its case-normalized code.
func (reg *Registry) Room(code string) (*Room, bool) {
	room, ok := reg.rooms[NormalizeCode(code)]
	return room, ok
}

// JoinRoom adds the client to the room's member set and returns the room for
// history replay. Fails with ErrRoomNotFound without mutating any state.
func (reg *Registry) JoinRoom(code string, c *Client) (*Room, error) {
	room, ok := reg.Room(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.AddClient(c)
	c.Rooms[room.Code] = struct{}{}
	return room, nil
}

// Leave removes the client from every room containing it and deletes rooms
// whose member set empties. Safe to call for clients in no room. Iterating all
// of the client's rooms is intentional: membership is a set, not a single code.
func (reg *Registry) Leave(c *Client) []string {
	var deleted []string
	for code := range c.Rooms {
		room, ok := reg.rooms[code]
		if !ok {
			delete(c.Rooms, code)
			continue
		}
		room.RemoveClient(c)
		delete(c.Rooms, code)
		if room.Empty() {
			delete(reg.rooms, code)
			deleted = append(deleted, code)
		}
	}
	return deleted
}

// AppendMessage appends to the room's message log, assigning a room-monotonic
// identifier. Fails with ErrRoomNotFound when the sender holds a stale code.
func (reg *Registry) AppendMessage(code string, msg Message) (Message, error) {
	room, ok := reg.Room(code)
	if !ok {
		return Message{}, ErrRoomNotFound
	}
	return room.appendMessage(msg, reg.limits.MaxMessages), nil
}

// AppendFile appends to the room's file log under the same contract as
// AppendMessage.
func (reg *Registry) AppendFile(code string, file FileShare) (FileShare, error) {
	room, ok := reg.Room(code)
	if !ok {
		return FileShare{}, ErrRoomNotFound
	}
	return room.appendFile(file, reg.limits.MaxFiles), nil
}

// Delete removes a room regardless of membership. Returns the removed room.
func (reg *Registry) Delete(code string) (*Room, bool) {
	room, ok := reg.rooms[code]
	if !ok {
		return nil, false
	}
	for client := range room.clients {
		delete(client.Rooms, code)
	}
	delete(reg.rooms, code)
	return room, true
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	return len(reg.rooms)
}

// Rooms returns the codes of all live rooms.
func (reg *Registry) Rooms() []string {
	codes := make([]string, 0, len(reg.rooms))
	for code := range reg.rooms {
		codes = append(codes, code)
	}
	return codes
}

// NormalizeCode upper-cases a human-typed room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
