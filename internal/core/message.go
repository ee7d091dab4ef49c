package core

import "time"

// Message is the domain model for a chat message relayed through a room.
type Message struct {
	ID     int64
	Room   string
	Sender string
	Text   string
	SentAt time.Time
}

// FileShare is the domain model for a file relayed through a room. Data is a
// self-describing encoded blob (base64 data URL) passed through verbatim.
type FileShare struct {
	ID        int64
	Room      string
	Sender    string
	Name      string
	MediaType string
	Data      string
	SentAt    time.Time
}
