package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/whojaskaran/EchoShare/pkg/metrics"
)

// Options tune hub behavior. The zero value is usable: no history caps, no
// file size limit, no idle sweep.
type Options struct {
	Limits       Limits
	MaxFileBytes int64
	IdleTTL      time.Duration
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub owns the room registry and routes client commands to it. All registry
// mutations happen on the single Run loop, so each operation is atomic with
// respect to the others.
type Hub struct {
	log     zerolog.Logger
	metrics *metrics.Metrics
	opts    Options

	registry *Registry
	pumps    map[*Client]chan struct{}

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
}

// NewHub constructs a hub. Both logger and metrics may be nil.
func NewHub(logger *zerolog.Logger, m *metrics.Metrics, opts Options) *Hub {
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Hub{
		log:        lg,
		metrics:    m,
		opts:       opts,
		registry:   NewRegistry(opts.Limits),
		pumps:      make(map[*Client]chan struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand, 64),
	}
}

// RegisterClient hands a new connection to the hub loop.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient removes a disconnected client; its rooms are cleaned up and
// any room left empty is deleted. Idempotent.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes registrations and commands until the context is canceled.
func (h *Hub) Run(ctx context.Context) {
	var sweep <-chan time.Time
	if h.opts.IdleTTL > 0 {
		ticker := time.NewTicker(h.opts.IdleTTL / 2)
		defer ticker.Stop()
		sweep = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.addClient(ctx, c)
		case c := <-h.unregister:
			h.dropClient(c)
		case cc := <-h.commands:
			h.handleCommand(cc.client, cc.cmd)
		case <-sweep:
			h.expireIdleRooms()
		}
	}
}

// addClient starts a pump goroutine forwarding the client's commands into the
// hub loop, tagged with their origin.
func (h *Hub) addClient(ctx context.Context, c *Client) {
	if _, exists := h.pumps[c]; exists {
		return
	}
	stop := make(chan struct{})
	h.pumps[c] = stop

	go func() {
		for {
			select {
			case cmd, ok := <-c.Commands:
				if !ok {
					return
				}
				select {
				case h.commands <- clientCommand{client: c, cmd: cmd}:
				case <-stop:
					return
				case <-ctx.Done():
					return
				}
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	if h.metrics != nil {
		h.metrics.ConnectionsActive.Inc()
	}
	h.log.Debug().Str("client_id", c.ID).Msg("client registered")
}

func (h *Hub) dropClient(c *Client) {
	stop, exists := h.pumps[c]
	if !exists {
		return
	}
	close(stop)
	delete(h.pumps, c)

	deleted := h.registry.Leave(c)
	for _, code := range deleted {
		h.log.Info().Str("room", code).Msg("room empty, deleted")
	}
	if h.metrics != nil {
		h.metrics.ConnectionsActive.Dec()
		h.metrics.RoomsActive.Set(float64(h.registry.Len()))
	}
	h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandCreateRoom:
		h.handleCreate(c)
	case CommandJoinRoom:
		h.handleJoin(c, cmd.Room)
	case CommandSendMessage:
		h.handleMessage(c, cmd)
	case CommandSendFile:
		h.handleFile(c, cmd)
	}
}

// handleCreate allocates a room and implicitly joins the creator to it.
func (h *Hub) handleCreate(c *Client) {
	room := h.registry.CreateRoom()
	room.AddClient(c)
	c.Rooms[room.Code] = struct{}{}

	if h.metrics != nil {
		h.metrics.RoomsActive.Set(float64(h.registry.Len()))
	}
	h.log.Info().Str("client_id", c.ID).Str("room", room.Code).Msg("room created")

	h.sendEvent(c, &Event{
		Kind: EventRoomCreated,
		Room: room.Code,
		Ack:  &RoomAck{Success: true, Room: room.Code},
	})
}

// handleJoin acks the attempt and replays history to the joiner only.
func (h *Hub) handleJoin(c *Client, code string) {
	room, err := h.registry.JoinRoom(code, c)
	if err != nil {
		h.log.Debug().Str("client_id", c.ID).Str("room", code).Msg("join failed: room not found")
		h.sendEvent(c, &Event{
			Kind: EventRoomJoined,
			Room: code,
			Ack:  &RoomAck{Success: false, Reason: "Room not found"},
		})
		return
	}

	h.log.Info().Str("client_id", c.ID).Str("room", room.Code).Msg("client joined room")
	h.sendEvent(c, &Event{
		Kind: EventRoomJoined,
		Room: room.Code,
		Ack:  &RoomAck{Success: true, Room: room.Code},
	})
	h.sendEvent(c, &Event{
		Kind:     EventHistory,
		Room:     room.Code,
		Messages: room.Messages(),
		Files:    room.Files(),
	})
}

func (h *Hub) handleMessage(c *Client, cmd *Command) {
	msg := cmd.Message
	msg.Sender = c.ID
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}

	msg, err := h.registry.AppendMessage(cmd.Room, msg)
	if err != nil {
		h.sendError(c, ErrCodeRoomNotFound, "room not found")
		return
	}

	room, _ := h.registry.Room(cmd.Room)
	dropped := room.Broadcast(&Event{Kind: EventRoomMessage, Room: room.Code, Message: msg})
	h.countBroadcast(dropped)
	if h.metrics != nil {
		h.metrics.MessagesRelayed.Inc()
	}
	h.log.Debug().Str("room", room.Code).Int64("id", msg.ID).Msg("message relayed")
}

func (h *Hub) handleFile(c *Client, cmd *Command) {
	file := cmd.File
	file.Sender = c.ID
	if file.SentAt.IsZero() {
		file.SentAt = time.Now()
	}
	if h.opts.MaxFileBytes > 0 && int64(len(file.Data)) > h.opts.MaxFileBytes {
		h.sendError(c, ErrCodeFileTooLarge, "file exceeds the size limit")
		return
	}

	file, err := h.registry.AppendFile(cmd.Room, file)
	if err != nil {
		h.sendError(c, ErrCodeRoomNotFound, "room not found")
		return
	}

	room, _ := h.registry.Room(cmd.Room)
	dropped := room.Broadcast(&Event{Kind: EventRoomFile, Room: room.Code, File: file})
	h.countBroadcast(dropped)
	if h.metrics != nil {
		h.metrics.FilesRelayed.Inc()
	}
	h.log.Debug().Str("room", room.Code).Str("name", file.Name).Msg("file relayed")
}

// expireIdleRooms removes rooms with no activity for the configured TTL. This
// covers members that vanished without a clean disconnect.
func (h *Hub) expireIdleRooms() {
	for _, code := range h.registry.Rooms() {
		room, ok := h.registry.Room(code)
		if !ok || time.Since(room.IdleSince()) < h.opts.IdleTTL {
			continue
		}
		room.Broadcast(&Event{
			Kind:  EventError,
			Room:  code,
			Error: coreError(ErrCodeRoomExpired, "room expired after inactivity"),
		})
		h.registry.Delete(code)
		if h.metrics != nil {
			h.metrics.RoomsExpired.Inc()
			h.metrics.RoomsActive.Set(float64(h.registry.Len()))
		}
		h.log.Info().Str("room", code).Msg("idle room expired")
	}
}

func (h *Hub) sendError(c *Client, code, msg string) {
	h.sendEvent(c, &Event{Kind: EventError, Error: coreError(code, msg)})
}

// sendEvent delivers to a single client without blocking the hub loop.
func (h *Hub) sendEvent(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		if h.metrics != nil {
			h.metrics.EventsDropped.Inc()
		}
	}
}

func (h *Hub) countBroadcast(dropped int) {
	if dropped > 0 && h.metrics != nil {
		h.metrics.EventsDropped.Add(float64(dropped))
	}
}
