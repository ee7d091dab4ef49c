package http

import (
	"encoding/json"
	"time"

	"github.com/whojaskaran/EchoShare/internal/core"
	"github.com/whojaskaran/EchoShare/internal/proto"
)

// inboundToCommand maps a wire envelope to a core command. Anything wrong
// with the envelope comes back as a proto.Error for the client; it never
// fails the connection.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeCreateRoom:
		return &core.Command{Kind: core.CommandCreateRoom}, nil
	case proto.InboundTypeJoinRoom:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, malformedPayload(inbound.Type)
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomCode is required"}
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.Room,
		}, nil
	case proto.InboundTypeSendMessage:
		var send proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &send); err != nil {
			return nil, malformedPayload(inbound.Type)
		}
		if send.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomCode is required"}
		}
		if send.Message.Text == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "message text is required"}
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Room: send.Room,
			Message: core.Message{
				// ID and Sender are assigned by the hub.
				Text:   send.Message.Text,
				SentAt: fromMillis(send.Message.Timestamp),
			},
		}, nil
	case proto.InboundTypeSendFile:
		var send proto.SendFileData
		if err := json.Unmarshal(inbound.Data, &send); err != nil {
			return nil, malformedPayload(inbound.Type)
		}
		if send.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomCode is required"}
		}
		if send.File.Name == "" || send.File.Data == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "file name and data are required"}
		}
		return &core.Command{
			Kind: core.CommandSendFile,
			Room: send.Room,
			File: core.FileShare{
				Name:      send.File.Name,
				MediaType: send.File.MediaType,
				Data:      send.File.Data,
				SentAt:    fromMillis(send.File.Timestamp),
			},
		}, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}
	}
}

func malformedPayload(msgType string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed " + msgType + " payload"}
}

// outboundFromEvent maps one core event to its wire representation. History
// expands into the pastMessages and pastFiles replay pair.
func outboundFromEvent(event *core.Event) []proto.Outbound {
	switch event.Kind {
	case core.EventRoomCreated:
		return []proto.Outbound{{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomCreated,
			Data:  ackPayload(event.Ack),
		}}
	case core.EventRoomJoined:
		return []proto.Outbound{{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomJoined,
			Data:  ackPayload(event.Ack),
		}}
	case core.EventHistory:
		messages := make([]proto.MessagePayload, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messagePayload(msg))
		}
		files := make([]proto.FilePayload, 0, len(event.Files))
		for _, file := range event.Files {
			files = append(files, filePayload(file))
		}
		return []proto.Outbound{
			{Type: proto.OutboundTypeEvent, Event: proto.EventPastMessages, Data: messages},
			{Type: proto.OutboundTypeEvent, Event: proto.EventPastFiles, Data: files},
		}
	case core.EventRoomMessage:
		return []proto.Outbound{{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventReceiveMessage,
			Data:  messagePayload(event.Message),
		}}
	case core.EventRoomFile:
		return []proto.Outbound{{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventReceiveFile,
			Data:  filePayload(event.File),
		}}
	case core.EventError:
		if event.Error == nil {
			return []proto.Outbound{{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}}
		}
		return []proto.Outbound{{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}}
	default:
		return []proto.Outbound{{Type: proto.OutboundTypeEvent}}
	}
}

func ackPayload(ack *core.RoomAck) proto.RoomAck {
	if ack == nil {
		return proto.RoomAck{}
	}
	return proto.RoomAck{
		Success: ack.Success,
		Room:    ack.Room,
		Message: ack.Reason,
	}
}

func messagePayload(msg core.Message) proto.MessagePayload {
	return proto.MessagePayload{
		ID:        msg.ID,
		Text:      msg.Text,
		Sender:    msg.Sender,
		Timestamp: msg.SentAt.UnixMilli(),
	}
}

func filePayload(file core.FileShare) proto.FilePayload {
	return proto.FilePayload{
		ID:        file.ID,
		Name:      file.Name,
		MediaType: file.MediaType,
		Data:      file.Data,
		Sender:    file.Sender,
		Timestamp: file.SentAt.UnixMilli(),
	}
}

func fromMillis(ts int64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ts)
}
