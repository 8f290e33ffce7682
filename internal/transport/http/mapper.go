package http

import (
	"encoding/json"

	"github.com/sharechat/sharechat-server/internal/core"
	"github.com/sharechat/sharechat-server/internal/proto"
)

// inboundToCommand maps a wire payload onto a hub command. A nil result means
// the payload was malformed and should be dropped silently; chat selection is
// the exception, where a bad id falls back to the default chat.
func inboundToCommand(inbound proto.Inbound) *core.Command {
	switch inbound.Type {
	case proto.InboundTypeSelect:
		var sel proto.SelectData
		// Bad or missing id resolves to the lowest existing chat.
		_ = json.Unmarshal(inbound.Data, &sel)
		return &core.Command{Kind: core.CommandSelectChat, ChatID: sel.ID}
	case proto.InboundTypeMessage:
		var msg proto.MessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil
		}
		return &core.Command{
			Kind:   core.CommandPostMessage,
			ChatID: msg.ID,
			Name:   msg.Name,
			Text:   msg.Text,
			Image:  msg.Image,
			Mime:   msg.Mime,
		}
	case proto.InboundTypeClear:
		var clear proto.ClearData
		if err := json.Unmarshal(inbound.Data, &clear); err != nil {
			return nil
		}
		return &core.Command{Kind: core.CommandClearChat, ChatID: clear.ID}
	default:
		return nil
	}
}

func messagePayload(m core.Message) proto.MessagePayload {
	return proto.MessagePayload{
		ID:    m.ChatID,
		Name:  m.Name,
		Time:  m.Time,
		Text:  m.Text,
		Image: m.Image,
		Mime:  m.Mime,
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventChatList:
		return proto.Outbound{
			Type: proto.OutboundTypeChatList,
			Data: proto.ChatListData{Chats: event.Chats},
		}
	case core.EventChatInit:
		messages := make([]proto.MessagePayload, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messagePayload(msg))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeChatInit,
			Data: proto.ChatInitData{
				ID:       event.ChatID,
				Messages: messages,
				Names:    event.Names,
			},
		}
	case core.EventChatMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeChatMessage,
			Data: messagePayload(event.Message),
		}
	case core.EventChatNames:
		return proto.Outbound{
			Type: proto.OutboundTypeChatNames,
			Data: proto.ChatNamesData{ID: event.ChatID, Names: event.Names},
		}
	case core.EventChatCleared:
		return proto.Outbound{
			Type: proto.OutboundTypeChatCleared,
			Data: proto.ChatClearedData{ID: event.ChatID, Names: []string{}},
		}
	case core.EventFilesUpdate:
		return proto.Outbound{Type: proto.OutboundTypeFilesUpdate}
	default:
		return proto.Outbound{Type: proto.OutboundTypeChatList}
	}
}
