package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sharechat/sharechat-server/internal/metrics"
)

type inboundCommand struct {
	client *Client
	cmd    *Command
}

// Hub is the single owner of all chat state. One goroutine (Run) consumes
// client commands and administrative operations, mutates the injected State
// and fans events out to every connected client. Because every mutation and
// the broadcast it produces happen on that one goroutine, clients observe
// events in exactly the order the mutations occurred.
type Hub struct {
	state *State
	log   *zerolog.Logger

	register   chan *Client
	unregister chan *Client
	inbox      chan inboundCommand
	ops        chan func()

	clients map[*Client]struct{}
}

// NewHub creates a hub around the given state. A nil state or logger gets a
// fresh default, which keeps test setup short.
func NewHub(state *State, logger *zerolog.Logger) *Hub {
	if state == nil {
		state = NewState()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		state:      state,
		log:        logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan inboundCommand),
		ops:        make(chan func()),
		clients:    make(map[*Client]struct{}),
	}
}

// Run processes commands until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			metrics.ConnectionsActive.Inc()
			go h.pump(client)
			h.sendTo(client, &Event{Kind: EventChatList, Chats: h.state.List()})
			h.sendSnapshot(client, h.state.Resolve(0))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.done)
				metrics.ConnectionsActive.Dec()
			}
		case in := <-h.inbox:
			h.handleCommand(in.client, in.cmd)
		case op := <-h.ops:
			op()
		case <-ctx.Done():
			return
		}
	}
}

// RegisterClient attaches a connection to the hub. The client immediately
// receives the chat list and a snapshot of the lowest-id chat.
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient detaches a connection. Pending broadcasts to other
// clients are unaffected.
func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

// pump forwards a client's commands into the hub inbox until the client is
// unregistered.
func (h *Hub) pump(client *Client) {
	for {
		select {
		case cmd := <-client.Commands:
			select {
			case h.inbox <- inboundCommand{client: client, cmd: cmd}:
			case <-client.done:
				return
			}
		case <-client.done:
			return
		}
	}
}

func (h *Hub) handleCommand(client *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandSelectChat:
		h.sendSnapshot(client, h.state.Resolve(cmd.ChatID))
	case CommandPostMessage:
		msg, err := h.state.Append(cmd.ChatID, cmd.Name, cmd.Text, cmd.Image, cmd.Mime)
		if err != nil {
			// Invalid submissions are dropped without an echo to the sender.
			metrics.MessagesRejectedTotal.Inc()
			h.log.Debug().Err(err).Str("client_id", client.ID).Int64("chat_id", cmd.ChatID).Msg("message rejected")
			return
		}
		metrics.MessagesTotal.Inc()
		h.broadcast(&Event{Kind: EventChatMessage, ChatID: msg.ChatID, Message: msg})
		h.broadcast(&Event{Kind: EventChatNames, ChatID: msg.ChatID, Names: h.state.Names(msg.ChatID)})
	case CommandClearChat:
		id := h.state.Clear(cmd.ChatID)
		h.broadcast(&Event{Kind: EventChatCleared, ChatID: id, Names: []string{}})
	default:
		h.log.Warn().Int("kind", int(cmd.Kind)).Msg("unknown command")
	}
}

func (h *Hub) sendSnapshot(client *Client, chatID int64) {
	messages, names := h.state.Snapshot(chatID)
	h.sendTo(client, &Event{
		Kind:     EventChatInit,
		ChatID:   chatID,
		Messages: messages,
		Names:    names,
	})
}

func (h *Hub) sendTo(client *Client, event *Event) {
	select {
	case client.Events <- event:
	default:
		// Drop if slow consumer.
		metrics.BroadcastDropsTotal.Inc()
	}
}

func (h *Hub) broadcast(event *Event) {
	for client := range h.clients {
		h.sendTo(client, event)
	}
}

// do runs fn on the hub goroutine and waits for it, so administrative REST
// operations serialize with websocket commands.
func (h *Hub) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case h.ops <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListChats returns all chat ids in ascending order.
func (h *Hub) ListChats(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := h.do(ctx, func() { ids = h.state.List() })
	return ids, err
}

// CreateChat allocates a new chat and broadcasts the updated chat list.
func (h *Hub) CreateChat(ctx context.Context) (int64, error) {
	var id int64
	err := h.do(ctx, func() {
		id = h.state.Create()
		h.broadcast(&Event{Kind: EventChatList, Chats: h.state.List()})
	})
	return id, err
}

// DeleteChat removes a chat (a no-op for unknown ids) and broadcasts the
// updated chat list. Deleting the last chat recreates chat 1 empty.
func (h *Hub) DeleteChat(ctx context.Context, id int64) error {
	return h.do(ctx, func() {
		h.state.Delete(id)
		h.broadcast(&Event{Kind: EventChatList, Chats: h.state.List()})
	})
}

// ClearChat wipes a chat's messages and names, creating it first when absent,
// and broadcasts the cleared event.
func (h *Hub) ClearChat(ctx context.Context, id int64) error {
	return h.do(ctx, func() {
		id = h.state.Clear(id)
		h.broadcast(&Event{Kind: EventChatCleared, ChatID: id, Names: []string{}})
	})
}

// NotifyFilesUpdated pings every client to refresh the shared-files view.
func (h *Hub) NotifyFilesUpdated(ctx context.Context) error {
	return h.do(ctx, func() {
		h.broadcast(&Event{Kind: EventFilesUpdate})
	})
}
