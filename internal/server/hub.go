package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"skullking-game/internal/game"
	"skullking-game/internal/protocol"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

// Hub tracks connections and routes their messages to the single game
// session it serves.
type Hub struct {
	game           *game.Game
	clients        map[*Client]bool
	players        map[int]*Client // player id -> connection
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	done           chan struct{} // closed when Run returns
	clientMu       sync.RWMutex
	log            *logrus.Entry
}

// NewHub creates a hub for g and installs itself as the game's sender.
func NewHub(g *game.Game) *Hub {
	h := &Hub{
		game:           g,
		clients:        make(map[*Client]bool),
		players:        make(map[int]*Client),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
		log:            logrus.WithField("game", g.ID),
	}
	g.SetSender(h.sendMessageToPlayer)
	return h
}

// Run processes registrations and messages until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.log.Info("Hub stopped.")
			return

		case client := <-h.register:
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()
			client.logger().Info("Client connected.")

		case client := <-h.unregister:
			h.removeClient(client)

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// registerClient hands a new connection to Run. It reports false once the
// hub has stopped.
func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) submit(c *Client, msg protocol.Message) bool {
	select {
	case h.processMessage <- clientMessage{client: c, message: msg}:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) removeClient(client *Client) {
	h.clientMu.Lock()
	_, exists := h.clients[client]
	if exists {
		delete(h.clients, client)
		if client.PlayerID != 0 && h.players[client.PlayerID] == client {
			delete(h.players, client.PlayerID)
		}
		close(client.send)
	}
	h.clientMu.Unlock()

	if !exists {
		return
	}
	client.logger().WithField("player", client.PlayerID).Info("Client disconnected.")
	if client.PlayerID != 0 {
		go h.game.HandlePlayerDisconnect(client.PlayerID)
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeJoin:
		h.handleJoin(client, msg)
	case protocol.TypeStart, protocol.TypePlayCard:
		if client.PlayerID == 0 {
			h.sendErrorToClient(client, "Join the table first.")
			return
		}
		h.game.HandlePlayerAction(client.PlayerID, msg)
	case protocol.TypePing:
		pongMsg, _ := protocol.NewMessage(protocol.TypePong, nil)
		h.sendToClient(client, pongMsg)
	default:
		client.logger().Warnf("Received unknown message type '%s'.", msg.Type)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleJoin seats the client at the table.
func (h *Hub) handleJoin(client *Client, msg protocol.Message) {
	if client.PlayerID != 0 {
		h.sendErrorToClient(client, "Already seated.")
		return
	}

	var payload protocol.JoinPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		client.logger().WithError(err).Warn("Error unmarshalling join payload.")
		h.sendErrorToClient(client, "Invalid join message format.")
		return
	}

	player, err := h.game.AddPlayer(payload.Name)
	if err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}

	h.clientMu.Lock()
	client.PlayerID = player.ID
	client.Name = player.Name
	h.players[player.ID] = client
	h.clientMu.Unlock()
	client.logger().WithField("player", player.ID).Infof("Client joined as %s.", player.Name)

	joinedMsg, _ := protocol.NewMessage(protocol.TypeJoined, protocol.JoinedPayload{
		GameID: h.game.ID,
		Player: player,
	})
	h.sendToClient(client, joinedMsg)
}

// sendMessageToPlayer is the game's MessageSender. Players seated without a
// connection (through the REST API) are skipped.
func (h *Hub) sendMessageToPlayer(playerID int, message []byte) {
	h.clientMu.RLock()
	client := h.players[playerID]
	h.clientMu.RUnlock()

	if client == nil {
		h.log.WithField("player", playerID).Debug("No connection for player, message dropped.")
		return
	}
	h.sendToClient(client, message)
}

// sendToClient does a non-blocking send; a full buffer drops the client.
func (h *Hub) sendToClient(client *Client, message []byte) {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()
	if !h.clients[client] {
		return
	}

	select {
	case client.send <- message:
	default:
		client.logger().Warn("Send buffer full, dropping client.")
		go h.unregisterClient(client)
	}
}

func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		client.logger().WithError(err).Error("Error creating error message.")
		return
	}
	h.sendToClient(client, msgBytes)
}
