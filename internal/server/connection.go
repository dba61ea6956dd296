package server

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gravitas-games/hexworld/internal/network"
	"github.com/gravitas-games/hexworld/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client.
type Connection struct {
	ws     *websocket.Conn
	server *Server

	// identity is set when the gateway authenticates; nil in dev mode.
	identity *Identity

	// observer is set once the client joins.
	observer *models.Observer

	// Buffered channel for outbound messages
	send chan []byte
}

// NewConnection creates a new connection.
func NewConnection(ws *websocket.Conn, server *Server) *Connection {
	return &Connection{
		ws:     ws,
		server: server,
		send:   make(chan []byte, 256),
	}
}

// Handle manages the connection lifecycle.
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the server.
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Failed to parse client message: %v", err)
			c.SendError("invalid_message", "Failed to parse message")
			continue
		}

		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket
// connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.ctx.Done():
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers.
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	switch msg.Type {
	case network.MsgTypeJoin:
		c.handleJoin(msg.Payload)

	case network.MsgTypeMove:
		c.handleMove(msg.Payload)

	case network.MsgTypePing:
		c.handlePing()

	default:
		log.Printf("Unknown message type: %s", msg.Type)
		c.SendError("unknown_message_type", "Unknown message type")
	}
}

// handleJoin registers an observer for this connection and sends the
// welcome with the world parameters.
func (c *Connection) handleJoin(payload json.RawMessage) {
	if c.observer != nil {
		c.SendError("already_joined", "Connection already has an observer")
		return
	}

	var join network.JoinPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &join); err != nil {
			log.Printf("Failed to parse join payload: %v", err)
			c.SendError("invalid_join", "Invalid join message")
			return
		}
	}

	name := join.Name
	if c.identity != nil {
		// authenticated name wins over the payload
		name = c.identity.Name
	}
	if name == "" {
		name = "observer"
	}

	c.observer = c.server.session.AddObserver(name, c)

	cfg := c.server.config
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			ObserverID:    c.observer.ID,
			Name:          c.observer.Name,
			WorldSeed:     cfg.World.Seed,
			Rings:         cfg.World.Rings,
			HexSize:       cfg.World.HexSize,
			EngineVersion: c.server.session.EngineVersion(),
		},
	})
}

// handleMove updates the observer's world position.
func (c *Connection) handleMove(payload json.RawMessage) {
	if c.observer == nil {
		c.SendError("not_joined", "Join before moving")
		return
	}

	var move network.MovePayload
	if err := json.Unmarshal(payload, &move); err != nil {
		log.Printf("Failed to parse move payload: %v", err)
		c.SendError("invalid_move", "Invalid move message")
		return
	}

	c.server.session.MoveObserver(c.observer.ID, move.X, move.Y)
}

// handlePing answers with a pong.
func (c *Connection) handlePing() {
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypePong,
		Payload: network.PongPayload{Timestamp: time.Now().Unix()},
	})
}

// SendMessage sends a message to the client.
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("Send buffer full, dropping message")
	}
}

// SendError sends an error message to the client.
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Close closes the connection and removes its observer from the session.
func (c *Connection) Close() {
	if c.observer != nil {
		c.server.session.RemoveObserver(c.observer.ID)
		c.observer = nil
	}
	close(c.send)
	c.ws.Close()
}
