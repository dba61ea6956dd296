package network

import "encoding/json"

// Message types - Client → Server
const (
	MsgTypeJoin = "join"
	MsgTypeMove = "move"
	MsgTypePing = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome       = "welcome"
	MsgTypeWorldSnapshot = "world_snapshot"
	MsgTypeChunkUpdate   = "chunk_update"
	MsgTypeError         = "error"
	MsgTypePong          = "pong"
)

// ClientMessage represents any message from client to server.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client.
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// JoinPayload is sent by a client to join the world as an observer.
type JoinPayload struct {
	Name string `json:"name"`
}

// MovePayload updates the observer's world position.
type MovePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent after a successful join.
type WelcomePayload struct {
	ObserverID    string  `json:"observer_id"`
	Name          string  `json:"name"`
	WorldSeed     int64   `json:"world_seed"`
	Rings         int     `json:"rings"`
	HexSize       float64 `json:"hex_size"`
	EngineVersion string  `json:"engine_version"`
}

// TileState is one tile of a chunk as a renderer consumes it.
type TileState struct {
	Q       int  `json:"q"`
	R       int  `json:"r"`
	Type    int  `json:"type"`
	Enabled bool `json:"enabled"`
}

// ChunkState describes a chunk's tile grid and visibility.
type ChunkState struct {
	Q         int         `json:"q"`
	R         int         `json:"r"`
	Enabled   bool        `json:"enabled"`
	Generated bool        `json:"generated"`
	Tiles     []TileState `json:"tiles,omitempty"`
}

// WorldSnapshotPayload carries every enabled chunk, sent on join.
type WorldSnapshotPayload struct {
	Chunks []ChunkState `json:"chunks"`
}

// ChunkUpdatePayload carries the chunks whose set or visibility changed
// since the previous tick.
type ChunkUpdatePayload struct {
	Chunks []ChunkState `json:"chunks"`
}

// PongPayload answers a ping.
type PongPayload struct {
	Timestamp int64 `json:"timestamp"`
}

// ErrorPayload contains error information.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
