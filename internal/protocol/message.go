package protocol

import (
	"encoding/json"

	"skullking-game/internal/shared"
)

// Message types exchanged over the WebSocket.
const (
	// Client -> Server
	TypeJoin     = "join"
	TypeStart    = "start"
	TypePlayCard = "play_card"
	TypePing     = "ping"

	// Server -> Client
	TypeJoined      = "joined"
	TypeGameStart   = "game_start"
	TypeTableUpdate = "table_update"
	TypeDealHand    = "deal_hand"
	TypeYourTurn    = "your_turn"
	TypeCardPlayed  = "card_played"
	TypeTrickEnd    = "trick_end"
	TypeTrickVoid   = "trick_void"
	TypeRoundEnd    = "round_end"
	TypeGameOver    = "game_over"
	TypeError       = "error"
	TypePong        = "pong"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "join", "play_card")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// --- Client -> Server Payload Structs ---

type JoinPayload struct {
	Name string `json:"name"`
}

// PlayCardPayload names the card to play. A wild card may carry the effect
// its holder declares.
type PlayCardPayload struct {
	Card shared.Card `json:"card"`
}

// --- Server -> Client Payload Structs ---

type JoinedPayload struct {
	GameID string        `json:"game_id"`
	Player shared.Player `json:"player"`
}

type GameStartPayload struct {
	GameID  string          `json:"game_id"`
	Players []shared.Player `json:"players"` // seating order
	Rounds  int             `json:"rounds"`
}

type DealHandPayload struct {
	Round int           `json:"round"`
	Hand  []shared.Card `json:"hand"`
}

type YourTurnPayload struct {
	PlayerID int `json:"player_id"`
}

// TableUpdatePayload is the public view of the table: no hands.
type TableUpdatePayload struct {
	State           string              `json:"state"`
	Round           int                 `json:"round"`
	DeckSize        int                 `json:"deck_size"`
	CurrentPlayerID int                 `json:"current_player_id,omitempty"`
	River           []shared.PlayedCard `json:"river"`
	Seats           []SeatInfo          `json:"seats"`
}

type SeatInfo struct {
	Player    shared.Player `json:"player"`
	HandSize  int           `json:"hand_size"`
	TricksWon int           `json:"tricks_won"`
}

type CardPlayedPayload struct {
	Played shared.PlayedCard `json:"played"`
}

type TrickEndPayload struct {
	Winner   shared.PlayedCard   `json:"winner"`
	WinnerID int                 `json:"winner_id"`
	Cards    []shared.PlayedCard `json:"cards"`
}

type TrickVoidPayload struct {
	Cards  []shared.PlayedCard `json:"cards"`
	Reason string              `json:"reason"`
}

type RoundEndPayload struct {
	Round  int         `json:"round"`
	Tricks map[int]int `json:"tricks"` // player id -> tricks won
}

type GameOverPayload struct {
	GameID string `json:"game_id"`
	Rounds int    `json:"rounds"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewMessage builds the JSON envelope for msgType around payload.
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
