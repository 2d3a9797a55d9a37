package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"skullking-game/internal/protocol"
	"skullking-game/internal/shared"
)

// GameState represents the current state of the game.
type GameState string

const (
	Waiting   GameState = "Waiting"   // Seating players
	Dealing   GameState = "Dealing"   // Cards are being dealt
	Playing   GameState = "Playing"   // Players are playing tricks
	RoundOver GameState = "RoundOver" // All hands played out, table being cleared
	GameOver  GameState = "GameOver"  // Last round finished or a player left
)

// MessageSender delivers a message to one player. The hub provides it.
type MessageSender func(playerID int, message []byte)

// Options configures a game session.
type Options struct {
	Deck     shared.DeckConfig
	MinSeats int
	MaxSeats int
	Rounds   int        // round n deals n cards to every seat
	RNG      shared.RNG // nil uses math/rand/v2
}

// DefaultOptions returns the standard deck, 2 to 6 seats and 10 rounds.
func DefaultOptions() Options {
	return Options{
		Deck:     shared.DefaultDeckConfig(),
		MinSeats: 2,
		MaxSeats: 6,
		Rounds:   10,
	}
}

// Game is one table session: seats, the deck and the trick in progress.
// All exported methods are safe for concurrent use; a single mutex
// serializes them so only one operation touches the table at a time.
type Game struct {
	ID    string
	State GameState
	Round int

	table        *shared.Table
	opts         Options
	nextPlayerID int
	turnIndex    int // seat index of the player to act
	trickLeader  int // seat index that led the current trick
	mu           sync.Mutex
	sendMessage  MessageSender
	log          *logrus.Entry
}

// NewGame builds the deck and an empty table.
func NewGame(opts Options) (*Game, error) {
	if opts.MinSeats < 1 || opts.MaxSeats < opts.MinSeats {
		return nil, fmt.Errorf("invalid seat range %d..%d", opts.MinSeats, opts.MaxSeats)
	}
	if opts.Rounds < 1 {
		return nil, fmt.Errorf("rounds must be at least 1, got %d", opts.Rounds)
	}
	if need := opts.Rounds * opts.MaxSeats; need > opts.Deck.Size() {
		return nil, fmt.Errorf("deck of %d cards cannot deal %d rounds to %d seats", opts.Deck.Size(), opts.Rounds, opts.MaxSeats)
	}
	deck, err := shared.BuildDeck(opts.Deck, opts.RNG)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	return &Game{
		ID:           id,
		State:        Waiting,
		table:        shared.NewTable(deck),
		opts:         opts,
		nextPlayerID: 1,
		log:          logrus.WithField("game", id),
	}, nil
}

// SetSender installs the callback used to reach players.
func (g *Game) SetSender(sender MessageSender) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sendMessage = sender
}

// AddPlayer seats a new player while the game is waiting to start.
func (g *Game) AddPlayer(name string) (shared.Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return shared.Player{}, ErrEmptyName
	}
	if g.State != Waiting {
		return shared.Player{}, ErrGameStarted
	}
	if len(g.table.Seats) >= g.opts.MaxSeats {
		return shared.Player{}, ErrTableFull
	}

	p := shared.Player{ID: g.nextPlayerID, Name: name}
	g.nextPlayerID++
	g.table.AddSeat(p)
	g.log.WithField("player", p.ID).Infof("Player %s seated (%d/%d).", p.Name, len(g.table.Seats), g.opts.MaxSeats)
	return p, nil
}

// Start shuffles the deck and the seating order, then deals the first round.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State != Waiting {
		return ErrGameStarted
	}
	if len(g.table.Seats) < g.opts.MinSeats {
		return fmt.Errorf("%w: %d seated, %d required", ErrNotEnoughPlayers, len(g.table.Seats), g.opts.MinSeats)
	}

	g.log.Info("Starting game.")
	g.table.Deck.Shuffle()
	g.table.ShuffleSeats(g.opts.RNG)

	players := make([]shared.Player, len(g.table.Seats))
	for i, s := range g.table.Seats {
		players[i] = s.Player
	}
	startMsg, _ := protocol.NewMessage(protocol.TypeGameStart, protocol.GameStartPayload{
		GameID:  g.ID,
		Players: players,
		Rounds:  g.opts.Rounds,
	})
	g.broadcast(startMsg)

	return g.startRound()
}

// startRound deals the next round. Assumes lock is held.
func (g *Game) startRound() error {
	g.State = Dealing
	g.Round++

	if err := g.table.Deal(g.Round); err != nil {
		g.log.WithError(err).Errorf("Dealing round %d failed.", g.Round)
		g.State = GameOver
		g.broadcastError("Internal server error during dealing.")
		return err
	}
	for _, seat := range g.table.Seats {
		dealMsg, _ := protocol.NewMessage(protocol.TypeDealHand, protocol.DealHandPayload{
			Round: g.Round,
			Hand:  seat.Hand,
		})
		g.sendToPlayer(seat.Player.ID, dealMsg)
	}

	// The lead rotates around the table from round to round.
	g.trickLeader = (g.Round - 1) % len(g.table.Seats)
	g.turnIndex = g.trickLeader
	g.State = Playing
	g.log.Infof("Round %d dealt. %s leads.", g.Round, g.table.Seats[g.turnIndex].Player.Name)

	g.broadcastTable()
	g.notifyCurrentPlayerTurn()
	return nil
}

// Play plays a card for the given player. When every seat has played, the
// trick is resolved; when every hand is empty, the round ends.
func (g *Game) Play(playerID int, card shared.Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playCard(playerID, card)
}

// playCard assumes lock is held.
func (g *Game) playCard(playerID int, card shared.Card) error {
	switch g.State {
	case Playing:
	case GameOver:
		return ErrGameOver
	default:
		return ErrNotPlaying
	}

	idx := g.seatIndex(playerID)
	if idx < 0 {
		return fmt.Errorf("%w %d", shared.ErrSeatNotFound, playerID)
	}
	if idx != g.turnIndex {
		return ErrNotYourTurn
	}

	played, err := g.table.PlayCard(playerID, card)
	if err != nil {
		return err
	}
	g.log.WithField("player", playerID).Debugf("Played %s.", played.Card)

	playedMsg, _ := protocol.NewMessage(protocol.TypeCardPlayed, protocol.CardPlayedPayload{Played: played})
	g.broadcast(playedMsg)

	if len(g.table.River) == len(g.table.Seats) {
		return g.endTrick()
	}
	g.turnIndex = (g.turnIndex + 1) % len(g.table.Seats)
	g.broadcastTable()
	g.notifyCurrentPlayerTurn()
	return nil
}

// endTrick resolves the river. Assumes lock is held.
func (g *Game) endTrick() error {
	cards := make([]shared.PlayedCard, len(g.table.River))
	copy(cards, g.table.River)

	winner, err := shared.TrickWinner(cards)
	switch {
	case errors.Is(err, shared.ErrNoWinner):
		// Nobody can be credited; the cards go back under the deck and the
		// same seat leads again.
		n := g.table.VoidTrick()
		g.log.WithError(err).Warnf("Trick voided, %d cards returned to the deck.", n)
		voidMsg, _ := protocol.NewMessage(protocol.TypeTrickVoid, protocol.TrickVoidPayload{
			Cards:  cards,
			Reason: err.Error(),
		})
		g.broadcast(voidMsg)
		g.turnIndex = g.trickLeader
	case err != nil:
		return err
	default:
		if err := g.table.ResolveTrick(winner.PlayerID); err != nil {
			return err
		}
		g.log.WithField("player", winner.PlayerID).Infof("Trick won with %s.", winner.Card)
		endMsg, _ := protocol.NewMessage(protocol.TypeTrickEnd, protocol.TrickEndPayload{
			Winner:   winner,
			WinnerID: winner.PlayerID,
			Cards:    cards,
		})
		g.broadcast(endMsg)
		g.turnIndex = g.seatIndex(winner.PlayerID)
	}
	g.trickLeader = g.turnIndex

	if g.table.HandsEmpty() {
		return g.endRound()
	}
	g.broadcastTable()
	g.notifyCurrentPlayerTurn()
	return nil
}

// endRound clears the table and deals the next round, or ends the game.
// Assumes lock is held.
func (g *Game) endRound() error {
	g.State = RoundOver
	tricks := make(map[int]int, len(g.table.Seats))
	for _, s := range g.table.Seats {
		tricks[s.Player.ID] = s.Tricks
	}
	g.log.Infof("Round %d over.", g.Round)
	roundMsg, _ := protocol.NewMessage(protocol.TypeRoundEnd, protocol.RoundEndPayload{
		Round:  g.Round,
		Tricks: tricks,
	})
	g.broadcast(roundMsg)

	g.table.ClearRound()

	if g.Round >= g.opts.Rounds {
		g.State = GameOver
		g.log.Info("Game over.")
		overMsg, _ := protocol.NewMessage(protocol.TypeGameOver, protocol.GameOverPayload{
			GameID: g.ID,
			Rounds: g.Round,
		})
		g.broadcast(overMsg)
		g.broadcastTable()
		return nil
	}
	return g.startRound()
}

// HandlePlayerAction processes an incoming message from a seated player.
// Failures are reported back to that player.
func (g *Game) HandlePlayerAction(playerID int, msg protocol.Message) {
	var err error
	switch msg.Type {
	case protocol.TypeStart:
		err = g.Start()
	case protocol.TypePlayCard:
		var payload protocol.PlayCardPayload
		if err = json.Unmarshal(msg.Payload, &payload); err != nil {
			err = fmt.Errorf("invalid play_card message: %w", err)
			break
		}
		err = g.Play(playerID, payload.Card)
	default:
		err = fmt.Errorf("unhandled action type %q", msg.Type)
	}

	if err != nil {
		g.log.WithField("player", playerID).WithError(err).Warnf("Rejected %s.", msg.Type)
		g.mu.Lock()
		g.sendErrorToPlayer(playerID, err.Error())
		g.mu.Unlock()
	}
}

// HandlePlayerDisconnect frees the seat of a player who leaves before the
// start, or ends the game if play has begun.
func (g *Game) HandlePlayerDisconnect(playerID int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.State {
	case GameOver:
		return
	case Waiting:
		if err := g.table.RemoveSeat(playerID); err != nil {
			g.log.WithError(err).Warn("Disconnect from unseated player.")
			return
		}
		g.log.WithField("player", playerID).Info("Player left before the start.")
		return
	}

	if g.seatIndex(playerID) < 0 {
		return
	}
	g.log.WithField("player", playerID).Warn("Player disconnected mid-game. Ending game.")
	g.State = GameOver
	g.table.ClearRound()
	overMsg, _ := protocol.NewMessage(protocol.TypeGameOver, protocol.GameOverPayload{
		GameID: g.ID,
		Rounds: g.Round,
	})
	g.broadcast(overMsg)
}

// --- Read access ---

// Status is a copy of the session state for presentation.
type Status struct {
	GameID          string           `json:"game_id"`
	State           GameState        `json:"state"`
	Round           int              `json:"round"`
	CurrentPlayerID int              `json:"current_player_id,omitempty"`
	Table           shared.TableView `json:"table"`
}

// Status returns a snapshot of the session, hands included.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{
		GameID:          g.ID,
		State:           g.State,
		Round:           g.Round,
		CurrentPlayerID: g.currentPlayerID(),
		Table:           g.table.Snapshot(),
	}
}

// Hand returns a copy of the player's hand.
func (g *Game) Hand(playerID int) ([]shared.Card, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	seat, err := g.table.Seat(playerID)
	if err != nil {
		return nil, err
	}
	hand := make([]shared.Card, len(seat.Hand))
	copy(hand, seat.Hand)
	return hand, nil
}

// --- Messaging Helpers (Assume lock is held) ---

func (g *Game) broadcast(message []byte) {
	if g.sendMessage == nil {
		return
	}
	for _, seat := range g.table.Seats {
		g.sendMessage(seat.Player.ID, message)
	}
}

func (g *Game) sendToPlayer(playerID int, message []byte) {
	if g.sendMessage == nil {
		return
	}
	g.sendMessage(playerID, message)
}

func (g *Game) sendErrorToPlayer(playerID int, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		g.log.WithError(err).Error("Error creating error message.")
		return
	}
	g.sendToPlayer(playerID, msgBytes)
}

func (g *Game) broadcastError(errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		g.log.WithError(err).Error("Error creating broadcast error message.")
		return
	}
	g.broadcast(msgBytes)
}

// broadcastTable sends the public table view to everyone.
func (g *Game) broadcastTable() {
	seats := make([]protocol.SeatInfo, len(g.table.Seats))
	for i, s := range g.table.Seats {
		seats[i] = protocol.SeatInfo{
			Player:    s.Player,
			HandSize:  len(s.Hand),
			TricksWon: s.Tricks,
		}
	}
	river := make([]shared.PlayedCard, len(g.table.River))
	copy(river, g.table.River)

	msgBytes, _ := protocol.NewMessage(protocol.TypeTableUpdate, protocol.TableUpdatePayload{
		State:           string(g.State),
		Round:           g.Round,
		DeckSize:        g.table.Deck.Len(),
		CurrentPlayerID: g.currentPlayerID(),
		River:           river,
		Seats:           seats,
	})
	g.broadcast(msgBytes)
}

func (g *Game) notifyCurrentPlayerTurn() {
	id := g.currentPlayerID()
	if id == 0 {
		return
	}
	msgBytes, _ := protocol.NewMessage(protocol.TypeYourTurn, protocol.YourTurnPayload{PlayerID: id})
	g.sendToPlayer(id, msgBytes)
}

// --- Utility Helpers ---

func (g *Game) currentPlayerID() int {
	if g.State != Playing || g.turnIndex < 0 || g.turnIndex >= len(g.table.Seats) {
		return 0
	}
	return g.table.Seats[g.turnIndex].Player.ID
}

// seatIndex returns the seat index of a player, or -1.
func (g *Game) seatIndex(playerID int) int {
	for i, s := range g.table.Seats {
		if s.Player.ID == playerID {
			return i
		}
	}
	return -1
}
