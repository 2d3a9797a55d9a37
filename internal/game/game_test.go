package game

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skullking-game/internal/protocol"
	"skullking-game/internal/shared"
)

// identityRNG makes every shuffle a no-op, so deals follow build order.
type identityRNG struct{}

func (identityRNG) IntN(n int) int { return n - 1 }

// mockSender captures messages per player.
type mockSender struct {
	mu       sync.Mutex
	messages map[int][]protocol.Message
}

func newMockSender() *mockSender {
	return &mockSender{messages: make(map[int][]protocol.Message)}
}

func (m *mockSender) send(playerID int, data []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[playerID] = append(m.messages[playerID], msg)
}

func (m *mockSender) types(playerID int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, msg := range m.messages[playerID] {
		out = append(out, msg.Type)
	}
	return out
}

func (m *mockSender) last(t *testing.T, playerID int, msgType string, payload interface{}) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.messages[playerID]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == msgType {
			require.NoError(t, json.Unmarshal(msgs[i].Payload, payload))
			return
		}
	}
	t.Fatalf("no %s message for player %d", msgType, playerID)
}

func setupTestGame(t *testing.T, rounds int, names ...string) (*Game, *mockSender) {
	t.Helper()
	opts := DefaultOptions()
	opts.Rounds = rounds
	opts.RNG = identityRNG{}

	g, err := NewGame(opts)
	require.NoError(t, err)
	ms := newMockSender()
	g.SetSender(ms.send)

	for i, name := range names {
		p, err := g.AddPlayer(name)
		require.NoError(t, err)
		require.Equal(t, i+1, p.ID)
	}
	return g, ms
}

func TestNewGameInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Rounds = 20
	_, err := NewGame(opts)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.Deck.SkullCount = 20
	_, err = NewGame(opts)
	assert.ErrorIs(t, err, shared.ErrInvalidDeckConfig)
}

func TestAddPlayer(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSeats = 2
	g, err := NewGame(opts)
	require.NoError(t, err)

	_, err = g.AddPlayer("  ")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = g.AddPlayer("Anne")
	require.NoError(t, err)
	_, err = g.AddPlayer("Bonny")
	require.NoError(t, err)
	_, err = g.AddPlayer("Calico")
	assert.ErrorIs(t, err, ErrTableFull)

	require.NoError(t, g.Start())
	_, err = g.AddPlayer("Drake")
	assert.ErrorIs(t, err, ErrGameStarted)
}

func TestStartRequiresPlayers(t *testing.T) {
	g, _ := setupTestGame(t, 1, "Anne")
	assert.ErrorIs(t, g.Start(), ErrNotEnoughPlayers)
	assert.Equal(t, Waiting, g.Status().State)
}

func TestStartDealsFirstRound(t *testing.T) {
	g, ms := setupTestGame(t, 3, "Anne", "Bonny", "Calico")
	require.NoError(t, g.Start())
	assert.ErrorIs(t, g.Start(), ErrGameStarted)

	st := g.Status()
	assert.Equal(t, Playing, st.State)
	assert.Equal(t, 1, st.Round)
	assert.Equal(t, 1, st.CurrentPlayerID)
	assert.Equal(t, 66-3, st.Table.DeckSize)
	for _, s := range st.Table.Seats {
		assert.Len(t, s.Hand, 1)
	}

	assert.Equal(t, []string{
		protocol.TypeGameStart, protocol.TypeDealHand, protocol.TypeTableUpdate, protocol.TypeYourTurn,
	}, ms.types(1))
	assert.NotContains(t, ms.types(2), protocol.TypeYourTurn)

	var deal protocol.DealHandPayload
	ms.last(t, 1, protocol.TypeDealHand, &deal)
	require.Len(t, deal.Hand, 1)
	assert.Equal(t, shared.KindWild, deal.Hand[0].Kind())
}

func TestFullGame(t *testing.T) {
	g, ms := setupTestGame(t, 2, "Anne", "Bonny")
	require.NoError(t, g.Start())

	// Round 1: Anne holds the wild card, Bonny the Skull King.
	assert.ErrorIs(t, g.Play(2, shared.NewSkullKing()), ErrNotYourTurn)
	require.NoError(t, g.Play(1, shared.NewWild()))
	assert.ErrorIs(t, g.Play(1, shared.NewWild()), ErrNotYourTurn)
	require.NoError(t, g.Play(2, shared.NewSkullKing()))

	var trick protocol.TrickEndPayload
	ms.last(t, 1, protocol.TypeTrickEnd, &trick)
	assert.Equal(t, 2, trick.WinnerID)
	assert.Equal(t, shared.KindSkullKing, trick.Winner.Card.Kind())

	var roundEnd protocol.RoundEndPayload
	ms.last(t, 1, protocol.TypeRoundEnd, &roundEnd)
	assert.Equal(t, 1, roundEnd.Round)
	assert.Equal(t, map[int]int{1: 0, 2: 1}, roundEnd.Tricks)

	// Round 2: the lead passes to Bonny.
	st := g.Status()
	require.Equal(t, 2, st.Round)
	assert.Equal(t, 2, st.CurrentPlayerID)
	assert.Equal(t, 66, st.Table.DeckSize+4)

	hand, err := g.Hand(1)
	require.NoError(t, err)
	require.Len(t, hand, 2)

	require.NoError(t, g.Play(2, shared.NewSkullKing()))
	require.NoError(t, g.Play(1, shared.NewMermaid()))
	ms.last(t, 2, protocol.TypeTrickEnd, &trick)
	assert.Equal(t, 1, trick.WinnerID, "mermaid captures the skull king")

	wildAsFlag := shared.NewWild()
	require.NoError(t, wildAsFlag.SetEffect(shared.EffectFlag))
	require.NoError(t, g.Play(1, wildAsFlag))
	require.NoError(t, g.Play(2, shared.NewMermaid()))
	ms.last(t, 2, protocol.TypeTrickEnd, &trick)
	assert.Equal(t, 2, trick.WinnerID)

	st = g.Status()
	assert.Equal(t, GameOver, st.State)
	assert.Equal(t, 66, st.Table.DeckSize, "every card returns to the deck")
	assert.Contains(t, ms.types(1), protocol.TypeGameOver)
	assert.ErrorIs(t, g.Play(1, shared.NewPirate()), ErrGameOver)
}

func TestPlayCardNotInHand(t *testing.T) {
	g, _ := setupTestGame(t, 1, "Anne", "Bonny")
	require.NoError(t, g.Start())

	err := g.Play(1, shared.NewColorCard(shared.Red, 1))
	assert.ErrorIs(t, err, shared.ErrCardNotInHand)
	assert.ErrorIs(t, g.Play(9, shared.NewPirate()), shared.ErrSeatNotFound)
	assert.Equal(t, 1, g.Status().CurrentPlayerID)
}

func TestAllFlagTrickIsVoided(t *testing.T) {
	g, ms := setupTestGame(t, 1, "Anne", "Bonny")
	require.NoError(t, g.Start())

	// Put the dealt cards back and hand out a flag and the wild card instead.
	g.mu.Lock()
	a, b := g.table.Seats[0], g.table.Seats[1]
	g.table.Deck.Push(a.Hand[0], b.Hand[0])
	a.Hand = []shared.Card{shared.NewWhiteFlag()}
	b.Hand = []shared.Card{shared.NewWild()}
	g.mu.Unlock()

	wildAsFlag := shared.NewWild()
	require.NoError(t, wildAsFlag.SetEffect(shared.EffectFlag))
	require.NoError(t, g.Play(1, shared.NewWhiteFlag()))
	require.NoError(t, g.Play(2, wildAsFlag))

	var void protocol.TrickVoidPayload
	ms.last(t, 1, protocol.TypeTrickVoid, &void)
	assert.Len(t, void.Cards, 2)
	assert.NotContains(t, ms.types(1), protocol.TypeTrickEnd)

	var roundEnd protocol.RoundEndPayload
	ms.last(t, 2, protocol.TypeRoundEnd, &roundEnd)
	assert.Equal(t, map[int]int{1: 0, 2: 0}, roundEnd.Tricks)
	assert.Equal(t, GameOver, g.Status().State)
}

func TestHandlePlayerAction(t *testing.T) {
	g, ms := setupTestGame(t, 1, "Anne", "Bonny")

	g.HandlePlayerAction(1, protocol.Message{Type: protocol.TypePlayCard, Payload: json.RawMessage(`{"card":{"kind":"pirate"}}`)})
	var errPayload protocol.ErrorPayload
	ms.last(t, 1, protocol.TypeError, &errPayload)
	assert.Equal(t, ErrNotPlaying.Error(), errPayload.Message)

	g.HandlePlayerAction(2, protocol.Message{Type: protocol.TypeStart})
	assert.Equal(t, Playing, g.Status().State)

	g.HandlePlayerAction(1, protocol.Message{Type: protocol.TypePlayCard, Payload: json.RawMessage(`{"card":{"kind":"joker"}}`)})
	ms.last(t, 1, protocol.TypeError, &errPayload)
	assert.Contains(t, errPayload.Message, "invalid play_card message")

	g.HandlePlayerAction(1, protocol.Message{Type: protocol.TypePlayCard, Payload: json.RawMessage(`{"card":{"kind":"wild","effect":"pirate"}}`)})
	assert.Equal(t, 2, g.Status().CurrentPlayerID)
}

func TestHandlePlayerDisconnect(t *testing.T) {
	g, ms := setupTestGame(t, 2, "Anne", "Bonny", "Calico")

	g.HandlePlayerDisconnect(3)
	assert.Len(t, g.Status().Table.Seats, 2)

	require.NoError(t, g.Start())
	g.HandlePlayerDisconnect(2)

	st := g.Status()
	assert.Equal(t, GameOver, st.State)
	assert.Equal(t, 66, st.Table.DeckSize)
	assert.Contains(t, ms.types(1), protocol.TypeGameOver)
}
