package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, names ...string) *Table {
	t.Helper()
	table := NewTable(NewDefaultDeck(seededRNG()))
	for i, name := range names {
		table.AddSeat(Player{ID: i + 1, Name: name})
	}
	require.Equal(t, len(names), table.SeatCount)
	return table
}

func TestDeal(t *testing.T) {
	table := newTestTable(t, "A", "B", "C")
	table.Deck.Shuffle()

	require.NoError(t, table.Deal(4))
	for _, s := range table.Seats {
		assert.Len(t, s.Hand, 4)
	}
	assert.Equal(t, 66-12, table.Deck.Len())
	assert.Equal(t, 66, table.CardCount())
}

func TestDealNotEnoughCards(t *testing.T) {
	table := NewTable(NewDeck(nil))
	table.AddSeat(Player{ID: 1, Name: "A"})
	table.AddSeat(Player{ID: 2, Name: "B"})
	table.Deck.Push(NewPirate(), NewMermaid(), NewSkullKing())

	err := table.Deal(2)
	assert.ErrorIs(t, err, ErrDeckEmpty)
	assert.Equal(t, 3, table.Deck.Len(), "nothing dealt on failure")
	assert.Empty(t, table.Seats[0].Hand)
}

func TestPlayCard(t *testing.T) {
	table := NewTable(NewDeck(nil))
	a := table.AddSeat(Player{ID: 1, Name: "A"})
	b := table.AddSeat(Player{ID: 2, Name: "B"})
	a.AddCard(NewColorCard(Red, 5))
	b.AddCard(NewColorCard(Blue, 9))

	pc, err := table.PlayCard(1, NewColorCard(Red, 5))
	require.NoError(t, err)
	assert.Equal(t, 0, pc.Order)
	assert.Empty(t, a.Hand)

	_, err = table.PlayCard(2, NewColorCard(Blue, 8))
	assert.ErrorIs(t, err, ErrCardNotInHand)
	assert.ErrorIs(t, err, ErrEmptyResource)

	_, err = table.PlayCard(7, NewColorCard(Blue, 9))
	assert.ErrorIs(t, err, ErrSeatNotFound)

	pc, err = table.PlayCard(2, NewColorCard(Blue, 9))
	require.NoError(t, err)
	assert.Equal(t, 1, pc.Order)
	require.Len(t, table.River, 2)

	best, err := TrickWinner(table.River)
	require.NoError(t, err)
	assert.Equal(t, 1, best.PlayerID)
}

func TestPlayWildWithEffect(t *testing.T) {
	table := NewTable(NewDeck(nil))
	a := table.AddSeat(Player{ID: 1, Name: "A"})
	a.AddCard(NewWild())

	pc, err := table.PlayCard(1, wildAs(t, EffectFlag))
	require.NoError(t, err)
	assert.Equal(t, KindFlag, pc.Card.Type())
	assert.Equal(t, KindWild, pc.Card.Kind())
}

func TestResolveTrick(t *testing.T) {
	table := newTestTable(t, "A", "B", "C")
	table.Seats[0].AddCard(NewSkullCard(5))
	table.Seats[1].AddCard(NewColorCard(Red, 3))
	table.Seats[2].AddCard(NewPirate())

	for _, s := range table.Seats {
		_, err := table.PlayCard(s.Player.ID, s.Hand[0])
		require.NoError(t, err)
	}

	best, err := TrickWinner(table.River)
	require.NoError(t, err)
	require.Equal(t, 3, best.PlayerID)

	assert.ErrorIs(t, table.ResolveTrick(42), ErrSeatNotFound)
	assert.Len(t, table.River, 3, "river untouched on failure")

	require.NoError(t, table.ResolveTrick(best.PlayerID))
	assert.Empty(t, table.River)
	winner := table.Seats[2]
	require.Len(t, winner.Plis, 3)
	assert.Equal(t, KindPirate, winner.Plis[0].Kind(), "reverse pop order")
	assert.Equal(t, KindSkull, winner.Plis[2].Kind())
	assert.Equal(t, 1, winner.Tricks)
}

func TestResolveTrickEmptyRiver(t *testing.T) {
	table := newTestTable(t, "A")
	err := table.ResolveTrick(1)
	assert.ErrorIs(t, err, ErrRiverEmpty)
	assert.ErrorIs(t, err, ErrEmptyResource)
}

func TestVoidTrick(t *testing.T) {
	table := newTestTable(t, "A", "B")
	table.Seats[0].AddCard(NewWhiteFlag())
	table.Seats[1].AddCard(NewWild())
	_, err := table.PlayCard(1, NewWhiteFlag())
	require.NoError(t, err)
	_, err = table.PlayCard(2, wildAs(t, EffectFlag))
	require.NoError(t, err)

	_, err = TrickWinner(table.River)
	require.ErrorIs(t, err, ErrNoWinner)

	deckBefore := table.Deck.Len()
	assert.Equal(t, 2, table.VoidTrick())
	assert.Empty(t, table.River)
	assert.Equal(t, deckBefore+2, table.Deck.Len())
	for _, c := range table.Deck.Cards() {
		assert.Equal(t, EffectNone, c.Effect())
	}
}

func TestClearRound(t *testing.T) {
	table := newTestTable(t, "A", "B", "C")
	table.Deck.Shuffle()
	require.NoError(t, table.Deal(3))

	for _, s := range table.Seats {
		_, err := table.PlayCard(s.Player.ID, s.Hand[0])
		require.NoError(t, err)
	}
	require.NoError(t, table.ResolveTrick(2))
	_, err := table.PlayCard(1, table.Seats[0].Hand[0])
	require.NoError(t, err)

	table.ClearRound()
	assert.Equal(t, 66, table.Deck.Len())
	assert.Empty(t, table.River)
	for _, s := range table.Seats {
		assert.Empty(t, s.Hand)
		assert.Empty(t, s.Plis)
		assert.Zero(t, s.Tricks)
	}
	assert.Equal(t, countKinds(NewDefaultDeck(nil).Cards()), countKinds(table.Deck.Cards()))

	require.NoError(t, table.Deal(5))
	assert.Equal(t, 66, table.CardCount())
}

func TestClearRoundResetsWild(t *testing.T) {
	table := NewTable(NewDeck(seededRNG()))
	table.AddSeat(Player{ID: 1, Name: "A"}).AddCard(NewWild())
	_, err := table.PlayCard(1, wildAs(t, EffectFlag))
	require.NoError(t, err)
	require.NoError(t, table.ResolveTrick(1))

	table.ClearRound()
	c, err := table.Deck.DealOne()
	require.NoError(t, err)
	assert.Equal(t, EffectNone, c.Effect())
	assert.NoError(t, c.SetEffect(EffectPirate))
}

func TestClearRoundNothingToClear(t *testing.T) {
	table := newTestTable(t, "A", "B")
	order := table.Deck.Cards()

	table.ClearRound()
	table.ClearRound()
	assert.Equal(t, order, table.Deck.Cards())
}

func TestSnapshotIsACopy(t *testing.T) {
	table := newTestTable(t, "A")
	table.Seats[0].AddCard(NewMermaid())

	view := table.Snapshot()
	require.Len(t, view.Seats, 1)
	view.Seats[0].Hand[0] = NewPirate()
	assert.Equal(t, KindMermaid, table.Seats[0].Hand[0].Kind())
	assert.Equal(t, 66, view.DeckSize)
}

func TestRemoveSeat(t *testing.T) {
	table := newTestTable(t, "A", "B")
	require.NoError(t, table.RemoveSeat(1))
	assert.Equal(t, 1, table.SeatCount)
	assert.ErrorIs(t, table.RemoveSeat(1), ErrSeatNotFound)

	table.Seats[0].AddCard(NewPirate())
	assert.ErrorIs(t, table.RemoveSeat(2), ErrInvalidOperation)
}
