package shared

import (
	"fmt"
	"slices"
)

// Table owns the seats, the shared deck and the river of the trick in
// progress. Every card is held by exactly one of them at any time.
type Table struct {
	Seats     []*Seat
	Deck      *Deck
	River     []PlayedCard
	SeatCount int
}

// NewTable creates a table around the given deck, with no seats.
func NewTable(deck *Deck) *Table {
	if deck == nil {
		deck = NewDeck(nil)
	}
	return &Table{
		Seats: []*Seat{},
		Deck:  deck,
		River: []PlayedCard{},
	}
}

// AddSeat seats a player and returns the new seat.
func (t *Table) AddSeat(p Player) *Seat {
	seat := NewSeat(p)
	t.Seats = append(t.Seats, seat)
	t.SeatCount = len(t.Seats)
	return seat
}

// RemoveSeat removes an empty seat. Seats holding cards cannot be removed;
// clear the round first.
func (t *Table) RemoveSeat(playerID int) error {
	i := slices.IndexFunc(t.Seats, func(s *Seat) bool { return s.Player.ID == playerID })
	if i < 0 {
		return fmt.Errorf("%w %d", ErrSeatNotFound, playerID)
	}
	if s := t.Seats[i]; len(s.Hand) > 0 || len(s.Plis) > 0 {
		return fmt.Errorf("%w: seat %d still holds cards", ErrInvalidOperation, playerID)
	}
	t.Seats = slices.Delete(t.Seats, i, i+1)
	t.SeatCount = len(t.Seats)
	return nil
}

// Seat returns the seat of the given player.
func (t *Table) Seat(playerID int) (*Seat, error) {
	for _, s := range t.Seats {
		if s.Player.ID == playerID {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w %d", ErrSeatNotFound, playerID)
}

// ShuffleSeats randomizes the seating order.
func (t *Table) ShuffleSeats(rng RNG) {
	shuffle(rng, t.Seats)
}

// Deal gives cardsPerSeat cards to every seat, one at a time around the
// table. Nothing is dealt if the deck cannot serve everyone.
func (t *Table) Deal(cardsPerSeat int) error {
	if cardsPerSeat < 0 {
		return fmt.Errorf("%w: cannot deal %d cards", ErrInvalidOperation, cardsPerSeat)
	}
	need := cardsPerSeat * len(t.Seats)
	if t.Deck.Len() < need {
		return fmt.Errorf("%w: need %d cards, %d left", ErrDeckEmpty, need, t.Deck.Len())
	}
	for range cardsPerSeat {
		for _, seat := range t.Seats {
			card, err := t.Deck.DealOne()
			if err != nil {
				return err
			}
			seat.AddCard(card)
		}
	}
	return nil
}

// PlayCard moves a card from the player's hand to the river. A wild card
// passed with a declared effect is played with that effect. Suit following
// is not checked here.
func (t *Table) PlayCard(playerID int, card Card) (PlayedCard, error) {
	seat, err := t.Seat(playerID)
	if err != nil {
		return PlayedCard{}, err
	}
	i := seat.FindCard(card)
	if i < 0 {
		return PlayedCard{}, fmt.Errorf("%w: player %d has no %s", ErrCardNotInHand, playerID, card)
	}

	if card.Effect() != EffectNone {
		if err := seat.Hand[i].SetEffect(card.Effect()); err != nil {
			return PlayedCard{}, err
		}
	}
	played, _ := seat.RemoveCard(card)

	pc := PlayedCard{
		Order:    len(t.River),
		PlayerID: playerID,
		Card:     played,
	}
	t.River = append(t.River, pc)
	return pc, nil
}

// ResolveTrick drains the river into the winner's plis. The river is left
// untouched if it is empty or the winner has no seat.
func (t *Table) ResolveTrick(winnerID int) error {
	if len(t.River) == 0 {
		return ErrRiverEmpty
	}
	seat, err := t.Seat(winnerID)
	if err != nil {
		return err
	}
	for len(t.River) > 0 {
		last := t.River[len(t.River)-1]
		t.River = t.River[:len(t.River)-1]
		seat.Plis = append(seat.Plis, last.Card)
	}
	seat.Tricks++
	return nil
}

// VoidTrick returns the river to the deck without crediting anyone and
// returns how many cards were moved.
func (t *Table) VoidTrick() int {
	n := len(t.River)
	for _, pc := range t.River {
		t.Deck.Push(pc.Card.fresh())
	}
	t.River = []PlayedCard{}
	return n
}

// ClearRound gathers every hand, plis and any residual river back into the
// deck and reshuffles it. With nothing to gather it does nothing.
func (t *Table) ClearRound() {
	var all []Card
	for _, seat := range t.Seats {
		all = append(all, seat.drain()...)
	}
	for len(t.River) > 0 {
		last := t.River[len(t.River)-1]
		t.River = t.River[:len(t.River)-1]
		all = append(all, last.Card)
	}
	if len(all) == 0 {
		return
	}
	for _, c := range all {
		t.Deck.Push(c.fresh())
	}
	t.Deck.Shuffle()
}

// CardCount returns the number of cards held anywhere on the table.
func (t *Table) CardCount() int {
	n := t.Deck.Len() + len(t.River)
	for _, s := range t.Seats {
		n += len(s.Hand) + len(s.Plis)
	}
	return n
}

// HandsEmpty reports whether every seat has played out its hand.
func (t *Table) HandsEmpty() bool {
	for _, s := range t.Seats {
		if len(s.Hand) > 0 {
			return false
		}
	}
	return true
}

// SeatView is a read-only copy of a seat.
type SeatView struct {
	Player Player `json:"player"`
	Hand   []Card `json:"hand"`
	Plis   []Card `json:"plis"`
	Tricks int    `json:"tricks"`
}

// TableView is a read-only copy of the table for presentation.
type TableView struct {
	DeckSize int          `json:"deck_size"`
	Seats    []SeatView   `json:"seats"`
	River    []PlayedCard `json:"river"`
}

// Snapshot copies the table state.
func (t *Table) Snapshot() TableView {
	v := TableView{
		DeckSize: t.Deck.Len(),
		Seats:    make([]SeatView, len(t.Seats)),
		River:    slices.Clone(t.River),
	}
	for i, s := range t.Seats {
		v.Seats[i] = SeatView{
			Player: s.Player,
			Hand:   slices.Clone(s.Hand),
			Plis:   slices.Clone(s.Plis),
			Tricks: s.Tricks,
		}
	}
	return v
}
