package shared

import "slices"

// Player is the identity supplied by whoever seats people at the table.
// IDs are compared, never generated or validated here.
type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Seat is a player's place at the table: the cards in hand and the cards
// won in tricks this round (plis).
type Seat struct {
	Player Player
	Hand   []Card
	Plis   []Card
	Tricks int // tricks won this round
}

// NewSeat creates an empty seat for the given player.
func NewSeat(p Player) *Seat {
	return &Seat{
		Player: p,
		Hand:   []Card{},
		Plis:   []Card{},
	}
}

// AddCard adds a card to the seat's hand.
func (s *Seat) AddCard(card Card) {
	s.Hand = append(s.Hand, card)
}

// RemoveCard takes the first matching card out of the hand and returns it.
func (s *Seat) RemoveCard(card Card) (Card, bool) {
	i := s.FindCard(card)
	if i < 0 {
		return Card{}, false
	}
	removed := s.Hand[i]
	s.Hand = slices.Delete(s.Hand, i, i+1)
	return removed, true
}

// FindCard returns the index of the first card in hand that is the same
// printed card, or -1.
func (s *Seat) FindCard(card Card) int {
	return slices.IndexFunc(s.Hand, card.Same)
}

// drain empties the hand and plis and returns their cards.
func (s *Seat) drain() []Card {
	cards := make([]Card, 0, len(s.Hand)+len(s.Plis))
	cards = append(cards, s.Hand...)
	cards = append(cards, s.Plis...)
	s.Hand = []Card{}
	s.Plis = []Card{}
	s.Tricks = 0
	return cards
}
