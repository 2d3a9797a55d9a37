package shared

import (
	"fmt"
	"math/rand/v2"
	"slices"

	log "github.com/sirupsen/logrus"
)

// Fixed counts of special cards in every deck.
const (
	WhiteFlagCount = 5
	PirateCount    = 5
	MermaidCount   = 2
	SkullKingCount = 1
	WildCount      = 1
)

// RNG is the randomness source used for shuffling.
type RNG interface {
	IntN(n int) int
}

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) IntN(n int) int { return rand.IntN(n) }

// DeckConfig holds the size parameters of a deck.
type DeckConfig struct {
	Suits        []Color `json:"suits"`
	CardsPerSuit int     `json:"cards_per_suit"`
	SkullCount   int     `json:"skull_count"`
}

// DefaultDeckConfig is the three standard suits numbered 1 to 13, plus
// thirteen skulls.
func DefaultDeckConfig() DeckConfig {
	return DeckConfig{
		Suits:        slices.Clone(StandardSuits),
		CardsPerSuit: 13,
		SkullCount:   13,
	}
}

// Size returns the number of cards a deck built from the config holds.
func (c DeckConfig) Size() int {
	return len(c.Suits)*c.CardsPerSuit + c.SkullCount +
		WhiteFlagCount + PirateCount + MermaidCount + SkullKingCount + WildCount
}

// Validate checks that every numbered card stays within 1..CardsPerSuit.
func (c DeckConfig) Validate() error {
	if c.CardsPerSuit < 1 {
		return fmt.Errorf("%w: cards per suit must be at least 1, got %d", ErrInvalidDeckConfig, c.CardsPerSuit)
	}
	if c.SkullCount < 0 || c.SkullCount > c.CardsPerSuit {
		return fmt.Errorf("%w: skull count must be between 0 and %d, got %d", ErrInvalidDeckConfig, c.CardsPerSuit, c.SkullCount)
	}
	for i, suit := range c.Suits {
		if !slices.Contains(StandardSuits, suit) {
			return fmt.Errorf("%w: %s is not a suit color", ErrInvalidDeckConfig, suit)
		}
		if slices.Contains(c.Suits[:i], suit) {
			return fmt.Errorf("%w: suit %s listed twice", ErrInvalidDeckConfig, suit)
		}
	}
	return nil
}

// Deck is an ordered collection of cards. Cards are dealt from the end.
type Deck struct {
	cards []Card
	rng   RNG
}

// NewDeck returns an empty deck shuffling with rng. A nil rng uses
// math/rand/v2.
func NewDeck(rng RNG) *Deck {
	if rng == nil {
		rng = stdRNG{}
	}
	return &Deck{rng: rng}
}

// BuildDeck creates an unshuffled deck: each suit numbered 1..CardsPerSuit,
// skulls numbered 1..SkullCount, then the special cards.
func BuildDeck(cfg DeckConfig, rng RNG) (*Deck, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := NewDeck(rng)
	d.cards = make([]Card, 0, cfg.Size())
	for _, suit := range cfg.Suits {
		for v := 1; v <= cfg.CardsPerSuit; v++ {
			d.cards = append(d.cards, NewColorCard(suit, v))
		}
	}
	for v := 1; v <= cfg.SkullCount; v++ {
		d.cards = append(d.cards, NewSkullCard(v))
	}
	for range WhiteFlagCount {
		d.cards = append(d.cards, NewWhiteFlag())
	}
	for range PirateCount {
		d.cards = append(d.cards, NewPirate())
	}
	for range MermaidCount {
		d.cards = append(d.cards, NewMermaid())
	}
	d.cards = append(d.cards, NewSkullKing(), NewWild())
	return d, nil
}

// NewDefaultDeck builds the standard 66-card deck.
func NewDefaultDeck(rng RNG) *Deck {
	d, err := BuildDeck(DefaultDeckConfig(), rng)
	if err != nil {
		// The default config is a constant.
		panic(err)
	}
	return d
}

// Shuffle randomizes the order of cards in the deck (Fisher-Yates).
func (d *Deck) Shuffle() {
	shuffle(d.rng, d.cards)
	log.Debugf("Deck shuffled (%d cards).", len(d.cards))
}

// DealOne removes and returns the last card of the deck.
func (d *Deck) DealOne() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckEmpty
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// Push puts cards back at the end of the deck.
func (d *Deck) Push(cards ...Card) {
	d.cards = append(d.cards, cards...)
}

func (d *Deck) Len() int { return len(d.cards) }

// Cards returns a copy of the deck in order, last card dealt first.
func (d *Deck) Cards() []Card { return slices.Clone(d.cards) }

// shuffle performs an unbiased in-place Fisher-Yates permutation.
func shuffle[T any](rng RNG, s []T) {
	if rng == nil {
		rng = stdRNG{}
	}
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
