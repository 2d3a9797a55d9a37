package shared

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// Kind is the variant tag of a card.
type Kind string

const (
	KindColor     Kind = "color"
	KindSkull     Kind = "skull" // black trump
	KindFlag      Kind = "flag"
	KindPirate    Kind = "pirate"
	KindMermaid   Kind = "mermaid"
	KindSkullKing Kind = "skull_king"
	KindWild      Kind = "wild" // Mary Sue
)

// Color is the printed color of a card. Only Red, Blue and Green are suits.
type Color string

const (
	Red      Color = "Red"
	Blue     Color = "Blue"
	Green    Color = "Green"
	Black    Color = "Black"
	Brown    Color = "Brown"
	Pink     Color = "Pink"
	DarkBlue Color = "DarkBlue"
	White    Color = "White"
)

// StandardSuits are the suit colors of the default deck.
var StandardSuits = []Color{Red, Blue, Green}

// Effect is the role declared for a wild card when it is played.
type Effect string

const (
	EffectNone   Effect = ""
	EffectPirate Effect = "pirate"
	EffectFlag   Effect = "flag"
)

// Card is a single card. The zero value is not a valid card; use the
// constructors below.
type Card struct {
	kind   Kind
	color  Color
	value  int
	effect Effect
}

func NewColorCard(color Color, value int) Card {
	return Card{kind: KindColor, color: color, value: value}
}

func NewSkullCard(value int) Card {
	return Card{kind: KindSkull, color: Black, value: value}
}

func NewWhiteFlag() Card { return Card{kind: KindFlag, color: White} }
func NewPirate() Card    { return Card{kind: KindPirate, color: Brown} }
func NewMermaid() Card   { return Card{kind: KindMermaid, color: Pink} }
func NewSkullKing() Card { return Card{kind: KindSkullKing, color: DarkBlue} }
func NewWild() Card      { return Card{kind: KindWild, color: Brown} }

// Kind returns the printed variant, regardless of any declared effect.
func (c Card) Kind() Kind { return c.kind }

// Type returns the variant the card currently plays as. A wild card plays as
// a pirate until its holder declares otherwise.
func (c Card) Type() Kind {
	if c.kind != KindWild {
		return c.kind
	}
	if c.effect == EffectFlag {
		return KindFlag
	}
	return KindPirate
}

func (c Card) Color() Color { return c.color }

// Value returns the number of a color or skull card. Special cards have none.
func (c Card) Value() (int, bool) {
	if c.kind == KindColor || c.kind == KindSkull {
		return c.value, true
	}
	return 0, false
}

// IsSpecial reports whether the card is a character card without a number.
func (c Card) IsSpecial() bool {
	switch c.kind {
	case KindFlag, KindPirate, KindMermaid, KindSkullKing, KindWild:
		return true
	}
	return false
}

// IsTrump reports whether the card belongs to the trump suit.
func (c Card) IsTrump() bool { return c.kind == KindSkull }

func (c Card) Effect() Effect { return c.effect }

// SetEffect declares what a wild card plays as. It may be called once per
// card; a fresh card is issued when the round is cleared.
func (c *Card) SetEffect(e Effect) error {
	if c.kind != KindWild {
		return fmt.Errorf("%w (got %s)", ErrNotWild, c.kind)
	}
	if e != EffectPirate && e != EffectFlag {
		return fmt.Errorf("%w (got %q)", ErrInvalidEffect, e)
	}
	if c.effect != EffectNone {
		return ErrEffectAlreadySet
	}
	c.effect = e
	return nil
}

// Same reports whether two cards are the same printed card. Declared effects
// are ignored.
func (c Card) Same(other Card) bool {
	return c.kind == other.kind && c.color == other.color && c.value == other.value
}

// fresh returns the card as printed, without a declared effect.
func (c Card) fresh() Card {
	c.effect = EffectNone
	return c
}

func (c Card) String() string {
	switch c.kind {
	case KindColor:
		return strconv.Itoa(c.value) + " " + string(c.color)
	case KindSkull:
		return strconv.Itoa(c.value) + " Skull"
	case KindFlag:
		return "WhiteFlag"
	case KindPirate:
		return "Pirate"
	case KindMermaid:
		return "Mermaid"
	case KindSkullKing:
		return "SkullKing"
	case KindWild:
		if c.effect == EffectNone {
			return "MarySue"
		}
		return "MarySue(" + string(c.effect) + ")"
	}
	return "?"
}

type cardJSON struct {
	Kind   Kind   `json:"kind"`
	Color  Color  `json:"color,omitempty"`
	Value  int    `json:"value,omitempty"`
	Effect Effect `json:"effect,omitempty"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Kind: c.kind, Color: c.color, Value: c.value, Effect: c.effect})
}

// UnmarshalJSON accepts the wire form of a card. A wild card may carry the
// effect its holder declares when playing it.
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var card Card
	switch raw.Kind {
	case KindColor:
		if !slices.Contains(StandardSuits, raw.Color) || raw.Value < 1 {
			return fmt.Errorf("%w: color card %d %s", ErrInvalidCard, raw.Value, raw.Color)
		}
		card = NewColorCard(raw.Color, raw.Value)
	case KindSkull:
		if raw.Value < 1 {
			return fmt.Errorf("%w: skull card %d", ErrInvalidCard, raw.Value)
		}
		card = NewSkullCard(raw.Value)
	case KindFlag:
		card = NewWhiteFlag()
	case KindPirate:
		card = NewPirate()
	case KindMermaid:
		card = NewMermaid()
	case KindSkullKing:
		card = NewSkullKing()
	case KindWild:
		card = NewWild()
		if raw.Effect != EffectNone {
			if err := card.SetEffect(raw.Effect); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidCard, raw.Kind)
	}
	*c = card
	return nil
}
