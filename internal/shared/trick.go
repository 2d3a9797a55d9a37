package shared

// PlayedCard stores a card along with the player who played it and its
// position within the trick.
type PlayedCard struct {
	Order    int  `json:"order"`
	PlayerID int  `json:"player_id"`
	Card     Card `json:"card"`
}

// Beats reports whether a wins over b when only these two cards are
// compared. The first rule that applies decides. The relation is not an
// order: Pirate beats Mermaid, Mermaid beats SkullKing and SkullKing beats
// Pirate.
func Beats(a, b Card) bool {
	at, bt := a.Type(), b.Type()
	switch {
	case bt == KindFlag:
		return true
	case at == KindPirate && bt == KindSkullKing:
		return false
	case at == KindPirate:
		return true
	case at == KindMermaid && bt == KindPirate:
		return false
	case at == KindMermaid:
		return true
	case at == KindSkullKing:
		return true
	case at == KindSkull && bt == KindSkull:
		return a.value > b.value
	case at == KindSkull:
		return true
	case at == KindColor && bt == KindColor:
		if a.color == b.color {
			return a.value > b.value
		}
		return true
	}
	return false
}

// offSuit reports whether both cards are plain color cards of different
// suits.
func offSuit(a, b Card) bool {
	return a.Type() == KindColor && b.Type() == KindColor && a.color != b.color
}

// TrickWinner folds the river in play order: a play replaces the standing
// one when it beats it. An off-suit color card never replaces a standing
// color card. A trick made only of white flags has no winner.
func TrickWinner(river []PlayedCard) (PlayedCard, error) {
	if len(river) == 0 {
		return PlayedCard{}, ErrEmptyTrick
	}

	allFlags := true
	for _, pc := range river {
		if pc.Card.Type() != KindFlag {
			allFlags = false
			break
		}
	}
	if allFlags {
		return PlayedCard{}, ErrAllFlags
	}

	best := river[0]
	for _, pc := range river[1:] {
		if Beats(pc.Card, best.Card) && !offSuit(pc.Card, best.Card) {
			best = pc
		}
	}
	return best, nil
}
