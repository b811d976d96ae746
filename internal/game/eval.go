package game

// evaluateTrick returns the play-order index of the winning card.
// Precedence: the first wizard played wins outright; a trick of only
// jesters goes to the first jester; otherwise cards are compared
// pairwise and the earliest best card is kept, so a tie between two
// off-suit cards never produces a later winner.
func evaluateTrick(cards []Card, trump, lead Suit) int {
	for i, c := range cards {
		if c.Suit == Wizard {
			return i
		}
	}
	best := -1
	for i, c := range cards {
		if c.Suit == Jester {
			continue
		}
		if best == -1 || cardBeats(c, cards[best], trump, lead) {
			best = i
		}
	}
	if best == -1 {
		// Only jesters were played.
		return 0
	}
	return best
}

// cardBeats reports whether challenger c outranks the current best card.
// Within one suit the ace (1) beats everything and higher numbers win;
// across suits trump beats non-trump, then lead beats a card that is
// neither; two off-suit cards do not beat each other.
func cardBeats(c, best Card, trump, lead Suit) bool {
	if c.Suit == best.Suit {
		return rankValue(c.Number) > rankValue(best.Number)
	}
	if trump != Jester {
		if c.Suit == trump {
			return true
		}
		if best.Suit == trump {
			return false
		}
	}
	return c.Suit == lead && best.Suit != lead
}

func rankValue(n int) int {
	if n == 1 {
		return 14
	}
	return n
}
