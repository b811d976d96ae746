package game

import (
	"math/rand"
	"testing"
)

func TestNewDeckComposition(t *testing.T) {
	d := NewDeck()
	if d.Len() != DeckSize {
		t.Fatalf("deck size = %d, want %d", d.Len(), DeckSize)
	}
	counts := map[Suit]int{}
	for d.Len() > 0 {
		c := d.Deal()
		counts[c.Suit]++
		if c.Suit == Wizard || c.Suit == Jester {
			if c.Number != 0 {
				t.Fatalf("special card %s carries number %d", c, c.Number)
			}
		} else if c.Number < 1 || c.Number > 13 {
			t.Fatalf("card %s has number out of range", c)
		}
	}
	if counts[Wizard] != 4 || counts[Jester] != 4 {
		t.Fatalf("wizards=%d jesters=%d, want 4 each", counts[Wizard], counts[Jester])
	}
	for _, s := range RankedSuits {
		if counts[s] != 13 {
			t.Fatalf("suit %s has %d cards, want 13", s, counts[s])
		}
	}
}

func TestShuffleIsSeedDeterministic(t *testing.T) {
	a, b := NewDeck(), NewDeck()
	a.Shuffle(rand.New(rand.NewSource(7)))
	b.Shuffle(rand.New(rand.NewSource(7)))
	for a.Len() > 0 {
		if ca, cb := a.Deal(), b.Deal(); ca != cb {
			t.Fatalf("same seed produced different decks: %s vs %s", ca, cb)
		}
	}
}

func TestParseCard(t *testing.T) {
	cases := []struct {
		in   string
		want Card
	}{
		{"w", Card{Suit: Wizard}},
		{"j", Card{Suit: Jester}},
		{"s1", Card{Suit: Spades, Number: 1}},
		{"h13", Card{Suit: Hearts, Number: 13}},
		{"d7", Card{Suit: Diamonds, Number: 7}},
	}
	for _, tc := range cases {
		got, err := ParseCard(tc.in)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseCard(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Fatalf("round trip %q -> %q", tc.in, got.String())
		}
	}

	for _, bad := range []string{"", "x3", "s0", "s14", "w2", "j1", "13", "sx"} {
		if _, err := ParseCard(bad); err == nil {
			t.Fatalf("ParseCard(%q) accepted invalid card", bad)
		}
	}
}

func TestHandHasSuitIgnoresOtherSuits(t *testing.T) {
	hand := []Card{{Suit: Hearts, Number: 3}, {Suit: Jester}, {Suit: Wizard}}
	if !handHasSuit(hand, Hearts) {
		t.Fatalf("expected hearts in hand")
	}
	if handHasSuit(hand, Spades) {
		t.Fatalf("did not expect spades in hand")
	}
}
