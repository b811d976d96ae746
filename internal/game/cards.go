package game

import (
	"fmt"
	"math/rand"
	"strconv"
)

type Suit int

const (
	Spades Suit = iota
	Clubs
	Hearts
	Diamonds
	Wizard
	Jester
)

// RankedSuits are the four suits that carry numbered cards; Wizard and
// Jester are pseudo-suits and never valid as trump or lead.
var RankedSuits = [4]Suit{Spades, Clubs, Hearts, Diamonds}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Clubs:
		return "c"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Wizard:
		return "w"
	case Jester:
		return "j"
	}
	return "?"
}

func ParseSuit(v string) (Suit, error) {
	switch v {
	case "s":
		return Spades, nil
	case "c":
		return Clubs, nil
	case "h":
		return Hearts, nil
	case "d":
		return Diamonds, nil
	case "w":
		return Wizard, nil
	case "j":
		return Jester, nil
	}
	return 0, fmt.Errorf("parse suit %q", v)
}

// Card is an immutable value. Number is 1..13 for ranked suits, with 1
// (the ace) ranking above 13; wizards and jesters carry no number.
type Card struct {
	Suit   Suit
	Number int
}

func (c Card) String() string {
	if c.Suit == Wizard || c.Suit == Jester {
		return c.Suit.String()
	}
	return c.Suit.String() + strconv.Itoa(c.Number)
}

func ParseCard(v string) (Card, error) {
	if v == "w" {
		return Card{Suit: Wizard}, nil
	}
	if v == "j" {
		return Card{Suit: Jester}, nil
	}
	if len(v) < 2 {
		return Card{}, fmt.Errorf("parse card %q", v)
	}
	suit, err := ParseSuit(v[:1])
	if err != nil || suit == Wizard || suit == Jester {
		return Card{}, fmt.Errorf("parse card %q", v)
	}
	n, err := strconv.Atoi(v[1:])
	if err != nil || n < 1 || n > 13 {
		return Card{}, fmt.Errorf("parse card %q", v)
	}
	return Card{Suit: suit, Number: n}, nil
}

func parseCards(vs []string) ([]Card, error) {
	out := make([]Card, 0, len(vs))
	for _, v := range vs {
		c, err := ParseCard(v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func encodeCards(cs []Card) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.String())
	}
	return out
}

// DeckSize is 4 wizards + 4 jesters + 4 suits of 13.
const DeckSize = 60

type Deck struct {
	cards []Card
}

// NewDeck builds the deck in its fixed pre-shuffle order: wizards,
// jesters, then spades, clubs, hearts, diamonds 1..13.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for i := 0; i < 4; i++ {
		cards = append(cards, Card{Suit: Wizard})
	}
	for i := 0; i < 4; i++ {
		cards = append(cards, Card{Suit: Jester})
	}
	for _, s := range RankedSuits {
		for n := 1; n <= 13; n++ {
			cards = append(cards, Card{Suit: s, Number: n})
		}
	}
	return &Deck{cards: cards}
}

func (d *Deck) Shuffle(rnd *rand.Rand) {
	rnd.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) Deal() Card {
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}

func (d *Deck) Len() int {
	return len(d.cards)
}

func cardsContain(cards []Card, target Card) (int, bool) {
	for i, c := range cards {
		if c == target {
			return i, true
		}
	}
	return -1, false
}

func handHasSuit(cards []Card, s Suit) bool {
	for _, c := range cards {
		if c.Suit == s {
			return true
		}
	}
	return false
}
