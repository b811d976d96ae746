package game

// checkFollowsSuit enforces the follow-suit rule: once a lead suit is
// established, a card of a ranked suit other than the lead is illegal
// while the hand still holds the lead suit. Wizards and jesters are
// always legal, and the card that established the lead this call is
// legal by construction (enforce is false then).
func checkFollowsSuit(card Card, hand []Card, lead Suit, enforce bool) error {
	if !enforce {
		return nil
	}
	if card.Suit == Wizard || card.Suit == Jester || card.Suit == lead {
		return nil
	}
	if handHasSuit(hand, lead) {
		return &MustFollowSuitError{Played: card, LeadSuit: lead}
	}
	return nil
}
