package domain

import "math/rand"

// Deck composition is fixed: 6 liberal and 11 fascist policies. Together
// with the discard pile, the in-flight drawn cards and both enacted
// counters the total is always TotalPolicyCards.
const (
	LiberalPolicyCount = 6
	FascistPolicyCount = 11
	TotalPolicyCards   = LiberalPolicyCount + FascistPolicyCount
)

// NewPolicyDeck returns an ordered, unshuffled policy deck.
func NewPolicyDeck() []Policy {
	deck := make([]Policy, 0, TotalPolicyCards)
	for i := 0; i < LiberalPolicyCount; i++ {
		deck = append(deck, PolicyLiberal)
	}
	for i := 0; i < FascistPolicyCount; i++ {
		deck = append(deck, PolicyFascist)
	}
	return deck
}

// ShufflePolicies returns a shuffled copy of the given cards.
func ShufflePolicies(rng *rand.Rand, cards []Policy) []Policy {
	out := make([]Policy, len(cards))
	copy(out, cards)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// ReshuffleIfNeeded folds the discard pile back into the deck and shuffles
// whenever fewer than 3 cards remain. Callers must invoke it before every
// draw or peek. Reports whether a reshuffle happened.
func (g *GameState) ReshuffleIfNeeded(rng *rand.Rand) bool {
	if len(g.PolicyDeck) >= 3 {
		return false
	}
	merged := make([]Policy, 0, len(g.PolicyDeck)+len(g.DiscardPile))
	merged = append(merged, g.PolicyDeck...)
	merged = append(merged, g.DiscardPile...)
	g.PolicyDeck = ShufflePolicies(rng, merged)
	g.DiscardPile = nil
	return true
}

// Draw removes and returns the first n cards of the deck.
func (g *GameState) Draw(n int) []Policy {
	drawn := make([]Policy, n)
	copy(drawn, g.PolicyDeck[:n])
	g.PolicyDeck = g.PolicyDeck[n:]
	return drawn
}

// Discard moves a card onto the discard pile.
func (g *GameState) Discard(p Policy) {
	g.DiscardPile = append(g.DiscardPile, p)
}

// CardCount sums every place a policy card can live. It must always equal
// TotalPolicyCards; no card is ever duplicated or lost.
func (g *GameState) CardCount() int {
	return len(g.PolicyDeck) + len(g.DiscardPile) + len(g.DrawnPolicies) +
		g.LiberalPolicies + g.FascistPolicies
}
