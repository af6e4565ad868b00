package domain

// SelectCard draws one card uniformly at random. Draws are independent, so
// repeats across calls are expected.
func SelectCard(deck Deck, rng RNG) Card {
	return deck.Card(rng.Intn(deck.Len()))
}
