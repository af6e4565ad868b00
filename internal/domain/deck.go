package domain

import "fmt"

// DeckSize is the number of cards every deck must hold.
const DeckSize = 22

// Deck is an immutable, ordered collection of tarot cards.
type Deck struct {
	id    string
	cards []Card
}

// NewDeck validates cards and returns a deck holding private copies of them.
// A deck has exactly DeckSize cards with unique non-empty names and 2-4
// keywords each.
func NewDeck(id string, cards []Card) (Deck, error) {
	if len(cards) != DeckSize {
		return Deck{}, fmt.Errorf("%w: %d cards, want %d", ErrInvalidDeck, len(cards), DeckSize)
	}
	seen := make(map[string]struct{}, len(cards))
	own := make([]Card, len(cards))
	for i, c := range cards {
		if c.Name == "" {
			return Deck{}, fmt.Errorf("%w: card %d has no name", ErrInvalidDeck, i)
		}
		if _, dup := seen[c.Name]; dup {
			return Deck{}, fmt.Errorf("%w: duplicate card %q", ErrInvalidDeck, c.Name)
		}
		if n := len(c.Keywords); n < 2 || n > 4 {
			return Deck{}, fmt.Errorf("%w: card %q has %d keywords", ErrInvalidDeck, c.Name, n)
		}
		seen[c.Name] = struct{}{}
		own[i] = c.clone()
	}
	return Deck{id: id, cards: own}, nil
}

func (d Deck) ID() string { return d.id }

func (d Deck) Len() int { return len(d.cards) }

// Card returns a copy of the i-th card.
func (d Deck) Card(i int) Card { return d.cards[i].clone() }

// Cards returns a copy of the deck in order.
func (d Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	for i, c := range d.cards {
		out[i] = c.clone()
	}
	return out
}
