package decks

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
)

// DefaultDeckID is the deck used when a caller does not name one.
const DefaultDeckID = "major_arcana"

//go:embed data/*.yaml
var deckFS embed.FS

// registry maps deck IDs to their YAML filenames inside data/.
var registry = map[string]string{
	DefaultDeckID: "data/major_arcana.yaml",
}

type deckFile struct {
	Name  string        `yaml:"name"`
	Cards []domain.Card `yaml:"cards"`
}

// EmbeddedStore loads decks from embedded YAML files.
type EmbeddedStore struct {
	once  sync.Once
	decks map[string]domain.Deck
	err   error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) init() {
	s.decks = make(map[string]domain.Deck, len(registry))
	for id, filename := range registry {
		raw, err := deckFS.ReadFile(filename)
		if err != nil {
			s.err = fmt.Errorf("read embedded deck %s: %w", id, err)
			return
		}
		var f deckFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			s.err = fmt.Errorf("parse embedded deck %s: %w", id, err)
			return
		}
		deck, err := domain.NewDeck(id, f.Cards)
		if err != nil {
			s.err = fmt.Errorf("load embedded deck %s: %w", id, err)
			return
		}
		s.decks[id] = deck
	}
}

func (s *EmbeddedStore) GetDeck(_ context.Context, deckID string) (domain.Deck, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.Deck{}, s.err
	}
	if deckID == "" {
		deckID = DefaultDeckID
	}
	deck, ok := s.decks[deckID]
	if !ok {
		return domain.Deck{}, domain.ErrDeckNotFound
	}
	return deck, nil
}
