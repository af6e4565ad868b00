package domain

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Card represents a single tarot card in a deck.
type Card struct {
	Name     string   `json:"name" yaml:"name"`
	Image    string   `json:"image" yaml:"image"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

func (c Card) clone() Card {
	c.Keywords = append([]string(nil), c.Keywords...)
	return c
}

// Origin records where an interpretation text came from.
type Origin string

const (
	OriginProvider Origin = "provider"
	OriginFallback Origin = "fallback"
)

// Interpretation is the generator's output. Text is always usable; Origin is
// kept for logs and metrics only.
type Interpretation struct {
	Text   string
	Origin Origin
}

// ReadingRequest is produced once per draw attempt.
type ReadingRequest struct {
	Question string
	Area     TopicArea
}

// ReadingResult is one completed draw.
type ReadingResult struct {
	Card           Card
	Area           TopicArea
	Question       string
	Interpretation Interpretation
}
