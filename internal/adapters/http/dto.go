package http

import "github.com/LouiseDailyXYZ/tarot-reading/internal/domain"

// IntakeRequest is the body of POST /v1/sessions/:id/intake.
type IntakeRequest struct {
	Question string `json:"question"`
	Area     string `json:"area"`
}

// DrawRequest is the optional body of POST /v1/sessions/:id/draw.
type DrawRequest struct {
	Area string `json:"area"`
}

// SessionResponse is what a page controller renders. Reading is present only
// in the result phase.
type SessionResponse struct {
	ID       string           `json:"id"`
	Phase    domain.Phase     `json:"phase"`
	Question string           `json:"question,omitempty"`
	Area     AreaResponse     `json:"area"`
	Reading  *ReadingResponse `json:"reading,omitempty"`
}

// ReadingResponse deliberately has no origin field: provider and fallback
// readings look the same to the user.
type ReadingResponse struct {
	Card           CardResponse `json:"card"`
	Area           AreaResponse `json:"area"`
	Question       string       `json:"question"`
	Interpretation string       `json:"interpretation"`
}

type CardResponse struct {
	Name     string   `json:"name"`
	Image    string   `json:"image"`
	Keywords []string `json:"keywords"`
}

type AreaResponse struct {
	ID    domain.TopicArea `json:"id"`
	Label string           `json:"label"`
}

type DeckResponse struct {
	ID    string         `json:"id"`
	Cards []CardResponse `json:"cards"`
}

type TarotResponse struct {
	Reading ReadingResponse `json:"reading"`
	Meta    MetaResp        `json:"meta"`
}

type MetaResp struct {
	RequestID string `json:"request_id"`
	LatencyMS int64  `json:"latency_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toCard(c domain.Card) CardResponse {
	return CardResponse{Name: c.Name, Image: c.Image, Keywords: c.Keywords}
}

func toArea(a domain.TopicArea) AreaResponse {
	return AreaResponse{ID: a, Label: a.Label()}
}

func toReading(r domain.ReadingResult) ReadingResponse {
	return ReadingResponse{
		Card:           toCard(r.Card),
		Area:           toArea(r.Area),
		Question:       r.Question,
		Interpretation: r.Interpretation.Text,
	}
}

func toSession(s domain.SessionState) SessionResponse {
	out := SessionResponse{
		ID:       s.ID,
		Phase:    s.Phase,
		Question: s.Question,
		Area:     toArea(s.Area),
	}
	if s.Phase == domain.PhaseResult && s.LastResult != nil {
		r := toReading(*s.LastResult)
		out.Reading = &r
	}
	return out
}
