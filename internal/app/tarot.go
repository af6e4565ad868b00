package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/ports"
)

// Interpreter is the generator contract used by TarotService.
type Interpreter interface {
	Generate(ctx context.Context, card domain.Card, area domain.TopicArea, question string) domain.Interpretation
}

// TarotService drives reading sessions: it applies page events to session
// state and runs the draw pipeline.
type TarotService struct {
	deckStore   ports.DeckStore
	deckID      string
	interpreter Interpreter
	rng         domain.RNG
	sessions    ports.SessionStore
	machine     domain.Machine
	logger      *slog.Logger
}

func NewTarotService(
	ds ports.DeckStore,
	deckID string,
	interp Interpreter,
	rng domain.RNG,
	sessions ports.SessionStore,
	machine domain.Machine,
	logger *slog.Logger,
) *TarotService {
	return &TarotService{
		deckStore:   ds,
		deckID:      deckID,
		interpreter: interp,
		rng:         rng,
		sessions:    sessions,
		machine:     machine,
		logger:      logger,
	}
}

// Machine exposes the state machine so other page controllers apply the same
// rules to their own SessionState.
func (s *TarotService) Machine() domain.Machine { return s.machine }

// Deck returns the configured deck.
func (s *TarotService) Deck(ctx context.Context) (domain.Deck, error) {
	deck, err := s.deckStore.GetDeck(ctx, s.deckID)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("get deck: %w", err)
	}
	return deck, nil
}

// Read draws one card and interprets it. The only error is a deck that cannot
// be loaded; provider failures fall back inside the interpreter.
func (s *TarotService) Read(ctx context.Context, req domain.ReadingRequest) (domain.ReadingResult, error) {
	deck, err := s.Deck(ctx)
	if err != nil {
		return domain.ReadingResult{}, err
	}

	card := domain.SelectCard(deck, s.rng)
	interp := s.interpreter.Generate(ctx, card, req.Area, req.Question)

	return domain.ReadingResult{
		Card:           card,
		Area:           req.Area,
		Question:       req.Question,
		Interpretation: interp,
	}, nil
}

// ReadOnce is the stateless form of a session draw.
func (s *TarotService) ReadOnce(ctx context.Context, question string, area domain.TopicArea) (domain.ReadingResult, error) {
	st := domain.NewSessionState("", time.Now())
	if err := s.machine.Apply(&st, domain.SubmitIntake{Question: question, Area: area}); err != nil {
		return domain.ReadingResult{}, err
	}
	return s.Read(ctx, st.Request())
}

// NewSession creates a session in the intake phase.
func (s *TarotService) NewSession(ctx context.Context) (domain.SessionState, error) {
	st := domain.NewSessionState(uuid.NewString(), time.Now())
	if err := s.sessions.Create(ctx, st); err != nil {
		return domain.SessionState{}, fmt.Errorf("create session: %w", err)
	}
	s.logger.InfoContext(ctx, "session created", "session_id", st.ID)
	return st, nil
}

func (s *TarotService) Session(ctx context.Context, id string) (domain.SessionState, error) {
	return s.sessions.Get(ctx, id)
}

// EndSession tears the session down.
func (s *TarotService) EndSession(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "session ended", "session_id", id)
	return nil
}

// SubmitIntake stores the question and area, then draws synchronously.
func (s *TarotService) SubmitIntake(ctx context.Context, id, question string, area domain.TopicArea) (domain.SessionState, error) {
	return s.draw(ctx, id, domain.SubmitIntake{Question: question, Area: area})
}

// Draw draws again for the stored question. A non-empty area replaces the
// stored one.
func (s *TarotService) Draw(ctx context.Context, id string, area domain.TopicArea) (domain.SessionState, error) {
	return s.draw(ctx, id, domain.RequestDraw{Area: area})
}

func (s *TarotService) AskAgain(ctx context.Context, id string) (domain.SessionState, error) {
	return s.apply(ctx, id, domain.AskAgain{})
}

func (s *TarotService) Reset(ctx context.Context, id string) (domain.SessionState, error) {
	return s.apply(ctx, id, domain.Reset{})
}

func (s *TarotService) apply(ctx context.Context, id string, ev domain.Event) (domain.SessionState, error) {
	st, err := s.sessions.Update(ctx, id, func(st *domain.SessionState) error {
		return s.machine.Apply(st, ev)
	})
	if err != nil {
		return st, fmt.Errorf("%s: %w", domain.EventName(ev), err)
	}
	s.logger.DebugContext(ctx, "session event", "session_id", id, "event", domain.EventName(ev), "phase", st.Phase)
	return st, nil
}

// draw starts a draw with start, runs the pipeline outside the store lock and
// delivers the result. If the session moved on meanwhile, the result is
// dropped and the current state returned.
func (s *TarotService) draw(ctx context.Context, id string, start domain.Event) (domain.SessionState, error) {
	st, err := s.apply(ctx, id, start)
	if err != nil {
		return st, err
	}
	ticket := st.Ticket()

	res, err := s.Read(ctx, st.Request())
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return s.cancelDraw(ctx, id, err)
	}

	st, err = s.apply(ctx, id, domain.DrawCompleted{Ticket: ticket, Result: res})
	if errors.Is(err, domain.ErrStaleDraw) || errors.Is(err, domain.ErrInvalidTransition) {
		s.logger.InfoContext(ctx, "discarding stale draw", "session_id", id, "ticket", ticket)
		return s.sessions.Get(ctx, id)
	}
	if err != nil {
		return st, err
	}

	if st.Phase == domain.PhaseTransition {
		st, err = s.apply(ctx, id, domain.TransitionElapsed{Ticket: ticket})
		if err != nil {
			return s.sessions.Get(ctx, id)
		}
	}

	s.logger.InfoContext(ctx, "reading completed",
		"session_id", id,
		"card", res.Card.Name,
		"area", res.Area,
		"origin", res.Interpretation.Origin,
	)
	return st, nil
}

// cancelDraw returns the session to intake after a failed or abandoned draw.
// The store is updated with a fresh context since ctx may already be done.
func (s *TarotService) cancelDraw(ctx context.Context, id string, cause error) (domain.SessionState, error) {
	st, err := s.apply(context.WithoutCancel(ctx), id, domain.CancelDraw{})
	if err != nil {
		s.logger.WarnContext(ctx, "cancel draw", "session_id", id, "error", err)
		if cur, getErr := s.sessions.Get(context.WithoutCancel(ctx), id); getErr == nil {
			st = cur
		}
	}
	s.logger.InfoContext(ctx, "draw abandoned", "session_id", id, "error", cause)
	return st, cause
}

// SweepIdle removes sessions idle longer than ttl.
func (s *TarotService) SweepIdle(ctx context.Context, ttl time.Duration) int {
	n := s.sessions.Sweep(ctx, time.Now().Add(-ttl))
	if n > 0 {
		s.logger.InfoContext(ctx, "swept idle sessions", "count", n)
	}
	return n
}
