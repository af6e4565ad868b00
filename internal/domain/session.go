package domain

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the current step of a reading session.
type Phase string

const (
	PhaseIntake     Phase = "intake"
	PhaseDrawing    Phase = "drawing"
	PhaseTransition Phase = "transition"
	PhaseResult     Phase = "result"
)

// AgainPolicy decides what "ask again" keeps from the previous reading.
type AgainPolicy string

const (
	// AgainKeepQuestion clears the result but keeps question and area, so the
	// user can draw again for the same question.
	AgainKeepQuestion AgainPolicy = "keep_question"
	// AgainClearAll returns to a blank intake.
	AgainClearAll AgainPolicy = "clear_all"
)

// ParseAgainPolicy defaults to AgainKeepQuestion for unknown input.
func ParseAgainPolicy(raw string) AgainPolicy {
	if AgainPolicy(strings.TrimSpace(raw)) == AgainClearAll {
		return AgainClearAll
	}
	return AgainKeepQuestion
}

// SessionState is everything one user's flow has accumulated. It is owned by
// a single interaction context and only changed through Machine.Apply.
type SessionState struct {
	ID         string
	Phase      Phase
	Question   string
	Area       TopicArea
	LastResult *ReadingResult
	CreatedAt  time.Time
	UpdatedAt  time.Time

	ticket  uint64
	pending *ReadingResult
}

// NewSessionState returns a session at the initial intake phase.
func NewSessionState(id string, now time.Time) SessionState {
	return SessionState{
		ID:        id,
		Phase:     PhaseIntake,
		Area:      AreaGeneral,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Ticket identifies the draw in flight. Results carrying any other ticket are
// stale.
func (s *SessionState) Ticket() uint64 { return s.ticket }

// Request returns the inputs of the current draw.
func (s *SessionState) Request() ReadingRequest {
	return ReadingRequest{Question: s.Question, Area: s.Area}
}

// Pending is the result held during the transition phase, if any.
func (s *SessionState) Pending() *ReadingResult { return s.pending }

// Event is an input to the state machine.
type Event interface {
	eventName() string
}

// SubmitIntake stores the question and area and starts a draw.
type SubmitIntake struct {
	Question string
	Area     TopicArea
}

// RequestDraw starts a draw for the question already stored. A non-empty Area
// replaces the stored one.
type RequestDraw struct {
	Area TopicArea
}

// DrawCompleted delivers the generator's result for the draw with Ticket.
type DrawCompleted struct {
	Ticket uint64
	Result ReadingResult
}

// TransitionElapsed ends the reveal pause for the draw with Ticket.
type TransitionElapsed struct {
	Ticket uint64
}

// CancelDraw abandons the draw in flight and returns to intake.
type CancelDraw struct{}

// AskAgain leaves the result and returns to intake.
type AskAgain struct{}

// Reset clears the whole session.
type Reset struct{}

func (SubmitIntake) eventName() string      { return "submit_intake" }
func (RequestDraw) eventName() string       { return "request_draw" }
func (DrawCompleted) eventName() string     { return "draw_completed" }
func (TransitionElapsed) eventName() string { return "transition_elapsed" }
func (CancelDraw) eventName() string        { return "cancel_draw" }
func (AskAgain) eventName() string          { return "ask_again" }
func (Reset) eventName() string             { return "reset" }

// EventName returns the stable name of ev for logs.
func EventName(ev Event) string { return ev.eventName() }

// Machine holds the policy knobs of the session state machine.
type Machine struct {
	// Reveal inserts the transition phase between drawing and result.
	Reveal bool
	Again  AgainPolicy
	Now    func() time.Time
}

// Apply runs ev against s. On error s is left unchanged.
func (m Machine) Apply(s *SessionState, ev Event) error {
	next := *s
	if err := m.step(&next, ev); err != nil {
		return err
	}
	next.UpdatedAt = m.now()
	*s = next
	return nil
}

func (m Machine) step(s *SessionState, ev Event) error {
	switch e := ev.(type) {
	case SubmitIntake:
		if s.Phase != PhaseIntake {
			return m.invalid(s, ev)
		}
		q := strings.TrimSpace(e.Question)
		if q == "" {
			return ErrEmptyQuestion
		}
		s.Question = q
		s.Area = ParseTopicArea(string(e.Area))
		m.startDraw(s)

	case RequestDraw:
		if s.Phase != PhaseIntake {
			return m.invalid(s, ev)
		}
		if s.Question == "" {
			return ErrEmptyQuestion
		}
		if e.Area != "" {
			s.Area = ParseTopicArea(string(e.Area))
		}
		m.startDraw(s)

	case DrawCompleted:
		if s.Phase != PhaseDrawing {
			return m.invalid(s, ev)
		}
		if e.Ticket != s.ticket {
			return ErrStaleDraw
		}
		r := e.Result
		if m.Reveal {
			s.Phase = PhaseTransition
			s.pending = &r
			return nil
		}
		s.Phase = PhaseResult
		s.LastResult = &r

	case TransitionElapsed:
		if s.Phase != PhaseTransition {
			return m.invalid(s, ev)
		}
		if e.Ticket != s.ticket {
			return ErrStaleDraw
		}
		s.Phase = PhaseResult
		s.LastResult = s.pending
		s.pending = nil

	case CancelDraw:
		if s.Phase != PhaseDrawing && s.Phase != PhaseTransition {
			return m.invalid(s, ev)
		}
		s.Phase = PhaseIntake
		s.pending = nil
		s.ticket++

	case AskAgain:
		if s.Phase != PhaseResult {
			return m.invalid(s, ev)
		}
		s.Phase = PhaseIntake
		s.LastResult = nil
		if m.Again == AgainClearAll {
			s.Question = ""
			s.Area = AreaGeneral
		}

	case Reset:
		*s = SessionState{
			ID:        s.ID,
			Phase:     PhaseIntake,
			Area:      AreaGeneral,
			CreatedAt: s.CreatedAt,
			ticket:    s.ticket + 1,
		}

	default:
		return fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}
	return nil
}

func (m Machine) startDraw(s *SessionState) {
	s.Phase = PhaseDrawing
	s.LastResult = nil
	s.pending = nil
	s.ticket++
}

func (m Machine) invalid(s *SessionState, ev Event) error {
	return fmt.Errorf("%w: %s during %s", ErrInvalidTransition, ev.eventName(), s.Phase)
}

func (m Machine) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
