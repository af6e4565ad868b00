package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedMachine(reveal bool, again domain.AgainPolicy) domain.Machine {
	return domain.Machine{Reveal: reveal, Again: again, Now: func() time.Time { return epoch }}
}

func sampleResult(question string) domain.ReadingResult {
	return domain.ReadingResult{
		Card:     fool,
		Area:     domain.AreaCareer,
		Question: question,
		Interpretation: domain.Interpretation{
			Text:   "reading for " + question,
			Origin: domain.OriginProvider,
		},
	}
}

func mustApply(t *testing.T, m domain.Machine, s *domain.SessionState, ev domain.Event) {
	t.Helper()
	if err := m.Apply(s, ev); err != nil {
		t.Fatalf("%s: unexpected error: %v", domain.EventName(ev), err)
	}
}

func TestMachine_SubmitDrawResult(t *testing.T) {
	m := fixedMachine(false, domain.AgainKeepQuestion)
	s := domain.NewSessionState("s1", epoch)

	mustApply(t, m, &s, domain.SubmitIntake{Question: "  我該如何面對新工作？ ", Area: domain.AreaCareer})
	if s.Phase != domain.PhaseDrawing {
		t.Fatalf("expected drawing, got %s", s.Phase)
	}
	if s.Question != "我該如何面對新工作？" {
		t.Errorf("question not trimmed: %q", s.Question)
	}
	if s.LastResult != nil {
		t.Error("result present while drawing")
	}

	mustApply(t, m, &s, domain.DrawCompleted{Ticket: s.Ticket(), Result: sampleResult(s.Question)})
	if s.Phase != domain.PhaseResult {
		t.Fatalf("expected result, got %s", s.Phase)
	}
	if diff := cmp.Diff(sampleResult("我該如何面對新工作？"), *s.LastResult); diff != "" {
		t.Errorf("result mismatch:\n%s", diff)
	}
}

func TestMachine_EmptyQuestionRejected(t *testing.T) {
	m := fixedMachine(false, domain.AgainKeepQuestion)
	for _, q := range []string{"", "   ", "\n\t"} {
		s := domain.NewSessionState("s1", epoch)
		before := s

		err := m.Apply(&s, domain.SubmitIntake{Question: q, Area: domain.AreaLove})
		if !errors.Is(err, domain.ErrEmptyQuestion) {
			t.Errorf("%q: expected ErrEmptyQuestion, got %v", q, err)
		}
		if s != before {
			t.Errorf("%q: state changed on rejected submit", q)
		}
	}

	s := domain.NewSessionState("s1", epoch)
	if err := m.Apply(&s, domain.RequestDraw{}); !errors.Is(err, domain.ErrEmptyQuestion) {
		t.Errorf("draw without question: expected ErrEmptyQuestion, got %v", err)
	}
	if s.Phase != domain.PhaseIntake {
		t.Errorf("expected intake, got %s", s.Phase)
	}
}

func TestMachine_AskAgainTwice(t *testing.T) {
	m := fixedMachine(false, domain.AgainKeepQuestion)
	s := domain.NewSessionState("s1", epoch)

	mustApply(t, m, &s, domain.SubmitIntake{Question: "first", Area: domain.AreaLove})
	mustApply(t, m, &s, domain.DrawCompleted{Ticket: s.Ticket(), Result: sampleResult("first")})
	first := s.LastResult

	for i := range 2 {
		mustApply(t, m, &s, domain.AskAgain{})
		if s.Phase != domain.PhaseIntake {
			t.Fatalf("round %d: expected intake, got %s", i, s.Phase)
		}
		if s.LastResult != nil {
			t.Fatalf("round %d: result not cleared", i)
		}
		if s.Question != "first" || s.Area != domain.AreaLove {
			t.Errorf("round %d: keep policy lost question/area: %q %s", i, s.Question, s.Area)
		}

		mustApply(t, m, &s, domain.RequestDraw{})
		next := sampleResult("again")
		mustApply(t, m, &s, domain.DrawCompleted{Ticket: s.Ticket(), Result: next})
		if s.LastResult == first {
			t.Errorf("round %d: previous result reused", i)
		}
		if s.LastResult.Question != "again" {
			t.Errorf("round %d: unexpected result %+v", i, s.LastResult)
		}
	}
}

func TestMachine_AskAgainClearAll(t *testing.T) {
	m := fixedMachine(false, domain.AgainClearAll)
	s := domain.NewSessionState("s1", epoch)

	mustApply(t, m, &s, domain.SubmitIntake{Question: "q", Area: domain.AreaCareer})
	mustApply(t, m, &s, domain.DrawCompleted{Ticket: s.Ticket(), Result: sampleResult("q")})
	mustApply(t, m, &s, domain.AskAgain{})

	if s.Question != "" || s.Area != domain.AreaGeneral {
		t.Errorf("clear policy kept inputs: %q %s", s.Question, s.Area)
	}
}

func TestMachine_Reset(t *testing.T) {
	m := fixedMachine(false, domain.AgainKeepQuestion)
	s := domain.NewSessionState("s1", epoch)

	mustApply(t, m, &s, domain.SubmitIntake{Question: "q", Area: domain.AreaCareer})
	mustApply(t, m, &s, domain.DrawCompleted{Ticket: s.Ticket(), Result: sampleResult("q")})
	mustApply(t, m, &s, domain.Reset{})

	if s.ID != "s1" || s.Phase != domain.PhaseIntake || s.Question != "" || s.Area != domain.AreaGeneral || s.LastResult != nil {
		t.Errorf("reset left state behind: %+v", s)
	}
}

func TestMachine_StaleResultDiscarded(t *testing.T) {
	m := fixedMachine(false, domain.AgainKeepQuestion)
	s := domain.NewSessionState("s1", epoch)

	mustApply(t, m, &s, domain.SubmitIntake{Question: "q", Area: domain.AreaGeneral})
	stale := s.Ticket()
	mustApply(t, m, &s, domain.CancelDraw{})
	mustApply(t, m, &s, domain.RequestDraw{})

	err := m.Apply(&s, domain.DrawCompleted{Ticket: stale, Result: sampleResult("old")})
	if !errors.Is(err, domain.ErrStaleDraw) {
		t.Fatalf("expected ErrStaleDraw, got %v", err)
	}
	if s.Phase != domain.PhaseDrawing || s.LastResult != nil {
		t.Errorf("stale result applied: %+v", s)
	}

	mustApply(t, m, &s, domain.Reset{})
	err = m.Apply(&s, domain.DrawCompleted{Ticket: s.Ticket() - 1, Result: sampleResult("old")})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition after reset, got %v", err)
	}
}

func TestMachine_RevealPhase(t *testing.T) {
	m := fixedMachine(true, domain.AgainKeepQuestion)
	s := domain.NewSessionState("s1", epoch)

	mustApply(t, m, &s, domain.SubmitIntake{Question: "q", Area: domain.AreaGeneral})
	ticket := s.Ticket()
	mustApply(t, m, &s, domain.DrawCompleted{Ticket: ticket, Result: sampleResult("q")})

	if s.Phase != domain.PhaseTransition {
		t.Fatalf("expected transition, got %s", s.Phase)
	}
	if s.LastResult != nil {
		t.Error("result visible before reveal finished")
	}
	if s.Pending() == nil {
		t.Fatal("pending result missing")
	}

	mustApply(t, m, &s, domain.TransitionElapsed{Ticket: ticket})
	if s.Phase != domain.PhaseResult || s.LastResult == nil || s.Pending() != nil {
		t.Errorf("reveal did not complete: %+v", s)
	}

	if err := m.Apply(&s, domain.TransitionElapsed{Ticket: ticket}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("second reveal: expected ErrInvalidTransition, got %v", err)
	}
}

func TestMachine_InvalidTransitions(t *testing.T) {
	m := fixedMachine(false, domain.AgainKeepQuestion)

	intake := domain.NewSessionState("s1", epoch)
	drawing := intake
	mustApply(t, m, &drawing, domain.SubmitIntake{Question: "q"})

	cases := []struct {
		name  string
		state domain.SessionState
		ev    domain.Event
	}{
		{"again from intake", intake, domain.AskAgain{}},
		{"cancel from intake", intake, domain.CancelDraw{}},
		{"complete from intake", intake, domain.DrawCompleted{}},
		{"submit while drawing", drawing, domain.SubmitIntake{Question: "other"}},
		{"draw while drawing", drawing, domain.RequestDraw{}},
		{"again while drawing", drawing, domain.AskAgain{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.state
			err := m.Apply(&s, tc.ev)
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
			if s != tc.state {
				t.Error("state changed on invalid transition")
			}
		})
	}
}

func TestParseAgainPolicy(t *testing.T) {
	if got := domain.ParseAgainPolicy("clear_all"); got != domain.AgainClearAll {
		t.Errorf("got %s", got)
	}
	if got := domain.ParseAgainPolicy("whatever"); got != domain.AgainKeepQuestion {
		t.Errorf("got %s", got)
	}
}
