package domain

import "errors"

var (
	ErrEmptyQuestion     = errors.New("question must not be empty")
	ErrInvalidTransition = errors.New("event not allowed in current phase")
	ErrStaleDraw         = errors.New("draw result no longer current")
	ErrSessionNotFound   = errors.New("session not found")
	ErrDeckNotFound      = errors.New("deck not found")
	ErrInvalidDeck       = errors.New("invalid deck")
	ErrUpstreamLLM       = errors.New("upstream LLM failure")
	ErrMissingCredential = errors.New("LLM credential not configured")
)
