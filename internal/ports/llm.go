package ports

import "context"

// CompletionRequest is one system+user prompt pair for a chat model.
type CompletionRequest struct {
	System string
	User   string
}

// Completer returns the text of a single chat completion.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
