package app_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/adapters/llm/deepseek"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/app"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/ports"
)

type mockCompleter struct {
	out   string
	err   error
	calls int
	last  ports.CompletionRequest
}

func (m *mockCompleter) Complete(_ context.Context, req ports.CompletionRequest) (string, error) {
	m.calls++
	m.last = req
	return m.out, m.err
}

// blockingCompleter waits for the caller's deadline.
type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, _ ports.CompletionRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestGenerator_Provider(t *testing.T) {
	c := &mockCompleter{out: "A provider reading."}
	g := app.NewGenerator(c, time.Second, slog.Default())

	out := g.Generate(context.Background(), justice, domain.AreaLove, "q?")

	if out.Text != "A provider reading." || out.Origin != domain.OriginProvider {
		t.Errorf("unexpected interpretation: %+v", out)
	}
	if c.calls != 1 {
		t.Errorf("expected 1 call, got %d", c.calls)
	}
	fields, err := app.ParsePrompt(c.last.User)
	if err != nil || fields.Question != "q?" || fields.Card != justice.Name {
		t.Errorf("prompt lost inputs: %+v %v", fields, err)
	}
}

func TestGenerator_FailureFallsBackOnce(t *testing.T) {
	c := &mockCompleter{err: domain.ErrUpstreamLLM}
	g := app.NewGenerator(c, time.Second, slog.Default())

	out := g.Generate(context.Background(), justice, domain.AreaSpirituality, "q?")

	want := domain.FallbackReading(justice, domain.AreaSpirituality, "q?")
	if out.Text != want || out.Origin != domain.OriginFallback {
		t.Errorf("unexpected interpretation: %+v", out)
	}
	if c.calls != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", c.calls)
	}
}

func TestGenerator_Timeout(t *testing.T) {
	g := app.NewGenerator(blockingCompleter{}, 20*time.Millisecond, slog.Default())

	start := time.Now()
	out := g.Generate(context.Background(), justice, domain.AreaGeneral, "q?")

	if out.Origin != domain.OriginFallback {
		t.Errorf("expected fallback, got %s", out.Origin)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("generator ignored its timeout: %s", elapsed)
	}
}

func TestGenerator_NilCompleter(t *testing.T) {
	g := app.NewGenerator(nil, 0, slog.Default())

	out := g.Generate(context.Background(), justice, "bogus", "q?")

	if out.Text != domain.FallbackReading(justice, domain.AreaGeneral, "q?") {
		t.Errorf("unknown area did not use general fallback: %s", out.Text)
	}
}

func TestGenerator_MissingCredential(t *testing.T) {
	client := deepseek.NewClient(http.DefaultClient, "", "http://127.0.0.1:0", deepseek.Options{Model: "m"}, slog.Default())
	g := app.NewGenerator(client, time.Second, slog.Default())

	out := g.Generate(context.Background(), justice, domain.AreaCareer, "q?")
	if out.Origin != domain.OriginFallback {
		t.Errorf("expected fallback without credential, got %s", out.Origin)
	}
}

func TestGenerator_HTTP500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := deepseek.NewClient(srv.Client(), "key", srv.URL, deepseek.Options{Model: "m"}, slog.Default())
	g := app.NewGenerator(client, time.Second, slog.Default())

	out := g.Generate(context.Background(), justice, domain.AreaCareer, "q?")
	if out.Origin != domain.OriginFallback {
		t.Errorf("expected fallback on 500, got %s", out.Origin)
	}
}

func TestGenerator_RecordsOriginOnSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	g := app.NewGenerator(&mockCompleter{err: domain.ErrUpstreamLLM}, time.Second, slog.Default())
	g.Generate(context.Background(), justice, domain.AreaCareer, "q?")

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	var origin string
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "tarot.origin" {
			origin = kv.Value.AsString()
		}
	}
	if origin != string(domain.OriginFallback) {
		t.Errorf("unexpected origin attribute: %q", origin)
	}
}
