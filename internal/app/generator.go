package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/ports"
)

// DefaultGenerateTimeout bounds a single provider call.
const DefaultGenerateTimeout = 30 * time.Second

const tracerName = "github.com/LouiseDailyXYZ/tarot-reading/internal/app"

// Generator produces interpretations. It tries the provider once and falls
// back to the deterministic template on any failure.
type Generator struct {
	completer ports.Completer
	timeout   time.Duration
	logger    *slog.Logger
}

func NewGenerator(c ports.Completer, timeout time.Duration, logger *slog.Logger) *Generator {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	return &Generator{completer: c, timeout: timeout, logger: logger}
}

// Generate never fails; callers cannot tell provider and fallback text apart
// except through Interpretation.Origin.
func (g *Generator) Generate(ctx context.Context, card domain.Card, area domain.TopicArea, question string) domain.Interpretation {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "tarot.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("tarot.card", card.Name),
		attribute.String("tarot.area", string(area)),
	)

	out := g.generate(ctx, card, area, question)
	span.SetAttributes(attribute.String("tarot.origin", string(out.Origin)))
	return out
}

func (g *Generator) generate(ctx context.Context, card domain.Card, area domain.TopicArea, question string) domain.Interpretation {
	fallback := domain.Interpretation{
		Text:   domain.FallbackReading(card, area, question),
		Origin: domain.OriginFallback,
	}
	if g.completer == nil {
		g.logger.WarnContext(ctx, "no completer configured, using fallback", "card", card.Name, "area", area)
		return fallback
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.completer.Complete(callCtx, BuildPrompt(card, area, question))
	latency := time.Since(start).Milliseconds()

	if err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failed")
		g.logger.WarnContext(ctx, "interpretation from fallback",
			"origin", domain.OriginFallback,
			"card", card.Name,
			"area", area,
			"latency_ms", latency,
			"error", err,
		)
		return fallback
	}

	g.logger.InfoContext(ctx, "interpretation from provider",
		"origin", domain.OriginProvider,
		"card", card.Name,
		"area", area,
		"latency_ms", latency,
	)
	return domain.Interpretation{Text: text, Origin: domain.OriginProvider}
}
