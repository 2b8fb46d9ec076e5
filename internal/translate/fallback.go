package translate

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dexusno/NorTrans/internal/logging"
)

// FallbackBackend serves requests from the primary (offline) backend and,
// when a language pair has no installed model, delegates to the secondary
// (API) backend. The delegation is one-directional and observable: Name
// reports which variant actually served requests, and the first switch is
// logged.
type FallbackBackend struct {
	primary   Backend
	secondary Backend
	logger    *slog.Logger
	fellBack  atomic.Bool
}

// NewFallbackBackend wires an offline primary to an API secondary.
func NewFallbackBackend(primary, secondary Backend, logger *slog.Logger) *FallbackBackend {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FallbackBackend{
		primary:   primary,
		secondary: secondary,
		logger:    logging.WithComponent(logger, "translate-fallback"),
	}
}

// Name reports the variant that served the most recent translations.
func (b *FallbackBackend) Name() string {
	if b.fellBack.Load() {
		return b.secondary.Name()
	}
	return b.primary.Name()
}

// Translate tries the primary backend, delegating to the secondary only on
// a model-missing failure. Every other error, including secondary
// failures, surfaces unchanged.
func (b *FallbackBackend) Translate(ctx context.Context, text, source, target string) (string, error) {
	translated, err := b.primary.Translate(ctx, text, source, target)
	if err == nil {
		return translated, nil
	}
	if !IsModelMissing(err) {
		return "", err
	}
	if b.fellBack.CompareAndSwap(false, true) {
		b.logger.Warn("offline model unavailable, falling back to API backend",
			logging.String("source", source),
			logging.String("target", target),
			logging.Error(err),
		)
	}
	return b.secondary.Translate(ctx, text, source, target)
}
