package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Backend is a translation provider. Implementations are idempotent: the
// same (text, source, target) triple may be retried safely.
type Backend interface {
	// Translate converts text from the source to the target language.
	Translate(ctx context.Context, text, source, target string) (string, error)
	// Name identifies the variant ("api" or "offline") for telemetry.
	Name() string
}

// Settings selects and configures a backend at construction time.
type Settings struct {
	// Mode is "api" or "offline".
	Mode string
	// APIURL is the LibreTranslate-compatible /translate endpoint. In
	// offline mode it enables the model-missing fallback when set.
	APIURL string
	// ModelDir is the offline model catalog root.
	ModelDir string
	// Timeout bounds each API request.
	Timeout time.Duration
}

// NewBackend builds the backend for the requested mode. The variant is
// fixed here; callers never switch on backend type afterwards.
func NewBackend(settings Settings, logger *slog.Logger) (Backend, error) {
	mode := strings.ToLower(strings.TrimSpace(settings.Mode))
	switch mode {
	case "api":
		if strings.TrimSpace(settings.APIURL) == "" {
			return nil, fmt.Errorf("api mode requires an endpoint URL")
		}
		return NewLibreTranslateClient(settings.APIURL, WithTimeout(settings.Timeout)), nil
	case "offline":
		offline := NewOfflineBackend(OpenCatalog(settings.ModelDir))
		if strings.TrimSpace(settings.APIURL) == "" {
			return offline, nil
		}
		api := NewLibreTranslateClient(settings.APIURL, WithTimeout(settings.Timeout))
		return NewFallbackBackend(offline, api, logger), nil
	default:
		return nil, fmt.Errorf("unsupported translation mode %q", settings.Mode)
	}
}
