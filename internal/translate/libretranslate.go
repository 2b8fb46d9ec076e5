package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	apiBackendName     = "api"
	defaultHTTPTimeout = 30 * time.Second
)

// LibreTranslateClient speaks the LibreTranslate POST contract:
// form-encoded {q, source, target, format} in, {"translatedText": ...} out.
// Form encoding is used for maximum compatibility with self-hosted
// deployments that reject JSON bodies.
type LibreTranslateClient struct {
	endpoint   string
	httpClient *http.Client
}

// Option customizes the LibreTranslate client.
type Option func(*LibreTranslateClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *LibreTranslateClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout. Non-positive values keep the
// default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *LibreTranslateClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewLibreTranslateClient constructs a client for the given /translate
// endpoint.
func NewLibreTranslateClient(endpoint string, opts ...Option) *LibreTranslateClient {
	client := &LibreTranslateClient{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name identifies this variant for telemetry.
func (c *LibreTranslateClient) Name() string { return apiBackendName }

// Translate sends one segment to the endpoint. Empty and whitespace-only
// text short-circuits without a network call.
func (c *LibreTranslateClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	form := url.Values{
		"q":      {text},
		"source": {source},
		"target": {target},
		"format": {"text"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &BackendError{Kind: KindNetwork, Backend: apiBackendName, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &BackendError{Kind: KindNetwork, Backend: apiBackendName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &BackendError{Kind: KindNetwork, Backend: apiBackendName, Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &BackendError{
			Kind:       KindHTTPStatus,
			Backend:    apiBackendName,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	translated, err := decodeTranslation(body)
	if err != nil {
		return "", &BackendError{Kind: KindDecode, Backend: apiBackendName, Err: err}
	}
	return translated, nil
}

// Languages fetches the endpoint's supported language codes. Used for
// startup diagnostics; translation never depends on it.
func (c *LibreTranslateClient) Languages(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, languagesURL(c.endpoint), nil)
	if err != nil {
		return nil, &BackendError{Kind: KindNetwork, Backend: apiBackendName, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &BackendError{Kind: KindNetwork, Backend: apiBackendName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &BackendError{Kind: KindNetwork, Backend: apiBackendName, Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &BackendError{Kind: KindHTTPStatus, Backend: apiBackendName, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(body)))}
	}

	var entries []struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &BackendError{Kind: KindDecode, Backend: apiBackendName, Err: err}
	}
	codes := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Code != "" {
			codes = append(codes, entry.Code)
		}
	}
	return codes, nil
}

// decodeTranslation accepts the response shapes seen across LibreTranslate
// deployments: the standard translatedText key, a few common variants, or a
// bare JSON string.
func decodeTranslation(body []byte) (string, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("non-JSON response: %w", err)
	}
	switch value := payload.(type) {
	case string:
		return value, nil
	case map[string]any:
		for _, key := range []string{"translatedText", "translation", "translated_text", "translated"} {
			if raw, ok := value[key]; ok {
				if text, ok := raw.(string); ok {
					return text, nil
				}
				return "", fmt.Errorf("response key %q is not a string", key)
			}
		}
		return "", fmt.Errorf("response has no translation key")
	default:
		return "", fmt.Errorf("unexpected response shape %T", payload)
	}
}

func languagesURL(endpoint string) string {
	trimmed := strings.TrimRight(endpoint, "/")
	if strings.HasSuffix(trimmed, "/translate") {
		return strings.TrimSuffix(trimmed, "/translate") + "/languages"
	}
	return trimmed + "/languages"
}
