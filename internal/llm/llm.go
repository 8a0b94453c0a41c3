// Package llm asks an LLM backend which file extensions are worth fuzzing
// for a target URL, based on the URL path and the probed response headers.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethanolivertroy/ffufai/internal/config"
)

// ErrUnavailable marks a provider that could not be reached at all. The
// caller skips fuzzing instead of treating it as a bad response.
var ErrUnavailable = errors.New("provider unavailable")

const completionTimeout = 90 * time.Second

const systemPrompt = "You are a helpful assistant that suggests file extensions for fuzzing based on URL and headers."

// Provider produces a completion for a single prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New returns the client for the resolved provider configuration.
func New(p config.Provider) Provider {
	switch p.Kind {
	case config.ProviderOllama:
		return &ollamaClient{model: p.Model, baseURL: p.Endpoint, client: newHTTPClient()}
	case config.ProviderAnthropic:
		return &anthropicClient{apiKey: p.APIKey, baseURL: anthropicBaseURL, client: newHTTPClient()}
	default:
		return &openaiClient{apiKey: p.APIKey, baseURL: openaiBaseURL, client: newHTTPClient()}
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: completionTimeout}
}

// suggestion is the shape every provider must answer with. Extensions is
// a pointer so a response that lacks the key entirely can be told apart
// from an empty list.
type suggestion struct {
	Extensions *[]string `json:"extensions"`
}

// BuildPrompt renders the suggestion prompt: the target URL with the FUZZ
// keyword still in place, the probed headers as JSON, and the extension
// cap, plus two worked examples showing the expected answer shape.
func BuildPrompt(target string, headers map[string]string, maxExtensions int) string {
	headerJSON, _ := json.Marshal(headers)
	return fmt.Sprintf(`Given the following URL and HTTP headers, suggest the most likely file extensions for fuzzing this endpoint.
Respond with a JSON object containing a list of extensions. The response will be parsed as JSON,
so it must be valid JSON. No preamble or yapping. Use the format: {"extensions": [".ext1", ".ext2", ...]}.
Do not suggest more than %d, but only suggest extensions that make sense. For example, if the path is
/js/ then don't suggest .css as the extension. Also, if limited, prefer the extensions which are more interesting.
The URL path is great to look at for ideas. For example, if it says presentations, then it's likely there
are powerpoints or pdfs in there. If the path is /js/ then it's good to use js as an extension.

Examples:
1. URL: https://example.com/presentations/FUZZ
   Headers: {"Content-Type": "application/pdf", "Content-Length": "1234567"}
   JSON Response: {"extensions": [".pdf", ".ppt", ".pptx"]}

2. URL: https://example.com/FUZZ
   Headers: {"Server": "Microsoft-IIS/10.0", "X-Powered-By": "ASP.NET"}
   JSON Response: {"extensions": [".aspx", ".asp", ".exe", ".dll"]}

URL: %s
Headers: %s

JSON Response:`, maxExtensions, target, headerJSON)
}

// Suggest sends the prompt to p and decodes the answer. The first
// maxExtensions entries are returned in provider order; entries are not
// deduplicated or checked for a leading dot. A negative cap disables
// truncation.
func Suggest(ctx context.Context, p Provider, target string, headers map[string]string, maxExtensions int) ([]string, error) {
	raw, err := p.Complete(ctx, BuildPrompt(target, headers, maxExtensions))
	if err != nil {
		return nil, err
	}

	var s suggestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	if s.Extensions == nil {
		return nil, errors.New(`response has no "extensions" key`)
	}

	exts := *s.Extensions
	if maxExtensions >= 0 && len(exts) > maxExtensions {
		exts = exts[:maxExtensions]
	}
	return exts, nil
}
