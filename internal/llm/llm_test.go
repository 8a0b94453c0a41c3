package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/ethanolivertroy/ffufai/internal/config"
)

func providerFor(kind string) config.Provider {
	switch kind {
	case "ollama":
		return config.Provider{Kind: config.ProviderOllama, Model: "llama3", Endpoint: "http://localhost:11434"}
	case "anthropic":
		return config.Provider{Kind: config.ProviderAnthropic, APIKey: "k"}
	default:
		return config.Provider{Kind: config.ProviderOpenAI, APIKey: "k"}
	}
}

// fakeProvider returns a canned completion.
type fakeProvider struct {
	answer string
	err    error
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return f.answer, f.err
}

func TestBuildPrompt(t *testing.T) {
	headers := map[string]string{"Content-Type": "application/pdf"}
	prompt := BuildPrompt("https://example.com/presentations/FUZZ", headers, 3)

	for _, want := range []string{
		"https://example.com/presentations/FUZZ",
		`"Content-Type":"application/pdf"`,
		"Do not suggest more than 3",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSuggest_Truncates(t *testing.T) {
	p := &fakeProvider{answer: `{"extensions": [".pdf", ".ppt", ".pptx", ".doc"]}`}
	got, err := Suggest(context.Background(), p, "https://x/FUZZ", nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{".pdf", ".ppt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSuggest_KeepsProviderOrderAndDuplicates(t *testing.T) {
	p := &fakeProvider{answer: `{"extensions": ["php", ".php", ".php"]}`}
	got, err := Suggest(context.Background(), p, "https://x/FUZZ", nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	// Entries are used exactly as returned: no dedup, no dot check.
	want := []string{"php", ".php", ".php"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSuggest_NegativeMaxKeepsAll(t *testing.T) {
	p := &fakeProvider{answer: `{"extensions": [".pdf", ".ppt"]}`}
	got, err := Suggest(context.Background(), p, "https://x/FUZZ", nil, -1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{".pdf", ".ppt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSuggest_ZeroMax(t *testing.T) {
	p := &fakeProvider{answer: `{"extensions": [".pdf", ".ppt"]}`}
	got, err := Suggest(context.Background(), p, "https://x/FUZZ", nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestSuggest_InvalidJSON(t *testing.T) {
	p := &fakeProvider{answer: "sorry, I cannot help with that"}
	if _, err := Suggest(context.Background(), p, "https://x/FUZZ", nil, 4); err == nil {
		t.Error("expected error for non-JSON answer")
	}
}

func TestSuggest_MissingKey(t *testing.T) {
	p := &fakeProvider{answer: `{"suggestions": [".pdf"]}`}
	if _, err := Suggest(context.Background(), p, "https://x/FUZZ", nil, 4); err == nil {
		t.Error("expected error when extensions key is absent")
	}
}

func TestSuggest_ProviderError(t *testing.T) {
	p := &fakeProvider{err: ErrUnavailable}
	_, err := Suggest(context.Background(), p, "https://x/FUZZ", nil, 4)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
			return
		}
		if req.Model != openaiModel {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": ` {"extensions": [".php"]} `}},
			},
		})
	}))
	defer srv.Close()

	c := &openaiClient{apiKey: "sk-test", baseURL: srv.URL, client: srv.Client()}
	got, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"extensions": [".php"]}` {
		t.Errorf("got %q", got)
	}
}

func TestOpenAIComplete_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := &openaiClient{apiKey: "sk-test", baseURL: srv.URL, client: srv.Client()}
	if _, err := c.Complete(context.Background(), "prompt"); err == nil {
		t.Error("expected error for 401 response")
	}
}

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-ant" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != anthropicVersion {
			t.Errorf("anthropic-version = %q", got)
		}
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
			return
		}
		if req.MaxTokens != 1000 {
			t.Errorf("max_tokens = %d", req.MaxTokens)
		}
		if req.System == "" {
			t.Error("system prompt not set")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": `{"extensions": [".aspx", ".asp"]}`}},
		})
	}))
	defer srv.Close()

	c := &anthropicClient{apiKey: "sk-ant", baseURL: srv.URL, client: srv.Client()}
	got, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"extensions": [".aspx", ".asp"]}` {
		t.Errorf("got %q", got)
	}
}

func TestOllamaComplete_DoubleDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Error(err)
			return
		}
		if req.Model != "llama3" {
			t.Errorf("model = %q", req.Model)
		}
		if req.Stream {
			t.Error("stream should be false")
		}
		if req.Format != "json" {
			t.Errorf("format = %q", req.Format)
		}
		// The completion rides inside the envelope as a JSON string.
		json.NewEncoder(w).Encode(map[string]any{
			"response": `{"extensions": [".js", ".map"]}`,
			"done":     true,
		})
	}))
	defer srv.Close()

	c := &ollamaClient{model: "llama3", baseURL: srv.URL, client: srv.Client()}
	exts, err := Suggest(context.Background(), c, "https://x/js/FUZZ", nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{".js", ".map"}
	if !reflect.DeepEqual(exts, want) {
		t.Errorf("got %v, want %v", exts, want)
	}
}

func TestOllamaComplete_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := &ollamaClient{model: "llama3", baseURL: base, client: newHTTPClient()}
	_, err := c.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestNew_PicksClientByKind(t *testing.T) {
	tests := []struct {
		name string
		kind string
	}{
		{"ollama", "ollama"},
		{"anthropic", "anthropic"},
		{"openai", "openai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(providerFor(tt.kind))
			switch tt.kind {
			case "ollama":
				if _, ok := p.(*ollamaClient); !ok {
					t.Errorf("got %T", p)
				}
			case "anthropic":
				if _, ok := p.(*anthropicClient); !ok {
					t.Errorf("got %T", p)
				}
			case "openai":
				if _, ok := p.(*openaiClient); !ok {
					t.Errorf("got %T", p)
				}
			}
		})
	}
}
