package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Options holds all configuration for a single ffufai run.
type Options struct {
	// Wrapper
	FfufPath      string
	MaxExtensions int

	// FfufArgs are the tokens not owned by the wrapper, forwarded to ffuf
	// verbatim (plus an appended -e flag).
	FfufArgs []string

	// Output
	DryRun  bool
	Quiet   bool
	NoColor bool
}

// ProviderKind identifies an LLM backend.
type ProviderKind string

const (
	ProviderOllama    ProviderKind = "ollama"
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderOpenAI    ProviderKind = "openai"
)

// Provider is the resolved LLM backend for a run. Exactly one kind is
// active; Model/Endpoint are set for Ollama, APIKey for the remote APIs.
type Provider struct {
	Kind     ProviderKind
	Model    string
	APIKey   string
	Endpoint string
}

const defaultOllamaEndpoint = "http://localhost:11434"

// ProviderFromEnv resolves the LLM provider from the environment, checked
// in precedence order: OLLAMA_MODEL, then ANTHROPIC_API_KEY, then
// OPENAI_API_KEY. It runs before any network activity so that a missing
// configuration fails the run up front.
func ProviderFromEnv() (Provider, error) {
	v := viper.New()
	v.AutomaticEnv()

	if model := v.GetString("OLLAMA_MODEL"); model != "" {
		endpoint := v.GetString("OLLAMA_HOST")
		switch {
		case endpoint == "":
			endpoint = defaultOllamaEndpoint
		case !strings.Contains(endpoint, "://"):
			// Ollama convention: OLLAMA_HOST may be a bare host:port.
			endpoint = "http://" + endpoint
		}
		return Provider{Kind: ProviderOllama, Model: model, Endpoint: strings.TrimRight(endpoint, "/")}, nil
	}

	if key := v.GetString("ANTHROPIC_API_KEY"); key != "" {
		return Provider{Kind: ProviderAnthropic, APIKey: key}, nil
	}

	if key := v.GetString("OPENAI_API_KEY"); key != "" {
		return Provider{Kind: ProviderOpenAI, APIKey: key}, nil
	}

	return Provider{}, fmt.Errorf("no API key or Ollama model found: set OLLAMA_MODEL, OPENAI_API_KEY, or ANTHROPIC_API_KEY")
}
