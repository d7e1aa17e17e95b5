package llm

import (
	"math"
	"testing"
	"time"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"CASEDRILL_LLM_PROVIDER", "CASEDRILL_LLM_MODEL", "CASEDRILL_LLM_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_NoKeys(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := ConfigFromEnv(); ok {
		t.Fatal("expected no provider without any API key")
	}
}

func TestConfigFromEnv_DiscoveryOrder(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	cfg, ok := ConfigFromEnv()
	if !ok {
		t.Fatal("expected a provider")
	}
	if cfg.Provider != ProviderOpenAI {
		t.Fatalf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("gemini key = %q, want GOOGLE_API_KEY fallback", cfg.Gemini.APIKey)
	}

	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	cfg, _ = ConfigFromEnv()
	if cfg.Provider != ProviderAnthropic {
		t.Fatalf("provider = %q, want anthropic", cfg.Provider)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("CASEDRILL_LLM_PROVIDER", "gemini")
	t.Setenv("CASEDRILL_LLM_MODEL", "gemini-pro")
	t.Setenv("CASEDRILL_LLM_TIMEOUT", "5s")

	cfg, ok := ConfigFromEnv()
	if !ok {
		t.Fatal("expected a provider")
	}
	if cfg.Provider != ProviderGemini || cfg.Model() != "gemini-pro" {
		t.Fatalf("got %s/%s, want gemini/gemini-pro", cfg.Provider, cfg.Model())
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Fatalf("anthropic model changed to %q", cfg.Anthropic.Model)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", cfg.Timeout)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(t.Context(), Config{Provider: ProviderMock}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q, want mock", p.ModelID())
	}
}

func TestNewProvider_RejectsMissingKey(t *testing.T) {
	if _, err := NewProvider(t.Context(), Config{Provider: ProviderOpenAI}, nil); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("cost = %v, want 0.75", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
