package llm

import (
	"fmt"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelAliases(t *testing.T) {
	for alias, want := range map[string]string{
		"gemini-flash":     "gemini-2.5-flash",
		"gemini-pro":       "gemini-2.5-pro",
		"gemini-2.0-flash": "gemini-2.0-flash",
	} {
		if got := resolveModel(alias, geminiModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", alias, got, want)
		}
	}
}

func TestBuildGeminiSchema_Feedback(t *testing.T) {
	schema := buildGeminiSchema(feedbackTestSchema().Definition)

	if schema.Type != genai.TypeObject {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("properties = %d, want 4", len(schema.Properties))
	}
	score := schema.Properties["score"]
	if score.Type != genai.TypeInteger {
		t.Errorf("score type = %s", score.Type)
	}
	if score.Minimum == nil || *score.Minimum != 1 || score.Maximum == nil || *score.Maximum != 10 {
		t.Errorf("score bounds = %v..%v, want 1..10", score.Minimum, score.Maximum)
	}
	if got := schema.Properties["verdict"].Enum; len(got) != 3 || got[2] != "no-hire" {
		t.Errorf("verdict enum = %v", got)
	}
	if schema.Properties["strengths"].Items.Type != genai.TypeString {
		t.Errorf("strengths items = %s", schema.Properties["strengths"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Errorf("required = %v", schema.Required)
	}
}

func TestBuildGeminiContents(t *testing.T) {
	got := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "Size the market."},
		{Role: RoleAssistant, Content: "{}"},
	})
	if len(got) != 2 || got[0].Role != genai.RoleUser || got[1].Role != genai.RoleModel {
		t.Fatalf("contents = %+v", got)
	}
	if got[0].Parts[0].Text != "Size the market." {
		t.Errorf("text = %q", got[0].Parts[0].Text)
	}
}

func TestGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"quota", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, KindRateLimited},
		{"wrapped quota", fmt.Errorf("generate: %w", genai.APIError{Code: 429}), KindRateLimited},
		{"server", genai.APIError{Code: 503}, KindUnavailable},
		{"network", fmt.Errorf("dial tcp: connection refused"), KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := geminiError(tt.err); !IsKind(err, tt.want) {
				t.Errorf("geminiError(%v) = %v, want %s", tt.err, err, tt.want)
			}
		})
	}
}
