package llm

import (
	"encoding/json"
	"testing"
)

func feedbackTestSchema() *Schema {
	return &Schema{
		Name:        "test-feedback",
		Description: "Interview feedback",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":   map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
				"summary": map[string]any{"type": "string"},
				"verdict": map[string]any{"type": "string", "enum": []any{"hire", "maybe", "no-hire"}},
				"strengths": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"score", "summary"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantErr   bool
		wantField string
	}{
		{"all fields", `{"score":7,"summary":"Clear","verdict":"hire","strengths":["structure"]}`, false, ""},
		{"optional fields omitted", `{"score":3,"summary":"Thin"}`, false, ""},
		{"missing summary", `{"score":5}`, true, "summary"},
		{"score as text", `{"score":"seven","summary":"x"}`, true, "score"},
		{"score above ten", `{"score":11,"summary":"x"}`, true, "score"},
		{"unknown verdict", `{"score":5,"summary":"x","verdict":"strong"}`, true, "verdict"},
		{"numeric strength", `{"score":5,"summary":"x","strengths":["ok",2]}`, true, "strengths.1"},
		{"malformed", `{not json}`, true, ""},
		{"empty", ``, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(feedbackTestSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			e, ok := err.(*Error)
			if !ok || e.Kind != KindInvalid {
				t.Fatalf("error = %#v, want KindInvalid *Error", err)
			}
			if e.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", e.Field, tt.wantField)
			}
			if string(e.Content) != tt.raw {
				t.Errorf("Content = %q, want raw reply", e.Content)
			}
		})
	}
}

func TestValidate_NilSchema(t *testing.T) {
	if err := Validate(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestErrorMessageNamesField(t *testing.T) {
	err := Validate(feedbackTestSchema(), json.RawMessage(`{"score":0,"summary":"x"}`))
	if err == nil {
		t.Fatal("expected error")
	}
	want := `llm: invalid response (field "score")`
	if got := err.Error(); len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("Error() = %q, want prefix %q", got, want)
	}
}
