// ABOUTME: Tests for JSON recovery from raw LLM output
// ABOUTME: Covers round-trips, code fences, noise, nesting, and failure signaling
package jsonx

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtractObject_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
	}{
		{"flat", map[string]any{"label": "Investors", "confidence": 0.9}},
		{"nested", map[string]any{"a": map[string]any{"b": []any{"x", "y"}}}},
		{"unicode values", map[string]any{"title": "Ключевые метрики"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatal(err)
			}

			got, ok := ExtractObject(string(raw))
			if !ok {
				t.Fatal("ExtractObject() ok = false, want true")
			}

			// Compare through a re-marshal to normalize number types
			want := remarshal(t, tt.in)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ExtractObject() = %v, want %v", got, want)
			}
		})
	}
}

func TestExtractObject_CodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"json tag", "```json\n{\"label\":\"Investors\",\"confidence\":0.9}\n```"},
		{"bare fence", "```\n{\"label\":\"Investors\",\"confidence\":0.9}\n```"},
		{"uppercase tag", "```JSON\n{\"label\":\"Investors\",\"confidence\":0.9}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, ok := ExtractObject(tt.in)
			if !ok {
				t.Fatal("ExtractObject() ok = false, want true")
			}
			if obj["label"] != "Investors" {
				t.Errorf("label = %v, want Investors", obj["label"])
			}
		})
	}
}

func TestExtractObject_SurroundingNoise(t *testing.T) {
	in := "Here is the JSON you asked for:\n{\"slide_id\": 3, \"title\": \"Budget\"}\nLet me know if you need anything else!"

	obj, ok := ExtractObject(in)
	if !ok {
		t.Fatal("ExtractObject() ok = false, want true")
	}
	if obj["title"] != "Budget" {
		t.Errorf("title = %v, want Budget", obj["title"])
	}
}

func TestExtractObject_BracesInsideStrings(t *testing.T) {
	// JSON describing JSON: the inner braces live inside a string literal
	in := `prefix {"content": "use {\"nested\": true} carefully", "n": 1} suffix`

	obj, ok := ExtractObject(in)
	if !ok {
		t.Fatal("ExtractObject() ok = false, want true")
	}
	if obj["n"] != float64(1) {
		t.Errorf("n = %v, want 1", obj["n"])
	}
}

func TestExtractObject_InvisibleRunes(t *testing.T) {
	in := "{\"label\": \"Experts\",​ \"confidence\": 0.7}"

	obj, ok := ExtractObject(in)
	if !ok {
		t.Fatal("ExtractObject() ok = false, want true")
	}
	if obj["label"] != "Experts" {
		t.Errorf("label = %v, want Experts", obj["label"])
	}
}

func TestExtractObject_NoParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"plain prose", "I could not produce JSON, sorry."},
		{"truncated object", `{"title": "cut off mid`},
		{"array not object", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ExtractObject(tt.in); ok {
				t.Errorf("ExtractObject(%q) ok = true, want false", tt.in)
			}
		})
	}
}

func TestExtractArray(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := `[{"slide_id":1,"title":"Intro"},{"slide_id":2,"title":"Market"}]`
		arr, ok := ExtractArray(in)
		if !ok {
			t.Fatal("ExtractArray() ok = false, want true")
		}
		if len(arr) != 2 {
			t.Fatalf("len = %d, want 2", len(arr))
		}
	})

	t.Run("fenced with noise", func(t *testing.T) {
		in := "Sure!\n```json\n[\"a\", \"b\"]\n```"
		arr, ok := ExtractArray(in)
		if !ok {
			t.Fatal("ExtractArray() ok = false, want true")
		}
		if arr[0] != "a" {
			t.Errorf("arr[0] = %v, want a", arr[0])
		}
	})

	t.Run("nested arrays", func(t *testing.T) {
		in := `noise [[1,2],[3,4]] trailing`
		arr, ok := ExtractArray(in)
		if !ok {
			t.Fatal("ExtractArray() ok = false, want true")
		}
		if len(arr) != 2 {
			t.Errorf("len = %d, want 2", len(arr))
		}
	})

	t.Run("object not array", func(t *testing.T) {
		if _, ok := ExtractArray(`{"a": 1}`); ok {
			t.Error("ExtractArray() ok = true for object input, want false")
		}
	})

	t.Run("no parse", func(t *testing.T) {
		if _, ok := ExtractArray("nothing here"); ok {
			t.Error("ExtractArray() ok = true, want false")
		}
	})
}

func TestPreSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims space", "  {\"a\":1}  ", `{"a":1}`},
		{"strips fence with tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"keeps inner backticks", "{\"a\":\"`code`\"}", "{\"a\":\"`code`\"}"},
		{"removes zero width", "a​b", "ab"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreSanitize(tt.in); got != tt.want {
				t.Errorf("PreSanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func remarshal(t *testing.T, in map[string]any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	return out
}
