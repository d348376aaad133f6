package ai

import (
	"testing"
)

func TestParseJSONObject_Clean(t *testing.T) {
	t.Parallel()

	var out struct {
		Name string `json:"name"`
	}
	if err := ParseJSONObject(`{"name":"idli"}`, &out); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Name != "idli" {
		t.Errorf("Expected name idli, got %s", out.Name)
	}
}

func TestParseJSONObject_MarkdownFences(t *testing.T) {
	t.Parallel()

	var out map[string]any
	content := "```json\n{\"ok\": true}\n```"
	if err := ParseJSONObject(content, &out); err != nil {
		t.Fatalf("Expected fenced JSON to parse, got %v", err)
	}
	if out["ok"] != true {
		t.Errorf("Expected ok=true, got %v", out)
	}
}

func TestParseJSONObject_SurroundingProse(t *testing.T) {
	t.Parallel()

	var out map[string]any
	content := `Here is the data you asked for: {"count": 3} Hope that helps!`
	if err := ParseJSONObject(content, &out); err != nil {
		t.Fatalf("Expected embedded JSON to parse, got %v", err)
	}
	if out["count"] != 3.0 {
		t.Errorf("Expected count 3, got %v", out)
	}
}

func TestParseJSONObject_Garbage(t *testing.T) {
	t.Parallel()

	var out map[string]any
	if err := ParseJSONObject("not json at all", &out); err == nil {
		t.Error("Expected an error for unparseable content")
	}
}

func TestParseJSONArray_FencedWithProse(t *testing.T) {
	t.Parallel()

	var out []map[string]string
	content := "Sure!\n```json\n[{\"item\":\"umbrella\"}]\n```"
	if err := ParseJSONArray(content, &out); err != nil {
		t.Fatalf("Expected fenced array to parse, got %v", err)
	}
	if len(out) != 1 || out[0]["item"] != "umbrella" {
		t.Errorf("Expected one umbrella item, got %v", out)
	}
}
