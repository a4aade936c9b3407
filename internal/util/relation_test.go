package util

import (
	"encoding/json"
	"testing"
)

func TestExtractRelationID(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"bare string", "abc-123", "abc-123"},
		{"number", float64(42), "42"},
		{"fractional number keeps digits", 7.5, "7.5"},
		{"int", 9, "9"},
		{"id object", map[string]interface{}{"id": "x1"}, "x1"},
		{"documentId object", map[string]interface{}{"documentId": "d1"}, "d1"},
		{"documentId wins over id", map[string]interface{}{"id": "x1", "documentId": "d1"}, "d1"},
		{"empty documentId falls through to id", map[string]interface{}{"documentId": "", "id": "x1"}, "x1"},
		{"data wrapper", map[string]interface{}{"data": map[string]interface{}{"id": "x1"}}, "x1"},
		{"nested data wrappers", map[string]interface{}{"data": map[string]interface{}{"data": "x1"}}, "x1"},
		{"array takes first", []interface{}{"a", "b"}, "a"},
		{"array of objects", []interface{}{map[string]interface{}{"id": "x1"}}, "x1"},
		{"empty array", []interface{}{}, ""},
		{"empty object", map[string]interface{}{}, ""},
		{"unrelated keys", map[string]interface{}{"name": "calculus"}, ""},
		{"boolean", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractRelationID(tt.in); got != tt.want {
				t.Errorf("ExtractRelationID(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractRelationRaw(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"quoted id", `"course-9"`, "course-9"},
		{"number", `15`, "15"},
		{"data object", `{"data":{"documentId":"d1","id":88}}`, "d1"},
		{"null", `null`, ""},
		{"malformed", `{not json`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractRelationRaw(json.RawMessage(tt.raw)); got != tt.want {
				t.Errorf("ExtractRelationRaw(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
	if got := ExtractRelationRaw(nil); got != "" {
		t.Errorf("ExtractRelationRaw(nil) = %q, want empty", got)
	}
}

func TestRelationFromIDRoundTrip(t *testing.T) {
	if got := ExtractRelationRaw(RelationFromID("exam-1")); got != "exam-1" {
		t.Errorf("round trip = %q, want exam-1", got)
	}
	if RelationFromID("") != nil {
		t.Error("empty id must encode as an absent column, not an empty string")
	}
}
