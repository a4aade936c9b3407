package model

import (
	"encoding/json"
	"testing"
)

func TestNormalizeOptionsObjectArray(t *testing.T) {
	raw := json.RawMessage(`[
		{"id":"a","label":"A","text":"Paris","isCorrect":true},
		{"id":"b","label":"B","text":"Lyon"},
		{"label":"C","text":"Nice","correct":true},
		{"id":"d","text":"Lille","is_correct":false}
	]`)

	opts := NormalizeOptions(raw)
	if len(opts) != 4 {
		t.Fatalf("len = %d, want 4", len(opts))
	}
	if !opts[0].IsCorrect || opts[1].IsCorrect || !opts[2].IsCorrect || opts[3].IsCorrect {
		t.Error("correct flags must be read from isCorrect, correct and is_correct alike")
	}
	if opts[2].ID != "C" {
		t.Errorf("id = %q, want label backfilled as id", opts[2].ID)
	}
	if opts[3].Label != "d" {
		t.Errorf("label = %q, want id backfilled as label", opts[3].Label)
	}
}

func TestNormalizeOptionsBareStrings(t *testing.T) {
	opts := NormalizeOptions(json.RawMessage(`["red","green","blue"]`))
	if len(opts) != 3 {
		t.Fatalf("len = %d, want 3", len(opts))
	}
	if opts[1].Key() != "option-1" || opts[1].Text != "green" {
		t.Errorf("opt[1] = %+v, want positional key with string as text", opts[1])
	}
	if IsMultiSelect(opts) {
		t.Error("bare-string options carry no correct flags and cannot be multi-select")
	}
}

func TestNormalizeOptionsDoubleEncoded(t *testing.T) {
	inner := `[{"id":"a","text":"yes","isCorrect":true},{"id":"b","text":"no"}]`
	raw, _ := json.Marshal(inner)

	opts := NormalizeOptions(raw)
	if len(opts) != 2 {
		t.Fatalf("len = %d, want the wrapped array decoded", len(opts))
	}
	if !opts[0].IsCorrect {
		t.Error("flags must survive the double decode")
	}
}

func TestNormalizeOptionsGarbage(t *testing.T) {
	for _, raw := range []string{``, `null`, `{not json`, `"also not an array"`, `42`} {
		if opts := NormalizeOptions(json.RawMessage(raw)); len(opts) != 0 {
			t.Errorf("NormalizeOptions(%q) = %v, want none", raw, opts)
		}
	}
}

func TestIsMultiSelectDerivation(t *testing.T) {
	single := []Option{{ID: "a", IsCorrect: true}, {ID: "b"}}
	multi := []Option{{ID: "a", IsCorrect: true}, {ID: "b", IsCorrect: true}}
	none := []Option{{ID: "a"}, {ID: "b"}}

	if IsMultiSelect(single) {
		t.Error("one correct option is single-select")
	}
	if !IsMultiSelect(multi) {
		t.Error("two correct options make the question multi-select")
	}
	if IsMultiSelect(none) {
		t.Error("no correct options is not multi-select")
	}
}

func TestOptionKeyPrefersLabel(t *testing.T) {
	if k := (Option{ID: "opt-1", Label: "A"}).Key(); k != "A" {
		t.Errorf("Key = %q, want label", k)
	}
	if k := (Option{ID: "opt-1"}).Key(); k != "opt-1" {
		t.Errorf("Key = %q, want id fallback", k)
	}
}

func TestPointsOrDefault(t *testing.T) {
	q := ExamQuestion{}
	if q.PointsOrDefault() != 1 {
		t.Error("zero points must default to 1")
	}
	q.Points = 2.5
	if q.PointsOrDefault() != 2.5 {
		t.Error("explicit points must be kept")
	}
}
