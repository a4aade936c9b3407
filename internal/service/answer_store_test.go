package service

import (
	"testing"
)

func TestAnswerStoreSingleReplace(t *testing.T) {
	store := NewAnswerStore()

	store.Set("q1", "a", false)
	store.Set("q1", "b", false)

	if got := store.Get("q1").Text; got != "b" {
		t.Errorf("answer = %q, want %q", got, "b")
	}
	if store.AnsweredCount() != 1 {
		t.Errorf("AnsweredCount = %d, want 1", store.AnsweredCount())
	}
}

func TestAnswerStoreMultiToggle(t *testing.T) {
	store := NewAnswerStore()

	store.Set("q1", "a", true)
	store.Set("q1", "c", true)
	if got := store.Get("q1").Choices; len(got) != 2 {
		t.Fatalf("choices = %v, want [a c]", got)
	}

	// Toggling an already-selected value removes it.
	store.Set("q1", "a", true)
	got := store.Get("q1")
	if len(got.Choices) != 1 || got.Choices[0] != "c" {
		t.Errorf("choices = %v, want [c]", got.Choices)
	}

	// Removing the last value leaves an empty set, which reads as unanswered.
	store.Set("q1", "c", true)
	if !store.Get("q1").IsEmpty() {
		t.Error("empty set must read as unanswered")
	}
	if store.AnsweredCount() != 0 {
		t.Errorf("AnsweredCount = %d, want 0", store.AnsweredCount())
	}
}

func TestAnswerStoreClear(t *testing.T) {
	store := NewAnswerStore()

	store.Set("q1", "a", false)
	store.Clear("q1")
	if !store.Get("q1").IsEmpty() {
		t.Error("cleared single answer must be empty")
	}
	if store.Get("q1").IsSet {
		t.Error("cleared single answer must reset to no value, not an empty set")
	}

	store.Set("q2", "a", true)
	store.Clear("q2")
	v := store.Get("q2")
	if !v.IsSet || len(v.Choices) != 0 {
		t.Errorf("cleared multi answer must reset to an empty set, got %+v", v)
	}
}

func TestAnswerStoreReviewMarks(t *testing.T) {
	store := NewAnswerStore()

	if marked := store.ToggleReview("q1"); !marked {
		t.Error("first toggle must mark")
	}
	if marked := store.ToggleReview("q1"); marked {
		t.Error("second toggle must unmark")
	}
	if store.MarkedForReview("q1") {
		t.Error("q1 must be unmarked")
	}

	store.ToggleReview("q2")
	if list := store.ReviewList(); len(list) != 1 || list[0] != "q2" {
		t.Errorf("ReviewList = %v, want [q2]", list)
	}
}

func TestAnswerStoreInvalidValuesPreserved(t *testing.T) {
	store := NewAnswerStore()

	// Values are not validated against any option list; they are stored and
	// simply never match during scoring.
	store.Set("q1", "not-an-option", false)
	if got := store.Get("q1").Text; got != "not-an-option" {
		t.Errorf("answer = %q, want it preserved verbatim", got)
	}
}

func TestAnswerStoreSnapshotIsCopy(t *testing.T) {
	store := NewAnswerStore()
	store.Set("q1", "a", false)

	snap := store.Snapshot()
	store.Set("q1", "b", false)

	if snap["q1"].Text != "a" {
		t.Error("snapshot must not observe later writes")
	}
}
