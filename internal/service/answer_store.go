package service

import (
	"exam_campus_backend/internal/model"
)

// AnswerStore collects a session's responses and review marks in memory.
// Pure state, no I/O; an ExamSession serializes access to it.
type AnswerStore struct {
	answers map[string]model.AnswerValue
	review  map[string]bool
}

func NewAnswerStore() *AnswerStore {
	return &AnswerStore{
		answers: make(map[string]model.AnswerValue),
		review:  make(map[string]bool),
	}
}

// Set records a response. For multi-select questions the value toggles inside
// the existing set: inserted if absent, removed if present. For everything
// else it replaces the stored value. Values are never validated against the
// question's option list; a value that matches nothing simply scores as
// incorrect later.
func (s *AnswerStore) Set(questionID, value string, isMultiSelect bool) {
	if !isMultiSelect {
		s.answers[questionID] = model.SingleAnswer(value)
		return
	}
	current := s.answers[questionID]
	next := make([]string, 0, len(current.Choices)+1)
	removed := false
	for _, c := range current.Choices {
		if c == value {
			removed = true
			continue
		}
		next = append(next, c)
	}
	if !removed {
		next = append(next, value)
	}
	s.answers[questionID] = model.SetAnswer(next...)
}

// ToggleReview flips the question's membership in the marked-for-review set.
func (s *AnswerStore) ToggleReview(questionID string) bool {
	if s.review[questionID] {
		delete(s.review, questionID)
		return false
	}
	s.review[questionID] = true
	return true
}

// Clear resets a response: multi-select answers go back to the empty set,
// everything else to no value.
func (s *AnswerStore) Clear(questionID string) {
	if current, ok := s.answers[questionID]; ok && current.IsSet {
		s.answers[questionID] = model.SetAnswer()
		return
	}
	delete(s.answers, questionID)
}

// Get returns the stored response; the zero value reads as unanswered.
func (s *AnswerStore) Get(questionID string) model.AnswerValue {
	return s.answers[questionID]
}

// Answered reports whether the question currently holds a non-empty response.
func (s *AnswerStore) Answered(questionID string) bool {
	return !s.answers[questionID].IsEmpty()
}

// MarkedForReview reports the review flag.
func (s *AnswerStore) MarkedForReview(questionID string) bool {
	return s.review[questionID]
}

// AnsweredCount counts non-empty responses.
func (s *AnswerStore) AnsweredCount() int {
	n := 0
	for _, v := range s.answers {
		if !v.IsEmpty() {
			n++
		}
	}
	return n
}

// Snapshot copies the current responses for scoring.
func (s *AnswerStore) Snapshot() map[string]model.AnswerValue {
	out := make(map[string]model.AnswerValue, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// ReviewList returns the ids currently marked for review.
func (s *AnswerStore) ReviewList() []string {
	out := make([]string, 0, len(s.review))
	for k := range s.review {
		out = append(out, k)
	}
	return out
}
