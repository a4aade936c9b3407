package service

import (
	"sync"
	"time"

	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/util"
)

// Session states.
const (
	SessionActive     = "active"
	SessionSubmitting = "submitting"
	SessionSubmitted  = "submitted"
	SessionErrored    = "errored"
	SessionClosed     = "closed"
)

// ExamSession owns one student's in-progress run through one exam: the answer
// store, the review marks, the current question index and the countdown. All
// state is private to the session object; a retake gets a fresh session, so
// two runs can never alias answers.
type ExamSession struct {
	ID        string
	ExamID    string
	StudentID uint

	mu        sync.Mutex
	state     string
	exam      *model.Exam
	questions []model.ExamQuestion
	answers   *AnswerStore
	timer     *SessionTimer
	index     int
	startedAt time.Time
	outcome   *FinishOutcome
	lastErr   error
}

// FinishOutcome is the handoff produced by a successful submission.
type FinishOutcome struct {
	Session  *SessionView       `json:"session"`
	Score    ScoreOutcome       `json:"score"`
	Attempt  *model.ExamAttempt `json:"attempt"`
	Result   *model.Result      `json:"result"`
	ResultID string             `json:"resultId"`
}

// SessionView is the state exposed to the player on every poll.
type SessionView struct {
	ID             string     `json:"id"`
	ExamID         string     `json:"examId"`
	ExamTitle      string     `json:"examTitle"`
	State          string     `json:"state"`
	CurrentIndex   int        `json:"currentIndex"`
	TotalQuestions int        `json:"totalQuestions"`
	AnsweredCount  int        `json:"answeredCount"`
	ReviewMarked   []string   `json:"reviewMarked"`
	RemainingTime  *int       `json:"remainingTime,omitempty"` // seconds, nil when untimed
	StartedAt      time.Time  `json:"startedAt"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
}

// newExamSession wires a session around an already-validated exam. The caller
// guarantees the question list is non-empty; an exam with zero questions never
// produces a session.
func newExamSession(exam *model.Exam, questions []model.ExamQuestion, studentID uint, onExpire func(sessionID string)) *ExamSession {
	s := &ExamSession{
		ID:        model.GenerateUUID(),
		ExamID:    exam.ID,
		StudentID: studentID,
		state:     SessionActive,
		exam:      exam,
		questions: questions,
		answers:   NewAnswerStore(),
		startedAt: time.Now(),
	}
	s.timer = NewSessionTimer(exam.Duration, func() {
		if onExpire != nil {
			onExpire(s.ID)
		}
	})
	s.timer.Start()
	return s
}

// View renders the pollable state.
func (s *ExamSession) View() *SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *ExamSession) viewLocked() *SessionView {
	v := &SessionView{
		ID:             s.ID,
		ExamID:         s.ExamID,
		ExamTitle:      s.exam.Title,
		State:          s.state,
		CurrentIndex:   s.index,
		TotalQuestions: len(s.questions),
		AnsweredCount:  s.answers.AnsweredCount(),
		ReviewMarked:   s.answers.ReviewList(),
		StartedAt:      s.startedAt,
	}
	if s.exam.Duration > 0 {
		remaining := s.timer.Remaining()
		v.RemainingTime = &remaining
	}
	if s.outcome != nil && s.outcome.Attempt != nil {
		v.SubmittedAt = s.outcome.Attempt.SubmittedAt
	}
	return v
}

// Question returns the question at the current index, stripped of grading
// fields the student must not see mid-exam.
func (s *ExamSession) Question() *model.ExamQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.questions[s.index]
	q.CorrectAnswer = ""
	q.Explanation = ""
	return &q
}

// Answer records a response for a question of this session's exam. The
// multi-select toggle semantics are derived from the question's options, never
// from the caller.
func (s *ExamSession) Answer(questionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionActive {
		return util.ErrSessionNotActive
	}
	q := s.findQuestion(questionID)
	if q == nil {
		return util.ErrExamNotFound
	}
	multi := model.IsMultiSelect(model.NormalizeOptions(q.Options))
	s.answers.Set(questionID, value, multi)
	return nil
}

// ClearAnswer resets a response.
func (s *ExamSession) ClearAnswer(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionActive {
		return util.ErrSessionNotActive
	}
	s.answers.Clear(questionID)
	return nil
}

// ToggleReview flips the review mark and returns the new value.
func (s *ExamSession) ToggleReview(questionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionActive {
		return false, util.ErrSessionNotActive
	}
	return s.answers.ToggleReview(questionID), nil
}

// Navigate moves the current index. Moves are clamped to [0, len-1]; there is
// no wraparound past either end.
func (s *ExamSession) Navigate(to int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionActive {
		return s.index, util.ErrSessionNotActive
	}
	if to < 0 {
		to = 0
	}
	if to > len(s.questions)-1 {
		to = len(s.questions) - 1
	}
	s.index = to
	return s.index, nil
}

// Next and Previous are index moves like any other.
func (s *ExamSession) Next() (int, error)     { return s.navigateBy(1) }
func (s *ExamSession) Previous() (int, error) { return s.navigateBy(-1) }

func (s *ExamSession) navigateBy(delta int) (int, error) {
	s.mu.Lock()
	current := s.index
	s.mu.Unlock()
	return s.Navigate(current + delta)
}

func (s *ExamSession) findQuestion(id string) *model.ExamQuestion {
	for i := range s.questions {
		if s.questions[i].ID == id {
			return &s.questions[i]
		}
	}
	return nil
}

// Finish drives the submit transition. auto marks the timer-expiry path, which
// bypasses the confirmation gate; a manual finish without confirm is rejected
// before any state changes. The submit itself runs under the transition guard:
// once the session has left active (or errored, which allows a retry), every
// further Finish is answered from the recorded outcome or rejected, so the
// timer racing a manual finish can never submit twice.
func (s *ExamSession) Finish(auto, confirmed bool, submit func(*ExamSession, ScoreOutcome) (*model.ExamAttempt, *model.Result, error)) (*FinishOutcome, error) {
	s.mu.Lock()
	switch s.state {
	case SessionActive, SessionErrored:
		// proceed
	case SessionSubmitted:
		outcome := s.outcome
		s.mu.Unlock()
		if auto {
			// A late timer callback after a manual submit is ignored.
			return outcome, nil
		}
		return outcome, util.ErrAlreadySubmitted
	case SessionSubmitting:
		s.mu.Unlock()
		return nil, util.ErrAlreadySubmitted
	default:
		s.mu.Unlock()
		return nil, util.ErrSessionNotActive
	}
	if !auto && !confirmed {
		s.mu.Unlock()
		return nil, util.ErrConfirmRequired
	}
	s.state = SessionSubmitting
	score := Score(s.questions, s.answers.Snapshot())
	s.mu.Unlock()

	attempt, result, err := submit(s, score)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Retryable: the student may invoke Finish again.
		s.state = SessionErrored
		s.lastErr = err
		return nil, err
	}
	s.timer.Cancel()
	s.state = SessionSubmitted
	s.outcome = &FinishOutcome{
		Score:   score,
		Attempt: attempt,
		Result:  result,
	}
	if result != nil {
		s.outcome.ResultID = result.ID
	}
	// The outcome is shared with every later duplicate Finish, so it must be
	// complete before the lock drops.
	s.outcome.Session = s.viewLocked()
	return s.outcome, nil
}

// Close discards an in-progress session: the timer stops and a pending expiry
// callback becomes a no-op.
func (s *ExamSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Cancel()
	if s.state == SessionActive || s.state == SessionErrored {
		s.state = SessionClosed
	}
}

// State reports the lifecycle state.
func (s *ExamSession) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the failure that moved the session to errored.
func (s *ExamSession) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// sessionMeta snapshots the fields the assembler needs without holding the
// session lock across I/O.
type sessionMeta struct {
	ExamID           string
	StudentID        uint
	StartedAt        time.Time
	DurationSeconds  int
	RemainingSeconds int
}

func (s *ExamSession) meta() sessionMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := sessionMeta{
		ExamID:    s.ExamID,
		StudentID: s.StudentID,
		StartedAt: s.startedAt,
	}
	if s.exam.Duration > 0 {
		m.DurationSeconds = s.exam.Duration * 60
		m.RemainingSeconds = s.timer.Remaining()
	}
	return m
}
