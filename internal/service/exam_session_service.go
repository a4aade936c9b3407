package service

import (
	"context"
	"sync"
	"time"

	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/util"
	"exam_campus_backend/pkg/logger"
	"exam_campus_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ExamSource loads the exam and its questions for session start. The exam
// repository satisfies it; tests use fakes.
type ExamSource interface {
	FindPublishedByID(id string) (*model.Exam, error)
	QuestionsByExamID(examID string) ([]model.ExamQuestion, error)
}

// EnrolmentChecker scopes exam access to the student's enrolled courses.
type EnrolmentChecker interface {
	IsEnrolled(studentID uint, courseID string) (bool, error)
}

// ExamSessionService owns every live session in a registry keyed by session
// id. Sessions are purely in-memory: a server restart discards them, the
// student reopens the exam. One student may run at most one live session per
// exam; a retake after submission starts a fresh session with fresh state.
type ExamSessionService struct {
	Exams      ExamSource
	Enrolments EnrolmentChecker
	Assembler  *SubmissionAssembler

	// MaxIdle ends abandoned sessions; zero disables the reaper.
	MaxIdle time.Duration

	mu       sync.Mutex
	sessions map[string]*ExamSession
	touched  map[string]time.Time
}

func NewExamSessionService(exams ExamSource, enrolments EnrolmentChecker, assembler *SubmissionAssembler, maxIdle time.Duration) *ExamSessionService {
	return &ExamSessionService{
		Exams:      exams,
		Enrolments: enrolments,
		Assembler:  assembler,
		MaxIdle:    maxIdle,
		sessions:   make(map[string]*ExamSession),
		touched:    make(map[string]time.Time),
	}
}

// Start opens a session for the student on a published exam. A zero-question
// exam never yields a session. An existing live session for the same exam is
// resumed rather than duplicated.
func (s *ExamSessionService) Start(examID string, studentID uint) (*ExamSession, error) {
	exam, err := s.Exams.FindPublishedByID(examID)
	if err != nil {
		return nil, err
	}
	if s.Enrolments != nil {
		if courseID := util.ExtractRelationRaw(exam.Course); courseID != "" {
			ok, err := s.Enrolments.IsEnrolled(studentID, courseID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, util.ErrNotEnrolled
			}
		}
	}
	questions, err := s.Exams.QuestionsByExamID(exam.ID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrExamHasNoQuestions
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing.ExamID == exam.ID && existing.StudentID == studentID && existing.State() == SessionActive {
			s.touched[existing.ID] = time.Now()
			return existing, nil
		}
	}

	session := newExamSession(exam, questions, studentID, s.onTimerExpired)
	s.sessions[session.ID] = session
	s.touched[session.ID] = time.Now()
	monitoring.ActiveSessions.Set(float64(len(s.sessions)))
	logger.Log.Info("exam session started",
		zap.String("sessionId", session.ID),
		zap.String("examId", exam.ID),
		zap.Uint("studentId", studentID),
		zap.Int("questions", len(questions)),
		zap.Int("durationMinutes", exam.Duration))
	return session, nil
}

// Get returns the student's live session.
func (s *ExamSessionService) Get(sessionID string, studentID uint) (*ExamSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok || session.StudentID != studentID {
		return nil, util.ErrSessionNotFound
	}
	s.touched[sessionID] = time.Now()
	return session, nil
}

// Finish submits a session through the assembler. The session's own guard
// makes the transition idempotent; this method only supplies the persistence
// closure. Submitted sessions stay in the registry until reaped so the
// student can still poll the outcome.
func (s *ExamSessionService) Finish(sessionID string, studentID uint, confirmed bool) (*FinishOutcome, error) {
	session, err := s.Get(sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return s.finish(session, false, confirmed)
}

func (s *ExamSessionService) finish(session *ExamSession, auto, confirmed bool) (*FinishOutcome, error) {
	outcome, err := session.Finish(auto, confirmed, func(sess *ExamSession, score ScoreOutcome) (*model.ExamAttempt, *model.Result, error) {
		sess.mu.Lock()
		exam := sess.exam
		sess.mu.Unlock()
		return s.Assembler.Assemble(exam, sess.meta(), score)
	})
	if err != nil {
		if err != util.ErrConfirmRequired && err != util.ErrAlreadySubmitted {
			logger.Log.Error("exam submission failed",
				zap.String("sessionId", session.ID),
				zap.Bool("auto", auto),
				zap.Error(err))
		}
		return outcome, err
	}
	trigger := "manual"
	if auto {
		trigger = "auto"
	}
	monitoring.ExamSubmissions.WithLabelValues(trigger).Inc()
	logger.Log.Info("exam submitted",
		zap.String("sessionId", session.ID),
		zap.String("attemptId", outcome.Attempt.ID),
		zap.Bool("auto", auto),
		zap.Float64("percentage", outcome.Score.Percentage))
	return outcome, nil
}

// onTimerExpired is the forced-submit path. The timer fires it at most once;
// if a manual finish won the race the session guard turns this into a no-op.
func (s *ExamSessionService) onTimerExpired(sessionID string) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return
	}
	if _, err := s.finish(session, true, false); err != nil {
		logger.Log.Error("forced submission failed",
			zap.String("sessionId", sessionID),
			zap.Error(err))
	}
}

// Close discards a session without submitting.
func (s *ExamSessionService) Close(sessionID string, studentID uint) error {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok && session.StudentID == studentID {
		delete(s.sessions, sessionID)
		delete(s.touched, sessionID)
		monitoring.ActiveSessions.Set(float64(len(s.sessions)))
	}
	s.mu.Unlock()
	if !ok || session.StudentID != studentID {
		return util.ErrSessionNotFound
	}
	session.Close()
	return nil
}

// Reap drops sessions idle past MaxIdle. Returns the number removed.
func (s *ExamSessionService) Reap() int {
	if s.MaxIdle <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-s.MaxIdle)
	s.mu.Lock()
	var stale []*ExamSession
	for id, session := range s.sessions {
		if s.touched[id].Before(cutoff) {
			stale = append(stale, session)
			delete(s.sessions, id)
			delete(s.touched, id)
		}
	}
	monitoring.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	for _, session := range stale {
		session.Close()
	}
	if len(stale) > 0 {
		logger.Log.Info("reaped idle exam sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// RunReaper ticks Reap until the context ends.
func (s *ExamSessionService) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reap()
		}
	}
}
