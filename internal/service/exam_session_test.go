package service

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/util"
	"exam_campus_backend/pkg/logger"
	"exam_campus_backend/pkg/monitoring"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeExamSource struct {
	exam      *model.Exam
	questions []model.ExamQuestion
}

func (f *fakeExamSource) FindPublishedByID(id string) (*model.Exam, error) {
	if f.exam == nil || f.exam.ID != id {
		return nil, util.ErrExamNotFound
	}
	if !f.exam.IsPublished {
		return nil, util.ErrExamNotPublished
	}
	return f.exam, nil
}

func (f *fakeExamSource) QuestionsByExamID(examID string) ([]model.ExamQuestion, error) {
	return f.questions, nil
}

type fakeAttemptStore struct {
	mu       sync.Mutex
	attempts []*model.ExamAttempt
	failNext bool
}

func (f *fakeAttemptStore) Create(attempt *model.ExamAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return errors.New("attempt insert rejected")
	}
	attempt.ID = model.GenerateUUID()
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeAttemptStore) CountByExamAndStudent(examID string, studentID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.attempts {
		if a.ExamID == examID && a.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

type fakeResultStore struct {
	mu      sync.Mutex
	results []*model.Result
}

func (f *fakeResultStore) Create(result *model.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	result.ID = model.GenerateUUID()
	f.results = append(f.results, result)
	return nil
}

func newSessionFixture(t *testing.T, duration int, questions []model.ExamQuestion) (*ExamSessionService, *fakeAttemptStore, *fakeResultStore, *ExamSession) {
	t.Helper()
	exam := &model.Exam{
		UUIDBase:     model.UUIDBase{ID: "exam-1"},
		Title:        "Midterm",
		Duration:     duration,
		PassingScore: 60,
		IsPublished:  true,
	}
	attempts := &fakeAttemptStore{}
	results := &fakeResultStore{}
	svc := NewExamSessionService(
		&fakeExamSource{exam: exam, questions: questions},
		nil,
		NewSubmissionAssembler(attempts, results),
		time.Hour,
	)
	session, err := svc.Start("exam-1", 7)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return svc, attempts, results, session
}

func TestSessionStartRejectsEmptyExam(t *testing.T) {
	exam := &model.Exam{UUIDBase: model.UUIDBase{ID: "exam-1"}, IsPublished: true}
	svc := NewExamSessionService(
		&fakeExamSource{exam: exam},
		nil,
		NewSubmissionAssembler(&fakeAttemptStore{}, &fakeResultStore{}),
		time.Hour,
	)

	if _, err := svc.Start("exam-1", 7); !errors.Is(err, util.ErrExamHasNoQuestions) {
		t.Errorf("err = %v, want ErrExamHasNoQuestions", err)
	}
}

func TestSessionStartResumesLiveSession(t *testing.T) {
	svc, _, _, session := newSessionFixture(t, 0, []model.ExamQuestion{mcq("q1", "a")})

	again, err := svc.Start("exam-1", 7)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if again.ID != session.ID {
		t.Error("a second start for the same exam and student must resume, not duplicate")
	}

	// A different student gets their own session.
	other, err := svc.Start("exam-1", 8)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if other.ID == session.ID {
		t.Error("sessions must never be shared across students")
	}
}

func TestSessionNavigationClamps(t *testing.T) {
	_, _, _, session := newSessionFixture(t, 0, []model.ExamQuestion{
		mcq("q1", "a"), mcq("q2", "a"), mcq("q3", "a"),
	})

	if idx, _ := session.Navigate(99); idx != 2 {
		t.Errorf("Navigate(99) = %d, want clamp to 2", idx)
	}
	if idx, _ := session.Navigate(-5); idx != 0 {
		t.Errorf("Navigate(-5) = %d, want clamp to 0", idx)
	}
	if idx, _ := session.Previous(); idx != 0 {
		t.Errorf("Previous at 0 = %d, want 0 (no wraparound)", idx)
	}
	session.Navigate(2)
	if idx, _ := session.Next(); idx != 2 {
		t.Errorf("Next at end = %d, want 2 (no wraparound)", idx)
	}
}

func TestSessionQuestionHidesGradingFields(t *testing.T) {
	q := mcq("q1", "a")
	q.CorrectAnswer = "a"
	q.Explanation = "because"
	_, _, _, session := newSessionFixture(t, 0, []model.ExamQuestion{q})

	got := session.Question()
	if got.CorrectAnswer != "" || got.Explanation != "" {
		t.Error("mid-exam question view must not expose correctAnswer or explanation")
	}
}

func TestSessionFinishRequiresConfirmation(t *testing.T) {
	svc, attempts, _, session := newSessionFixture(t, 0, []model.ExamQuestion{mcq("q1", "a")})

	if _, err := svc.Finish(session.ID, 7, false); !errors.Is(err, util.ErrConfirmRequired) {
		t.Fatalf("err = %v, want ErrConfirmRequired", err)
	}
	if len(attempts.attempts) != 0 {
		t.Error("unconfirmed finish must not persist anything")
	}
	if session.State() != SessionActive {
		t.Errorf("state = %s, want still active", session.State())
	}
}

func TestSessionFinishIdempotent(t *testing.T) {
	svc, attempts, results, session := newSessionFixture(t, 0, []model.ExamQuestion{mcq("q1", "a")})
	session.Answer("q1", "a")

	first, err := svc.Finish(session.ID, 7, true)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	second, err := svc.Finish(session.ID, 7, true)
	if !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Fatalf("second finish err = %v, want ErrAlreadySubmitted", err)
	}
	if second == nil || second.Attempt.ID != first.Attempt.ID {
		t.Error("second finish must return the first outcome")
	}

	if len(attempts.attempts) != 1 {
		t.Errorf("attempts created = %d, want exactly 1", len(attempts.attempts))
	}
	if len(results.results) != 1 {
		t.Errorf("results created = %d, want exactly 1", len(results.results))
	}
}

func TestSessionFinishRetryableAfterPersistenceFailure(t *testing.T) {
	svc, attempts, results, session := newSessionFixture(t, 0, []model.ExamQuestion{mcq("q1", "a")})
	session.Answer("q1", "a")
	attempts.failNext = true

	if _, err := svc.Finish(session.ID, 7, true); err == nil {
		t.Fatal("expected persistence failure")
	}
	if session.State() != SessionErrored {
		t.Fatalf("state = %s, want errored", session.State())
	}

	outcome, err := svc.Finish(session.ID, 7, true)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if outcome.Result == nil || len(results.results) != 1 {
		t.Error("retry must complete the submission")
	}
}

func TestSessionForcedSubmitRace(t *testing.T) {
	questions := []model.ExamQuestion{
		mcq("q1", "a"), mcq("q2", "a"), mcq("q3", "a"), mcq("q4", "a"), mcq("q5", "a"),
	}
	svc, attempts, results, session := newSessionFixture(t, 30, questions)
	session.Answer("q1", "a")
	session.Answer("q2", "b")

	// The timer expiry path and a manual finish race through the same guard;
	// fire both and require exactly one persisted submission.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		svc.onTimerExpired(session.ID)
	}()
	go func() {
		defer wg.Done()
		svc.Finish(session.ID, 7, true)
	}()
	wg.Wait()

	if len(attempts.attempts) != 1 || len(results.results) != 1 {
		t.Fatalf("persisted %d attempts / %d results, want 1/1", len(attempts.attempts), len(results.results))
	}

	answers := attempts.attempts[0].DecodeAnswers()
	unanswered := 0
	for _, a := range answers {
		if a.Answer.IsEmpty() {
			unanswered++
		}
	}
	if unanswered != 3 {
		t.Errorf("unanswered = %d, want 3 of 5", unanswered)
	}
}

func TestSessionForcedSubmitScoresUnanswered(t *testing.T) {
	questions := []model.ExamQuestion{
		mcq("q1", "a"), mcq("q2", "a"), mcq("q3", "a"), mcq("q4", "a"), mcq("q5", "a"),
	}
	svc, _, _, session := newSessionFixture(t, 30, questions)
	session.Answer("q1", "a")
	session.Answer("q2", "a")

	svc.onTimerExpired(session.ID)

	if session.State() != SessionSubmitted {
		t.Fatalf("state = %s, want submitted", session.State())
	}
	outcome, err := svc.Finish(session.ID, 7, true)
	if !errors.Is(err, util.ErrAlreadySubmitted) {
		t.Fatalf("err = %v, want ErrAlreadySubmitted with recorded outcome", err)
	}
	if outcome.Score.Unanswered != 3 {
		t.Errorf("Unanswered = %d, want 3", outcome.Score.Unanswered)
	}
	if outcome.Score.Correct != 2 {
		t.Errorf("Correct = %d, want 2", outcome.Score.Correct)
	}
}

func TestSessionDuplicateFinishOutcomeSafeToMarshal(t *testing.T) {
	// A duplicate finish receives the same outcome pointer as the winner and
	// immediately serializes it, so the outcome must be fully built before it
	// is ever handed out. Run under -race.
	for i := 0; i < 50; i++ {
		svc, _, _, session := newSessionFixture(t, 0, []model.ExamQuestion{mcq("q1", "a")})
		session.Answer("q1", "a")

		var wg sync.WaitGroup
		finishAndMarshal := func() {
			defer wg.Done()
			outcome, _ := svc.Finish(session.ID, 7, true)
			if outcome == nil {
				return
			}
			if outcome.Session == nil {
				t.Error("outcome must carry the session view")
				return
			}
			if _, err := json.Marshal(outcome); err != nil {
				t.Errorf("marshal outcome: %v", err)
			}
		}
		wg.Add(2)
		go finishAndMarshal()
		go finishAndMarshal()
		wg.Wait()
	}
}

func TestSessionAnswerAfterSubmitRejected(t *testing.T) {
	svc, _, _, session := newSessionFixture(t, 0, []model.ExamQuestion{mcq("q1", "a")})
	if _, err := svc.Finish(session.ID, 7, true); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	if err := session.Answer("q1", "a"); !errors.Is(err, util.ErrSessionNotActive) {
		t.Errorf("Answer after submit err = %v, want ErrSessionNotActive", err)
	}
	if _, err := session.Navigate(0); !errors.Is(err, util.ErrSessionNotActive) {
		t.Errorf("Navigate after submit err = %v, want ErrSessionNotActive", err)
	}
}

func TestSessionCloseDiscards(t *testing.T) {
	svc, attempts, _, session := newSessionFixture(t, 0, []model.ExamQuestion{mcq("q1", "a")})

	if err := svc.Close(session.ID, 7); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := svc.Get(session.ID, 7); !errors.Is(err, util.ErrSessionNotFound) {
		t.Error("closed session must leave the registry")
	}
	if len(attempts.attempts) != 0 {
		t.Error("closing must not submit")
	}
}

func TestSessionGaugeTracksRegistry(t *testing.T) {
	svc, _, _, session := newSessionFixture(t, 0, []model.ExamQuestion{mcq("q1", "a")})
	if _, err := svc.Start("exam-1", 8); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if got := testutil.ToFloat64(monitoring.ActiveSessions); got != 2 {
		t.Errorf("gauge = %v, want 2 live sessions", got)
	}
	if err := svc.Close(session.ID, 7); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := testutil.ToFloat64(monitoring.ActiveSessions); got != 1 {
		t.Errorf("gauge = %v after close, want 1", got)
	}
}

func TestSessionReap(t *testing.T) {
	svc, _, _, session := newSessionFixture(t, 0, []model.ExamQuestion{mcq("q1", "a")})
	svc.MaxIdle = time.Nanosecond

	time.Sleep(time.Millisecond)
	if n := svc.Reap(); n != 1 {
		t.Fatalf("Reap = %d, want 1", n)
	}
	if _, err := svc.Get(session.ID, 7); !errors.Is(err, util.ErrSessionNotFound) {
		t.Error("reaped session must leave the registry")
	}
}

func TestAttemptNumberIncrements(t *testing.T) {
	svc, attempts, _, session := newSessionFixture(t, 0, []model.ExamQuestion{mcq("q1", "a")})
	if _, err := svc.Finish(session.ID, 7, true); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	retake, err := svc.Start("exam-1", 7)
	if err != nil {
		t.Fatalf("retake Start: %v", err)
	}
	if retake.ID == session.ID {
		t.Fatal("retake must get a fresh session")
	}
	if _, err := svc.Finish(retake.ID, 7, true); err != nil {
		t.Fatalf("retake Finish: %v", err)
	}

	if attempts.attempts[0].AttemptNumber != 1 || attempts.attempts[1].AttemptNumber != 2 {
		t.Errorf("attempt numbers = %d, %d, want 1, 2",
			attempts.attempts[0].AttemptNumber, attempts.attempts[1].AttemptNumber)
	}
}
