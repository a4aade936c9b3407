package service

import (
	"fmt"
	"time"

	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/util"
)

// AttemptStore and ResultStore are the persistence seams of the submission
// flow; the gorm repositories satisfy them, tests use in-memory fakes.
type AttemptStore interface {
	Create(attempt *model.ExamAttempt) error
	CountByExamAndStudent(examID string, studentID uint) (int64, error)
}

type ResultStore interface {
	Create(result *model.Result) error
}

// SubmissionAssembler turns a scored session into the persisted attempt and
// result records. The attempt is written first; the result is only attempted
// after the attempt create succeeded and references the created attempt's id.
type SubmissionAssembler struct {
	Attempts AttemptStore
	Results  ResultStore
}

func NewSubmissionAssembler(attempts AttemptStore, results ResultStore) *SubmissionAssembler {
	return &SubmissionAssembler{Attempts: attempts, Results: results}
}

// Assemble validates identifiers, builds both records and persists them in
// order. Exam and student ids must resolve before anything is written: a
// missing one fails fast with an error naming it. Course and subject are
// resolved through the relation normalizer and simply omitted when absent.
func (a *SubmissionAssembler) Assemble(exam *model.Exam, meta sessionMeta, score ScoreOutcome) (*model.ExamAttempt, *model.Result, error) {
	examID := util.ExtractRelationID(meta.ExamID)
	if examID == "" {
		return nil, nil, fmt.Errorf("%w: cannot create attempt", util.ErrMissingExamID)
	}
	studentID := meta.StudentID
	if studentID == 0 {
		return nil, nil, fmt.Errorf("%w: cannot create attempt", util.ErrMissingStudentID)
	}

	attempt, err := a.buildAttempt(exam, examID, studentID, meta, score)
	if err != nil {
		return nil, nil, err
	}
	if err := a.Attempts.Create(attempt); err != nil {
		return nil, nil, err
	}

	result := a.buildResult(exam, attempt, score)
	if err := a.Results.Create(result); err != nil {
		// The attempt exists without its result; the caller keeps the session
		// retryable rather than treating the partial write as authoritative.
		return attempt, nil, err
	}
	return attempt, result, nil
}

func (a *SubmissionAssembler) buildAttempt(exam *model.Exam, examID string, studentID uint, meta sessionMeta, score ScoreOutcome) (*model.ExamAttempt, error) {
	now := time.Now()
	attempt := &model.ExamAttempt{
		ExamID:        examID,
		StudentID:     studentID,
		AttemptNumber: 1,
		StartedAt:     meta.StartedAt,
		SubmittedAt:   &now,
		Status:        model.AttemptSubmitted,
		Score:         score.EarnedPoints,
		Percentage:    score.Percentage,
	}

	if prior, err := a.Attempts.CountByExamAndStudent(examID, studentID); err == nil {
		attempt.AttemptNumber = int(prior) + 1
	}

	passed := score.Percentage >= passingScoreOrDefault(exam)
	attempt.Passed = &passed

	// timeTaken only exists for timed exams.
	if meta.DurationSeconds > 0 {
		taken := meta.DurationSeconds - meta.RemainingSeconds
		if taken < 0 {
			taken = 0
		}
		attempt.TimeTaken = &taken
	}

	answers := make([]model.AttemptAnswer, 0, len(score.Questions))
	for _, qr := range score.Questions {
		answers = append(answers, model.AttemptAnswer{
			QuestionID: qr.QuestionID,
			Answer:     qr.UserAnswer,
			IsCorrect:  qr.IsCorrect,
			Points:     qr.PointsEarned,
		})
	}
	if err := attempt.EncodeAnswers(answers); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (a *SubmissionAssembler) buildResult(exam *model.Exam, attempt *model.ExamAttempt, score ScoreOutcome) *model.Result {
	grade, gpa := GradeForPercentage(score.Percentage)
	result := &model.Result{
		ResultType:    "exam",
		Score:         score.EarnedPoints,
		MaxScore:      score.TotalPoints,
		Percentage:    score.Percentage,
		Grade:         grade,
		GPA:           gpa,
		Passed:        attempt.Passed != nil && *attempt.Passed,
		IsPublished:   true,
		StudentID:     attempt.StudentID,
		ExamID:        attempt.ExamID,
		ExamAttemptID: attempt.ID,
	}
	// Omitted entirely when the relation does not resolve, never written as
	// an explicit null.
	if courseID := util.ExtractRelationRaw(exam.Course); courseID != "" {
		result.CourseID = courseID
	}
	if subjectID := util.ExtractRelationRaw(exam.Subject); subjectID != "" {
		result.SubjectID = subjectID
	}
	return result
}

func passingScoreOrDefault(exam *model.Exam) float64 {
	if exam == nil || exam.PassingScore <= 0 {
		return 60
	}
	return exam.PassingScore
}
