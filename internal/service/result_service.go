package service

import (
	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/repository"
	"exam_campus_backend/internal/util"
)

type ResultService struct {
	ResultRepo  *repository.ResultRepository
	AttemptRepo *repository.AttemptRepository
	ExamRepo    *repository.ExamRepository
}

func NewResultService(resultRepo *repository.ResultRepository, attemptRepo *repository.AttemptRepository, examRepo *repository.ExamRepository) *ResultService {
	return &ResultService{
		ResultRepo:  resultRepo,
		AttemptRepo: attemptRepo,
		ExamRepo:    examRepo,
	}
}

// ResultView is the result screen payload: the summary row plus the review
// reconciled from the attempt and the current question snapshot.
type ResultView struct {
	Result  *model.Result      `json:"result"`
	Exam    *model.Exam        `json:"exam,omitempty"`
	Attempt *model.ExamAttempt `json:"attempt,omitempty"`
	Review  ReconciledReview   `json:"review"`
}

// GetForStudent loads a student's own published result and rebuilds the
// per-question review. Missing attempt rows or a deleted exam degrade the
// review instead of failing the request.
func (s *ResultService) GetForStudent(resultID string, studentID uint) (*ResultView, error) {
	result, err := s.ResultRepo.FindByID(resultID)
	if err != nil {
		return nil, err
	}
	if result.StudentID != studentID {
		return nil, util.ErrResultNotFound
	}
	if !result.IsPublished {
		return nil, util.ErrResultNotFound
	}
	return s.buildView(result)
}

// GetForTeacher loads any result with the review, publish state ignored.
func (s *ResultService) GetForTeacher(resultID string) (*ResultView, error) {
	result, err := s.ResultRepo.FindByID(resultID)
	if err != nil {
		return nil, err
	}
	return s.buildView(result)
}

func (s *ResultService) buildView(result *model.Result) (*ResultView, error) {
	view := &ResultView{Result: result}

	var attempt *model.ExamAttempt
	if result.ExamAttemptID != "" {
		if a, err := s.AttemptRepo.FindByID(result.ExamAttemptID); err == nil {
			attempt = a
			view.Attempt = a
		}
	}

	var questions []model.ExamQuestion
	if result.ExamID != "" {
		if exam, err := s.ExamRepo.FindByID(result.ExamID); err == nil {
			view.Exam = exam
			if qs, err := s.ExamRepo.QuestionsByExamID(exam.ID); err == nil {
				questions = qs
			}
		}
	}

	view.Review = Reconcile(nil, questions, attempt)
	return view, nil
}

func (s *ResultService) ListForStudent(studentID uint, page, pageSize int) ([]model.Result, int64, error) {
	return s.ResultRepo.ListByStudent(studentID, true, page, pageSize)
}

func (s *ResultService) ListByExam(examID string, actor *util.Claims, page, pageSize int) ([]model.Result, int64, error) {
	if err := s.requireExamAccess(examID, actor); err != nil {
		return nil, 0, err
	}
	return s.ResultRepo.ListByExam(examID, page, pageSize)
}

func (s *ResultService) ListAttemptsByExam(examID string, actor *util.Claims, page, pageSize int) ([]model.ExamAttempt, int64, error) {
	if err := s.requireExamAccess(examID, actor); err != nil {
		return nil, 0, err
	}
	return s.AttemptRepo.ListByExam(examID, page, pageSize)
}

// SetPublished flips a result's visibility to its student.
func (s *ResultService) SetPublished(resultID string, published bool, actor *util.Claims) (*model.Result, error) {
	result, err := s.ResultRepo.FindByID(resultID)
	if err != nil {
		return nil, err
	}
	if err := s.requireExamAccess(result.ExamID, actor); err != nil {
		return nil, err
	}
	if err := s.ResultRepo.SetPublished(resultID, published); err != nil {
		return nil, err
	}
	result.IsPublished = published
	return result, nil
}

// GetAttemptForStudent returns the student's own attempt record.
func (s *ResultService) GetAttemptForStudent(attemptID string, studentID uint) (*model.ExamAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *ResultService) requireExamAccess(examID string, actor *util.Claims) error {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return err
	}
	if actor.Role != model.Admin && exam.CreatorID != actor.UserID {
		return util.ErrPermissionDenied
	}
	return nil
}
