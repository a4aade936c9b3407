package service

import (
	"context"
	"encoding/json"
	"time"

	"exam_campus_backend/internal/config"
	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/repository"
	"exam_campus_backend/internal/util"
	"exam_campus_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type ExamService struct {
	ExamRepo   *repository.ExamRepository
	CourseRepo *repository.CourseRepository
	Redis      *redis.Client
	Cfg        *config.Config
}

func NewExamService(examRepo *repository.ExamRepository, courseRepo *repository.CourseRepository, rdb *redis.Client, cfg *config.Config) *ExamService {
	return &ExamService{
		ExamRepo:   examRepo,
		CourseRepo: courseRepo,
		Redis:      rdb,
		Cfg:        cfg,
	}
}

// ExamListItem is the browse view: no questions, no grading fields.
type ExamListItem struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Duration      int        `json:"duration"`
	PassingScore  float64    `json:"passingScore"`
	TotalPoints   float64    `json:"totalPoints"`
	QuestionCount int        `json:"questionCount"`
	SubjectID     string     `json:"subject,omitempty"`
	CourseID      string     `json:"course,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
}

// ExamDetail adds the question list with grading fields stripped.
type ExamDetail struct {
	ExamListItem
	Questions []StudentQuestion `json:"questions"`
}

// StudentQuestion is a question as shown during the exam: options keep only
// their keys and display text, correctness stays server-side.
type StudentQuestion struct {
	ID            string          `json:"id"`
	QuestionType  string          `json:"questionType"`
	QuestionText  string          `json:"questionText"`
	Options       []StudentOption `json:"options,omitempty"`
	IsMultiSelect bool            `json:"isMultiSelect"`
	Points        float64         `json:"points"`
	Order         int             `json:"order"`
}

type StudentOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// ListForStudent lists published exams scoped to the student's active
// enrolments. Exams without a resolvable course relation are visible to
// everyone, matching the legacy portal.
func (s *ExamService) ListForStudent(studentID uint, page, pageSize int) ([]ExamListItem, int64, error) {
	exams, total, err := s.ExamRepo.ListPublished(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	enrolled := make(map[string]bool)
	if ids, err := s.CourseRepo.EnrolledCourseIDs(studentID); err == nil {
		for _, id := range ids {
			enrolled[id] = true
		}
	}

	items := make([]ExamListItem, 0, len(exams))
	for i := range exams {
		courseID := util.ExtractRelationRaw(exams[i].Course)
		if courseID != "" && !enrolled[courseID] {
			total--
			continue
		}
		items = append(items, s.listItem(&exams[i], courseID))
	}
	return items, total, nil
}

func (s *ExamService) listItem(exam *model.Exam, courseID string) ExamListItem {
	count := 0
	if questions, err := s.ExamRepo.QuestionsByExamID(exam.ID); err == nil {
		count = len(questions)
	}
	return ExamListItem{
		ID:            exam.ID,
		Title:         exam.Title,
		Description:   exam.Description,
		Duration:      exam.Duration,
		PassingScore:  passingScoreOrDefault(exam),
		TotalPoints:   exam.TotalPoints,
		QuestionCount: count,
		SubjectID:     util.ExtractRelationRaw(exam.Subject),
		CourseID:      courseID,
		PublishedAt:   exam.PublishedAt,
	}
}

// GetForStudent returns the student view of a published exam, served from the
// redis cache when warm.
func (s *ExamService) GetForStudent(ctx context.Context, examID string, studentID uint) (*ExamDetail, error) {
	cacheKey := "exam:detail:" + examID
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var detail ExamDetail
			if json.Unmarshal([]byte(cached), &detail) == nil {
				if err := s.checkAccess(&detail, studentID); err != nil {
					return nil, err
				}
				return &detail, nil
			}
		}
	}

	exam, err := s.ExamRepo.FindPublishedByID(examID)
	if err != nil {
		return nil, err
	}
	questions, err := s.ExamRepo.QuestionsByExamID(exam.ID)
	if err != nil {
		return nil, err
	}

	courseID := util.ExtractRelationRaw(exam.Course)
	detail := &ExamDetail{
		ExamListItem: s.listItem(exam, courseID),
		Questions:    make([]StudentQuestion, 0, len(questions)),
	}
	detail.QuestionCount = len(questions)
	for i := range questions {
		q := &questions[i]
		opts := model.NormalizeOptions(q.Options)
		sq := StudentQuestion{
			ID:            q.ID,
			QuestionType:  q.QuestionType,
			QuestionText:  q.QuestionText,
			IsMultiSelect: model.IsMultiSelect(opts),
			Points:        q.PointsOrDefault(),
			Order:         q.Order,
		}
		for _, o := range opts {
			sq.Options = append(sq.Options, StudentOption{ID: o.ID, Label: o.Label, Text: o.Text})
		}
		detail.Questions = append(detail.Questions, sq)
	}

	if s.Redis != nil {
		if data, err := json.Marshal(detail); err == nil {
			ttl := time.Duration(s.Cfg.Exam.ExamCacheTTLMinutes) * time.Minute
			if err := s.Redis.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
				logger.Log.Warn("exam cache write failed", zap.String("examId", examID), zap.Error(err))
			}
		}
	}

	if err := s.checkAccess(detail, studentID); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *ExamService) checkAccess(detail *ExamDetail, studentID uint) error {
	if detail.CourseID == "" {
		return nil
	}
	ok, err := s.CourseRepo.IsEnrolled(studentID, detail.CourseID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotEnrolled
	}
	return nil
}

type ExamRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	Duration     int     `json:"duration"`
	PassingScore float64 `json:"passingScore"`
	SubjectID    string  `json:"subject"`
	CourseID     string  `json:"course"`
}

func (s *ExamService) Create(req ExamRequest, creatorID uint) (*model.Exam, error) {
	exam := &model.Exam{
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		PassingScore: req.PassingScore,
		CreatorID:    creatorID,
		Subject:      util.RelationFromID(req.SubjectID),
		Course:       util.RelationFromID(req.CourseID),
	}
	if exam.PassingScore <= 0 {
		exam.PassingScore = float64(s.Cfg.Exam.DefaultPassingScore)
	}
	if err := s.ExamRepo.Create(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Update(ctx context.Context, examID string, req ExamRequest, actor *util.Claims) (*model.Exam, error) {
	exam, err := s.ownedExam(examID, actor)
	if err != nil {
		return nil, err
	}
	exam.Title = req.Title
	exam.Description = req.Description
	exam.Duration = req.Duration
	if req.PassingScore > 0 {
		exam.PassingScore = req.PassingScore
	}
	if req.SubjectID != "" {
		exam.Subject = util.RelationFromID(req.SubjectID)
	}
	if req.CourseID != "" {
		exam.Course = util.RelationFromID(req.CourseID)
	}
	if err := s.ExamRepo.Update(exam); err != nil {
		return nil, err
	}
	s.invalidate(ctx, examID)
	return exam, nil
}

func (s *ExamService) Delete(ctx context.Context, examID string, actor *util.Claims) error {
	if _, err := s.ownedExam(examID, actor); err != nil {
		return err
	}
	if err := s.ExamRepo.Delete(examID); err != nil {
		return err
	}
	s.invalidate(ctx, examID)
	return nil
}

// Publish flips visibility. Publishing an exam without questions is refused so
// a student can never open a session that would immediately fail to load.
func (s *ExamService) Publish(ctx context.Context, examID string, publish bool, actor *util.Claims) (*model.Exam, error) {
	exam, err := s.ownedExam(examID, actor)
	if err != nil {
		return nil, err
	}
	if publish {
		questions, err := s.ExamRepo.QuestionsByExamID(examID)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return nil, util.ErrExamHasNoQuestions
		}
		total, err := s.ExamRepo.SumQuestionPoints(examID)
		if err != nil {
			return nil, err
		}
		exam.TotalPoints = total
		now := time.Now()
		exam.IsPublished = true
		exam.PublishedAt = &now
	} else {
		exam.IsPublished = false
		exam.PublishedAt = nil
	}
	if err := s.ExamRepo.Update(exam); err != nil {
		return nil, err
	}
	s.invalidate(ctx, examID)
	return exam, nil
}

type QuestionRequest struct {
	QuestionType  string          `json:"questionType" binding:"required"`
	QuestionText  string          `json:"questionText" binding:"required"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correctAnswer"`
	Points        float64         `json:"points"`
	Explanation   string          `json:"explanation"`
	Order         int             `json:"order"`
}

func (s *ExamService) AddQuestion(ctx context.Context, examID string, req QuestionRequest, actor *util.Claims) (*model.ExamQuestion, error) {
	if _, err := s.ownedExam(examID, actor); err != nil {
		return nil, err
	}
	q := &model.ExamQuestion{
		ExamID:        examID,
		QuestionType:  req.QuestionType,
		QuestionText:  req.QuestionText,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
		Explanation:   req.Explanation,
		Order:         req.Order,
	}
	if err := s.ExamRepo.CreateQuestion(q); err != nil {
		return nil, err
	}
	s.invalidate(ctx, examID)
	return q, nil
}

func (s *ExamService) UpdateQuestion(ctx context.Context, questionID string, req QuestionRequest, actor *util.Claims) (*model.ExamQuestion, error) {
	q, err := s.ExamRepo.FindQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedExam(q.ExamID, actor); err != nil {
		return nil, err
	}
	q.QuestionType = req.QuestionType
	q.QuestionText = req.QuestionText
	q.Options = req.Options
	q.CorrectAnswer = req.CorrectAnswer
	q.Points = req.Points
	q.Explanation = req.Explanation
	q.Order = req.Order
	if err := s.ExamRepo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	s.invalidate(ctx, q.ExamID)
	return q, nil
}

func (s *ExamService) DeleteQuestion(ctx context.Context, questionID string, actor *util.Claims) error {
	q, err := s.ExamRepo.FindQuestion(questionID)
	if err != nil {
		return err
	}
	if _, err := s.ownedExam(q.ExamID, actor); err != nil {
		return err
	}
	if err := s.ExamRepo.DeleteQuestion(questionID); err != nil {
		return err
	}
	s.invalidate(ctx, q.ExamID)
	return nil
}

// Questions returns the full question rows, grading fields included, for the
// exam's owner.
func (s *ExamService) Questions(examID string, actor *util.Claims) ([]model.ExamQuestion, error) {
	if _, err := s.ownedExam(examID, actor); err != nil {
		return nil, err
	}
	return s.ExamRepo.QuestionsByExamID(examID)
}

func (s *ExamService) ListByCreator(creatorID uint, page, pageSize int) ([]model.Exam, int64, error) {
	return s.ExamRepo.ListByCreator(creatorID, page, pageSize)
}

// ownedExam loads an exam and checks the actor may manage it: the creator, or
// any admin.
func (s *ExamService) ownedExam(examID string, actor *util.Claims) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		return nil, err
	}
	if actor.Role != model.Admin && exam.CreatorID != actor.UserID {
		return nil, util.ErrPermissionDenied
	}
	return exam, nil
}

func (s *ExamService) invalidate(ctx context.Context, examID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, "exam:detail:"+examID).Err(); err != nil {
		logger.Log.Warn("exam cache invalidation failed", zap.String("examId", examID), zap.Error(err))
	}
}
