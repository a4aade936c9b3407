package repository

import (
	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/util"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *ExamRepository) Update(exam *model.Exam) error {
	return r.DB.Save(exam).Error
}

func (r *ExamRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", id).Delete(&model.ExamQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Exam{}, "id = ?", id).Error
	})
}

func (r *ExamRepository) FindByID(id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.First(&exam, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrExamNotFound
	}
	return &exam, err
}

// FindPublishedByID is the student-facing lookup: unpublished exams read as
// not accessible, not as missing.
func (r *ExamRepository) FindPublishedByID(id string) (*model.Exam, error) {
	exam, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !exam.IsPublished {
		return nil, util.ErrExamNotPublished
	}
	return exam, nil
}

func (r *ExamRepository) ListPublished(page, pageSize int) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var total int64

	query := r.DB.Model(&model.Exam{}).Where("is_published = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("published_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&exams).Error
	return exams, total, err
}

func (r *ExamRepository) ListByCreator(creatorID uint, page, pageSize int) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var total int64

	query := r.DB.Model(&model.Exam{}).Where("creator_id = ?", creatorID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&exams).Error
	return exams, total, err
}

func (r *ExamRepository) QuestionsByExamID(examID string) ([]model.ExamQuestion, error) {
	var questions []model.ExamQuestion
	err := r.DB.Where("exam_id = ?", examID).
		Order("`order` ASC, created_at ASC").
		Find(&questions).Error
	return questions, err
}

func (r *ExamRepository) FindQuestion(id string) (*model.ExamQuestion, error) {
	var question model.ExamQuestion
	err := r.DB.First(&question, "id = ?", id).Error
	return &question, err
}

func (r *ExamRepository) CreateQuestion(q *model.ExamQuestion) error {
	return r.DB.Create(q).Error
}

func (r *ExamRepository) UpdateQuestion(q *model.ExamQuestion) error {
	return r.DB.Save(q).Error
}

func (r *ExamRepository) DeleteQuestion(id string) error {
	return r.DB.Delete(&model.ExamQuestion{}, "id = ?", id).Error
}

// SumQuestionPoints recomputes the denormalized total, counting absent or
// zero points as 1 the same way scoring does.
func (r *ExamRepository) SumQuestionPoints(examID string) (float64, error) {
	questions, err := r.QuestionsByExamID(examID)
	if err != nil {
		return 0, err
	}
	var total float64
	for i := range questions {
		total += questions[i].PointsOrDefault()
	}
	return total, nil
}
