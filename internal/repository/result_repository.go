package repository

import (
	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/util"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

func (r *ResultRepository) Create(result *model.Result) error {
	return r.DB.Create(result).Error
}

func (r *ResultRepository) Update(result *model.Result) error {
	return r.DB.Save(result).Error
}

func (r *ResultRepository) FindByID(id string) (*model.Result, error) {
	var result model.Result
	err := r.DB.First(&result, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrResultNotFound
	}
	return &result, err
}

func (r *ResultRepository) FindByAttemptID(attemptID string) (*model.Result, error) {
	var result model.Result
	err := r.DB.First(&result, "exam_attempt_id = ?", attemptID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrResultNotFound
	}
	return &result, err
}

func (r *ResultRepository) SetPublished(id string, published bool) error {
	return r.DB.Model(&model.Result{}).
		Where("id = ?", id).
		Update("is_published", published).
		Error
}

func (r *ResultRepository) ListByStudent(studentID uint, publishedOnly bool, page, pageSize int) ([]model.Result, int64, error) {
	var results []model.Result
	var total int64

	query := r.DB.Model(&model.Result{}).Where("student_id = ?", studentID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error
	return results, total, err
}

func (r *ResultRepository) ListByExam(examID string, page, pageSize int) ([]model.Result, int64, error) {
	var results []model.Result
	var total int64

	query := r.DB.Model(&model.Result{}).Where("exam_id = ?", examID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("percentage DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error
	return results, total, err
}
