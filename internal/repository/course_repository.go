package repository

import (
	"exam_campus_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) CreateSubject(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *CourseRepository) ListSubjects() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Order("name ASC").Find(&subjects).Error
	return subjects, err
}

func (r *CourseRepository) CreateCourse(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindCourse(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, "id = ?", id).Error
	return &course, err
}

func (r *CourseRepository) ListCourses(page, pageSize int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Enrol(enrolment *model.Enrolment) error {
	return r.DB.Create(enrolment).Error
}

func (r *CourseRepository) IsEnrolled(studentID uint, courseID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrolment{}).
		Where("student_id = ? AND course_id = ? AND status = ?", studentID, courseID, "active").
		Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) EnrolledCourseIDs(studentID uint) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Enrolment{}).
		Where("student_id = ? AND status = ?", studentID, "active").
		Pluck("course_id", &ids).Error
	return ids, err
}

func (r *CourseRepository) ListEnrolments(studentID uint) ([]model.Enrolment, error) {
	var enrolments []model.Enrolment
	err := r.DB.Where("student_id = ?", studentID).Find(&enrolments).Error
	return enrolments, err
}
