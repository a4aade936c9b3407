package service

import (
	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/repository"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

type SubjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (s *CourseService) CreateSubject(req SubjectRequest) (*model.Subject, error) {
	subject := &model.Subject{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	}
	if err := s.CourseRepo.CreateSubject(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *CourseService) ListSubjects() ([]model.Subject, error) {
	return s.CourseRepo.ListSubjects()
}

type CourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	SubjectID   string `json:"subject"`
}

func (s *CourseService) CreateCourse(req CourseRequest, teacherID uint) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		SubjectID:   req.SubjectID,
		TeacherID:   teacherID,
	}
	if err := s.CourseRepo.CreateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses(page, pageSize int) ([]model.Course, int64, error) {
	return s.CourseRepo.ListCourses(page, pageSize)
}

// Enrol adds the student to a course; enrolling twice is treated as already
// active rather than duplicated.
func (s *CourseService) Enrol(studentID uint, courseID string) (*model.Enrolment, error) {
	if _, err := s.CourseRepo.FindCourse(courseID); err != nil {
		return nil, err
	}
	if enrolled, err := s.CourseRepo.IsEnrolled(studentID, courseID); err != nil {
		return nil, err
	} else if enrolled {
		enrolments, err := s.CourseRepo.ListEnrolments(studentID)
		if err != nil {
			return nil, err
		}
		for i := range enrolments {
			if enrolments[i].CourseID == courseID && enrolments[i].Status == "active" {
				return &enrolments[i], nil
			}
		}
	}
	enrolment := &model.Enrolment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    "active",
	}
	if err := s.CourseRepo.Enrol(enrolment); err != nil {
		return nil, err
	}
	return enrolment, nil
}

func (s *CourseService) ListEnrolments(studentID uint) ([]model.Enrolment, error) {
	return s.CourseRepo.ListEnrolments(studentID)
}
