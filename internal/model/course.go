package model

// swagger:model Subject
type Subject struct {
	UUIDBase
	Name        string `gorm:"size:255;not null" json:"name"`
	Code        string `gorm:"size:50" json:"code"`
	Description string `gorm:"type:text" json:"description"`
}

func (Subject) TableName() string {
	return "subjects"
}

// swagger:model Course
type Course struct {
	UUIDBase
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	SubjectID   string `gorm:"index;type:varchar(36)" json:"subject,omitempty"`
	TeacherID   uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrolment links a student to a course. Exam browsing is scoped to active enrolments.
type Enrolment struct {
	UUIDBase
	StudentID uint   `gorm:"index;type:bigint unsigned" json:"student"`
	CourseID  string `gorm:"index;type:varchar(36)" json:"course"`
	Status    string `gorm:"size:20;default:'active'" json:"status"` // active, completed, dropped
}

func (Enrolment) TableName() string {
	return "enrolments"
}
