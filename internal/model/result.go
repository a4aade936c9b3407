package model

// Result is the published/unpublished grade summary derived from an attempt.
// Field names are fixed by the records the legacy frontend reads; keep them
// verbatim.
// swagger:model Result
type Result struct {
	UUIDBase
	ResultType    string  `gorm:"size:20;default:'exam'" json:"resultType"`
	Score         float64 `gorm:"default:0" json:"score"`
	MaxScore      float64 `gorm:"default:0" json:"maxScore"`
	Percentage    float64 `gorm:"default:0" json:"percentage"`
	Grade         string  `gorm:"size:5" json:"grade"`
	GPA           float64 `gorm:"column:gpa;default:0" json:"gpa"`
	Passed        bool    `gorm:"default:false" json:"passed"`
	IsPublished   bool    `gorm:"default:false" json:"isPublished"`
	StudentID     uint    `gorm:"index;type:bigint unsigned" json:"student"`
	ExamID        string  `gorm:"index;type:varchar(36)" json:"exam"`
	ExamAttemptID string  `gorm:"index;type:varchar(36)" json:"exam_attempt"`
	CourseID      string  `gorm:"type:varchar(36)" json:"course,omitempty"`
	SubjectID     string  `gorm:"type:varchar(36)" json:"subject,omitempty"`
}

func (Result) TableName() string {
	return "results"
}
