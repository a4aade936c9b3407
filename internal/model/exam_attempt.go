package model

import (
	"encoding/json"
	"time"
)

const (
	AttemptInProgress = "in_progress"
	AttemptSubmitted  = "submitted"
)

// ExamAttempt is the authoritative record of what a student answered and how
// each answer was judged at submit time.
// swagger:model ExamAttempt
type ExamAttempt struct {
	UUIDBase
	ExamID        string          `gorm:"index;type:varchar(36)" json:"exam"`
	StudentID     uint            `gorm:"index;type:bigint unsigned" json:"student"`
	AttemptNumber int             `gorm:"default:1" json:"attemptNumber"`
	StartedAt     time.Time       `json:"startedAt"`
	SubmittedAt   *time.Time      `json:"submittedAt,omitempty"`
	Status        string          `gorm:"size:20;default:'submitted'" json:"status"`
	Score         float64         `gorm:"default:0" json:"score"`
	Percentage    float64         `gorm:"default:0" json:"percentage"`
	Passed        *bool           `json:"passed,omitempty"`
	TimeTaken     *int            `json:"timeTaken,omitempty"` // seconds, nil when duration unknown
	Answers       json.RawMessage `gorm:"type:json" json:"answers"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

// AttemptAnswer is one element of the attempt's answers column. CorrectAnswer
// and Explanation are only present on older denormalized rows; readers must
// not rely on them.
type AttemptAnswer struct {
	QuestionID    string      `json:"questionId"`
	Answer        AnswerValue `json:"answer"`
	IsCorrect     bool        `json:"isCorrect"`
	Points        float64     `json:"points"`
	CorrectAnswer *string     `json:"correctAnswer,omitempty"`
	Explanation   string      `json:"explanation,omitempty"`
	QuestionType  string      `json:"questionType,omitempty"`
}

// DecodeAnswers parses the answers column, tolerating a missing or malformed
// value as an empty list.
func (a *ExamAttempt) DecodeAnswers() []AttemptAnswer {
	if a == nil || len(a.Answers) == 0 {
		return nil
	}
	var out []AttemptAnswer
	if err := json.Unmarshal(a.Answers, &out); err != nil {
		return nil
	}
	return out
}

// EncodeAnswers replaces the answers column.
func (a *ExamAttempt) EncodeAnswers(answers []AttemptAnswer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	a.Answers = data
	return nil
}
