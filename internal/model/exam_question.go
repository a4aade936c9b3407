package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionTrueFalse      = "true-false"
	QuestionShortAnswer    = "short-answer"
	QuestionEssay          = "essay"
)

// swagger:model ExamQuestion
type ExamQuestion struct {
	UUIDBase
	ExamID        string          `gorm:"index;type:varchar(36)" json:"examId"`
	QuestionType  string          `gorm:"size:50;not null" json:"questionType"` // multiple-choice, true-false, short-answer, essay
	QuestionText  string          `gorm:"type:text;not null" json:"questionText"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer string          `gorm:"type:text" json:"correctAnswer"` // choice types derive it from options instead
	Points        float64         `gorm:"default:1" json:"points"`
	Explanation   string          `gorm:"type:text" json:"explanation"`
	Order         int             `gorm:"default:0" json:"order"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// PointsOrDefault treats missing/zero point values as worth 1 point.
func (q *ExamQuestion) PointsOrDefault() float64 {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// Option is one selectable choice of a multiple-choice question. Whether the
// question is multi-select is derived, never stored: it is multi-select iff
// more than one option is marked correct.
type Option struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Key returns the identifier an answer is matched against, preferring the
// display label over the id the way the legacy player did.
func (o Option) Key() string {
	if o.Label != "" {
		return o.Label
	}
	return o.ID
}

// NormalizeOptions decodes a question's options column. Migrated rows come in
// several historical shapes: an array of option objects (with isCorrect,
// correct or is_correct flags), an array of bare strings, or a JSON-encoded
// string wrapping either. Anything unreadable degrades to no options.
func NormalizeOptions(raw json.RawMessage) []Option {
	if len(raw) == 0 {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		// Double-encoded rows store the array as a JSON string.
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil
		}
		if err := json.Unmarshal([]byte(inner), &entries); err != nil {
			return nil
		}
	}

	out := make([]Option, 0, len(entries))
	for i, entry := range entries {
		var obj struct {
			ID        string      `json:"id"`
			Label     string      `json:"label"`
			Text      string      `json:"text"`
			Value     interface{} `json:"value"`
			IsCorrect *bool       `json:"isCorrect"`
			Correct   *bool       `json:"correct"`
			IsCorrSnk *bool       `json:"is_correct"`
		}
		if err := json.Unmarshal(entry, &obj); err == nil && (obj.ID != "" || obj.Label != "" || obj.Text != "" || obj.Value != nil) {
			opt := Option{ID: obj.ID, Label: obj.Label, Text: obj.Text}
			if opt.ID == "" {
				opt.ID = opt.Label
			}
			if opt.Label == "" {
				opt.Label = opt.ID
			}
			if opt.ID == "" {
				opt.ID = fmt.Sprintf("option-%d", i)
				opt.Label = opt.ID
			}
			if opt.Text == "" && obj.Value != nil {
				opt.Text = fmt.Sprintf("%v", obj.Value)
			}
			switch {
			case obj.IsCorrect != nil:
				opt.IsCorrect = *obj.IsCorrect
			case obj.Correct != nil:
				opt.IsCorrect = *obj.Correct
			case obj.IsCorrSnk != nil:
				opt.IsCorrect = *obj.IsCorrSnk
			}
			out = append(out, opt)
			continue
		}

		// Bare scalar entry: the string is the display text, position is the key.
		var text string
		if err := json.Unmarshal(entry, &text); err != nil {
			text = strings.TrimSpace(string(entry))
		}
		key := fmt.Sprintf("option-%d", i)
		out = append(out, Option{ID: key, Label: key, Text: text})
	}
	return out
}

// CorrectOptions filters the options marked correct.
func CorrectOptions(opts []Option) []Option {
	out := make([]Option, 0, len(opts))
	for _, o := range opts {
		if o.IsCorrect {
			out = append(out, o)
		}
	}
	return out
}

// IsMultiSelect reports whether a choice question requires an exact set of
// answers: true iff more than one option is marked correct.
func IsMultiSelect(opts []Option) bool {
	return len(CorrectOptions(opts)) > 1
}
