package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AnswerValue is a student's response to one question: free text or a single
// option key, or an unordered set of option keys for multi-select questions.
// It marshals to a bare string, a string array, or null so persisted attempt
// rows keep the wire shape the legacy records used.
type AnswerValue struct {
	Text    string   `json:"-"`
	Choices []string `json:"-"`
	IsSet   bool     `json:"-"`
}

func SingleAnswer(v string) AnswerValue {
	return AnswerValue{Text: v}
}

func SetAnswer(vs ...string) AnswerValue {
	return AnswerValue{Choices: vs, IsSet: true}
}

// IsEmpty reports the unanswered states: no value, an empty set, or a
// blank/whitespace-only string.
func (v AnswerValue) IsEmpty() bool {
	if v.IsSet {
		return len(v.Choices) == 0
	}
	return strings.TrimSpace(v.Text) == ""
}

// Display renders the response for review screens.
func (v AnswerValue) Display() string {
	if v.IsSet {
		return strings.Join(v.Choices, ", ")
	}
	return v.Text
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.IsSet {
		if v.Choices == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.Choices)
	}
	if v.Text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts every shape observed in persisted attempts: string,
// string array, null, and the odd boolean or number token.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*v = AnswerValue{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = AnswerValue{Text: s}
		return nil
	}

	var arr []interface{}
	if err := json.Unmarshal(data, &arr); err == nil {
		choices := make([]string, 0, len(arr))
		for _, item := range arr {
			if str, ok := item.(string); ok {
				choices = append(choices, str)
			} else {
				choices = append(choices, fmt.Sprintf("%v", item))
			}
		}
		*v = AnswerValue{Choices: choices, IsSet: true}
		return nil
	}

	var scalar interface{}
	if err := json.Unmarshal(data, &scalar); err != nil {
		return err
	}
	*v = AnswerValue{Text: fmt.Sprintf("%v", scalar)}
	return nil
}
