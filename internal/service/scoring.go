package service

import (
	"strings"

	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/util"
)

// QuestionResult is the judged outcome for a single question.
type QuestionResult struct {
	QuestionID    string            `json:"questionId"`
	QuestionText  string            `json:"questionText,omitempty"`
	QuestionType  string            `json:"questionType,omitempty"`
	IsMultiSelect bool              `json:"isMultiSelect,omitempty"`
	UserAnswer    model.AnswerValue `json:"userAnswer"`
	Answered      bool              `json:"answered"`
	IsCorrect     bool              `json:"isCorrect"`
	CorrectAnswer string            `json:"correctAnswer,omitempty"`
	PointsEarned  float64           `json:"pointsEarned"`
	PointsWorth   float64           `json:"pointsWorth"`
	Explanation   string            `json:"explanation,omitempty"`
}

// ScoreOutcome aggregates one submission. Computed once at submit time and
// never mutated afterwards.
type ScoreOutcome struct {
	Questions      []QuestionResult `json:"questions"`
	Correct        int              `json:"correct"`
	Incorrect      int              `json:"incorrect"`
	Unanswered     int              `json:"unanswered"`
	TotalQuestions int              `json:"totalQuestions"`
	EarnedPoints   float64          `json:"earnedPoints"`
	TotalPoints    float64          `json:"totalPoints"`
	Percentage     float64          `json:"percentage"`
}

// Score judges every question against the collected answers. Pure: no I/O, no
// mutation of its inputs, deterministic for a given question set and answer map.
// A single pass produces both the correct/incorrect/unanswered counts and the
// point totals so the two can never disagree.
func Score(questions []model.ExamQuestion, answers map[string]model.AnswerValue) ScoreOutcome {
	outcome := ScoreOutcome{
		Questions:      make([]QuestionResult, 0, len(questions)),
		TotalQuestions: len(questions),
	}

	for i := range questions {
		q := &questions[i]
		answer := answers[q.ID]
		worth := q.PointsOrDefault()
		outcome.TotalPoints += worth

		qr := QuestionResult{
			QuestionID:   q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			UserAnswer:   answer,
			PointsWorth:  worth,
			Explanation:  q.Explanation,
		}

		opts := model.NormalizeOptions(q.Options)
		qr.IsMultiSelect = model.IsMultiSelect(opts)
		qr.CorrectAnswer = RenderCorrectAnswer(q, opts)

		if answer.IsEmpty() {
			// Unanswered is its own bucket, never counted as incorrect.
			outcome.Unanswered++
			outcome.Questions = append(outcome.Questions, qr)
			continue
		}
		qr.Answered = true
		qr.IsCorrect = judge(q, opts, qr.IsMultiSelect, answer)

		if qr.IsCorrect {
			qr.PointsEarned = worth
			outcome.Correct++
			outcome.EarnedPoints += worth
		} else {
			outcome.Incorrect++
		}
		outcome.Questions = append(outcome.Questions, qr)
	}

	if outcome.TotalPoints > 0 {
		outcome.Percentage = util.Round2(outcome.EarnedPoints / outcome.TotalPoints * 100)
	}
	return outcome
}

func judge(q *model.ExamQuestion, opts []model.Option, multi bool, answer model.AnswerValue) bool {
	switch q.QuestionType {
	case model.QuestionMultipleChoice:
		correct := model.CorrectOptions(opts)
		if multi {
			return setEqual(answerSet(answer), optionKeySet(correct))
		}
		if len(correct) == 0 {
			// No designated correct option: nothing can match.
			return false
		}
		return equalKey(answer.Display(), correct[0].Key())
	case model.QuestionTrueFalse, model.QuestionShortAnswer, model.QuestionEssay:
		// Exact string match. For short-answer/essay this is a known
		// limitation of the grading policy, kept deliberately.
		return answer.Display() == q.CorrectAnswer
	default:
		return answer.Display() == q.CorrectAnswer
	}
}

// RenderCorrectAnswer produces the display form of a question's correct
// answer: the joined labels of all correct options for choice questions, the
// stored canonical answer otherwise.
func RenderCorrectAnswer(q *model.ExamQuestion, opts []model.Option) string {
	if q.QuestionType == model.QuestionMultipleChoice {
		correct := model.CorrectOptions(opts)
		if len(correct) == 0 {
			return q.CorrectAnswer
		}
		parts := make([]string, 0, len(correct))
		for _, o := range correct {
			if o.Text != "" && o.Text != o.Key() {
				parts = append(parts, o.Key()+": "+o.Text)
			} else {
				parts = append(parts, o.Key())
			}
		}
		return strings.Join(parts, ", ")
	}
	return q.CorrectAnswer
}

// answerSet normalizes any response shape to a set of comparison keys; an
// unanswered value yields the empty set.
func answerSet(v model.AnswerValue) map[string]struct{} {
	out := make(map[string]struct{})
	if v.IsSet {
		for _, c := range v.Choices {
			if k := normalizeKey(c); k != "" {
				out[k] = struct{}{}
			}
		}
		return out
	}
	if k := normalizeKey(v.Text); k != "" {
		out[k] = struct{}{}
	}
	return out
}

func optionKeySet(opts []model.Option) map[string]struct{} {
	out := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		out[normalizeKey(o.Key())] = struct{}{}
	}
	return out
}

// Option keys compare case-insensitively; order never matters.
func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func equalKey(a, b string) bool {
	return normalizeKey(a) == normalizeKey(b)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GradeForPercentage maps a percentage onto the fixed letter-grade and GPA
// ladder, first matching threshold wins.
func GradeForPercentage(percentage float64) (string, float64) {
	switch {
	case percentage >= 90:
		return "A+", 4.0
	case percentage >= 85:
		return "A", 3.7
	case percentage >= 80:
		return "B+", 3.3
	case percentage >= 75:
		return "B", 3.0
	case percentage >= 70:
		return "C+", 2.7
	case percentage >= 65:
		return "C", 2.3
	case percentage >= 60:
		return "D+", 2.0
	case percentage >= 55:
		return "D", 1.7
	default:
		return "F", 0.0
	}
}
