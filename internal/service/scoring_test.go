package service

import (
	"encoding/json"
	"testing"

	"exam_campus_backend/internal/model"
)

func mcq(id string, correct ...string) model.ExamQuestion {
	correctSet := make(map[string]bool, len(correct))
	for _, c := range correct {
		correctSet[c] = true
	}
	opts := []model.Option{
		{ID: "a", Label: "a", Text: "Option A", IsCorrect: correctSet["a"]},
		{ID: "b", Label: "b", Text: "Option B", IsCorrect: correctSet["b"]},
		{ID: "c", Label: "c", Text: "Option C", IsCorrect: correctSet["c"]},
		{ID: "d", Label: "d", Text: "Option D", IsCorrect: correctSet["d"]},
	}
	raw, _ := json.Marshal(opts)
	return model.ExamQuestion{
		UUIDBase:     model.UUIDBase{ID: id},
		QuestionType: model.QuestionMultipleChoice,
		QuestionText: "question " + id,
		Options:      raw,
	}
}

func tfq(id, correct string) model.ExamQuestion {
	return model.ExamQuestion{
		UUIDBase:      model.UUIDBase{ID: id},
		QuestionType:  model.QuestionTrueFalse,
		QuestionText:  "question " + id,
		CorrectAnswer: correct,
	}
}

func TestScoreSingleSelect(t *testing.T) {
	questions := []model.ExamQuestion{mcq("q1", "b")}

	tests := []struct {
		name    string
		answer  model.AnswerValue
		correct bool
	}{
		{"exact match", model.SingleAnswer("b"), true},
		{"case-insensitive match", model.SingleAnswer("B"), true},
		{"wrong option", model.SingleAnswer("a"), false},
		{"value not in option list", model.SingleAnswer("zz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Score(questions, map[string]model.AnswerValue{"q1": tt.answer})
			if got := outcome.Questions[0].IsCorrect; got != tt.correct {
				t.Errorf("IsCorrect = %v, want %v", got, tt.correct)
			}
		})
	}
}

func TestScoreMultiSelectExactness(t *testing.T) {
	questions := []model.ExamQuestion{mcq("q1", "a", "c")}

	tests := []struct {
		name    string
		answer  model.AnswerValue
		correct bool
	}{
		{"exact set in order", model.SetAnswer("a", "c"), true},
		{"exact set reversed", model.SetAnswer("c", "a"), true},
		{"superset", model.SetAnswer("c", "a", "b"), false},
		{"subset", model.SetAnswer("a"), false},
		{"duplicate selections collapse", model.SetAnswer("a", "a", "c"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Score(questions, map[string]model.AnswerValue{"q1": tt.answer})
			if got := outcome.Questions[0].IsCorrect; got != tt.correct {
				t.Errorf("IsCorrect = %v, want %v", got, tt.correct)
			}
		})
	}
}

func TestScoreNoCorrectOptionNeverMatches(t *testing.T) {
	questions := []model.ExamQuestion{mcq("q1")}
	outcome := Score(questions, map[string]model.AnswerValue{"q1": model.SingleAnswer("a")})
	if outcome.Questions[0].IsCorrect {
		t.Error("question with no correct option must judge every answer incorrect")
	}
}

func TestScoreUnansweredClassification(t *testing.T) {
	questions := []model.ExamQuestion{
		mcq("q1", "a"),
		mcq("q2", "a", "b"),
		tfq("q3", "true"),
	}

	tests := []struct {
		name    string
		answers map[string]model.AnswerValue
	}{
		{"absent keys", map[string]model.AnswerValue{}},
		{"empty set and blank strings", map[string]model.AnswerValue{
			"q1": model.SingleAnswer(""),
			"q2": model.SetAnswer(),
			"q3": model.SingleAnswer("   "),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Score(questions, tt.answers)
			if outcome.Unanswered != 3 {
				t.Errorf("Unanswered = %d, want 3", outcome.Unanswered)
			}
			if outcome.Incorrect != 0 {
				t.Errorf("Incorrect = %d, want 0: unanswered must not double-count", outcome.Incorrect)
			}
			if outcome.Correct != 0 {
				t.Errorf("Correct = %d, want 0", outcome.Correct)
			}
		})
	}
}

func TestScoreShortAnswerExactMatch(t *testing.T) {
	q := model.ExamQuestion{
		UUIDBase:      model.UUIDBase{ID: "q1"},
		QuestionType:  model.QuestionShortAnswer,
		CorrectAnswer: "Paris",
	}
	questions := []model.ExamQuestion{q}

	if out := Score(questions, map[string]model.AnswerValue{"q1": model.SingleAnswer("Paris")}); !out.Questions[0].IsCorrect {
		t.Error("exact string must match")
	}
	// Exact equality only: no trimming, no case folding.
	if out := Score(questions, map[string]model.AnswerValue{"q1": model.SingleAnswer("paris")}); out.Questions[0].IsCorrect {
		t.Error("short answer comparison is case-sensitive")
	}
}

func TestScoreThreeQuestionScenario(t *testing.T) {
	questions := []model.ExamQuestion{
		mcq("q1", "b"),
		mcq("q2", "a", "c"),
		tfq("q3", "true"),
	}
	answers := map[string]model.AnswerValue{
		"q1": model.SingleAnswer("b"),
		"q2": model.SetAnswer("a", "c"),
		"q3": model.SingleAnswer("false"),
	}

	outcome := Score(questions, answers)
	if outcome.Correct != 2 || outcome.Incorrect != 1 || outcome.Unanswered != 0 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/0", outcome.Correct, outcome.Incorrect, outcome.Unanswered)
	}
	if outcome.EarnedPoints != 2 || outcome.TotalPoints != 3 {
		t.Fatalf("points = %v/%v, want 2/3", outcome.EarnedPoints, outcome.TotalPoints)
	}
	if outcome.Percentage != 66.67 {
		t.Errorf("Percentage = %v, want 66.67", outcome.Percentage)
	}
}

func TestScorePointsDefaultAndWeights(t *testing.T) {
	q1 := mcq("q1", "a")
	q1.Points = 5
	q2 := mcq("q2", "b") // zero points counts as 1
	questions := []model.ExamQuestion{q1, q2}

	outcome := Score(questions, map[string]model.AnswerValue{
		"q1": model.SingleAnswer("a"),
		"q2": model.SingleAnswer("a"),
	})
	if outcome.TotalPoints != 6 {
		t.Errorf("TotalPoints = %v, want 6", outcome.TotalPoints)
	}
	if outcome.EarnedPoints != 5 {
		t.Errorf("EarnedPoints = %v, want 5", outcome.EarnedPoints)
	}
	if outcome.EarnedPoints > outcome.TotalPoints {
		t.Error("earned must never exceed total")
	}
}

func TestScoreEmptyQuestionSet(t *testing.T) {
	outcome := Score(nil, nil)
	if outcome.Percentage != 0 {
		t.Errorf("Percentage = %v, want 0 when total points is 0", outcome.Percentage)
	}
	if outcome.TotalQuestions != 0 {
		t.Errorf("TotalQuestions = %v, want 0", outcome.TotalQuestions)
	}
}

func TestGradeForPercentage(t *testing.T) {
	tests := []struct {
		percentage float64
		grade      string
		gpa        float64
	}{
		{100, "A+", 4.0},
		{90, "A+", 4.0},
		{85.0, "A", 3.7},
		{84.999, "B+", 3.3},
		{80, "B+", 3.3},
		{75, "B", 3.0},
		{70, "C+", 2.7},
		{65, "C", 2.3},
		{60, "D+", 2.0},
		{55, "D", 1.7},
		{54.9, "F", 0.0},
		{0, "F", 0.0},
	}

	for _, tt := range tests {
		grade, gpa := GradeForPercentage(tt.percentage)
		if grade != tt.grade || gpa != tt.gpa {
			t.Errorf("GradeForPercentage(%v) = %s/%v, want %s/%v", tt.percentage, grade, gpa, tt.grade, tt.gpa)
		}
	}
}
