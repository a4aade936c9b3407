package service

import (
	"testing"

	"exam_campus_backend/internal/model"
)

func attemptWith(t *testing.T, answers []model.AttemptAnswer) *model.ExamAttempt {
	t.Helper()
	attempt := &model.ExamAttempt{}
	if err := attempt.EncodeAnswers(answers); err != nil {
		t.Fatalf("EncodeAnswers: %v", err)
	}
	return attempt
}

func TestReconcileAttemptWithoutSnapshot(t *testing.T) {
	attempt := attemptWith(t, []model.AttemptAnswer{
		{QuestionID: "q1", Answer: model.SingleAnswer("a"), IsCorrect: true, Points: 2},
		{QuestionID: "q2", Answer: model.SingleAnswer("b"), IsCorrect: false},
		{QuestionID: "q3", Answer: model.AnswerValue{}},
	})

	review := Reconcile(nil, nil, attempt)

	if len(review.Rows) != 3 {
		t.Fatalf("rows = %d, want one per recorded answer", len(review.Rows))
	}
	for _, row := range review.Rows {
		if row.CorrectAnswer != nil {
			t.Errorf("row %s: CorrectAnswer = %q, want nil without a snapshot", row.QuestionID, *row.CorrectAnswer)
		}
	}
	if review.Correct != 1 || review.Incorrect != 1 || review.Unanswered != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", review.Correct, review.Incorrect, review.Unanswered)
	}
	// q2 and q3 are known only from the attempt and carry no worth, so they
	// fall back to the default of 1.
	if review.TotalPoints != 4 {
		t.Errorf("TotalPoints = %v, want 4 (2 + 1 + 1)", review.TotalPoints)
	}
	if review.EarnedPoints != 2 {
		t.Errorf("EarnedPoints = %v, want 2", review.EarnedPoints)
	}
}

func TestReconcileFollowsSnapshotOrder(t *testing.T) {
	questions := []model.ExamQuestion{mcq("q1", "a"), mcq("q2", "b"), mcq("q3", "c")}
	attempt := attemptWith(t, []model.AttemptAnswer{
		{QuestionID: "q3", Answer: model.SingleAnswer("c"), IsCorrect: true, Points: 1},
		{QuestionID: "q1", Answer: model.SingleAnswer("a"), IsCorrect: true, Points: 1},
	})

	review := Reconcile(nil, questions, attempt)

	if len(review.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(review.Rows))
	}
	for i, want := range []string{"q1", "q2", "q3"} {
		if review.Rows[i].QuestionID != want {
			t.Errorf("row %d = %s, want %s (snapshot order, not attempt order)", i, review.Rows[i].QuestionID, want)
		}
	}
	if review.Rows[0].CorrectAnswer == nil {
		t.Error("snapshot present, CorrectAnswer must be populated")
	}
	if review.Rows[1].Answered {
		t.Error("q2 has no recorded answer and must reconcile as unanswered")
	}
}

func TestReconcileKeepsAnswersForDeletedQuestions(t *testing.T) {
	questions := []model.ExamQuestion{mcq("q1", "a"), mcq("q2", "b")}
	attempt := attemptWith(t, []model.AttemptAnswer{
		{QuestionID: "q-deleted", Answer: model.SingleAnswer("c"), IsCorrect: true, Points: 1},
		{QuestionID: "q1", Answer: model.SingleAnswer("a"), IsCorrect: true, Points: 1},
	})

	review := Reconcile(nil, questions, attempt)

	if len(review.Rows) != 3 {
		t.Fatalf("rows = %d, want snapshot rows plus the orphaned answer", len(review.Rows))
	}
	// Snapshot order first, the orphan appended after.
	if review.Rows[2].QuestionID != "q-deleted" {
		t.Errorf("last row = %s, want q-deleted", review.Rows[2].QuestionID)
	}
	orphan := review.Rows[2]
	if !orphan.Answered || !orphan.IsCorrect {
		t.Error("the recorded judgment for a deleted question must survive")
	}
	if orphan.CorrectAnswer != nil {
		t.Error("no snapshot exists for the orphan, so CorrectAnswer stays nil")
	}
	if review.TotalQuestions != 3 || review.TotalPoints != 3 {
		t.Errorf("aggregates = %d questions / %v points, want 3/3", review.TotalQuestions, review.TotalPoints)
	}
}

func TestReconcileBaseOverridesAttempt(t *testing.T) {
	questions := []model.ExamQuestion{mcq("q1", "a")}
	// A stale denormalized row disagrees with a fresh scoring pass.
	attempt := attemptWith(t, []model.AttemptAnswer{
		{QuestionID: "q1", Answer: model.SingleAnswer("b"), IsCorrect: true, Points: 1},
	})
	base := &ScoreOutcome{Questions: []QuestionResult{{
		QuestionID:   "q1",
		UserAnswer:   model.SingleAnswer("b"),
		Answered:     true,
		IsCorrect:    false,
		PointsWorth:  1,
		PointsEarned: 0,
	}}}

	review := Reconcile(base, questions, attempt)

	if len(review.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(review.Rows))
	}
	if review.Rows[0].IsCorrect {
		t.Error("base judgment must win over the attempt row")
	}
	if review.Correct != 0 || review.Incorrect != 1 {
		t.Errorf("counts = %d correct / %d incorrect, want 0/1", review.Correct, review.Incorrect)
	}
}

func TestReconcileRecomputesAggregates(t *testing.T) {
	q1 := mcq("q1", "a")
	q1.Points = 3
	questions := []model.ExamQuestion{q1, mcq("q2", "b")}
	attempt := attemptWith(t, []model.AttemptAnswer{
		{QuestionID: "q1", Answer: model.SingleAnswer("a"), IsCorrect: true, Points: 3},
		{QuestionID: "q2", Answer: model.SingleAnswer("a"), IsCorrect: false},
	})
	// Stored aggregates that disagree with the rows are ignored.
	attempt.Score = 99
	attempt.Percentage = 99

	review := Reconcile(nil, questions, attempt)

	if review.EarnedPoints != 3 || review.TotalPoints != 4 {
		t.Errorf("points = %v/%v, want 3/4 recomputed from rows", review.EarnedPoints, review.TotalPoints)
	}
	if review.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, want 2", review.TotalQuestions)
	}
}

func TestReconcileNothingToReconcile(t *testing.T) {
	review := Reconcile(nil, nil, nil)
	if len(review.Rows) != 0 || review.TotalQuestions != 0 {
		t.Errorf("review of nothing must be empty, got %d rows", len(review.Rows))
	}
}

func TestReconcileCorrectWithoutEarnedBackfills(t *testing.T) {
	questions := []model.ExamQuestion{mcq("q1", "a")}
	attempt := attemptWith(t, []model.AttemptAnswer{
		{QuestionID: "q1", Answer: model.SingleAnswer("a"), IsCorrect: true},
	})

	review := Reconcile(nil, questions, attempt)

	if review.Rows[0].PointsEarned != 1 {
		t.Errorf("PointsEarned = %v, want backfill to the question's worth", review.Rows[0].PointsEarned)
	}
}
