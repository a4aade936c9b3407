package service

import (
	"exam_campus_backend/internal/model"
)

// ReviewRow is one fully-populated line of the per-question review screen.
// CorrectAnswer is a pointer so "no snapshot to tell" stays distinguishable
// from "the correct answer is the empty string".
type ReviewRow struct {
	QuestionID    string            `json:"questionId"`
	QuestionText  string            `json:"questionText,omitempty"`
	QuestionType  string            `json:"questionType,omitempty"`
	IsMultiSelect bool              `json:"isMultiSelect"`
	UserAnswer    model.AnswerValue `json:"userAnswer"`
	Answered      bool              `json:"answered"`
	IsCorrect     bool              `json:"isCorrect"`
	CorrectAnswer *string           `json:"correctAnswer"`
	Explanation   string            `json:"explanation,omitempty"`
	Points        float64           `json:"points"`
	PointsEarned  float64           `json:"pointsEarned"`
}

// ReconciledReview is the transient merge of an attempt with its exam
// snapshot, rebuilt on every result view and never persisted.
type ReconciledReview struct {
	Rows           []ReviewRow `json:"rows"`
	Correct        int         `json:"correct"`
	Incorrect      int         `json:"incorrect"`
	Unanswered     int         `json:"unanswered"`
	TotalQuestions int         `json:"totalQuestions"`
	EarnedPoints   float64     `json:"earnedPoints"`
	TotalPoints    float64     `json:"totalPoints"`
}

// Reconcile merges up to three partial views of the same submission into one
// ordered review: the base outcome (when the caller just scored it), the
// attempt record (authoritative answers and judgments) and the exam snapshot
// (authoritative question text, options and correct answers). Field priority
// per row is base > attempt > snapshot. Rows follow snapshot question order,
// with rows known only to the attempt or base appended after. Missing inputs
// degrade:
// only the total absence of question identity yields an empty review. The
// aggregates are recomputed from the merged rows because the upstream
// aggregates can disagree with each other.
func Reconcile(base *ScoreOutcome, questions []model.ExamQuestion, attempt *model.ExamAttempt) ReconciledReview {
	attemptAnswers := attempt.DecodeAnswers()

	// Ordered key list: snapshot questions first, then any answers for
	// questions the snapshot no longer carries (a deleted question must not
	// erase the student's recorded answer from the review), then base-only
	// rows.
	var keys []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		keys = append(keys, id)
	}
	for i := range questions {
		add(questions[i].ID)
	}
	for _, aa := range attemptAnswers {
		add(aa.QuestionID)
	}
	if base != nil {
		for _, qr := range base.Questions {
			add(qr.QuestionID)
		}
	}

	byQuestion := make(map[string]*model.ExamQuestion, len(questions))
	for i := range questions {
		byQuestion[questions[i].ID] = &questions[i]
	}
	byAttempt := make(map[string]*model.AttemptAnswer, len(attemptAnswers))
	for i := range attemptAnswers {
		byAttempt[attemptAnswers[i].QuestionID] = &attemptAnswers[i]
	}
	byBase := make(map[string]*QuestionResult)
	if base != nil {
		for i := range base.Questions {
			byBase[base.Questions[i].QuestionID] = &base.Questions[i]
		}
	}

	review := ReconciledReview{Rows: make([]ReviewRow, 0, len(keys))}
	for _, key := range keys {
		row := mergeRow(key, byBase[key], byAttempt[key], byQuestion[key])
		review.Rows = append(review.Rows, row)

		review.TotalPoints += row.Points
		switch {
		case !row.Answered:
			review.Unanswered++
		case row.IsCorrect:
			review.Correct++
			review.EarnedPoints += row.PointsEarned
		default:
			review.Incorrect++
		}
	}
	review.TotalQuestions = len(review.Rows)
	return review
}

func mergeRow(key string, base *QuestionResult, aa *model.AttemptAnswer, q *model.ExamQuestion) ReviewRow {
	row := ReviewRow{QuestionID: key}

	// Snapshot fields first, then overlay attempt, then base.
	var opts []model.Option
	if q != nil {
		opts = model.NormalizeOptions(q.Options)
		row.QuestionText = q.QuestionText
		row.QuestionType = q.QuestionType
		row.IsMultiSelect = model.IsMultiSelect(opts)
		row.Points = q.PointsOrDefault()
		row.Explanation = q.Explanation
		if rendered := RenderCorrectAnswer(q, opts); rendered != "" {
			row.CorrectAnswer = &rendered
		}
	}

	if aa != nil {
		row.UserAnswer = aa.Answer
		row.Answered = !aa.Answer.IsEmpty()
		row.IsCorrect = aa.IsCorrect
		if aa.IsCorrect && aa.Points > 0 {
			row.PointsEarned = aa.Points
		}
		if row.Points == 0 && aa.Points > 0 {
			row.Points = aa.Points
		}
		if aa.QuestionType != "" && row.QuestionType == "" {
			row.QuestionType = aa.QuestionType
		}
		// Denormalized rows may carry the correct answer themselves.
		if row.CorrectAnswer == nil && aa.CorrectAnswer != nil {
			row.CorrectAnswer = aa.CorrectAnswer
		}
		if row.Explanation == "" {
			row.Explanation = aa.Explanation
		}
	}

	if base != nil {
		row.UserAnswer = base.UserAnswer
		row.Answered = base.Answered
		row.IsCorrect = base.IsCorrect
		row.PointsEarned = base.PointsEarned
		if base.PointsWorth > 0 {
			row.Points = base.PointsWorth
		}
		if base.QuestionText != "" {
			row.QuestionText = base.QuestionText
		}
		if base.QuestionType != "" {
			row.QuestionType = base.QuestionType
		}
		if base.IsMultiSelect {
			row.IsMultiSelect = true
		}
		if base.CorrectAnswer != "" {
			rendered := base.CorrectAnswer
			row.CorrectAnswer = &rendered
		}
		if base.Explanation != "" {
			row.Explanation = base.Explanation
		}
	}

	// A row known only from the attempt still gets a default worth so the
	// recomputed totals stay coherent.
	if row.Points == 0 && q == nil && base == nil {
		row.Points = 1
	}
	if row.IsCorrect && row.PointsEarned == 0 {
		row.PointsEarned = row.Points
	}
	return row
}
