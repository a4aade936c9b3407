package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrExamNotFound       = errors.New("exam not found")
	ErrExamNotPublished   = errors.New("exam not published or not accessible")
	ErrExamHasNoQuestions = errors.New("exam has no questions")
	ErrNotEnrolled        = errors.New("not enrolled in the exam's course")

	ErrSessionNotFound  = errors.New("exam session not found")
	ErrSessionNotActive = errors.New("exam session is not active")
	ErrAlreadySubmitted = errors.New("exam already submitted")
	ErrConfirmRequired  = errors.New("submission requires confirmation")

	ErrMissingExamID    = errors.New("exam id is missing")
	ErrMissingStudentID = errors.New("student id is missing")

	ErrAttemptNotFound = errors.New("attempt not found")
	ErrResultNotFound  = errors.New("result not found")
)
