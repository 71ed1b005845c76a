package quiz

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a slug, id, quiz or attempt cannot be
	// resolved. Callers are expected to abort rendering rather than show a
	// partial quiz.
	ErrNotFound = errors.New("not found")

	// ErrIncompleteData signals a consistency violation between records that
	// should agree: a chosen/correct answer id missing from its question, a
	// results record missing a question, or grading a zero-question quiz.
	ErrIncompleteData = errors.New("incomplete data")

	// ErrSubmissionFailed wraps a failed attempt submission. The session
	// engine surfaces it and stays in place; recovery is the caller's decision.
	ErrSubmissionFailed = errors.New("submission failed")

	ErrInvalidQuizName = errors.New("quiz name must be between 3 and 24 characters")
	ErrInvalidQuestion = errors.New("question needs a prompt and four non-empty answers")
)

type QuizRepository interface {
	// ListQuizRefs returns the (id, slug) pair of every quiz. It feeds the
	// lookup cache and includes unpublished quizzes so fresh slugs resolve.
	ListQuizRefs(ctx context.Context) ([]QuizRef, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error)
	// GetQuiz returns the quiz with its questions and answers in authored
	// order. The result never identifies the correct answers.
	GetQuiz(ctx context.Context, id string) (QuizWithQuestions, error)
	CreateQuiz(ctx context.Context, q Quiz) error
	PublishQuiz(ctx context.Context, id string) error
	// CreateQuestion appends a question to a quiz. correctIndex selects which
	// of the authored answers is the correct one; display order is unaffected.
	CreateQuestion(ctx context.Context, quizID string, question Question, correctIndex int) error
}

type AttemptRepository interface {
	// SubmitAttempt grades answerIDs positionally against the quiz's question
	// order, assigns the end timestamp and persists the attempt. It returns
	// the new attempt id.
	SubmitAttempt(ctx context.Context, quizID, user string, answerIDs []string, started int64) (string, error)
	GetResults(ctx context.Context, attemptID string) (AttemptResults, error)
	// ListAttemptsByUser returns the dashboard rows for a user's attempts,
	// most recent first. An unknown user simply has no attempts.
	ListAttemptsByUser(ctx context.Context, user string) ([]AttemptSummary, error)
}
