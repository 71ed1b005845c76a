package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Session states. Transitions are strictly forward: there is no way back to
// an earlier question and no way to re-run a session instance.
const (
	StateNotStarted = "not_started"
	StateActive     = "active"
	StateSubmitting = "submitting"
	StateCompleted  = "completed"
)

var (
	ErrAlreadyStarted = errors.New("session already started")
	ErrNotActive      = errors.New("session has no active question")
)

// SubmitFunc persists a finished attempt and returns its id. The backend
// assigns the end timestamp and computes correctness.
type SubmitFunc func(ctx context.Context, quizID string, answerIDs []string, started int64) (string, error)

// Session tracks one user's progression through one quiz: which question is
// active, the answers chosen so far and the start timestamp. It lives only in
// memory; abandoning it mid-attempt discards it with no recovery.
//
// The session never knows which answers are correct. It only collects answer
// ids in question order and hands them to the submit operation when the last
// question is answered.
type Session struct {
	quiz   QuizWithQuestions
	submit SubmitFunc
	now    func() int64

	state     string
	current   int
	chosen    []string
	started   int64
	submitted bool
	attemptID string
}

type SessionOption func(*Session)

// WithClock overrides the epoch-seconds clock used for the start timestamp.
func WithClock(now func() int64) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

func NewSession(q QuizWithQuestions, submit SubmitFunc, opts ...SessionOption) *Session {
	s := &Session{
		quiz:   q,
		submit: submit,
		now:    func() int64 { return time.Now().Unix() },
		state:  StateNotStarted,
		chosen: make([]string, 0, len(q.Questions)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start activates the first question and records the start timestamp. It is
// valid exactly once, from the initial state. A quiz without questions still
// starts cleanly: the session stays renderable with no current question and
// nothing is ever submitted for it.
func (s *Session) Start() error {
	if s.state != StateNotStarted {
		return ErrAlreadyStarted
	}
	s.started = s.now()
	s.state = StateActive
	s.current = 0
	return nil
}

// Choose records answerID for the current question and advances. Answering
// the final question triggers submission of the whole attempt; the returned
// attempt id is non-empty only on that completing call.
//
// Submission fires at most once per session instance, no matter how often the
// surrounding code re-reads or re-drives the session. If it fails, the error
// wraps ErrSubmissionFailed and the session stays in the submitting state;
// there is no retry and no rollback to the previous question.
func (s *Session) Choose(ctx context.Context, answerID string) (string, error) {
	if s.state != StateActive || s.current >= len(s.quiz.Questions) {
		return "", ErrNotActive
	}

	s.chosen = append(s.chosen, answerID)
	if len(s.chosen) < len(s.quiz.Questions) {
		s.current++
		return "", nil
	}

	s.state = StateSubmitting
	if s.submitted {
		return "", ErrNotActive
	}
	s.submitted = true

	attemptID, err := s.submit(ctx, s.quiz.ID, s.chosen, s.started)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	s.attemptID = attemptID
	s.state = StateCompleted
	return attemptID, nil
}

// CurrentQuestion returns the question awaiting an answer, or nil when the
// session has not started, has run out of questions, or is past answering.
func (s *Session) CurrentQuestion() *Question {
	if s.state != StateActive || s.current >= len(s.quiz.Questions) {
		return nil
	}
	return &s.quiz.Questions[s.current]
}

// RemainingQuestions counts the questions not yet answered. Before Start it
// equals the quiz's question count.
func (s *Session) RemainingQuestions() int {
	if s.state == StateNotStarted {
		return len(s.quiz.Questions)
	}
	return len(s.quiz.Questions) - len(s.chosen)
}

func (s *Session) State() string {
	return s.state
}

// AttemptID returns the persisted attempt id once the session has completed.
func (s *Session) AttemptID() string {
	return s.attemptID
}

func (s *Session) StartedAt() int64 {
	return s.started
}

func (s *Session) Quiz() QuizWithQuestions {
	return s.quiz
}
