package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates quiz access around the repositories. It owns the
// slug/id lookup cache: slug-addressed reads resolve through the cache, and
// creating a quiz invalidates it so the next resolution sees the new slug.
// A single Service is shared across request goroutines; mu serializes all
// access to the cache, which is not concurrency-safe on its own.
type Service struct {
	quizzes  QuizRepository
	attempts AttemptRepository

	mu          sync.Mutex
	lookup      *LookupCache
	lookupReady bool

	newID func() string
	now   func() int64
}

func NewService(quizzes QuizRepository, attempts AttemptRepository) *Service {
	return &Service{
		quizzes:  quizzes,
		attempts: attempts,
		lookup:   NewLookupCache(),
		newID:    uuid.NewString,
		now:      func() int64 { return time.Now().Unix() },
	}
}

// ensureLookup rebuilds the lookup cache from the repository when it has
// never been built or has been invalidated since. Callers must hold mu.
func (s *Service) ensureLookup(ctx context.Context) error {
	if s.lookupReady && !s.lookup.Stale() {
		return nil
	}

	refs, err := s.quizzes.ListQuizRefs(ctx)
	if err != nil {
		return fmt.Errorf("build quiz lookup: %w", err)
	}
	s.lookup.Build(refs)
	s.lookupReady = true
	return nil
}

// resolveID maps a slug to its quiz id through the lookup cache, rebuilding
// the cache first if needed.
func (s *Service) resolveID(ctx context.Context, slug string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLookup(ctx); err != nil {
		return "", err
	}
	return s.lookup.ResolveID(slug)
}

func (s *Service) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	return s.quizzes.ListQuizzes(ctx)
}

// GetQuizBySlug resolves the slug through the lookup cache and fetches the
// quiz by id. An unknown slug fails with ErrNotFound before any quiz read.
func (s *Service) GetQuizBySlug(ctx context.Context, slug string) (QuizWithQuestions, error) {
	id, err := s.resolveID(ctx, slug)
	if err != nil {
		return QuizWithQuestions{}, err
	}
	return s.quizzes.GetQuiz(ctx, id)
}

func (s *Service) GetQuiz(ctx context.Context, id string) (QuizWithQuestions, error) {
	return s.quizzes.GetQuiz(ctx, id)
}

// ResolveSlug maps a quiz id back to its slug, e.g. to build a results URL.
func (s *Service) ResolveSlug(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLookup(ctx); err != nil {
		return "", err
	}
	return s.lookup.ResolveSlug(id)
}

// CreateQuiz creates an unpublished quiz owned by owner. The slug is derived
// from the name; the lookup cache is invalidated so the new slug becomes
// resolvable on the next slug-addressed read.
func (s *Service) CreateQuiz(ctx context.Context, name, owner string) (Quiz, error) {
	if len(name) <= 3 || len(name) >= 24 {
		return Quiz{}, ErrInvalidQuizName
	}

	q := Quiz{
		ID:        s.newID(),
		Slug:      Slugify(name),
		Name:      name,
		Owner:     owner,
		CreatedAt: s.now(),
	}
	if err := s.quizzes.CreateQuiz(ctx, q); err != nil {
		return Quiz{}, err
	}

	s.mu.Lock()
	s.lookup.Invalidate()
	s.mu.Unlock()
	return q, nil
}

func (s *Service) PublishQuiz(ctx context.Context, id string) error {
	return s.quizzes.PublishQuiz(ctx, id)
}

// CreateQuestion appends a question with its four answers to a quiz. The
// answer at correctIndex is recorded as correct; authoring UIs put the
// correct answer first, so the index defaults to the first answer.
func (s *Service) CreateQuestion(ctx context.Context, quizID, content string, answers []string, correctIndex int) (Question, error) {
	if content == "" || len(answers) != AnswersPerQuestion {
		return Question{}, ErrInvalidQuestion
	}
	for _, answer := range answers {
		if answer == "" {
			return Question{}, ErrInvalidQuestion
		}
	}
	if correctIndex < 0 || correctIndex >= len(answers) {
		correctIndex = 0
	}

	question := Question{
		ID:      s.newID(),
		Content: content,
		Answers: make([]Answer, 0, len(answers)),
	}
	for _, answer := range answers {
		question.Answers = append(question.Answers, Answer{
			ID:      s.newID(),
			Content: answer,
		})
	}

	if err := s.quizzes.CreateQuestion(ctx, quizID, question, correctIndex); err != nil {
		return Question{}, err
	}
	return question, nil
}

// StartSession fetches the quiz behind slug and returns a fresh session for
// user, wired to submit through the attempt repository when it completes.
// The session is not started; the caller decides when the taker begins.
func (s *Service) StartSession(ctx context.Context, slug, user string) (*Session, error) {
	q, err := s.GetQuizBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	submit := func(ctx context.Context, quizID string, answerIDs []string, started int64) (string, error) {
		return s.attempts.SubmitAttempt(ctx, quizID, user, answerIDs, started)
	}
	return NewSession(q, submit), nil
}

// SubmitAttempt persists a completed attempt directly, for callers that drive
// their own session (e.g. the HTTP API, whose clients run the engine).
func (s *Service) SubmitAttempt(ctx context.Context, quizID, user string, answerIDs []string, started int64) (string, error) {
	return s.attempts.SubmitAttempt(ctx, quizID, user, answerIDs, started)
}

// ListAttemptsByUser returns a user's attempt history for the dashboard,
// most recent first.
func (s *Service) ListAttemptsByUser(ctx context.Context, user string) ([]AttemptSummary, error) {
	return s.attempts.ListAttemptsByUser(ctx, user)
}

func (s *Service) GetResults(ctx context.Context, attemptID string) (AttemptResults, error) {
	return s.attempts.GetResults(ctx, attemptID)
}

// GetGradedResults fetches an attempt's results and grades them against the
// quiz definition, producing the display-ready percentage, band and
// per-question reconciliation.
func (s *Service) GetGradedResults(ctx context.Context, attemptID string) (Results, error) {
	res, err := s.attempts.GetResults(ctx, attemptID)
	if err != nil {
		return Results{}, err
	}

	q, err := s.quizzes.GetQuiz(ctx, res.Attempt.QuizID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Results{}, fmt.Errorf("attempt %q references missing quiz %q: %w", attemptID, res.Attempt.QuizID, ErrIncompleteData)
		}
		return Results{}, err
	}

	return GradeAttempt(res.Attempt, q.Questions, res.PerQuestion)
}
