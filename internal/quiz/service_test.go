package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type fakeQuizRepo struct {
	quizzes   map[string]QuizWithQuestions
	slugOrder []string

	listRefsCalls   int
	listCalls       int
	getCalls        int
	createCalls     int
	publishCalls    int
	createQCalls    int
	lastCreated     Quiz
	lastQuestion    Question
	lastCorrectIdx  int
	lastQuestionFor string
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: make(map[string]QuizWithQuestions)}
}

func (f *fakeQuizRepo) add(q QuizWithQuestions) {
	f.quizzes[q.ID] = q
	f.slugOrder = append(f.slugOrder, q.ID)
}

func (f *fakeQuizRepo) ListQuizRefs(_ context.Context) ([]QuizRef, error) {
	f.listRefsCalls++
	refs := make([]QuizRef, 0, len(f.slugOrder))
	for _, id := range f.slugOrder {
		refs = append(refs, QuizRef{ID: id, Slug: f.quizzes[id].Slug})
	}
	return refs, nil
}

func (f *fakeQuizRepo) ListQuizzes(_ context.Context) ([]Quiz, error) {
	f.listCalls++
	out := make([]Quiz, 0, len(f.slugOrder))
	for _, id := range f.slugOrder {
		out = append(out, f.quizzes[id].Quiz)
	}
	return out, nil
}

func (f *fakeQuizRepo) GetQuiz(_ context.Context, id string) (QuizWithQuestions, error) {
	f.getCalls++
	q, ok := f.quizzes[id]
	if !ok {
		return QuizWithQuestions{}, ErrNotFound
	}
	return q, nil
}

func (f *fakeQuizRepo) CreateQuiz(_ context.Context, q Quiz) error {
	f.createCalls++
	f.lastCreated = q
	f.add(QuizWithQuestions{Quiz: q})
	return nil
}

func (f *fakeQuizRepo) PublishQuiz(_ context.Context, id string) error {
	f.publishCalls++
	q, ok := f.quizzes[id]
	if !ok {
		return ErrNotFound
	}
	q.Published = true
	f.quizzes[id] = q
	return nil
}

func (f *fakeQuizRepo) CreateQuestion(_ context.Context, quizID string, question Question, correctIndex int) error {
	f.createQCalls++
	f.lastQuestionFor = quizID
	f.lastQuestion = question
	f.lastCorrectIdx = correctIndex
	q, ok := f.quizzes[quizID]
	if !ok {
		return ErrNotFound
	}
	q.Questions = append(q.Questions, question)
	f.quizzes[quizID] = q
	return nil
}

type fakeAttemptRepo struct {
	submitCalls int
	lastQuiz    string
	lastUser    string
	lastIDs     []string
	lastStarted int64
	submitErr   error
	attemptID   string

	results     map[string]AttemptResults
	resultCalls int

	summaries      []AttemptSummary
	listUserCalls  int
	lastListedUser string
}

func (f *fakeAttemptRepo) SubmitAttempt(_ context.Context, quizID, user string, answerIDs []string, started int64) (string, error) {
	f.submitCalls++
	f.lastQuiz = quizID
	f.lastUser = user
	f.lastIDs = append([]string(nil), answerIDs...)
	f.lastStarted = started
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.attemptID, nil
}

func (f *fakeAttemptRepo) GetResults(_ context.Context, attemptID string) (AttemptResults, error) {
	f.resultCalls++
	res, ok := f.results[attemptID]
	if !ok {
		return AttemptResults{}, ErrNotFound
	}
	return res, nil
}

func (f *fakeAttemptRepo) ListAttemptsByUser(_ context.Context, user string) ([]AttemptSummary, error) {
	f.listUserCalls++
	f.lastListedUser = user
	return f.summaries, nil
}

func newTestService(repo *fakeQuizRepo, attempts *fakeAttemptRepo) *Service {
	service := NewService(repo, attempts)
	next := 0
	service.newID = func() string {
		next++
		return "id-" + string(rune('a'+next-1))
	}
	service.now = func() int64 { return 4242 }
	return service
}

func TestServiceGetQuizBySlugBuildsLookupOnce(t *testing.T) {
	repo := newFakeQuizRepo()
	repo.add(QuizWithQuestions{Quiz: Quiz{ID: "quiz-1", Slug: "science", Name: "Science"}})
	repo.add(QuizWithQuestions{Quiz: Quiz{ID: "quiz-2", Slug: "history", Name: "History"}})
	service := newTestService(repo, &fakeAttemptRepo{})

	got, err := service.GetQuizBySlug(context.Background(), "history")
	if err != nil {
		t.Fatalf("GetQuizBySlug failed: %v", err)
	}
	if got.ID != "quiz-2" {
		t.Fatalf("resolved quiz id = %q, want quiz-2", got.ID)
	}
	if repo.listRefsCalls != 1 {
		t.Fatalf("lookup built %d times, want 1", repo.listRefsCalls)
	}

	if _, err := service.GetQuizBySlug(context.Background(), "science"); err != nil {
		t.Fatalf("second GetQuizBySlug failed: %v", err)
	}
	if repo.listRefsCalls != 1 {
		t.Fatalf("lookup rebuilt on warm read: %d calls", repo.listRefsCalls)
	}
}

func TestServiceGetQuizBySlugUnknownSlugSkipsFetch(t *testing.T) {
	repo := newFakeQuizRepo()
	repo.add(QuizWithQuestions{Quiz: Quiz{ID: "quiz-1", Slug: "science"}})
	service := newTestService(repo, &fakeAttemptRepo{})

	if _, err := service.GetQuizBySlug(context.Background(), "geography"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown slug = %v, want ErrNotFound", err)
	}
	if repo.getCalls != 0 {
		t.Fatalf("quiz fetched despite lookup miss: %d calls", repo.getCalls)
	}
}

func TestServiceCreateQuizInvalidatesLookup(t *testing.T) {
	repo := newFakeQuizRepo()
	repo.add(QuizWithQuestions{Quiz: Quiz{ID: "quiz-1", Slug: "science"}})
	service := newTestService(repo, &fakeAttemptRepo{})

	// Warm the lookup, then create; the new slug must resolve afterwards.
	if _, err := service.GetQuizBySlug(context.Background(), "science"); err != nil {
		t.Fatalf("warm-up read failed: %v", err)
	}

	created, err := service.CreateQuiz(context.Background(), "Ancient History", "ada")
	if err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}
	if created.Slug != "ancient-history" {
		t.Fatalf("slug = %q, want ancient-history", created.Slug)
	}
	if created.Published {
		t.Fatalf("new quiz must start unpublished")
	}
	if created.CreatedAt != 4242 {
		t.Fatalf("created_at = %d, want 4242", created.CreatedAt)
	}

	got, err := service.GetQuizBySlug(context.Background(), "ancient-history")
	if err != nil {
		t.Fatalf("GetQuizBySlug after create failed: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("resolved id = %q, want %q", got.ID, created.ID)
	}
	if repo.listRefsCalls != 2 {
		t.Fatalf("lookup rebuilds = %d, want 2 (initial + post-create)", repo.listRefsCalls)
	}
}

func TestServiceCreateQuizValidatesName(t *testing.T) {
	service := newTestService(newFakeQuizRepo(), &fakeAttemptRepo{})

	for _, name := range []string{"", "abc", "a name far too long for a quiz"} {
		if _, err := service.CreateQuiz(context.Background(), name, "ada"); !errors.Is(err, ErrInvalidQuizName) {
			t.Fatalf("CreateQuiz(%q) = %v, want ErrInvalidQuizName", name, err)
		}
	}
}

func TestServiceCreateQuestion(t *testing.T) {
	repo := newFakeQuizRepo()
	repo.add(QuizWithQuestions{Quiz: Quiz{ID: "quiz-1", Slug: "science"}})
	service := newTestService(repo, &fakeAttemptRepo{})

	answers := []string{"4", "5", "6", "7"}
	question, err := service.CreateQuestion(context.Background(), "quiz-1", "What is 2+2?", answers, 0)
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if len(question.Answers) != AnswersPerQuestion {
		t.Fatalf("answer count = %d, want %d", len(question.Answers), AnswersPerQuestion)
	}
	for idx, answer := range question.Answers {
		if answer.Content != answers[idx] {
			t.Fatalf("answer order not preserved: %+v", question.Answers)
		}
		if answer.ID == "" {
			t.Fatalf("answer %d missing id", idx)
		}
	}
	if repo.lastCorrectIdx != 0 || repo.lastQuestionFor != "quiz-1" {
		t.Fatalf("repository call = quiz %q correct %d", repo.lastQuestionFor, repo.lastCorrectIdx)
	}

	// Out-of-range correct index falls back to the first answer.
	if _, err := service.CreateQuestion(context.Background(), "quiz-1", "Again?", answers, 9); err != nil {
		t.Fatalf("CreateQuestion with bad index failed: %v", err)
	}
	if repo.lastCorrectIdx != 0 {
		t.Fatalf("correct index = %d, want fallback 0", repo.lastCorrectIdx)
	}

	if _, err := service.CreateQuestion(context.Background(), "quiz-1", "Too few", []string{"a", "b"}, 0); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("short answer list = %v, want ErrInvalidQuestion", err)
	}
	if _, err := service.CreateQuestion(context.Background(), "quiz-1", "", answers, 0); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("empty prompt = %v, want ErrInvalidQuestion", err)
	}
}

func TestServiceStartSessionWiresSubmission(t *testing.T) {
	repo := newFakeQuizRepo()
	repo.add(QuizWithQuestions{
		Quiz: Quiz{ID: "quiz-1", Slug: "science"},
		Questions: []Question{
			{ID: "q1", Content: "prompt", Answers: []Answer{
				{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
			}},
		},
	})
	attempts := &fakeAttemptRepo{attemptID: "attempt-1"}
	service := newTestService(repo, attempts)

	session, err := service.StartSession(context.Background(), "science", "ada")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if err := session.Start(); err != nil {
		t.Fatalf("session Start failed: %v", err)
	}

	attemptID, err := session.Choose(context.Background(), "b")
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if attemptID != "attempt-1" {
		t.Fatalf("attempt id = %q", attemptID)
	}
	if attempts.submitCalls != 1 || attempts.lastUser != "ada" || attempts.lastQuiz != "quiz-1" {
		t.Fatalf("submission not wired: calls=%d user=%q quiz=%q", attempts.submitCalls, attempts.lastUser, attempts.lastQuiz)
	}
}

func TestServiceGetGradedResults(t *testing.T) {
	repo := newFakeQuizRepo()
	repo.add(QuizWithQuestions{
		Quiz: Quiz{ID: "quiz-1", Slug: "science"},
		Questions: []Question{
			{ID: "q1", Content: "prompt", Answers: []Answer{
				{ID: "a", Content: "4"}, {ID: "b", Content: "5"}, {ID: "c", Content: "6"}, {ID: "d", Content: "7"},
			}},
		},
	})
	attempts := &fakeAttemptRepo{
		results: map[string]AttemptResults{
			"attempt-1": {
				Attempt:     Attempt{ID: "attempt-1", QuizID: "quiz-1", Started: 1000, Ended: 1012, Correct: 1},
				PerQuestion: map[string]AnswerRecord{"q1": {ChosenID: "a", CorrectID: "a"}},
			},
			"orphan": {
				Attempt:     Attempt{ID: "orphan", QuizID: "gone", Started: 1, Ended: 2},
				PerQuestion: map[string]AnswerRecord{},
			},
		},
	}
	service := newTestService(repo, attempts)

	results, err := service.GetGradedResults(context.Background(), "attempt-1")
	if err != nil {
		t.Fatalf("GetGradedResults failed: %v", err)
	}
	if results.Percent != 100 || results.Grade != GradeHigh || results.ElapsedSeconds != 12 {
		t.Fatalf("unexpected grading: %+v", results)
	}

	if _, err := service.GetGradedResults(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing attempt = %v, want ErrNotFound", err)
	}
	if _, err := service.GetGradedResults(context.Background(), "orphan"); !errors.Is(err, ErrIncompleteData) {
		t.Fatalf("orphaned attempt = %v, want ErrIncompleteData", err)
	}
}

func TestServiceListAttemptsByUser(t *testing.T) {
	attempts := &fakeAttemptRepo{
		summaries: []AttemptSummary{
			{AttemptID: "attempt-1", QuizID: "quiz-1", QuizSlug: "science", QuizName: "Science", Percent: 50, ElapsedSeconds: 12},
		},
	}
	service := newTestService(newFakeQuizRepo(), attempts)

	got, err := service.ListAttemptsByUser(context.Background(), "ada")
	if err != nil {
		t.Fatalf("ListAttemptsByUser failed: %v", err)
	}
	if len(got) != 1 || got[0].AttemptID != "attempt-1" {
		t.Fatalf("unexpected summaries: %+v", got)
	}
	if attempts.listUserCalls != 1 || attempts.lastListedUser != "ada" {
		t.Fatalf("repository call = %d times for %q", attempts.listUserCalls, attempts.lastListedUser)
	}
}

func TestServiceConcurrentResolvesBuildLookupOnce(t *testing.T) {
	repo := newFakeQuizRepo()
	repo.add(QuizWithQuestions{Quiz: Quiz{ID: "quiz-1", Slug: "science"}})
	service := newTestService(repo, &fakeAttemptRepo{})

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slug, err := service.ResolveSlug(context.Background(), "quiz-1")
			if err != nil {
				errs <- err
				return
			}
			if slug != "science" {
				errs <- fmt.Errorf("slug = %q, want science", slug)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent resolve failed: %v", err)
	}
	if repo.listRefsCalls != 1 {
		t.Fatalf("lookup built %d times under concurrent resolves, want 1", repo.listRefsCalls)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ancient History":   "ancient-history",
		"  Space   Trivia ": "space-trivia",
		"Go! Basics?":       "go-basics",
		"snake_case_name":   "snake-case-name",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}
