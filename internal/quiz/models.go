package quiz

import "strings"

// Quiz is a named, owned collection of questions, addressable by slug or id.
// The slug is the human-readable URL segment; the id is the stable backend key.
type Quiz struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Published bool   `json:"published"`
	CreatedAt int64  `json:"created_at"`
}

// QuizWithQuestions is the session-facing view of a quiz. Its answers carry
// content only; which answer is correct is never present on this type.
type QuizWithQuestions struct {
	Quiz
	Questions []Question `json:"questions"`
}

type Question struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Answers []Answer `json:"answers"`
}

type Answer struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// QuizRef is the (id, slug) pair the lookup cache is built from.
type QuizRef struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// Attempt is the persisted record of one completed session. It is created
// exactly once per session and immutable thereafter. Started and Ended are
// epoch seconds; Ended is assigned by the store at submission time.
type Attempt struct {
	ID      string `json:"id"`
	QuizID  string `json:"quiz_id"`
	User    string `json:"user"`
	Started int64  `json:"started"`
	Ended   int64  `json:"ended"`
	Correct int    `json:"correct"`
}

// AnswerRecord pairs the answer a taker chose with the correct one for a
// single question of an attempt.
type AnswerRecord struct {
	ChosenID  string `json:"chosen_id"`
	CorrectID string `json:"correct_id"`
}

// AttemptResults is everything the store knows about a finished attempt:
// the attempt row plus the per-question chosen/correct answer ids.
type AttemptResults struct {
	Attempt     Attempt                 `json:"attempt"`
	PerQuestion map[string]AnswerRecord `json:"per_question"`
}

// AttemptSummary is one row of a user's dashboard: the quiz an attempt was
// taken against, the graded percentage and the elapsed seconds.
type AttemptSummary struct {
	AttemptID      string `json:"attempt_id"`
	QuizID         string `json:"quiz_id"`
	QuizSlug       string `json:"quiz_slug"`
	QuizName       string `json:"quiz_name"`
	Percent        int    `json:"percent"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
}

// AnswersPerQuestion is fixed: every question is authored with four answers.
const AnswersPerQuestion = 4

// Slugify derives the URL segment for a quiz name: lowercased, spaces
// collapsed to single dashes, everything outside [a-z0-9-] dropped.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
