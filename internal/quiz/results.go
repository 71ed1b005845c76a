package quiz

import (
	"fmt"
	"math"
)

// Grade bands, from a score percentage. Thresholds are fixed: 0-10 yikes,
// 11-50 low, 51-89 mid, 90-100 high.
const (
	GradeYikes = "yikes"
	GradeLow   = "low"
	GradeMid   = "mid"
	GradeHigh  = "high"
)

// QuestionResult reconciles one question of an attempt for display: the full
// chosen and correct answers, not just their ids.
type QuestionResult struct {
	Question Question `json:"question"`
	Chosen   Answer   `json:"chosen"`
	Correct  Answer   `json:"correct"`
	// WasCorrect is derived from id equality of the chosen and correct answers.
	WasCorrect bool `json:"was_correct"`
}

// Results is the display-ready grading of a completed attempt.
type Results struct {
	Percent        int              `json:"percent"`
	Grade          string           `json:"grade"`
	ElapsedSeconds int64            `json:"elapsed_seconds"`
	Questions      []QuestionResult `json:"questions"`
}

// GradeAttempt turns a finished attempt and its per-question answer records
// into a percentage, a grade band and a per-question reconciliation, in the
// quiz's question order.
//
// Every question must have a record, and both the chosen and the correct
// answer id must exist among that question's own answers; anything else is a
// consistency violation between the attempt and the quiz definition and fails
// with ErrIncompleteData. A quiz with no questions cannot be graded at all.
func GradeAttempt(attempt Attempt, questions []Question, perQuestion map[string]AnswerRecord) (Results, error) {
	if len(questions) == 0 {
		return Results{}, fmt.Errorf("grading quiz without questions: %w", ErrIncompleteData)
	}

	results := Results{
		Percent:        PercentOf(attempt.Correct, len(questions)),
		ElapsedSeconds: attempt.Ended - attempt.Started,
		Questions:      make([]QuestionResult, 0, len(questions)),
	}
	results.Grade = GradeFor(results.Percent)

	for _, question := range questions {
		record, ok := perQuestion[question.ID]
		if !ok {
			return Results{}, fmt.Errorf("question %q has no answer record: %w", question.ID, ErrIncompleteData)
		}

		chosen, err := findAnswer(question, record.ChosenID)
		if err != nil {
			return Results{}, err
		}
		correct, err := findAnswer(question, record.CorrectID)
		if err != nil {
			return Results{}, err
		}

		results.Questions = append(results.Questions, QuestionResult{
			Question:   question,
			Chosen:     chosen,
			Correct:    correct,
			WasCorrect: chosen.ID == correct.ID,
		})
	}

	return results, nil
}

// PercentOf is the score percentage of correct answers out of total, rounded
// to the nearest integer. A zero total scores zero.
func PercentOf(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// GradeFor maps a percentage to its grade band. First match wins, which
// leaves 0-10 in yikes rather than low.
func GradeFor(percent int) string {
	switch {
	case percent >= 90:
		return GradeHigh
	case percent <= 10:
		return GradeYikes
	case percent <= 50:
		return GradeLow
	default:
		return GradeMid
	}
}

func findAnswer(question Question, answerID string) (Answer, error) {
	for _, answer := range question.Answers {
		if answer.ID == answerID {
			return answer, nil
		}
	}
	return Answer{}, fmt.Errorf("answer %q not in question %q: %w", answerID, question.ID, ErrIncompleteData)
}
