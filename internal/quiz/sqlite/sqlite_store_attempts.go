package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quizhub/internal/quiz"
)

// SubmitAttempt grades the ordered answer ids against the quiz's question
// order and persists the attempt in one transaction.
//
// Invariants:
//   - answerIDs[i] must be one of the answers of the question at position i;
//     anything else is a consistency violation, not a wrong answer.
//   - The attempt row and its per-question records are written together and
//     never updated afterwards.
//   - The end timestamp is assigned here, not taken from the client.
//   - A quiz with no questions cannot be attempted.
func (s *SQLiteStore) SubmitAttempt(ctx context.Context, quizID, user string, answerIDs []string, started int64) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE quiz_id = ?`, quizID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", quiz.ErrNotFound
		}
		return "", err
	}

	type questionKey struct {
		id        string
		correctID string
		answerIDs map[string]bool
	}

	rows, err := tx.QueryContext(
		ctx,
		`SELECT q.question_id, a.answer_id,
		        EXISTS (SELECT 1 FROM correct_answers c WHERE c.answer_id = a.answer_id)
		 FROM questions q
		 JOIN answers a ON a.question_id = q.question_id
		 WHERE q.quiz_id = ?
		 ORDER BY q.position ASC, a.position ASC`,
		quizID,
	)
	if err != nil {
		return "", err
	}

	questions := make([]*questionKey, 0)
	for rows.Next() {
		var (
			questionID string
			answerID   string
			correct    bool
		)
		if err := rows.Scan(&questionID, &answerID, &correct); err != nil {
			_ = rows.Close()
			return "", err
		}

		last := len(questions) - 1
		if last < 0 || questions[last].id != questionID {
			questions = append(questions, &questionKey{
				id:        questionID,
				answerIDs: make(map[string]bool),
			})
			last++
		}
		questions[last].answerIDs[answerID] = true
		if correct {
			questions[last].correctID = answerID
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return "", err
	}
	_ = rows.Close()

	if len(questions) == 0 {
		return "", fmt.Errorf("quiz %q has no questions: %w", quizID, quiz.ErrIncompleteData)
	}
	if len(answerIDs) != len(questions) {
		return "", fmt.Errorf("%d answers for %d questions: %w", len(answerIDs), len(questions), quiz.ErrIncompleteData)
	}

	attemptID := uuid.NewString()
	ended := time.Now().Unix()
	correctCount := 0

	type record struct {
		questionID string
		chosenID   string
		correctID  string
	}
	records := make([]record, 0, len(questions))

	for idx, question := range questions {
		chosenID := answerIDs[idx]
		if !question.answerIDs[chosenID] {
			return "", fmt.Errorf("answer %q not in question %q: %w", chosenID, question.id, quiz.ErrIncompleteData)
		}
		if question.correctID == "" {
			return "", fmt.Errorf("question %q has no correct answer: %w", question.id, quiz.ErrIncompleteData)
		}
		if chosenID == question.correctID {
			correctCount++
		}
		records = append(records, record{
			questionID: question.id,
			chosenID:   chosenID,
			correctID:  question.correctID,
		})
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO attempts (attempt_id, quiz_id, user_name, started_unix, ended_unix, correct_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		attemptID,
		quizID,
		user,
		started,
		ended,
		correctCount,
	); err != nil {
		return "", err
	}

	for _, rec := range records {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO attempt_answers (attempt_id, question_id, chosen_answer_id, correct_answer_id)
			 VALUES (?, ?, ?, ?)`,
			attemptID,
			rec.questionID,
			rec.chosenID,
			rec.correctID,
		); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return attemptID, nil
}

func (s *SQLiteStore) GetResults(ctx context.Context, attemptID string) (quiz.AttemptResults, error) {
	var results quiz.AttemptResults
	err := s.db.QueryRowContext(
		ctx,
		`SELECT attempt_id, quiz_id, user_name, started_unix, ended_unix, correct_count
		 FROM attempts WHERE attempt_id = ?`,
		attemptID,
	).Scan(
		&results.Attempt.ID,
		&results.Attempt.QuizID,
		&results.Attempt.User,
		&results.Attempt.Started,
		&results.Attempt.Ended,
		&results.Attempt.Correct,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.AttemptResults{}, quiz.ErrNotFound
		}
		return quiz.AttemptResults{}, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT question_id, chosen_answer_id, correct_answer_id
		 FROM attempt_answers WHERE attempt_id = ?`,
		attemptID,
	)
	if err != nil {
		return quiz.AttemptResults{}, err
	}
	defer rows.Close()

	results.PerQuestion = make(map[string]quiz.AnswerRecord)
	for rows.Next() {
		var (
			questionID string
			record     quiz.AnswerRecord
		)
		if err := rows.Scan(&questionID, &record.ChosenID, &record.CorrectID); err != nil {
			return quiz.AttemptResults{}, err
		}
		results.PerQuestion[questionID] = record
	}

	return results, rows.Err()
}

// ListAttemptsByUser returns the user's attempt history joined with the quiz
// each attempt was taken against, most recent first.
func (s *SQLiteStore) ListAttemptsByUser(ctx context.Context, user string) ([]quiz.AttemptSummary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT a.attempt_id, a.quiz_id, z.slug, z.name, a.correct_count,
		        a.ended_unix - a.started_unix,
		        (SELECT COUNT(*) FROM questions q WHERE q.quiz_id = a.quiz_id)
		 FROM attempts a
		 JOIN quizzes z ON z.quiz_id = a.quiz_id
		 WHERE a.user_name = ?
		 ORDER BY a.ended_unix DESC, a.attempt_id ASC`,
		user,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]quiz.AttemptSummary, 0)
	for rows.Next() {
		var (
			summary       quiz.AttemptSummary
			correct       int
			questionCount int
		)
		if err := rows.Scan(
			&summary.AttemptID,
			&summary.QuizID,
			&summary.QuizSlug,
			&summary.QuizName,
			&correct,
			&summary.ElapsedSeconds,
			&questionCount,
		); err != nil {
			return nil, err
		}
		summary.Percent = quiz.PercentOf(correct, questionCount)
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}
