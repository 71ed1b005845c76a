package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"quizhub/internal/quiz"
)

func (s *SQLiteStore) ListQuizRefs(ctx context.Context) ([]quiz.QuizRef, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT quiz_id, slug FROM quizzes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]quiz.QuizRef, 0)
	for rows.Next() {
		var ref quiz.QuizRef
		if err := rows.Scan(&ref.ID, &ref.Slug); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

func (s *SQLiteStore) ListQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT quiz_id, slug, name, owner, published, created_at_unix
		 FROM quizzes
		 ORDER BY created_at_unix DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := make([]quiz.Quiz, 0)
	for rows.Next() {
		item, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, item)
	}

	return quizzes, rows.Err()
}

// GetQuiz loads a quiz with its questions and answers in authored order. The
// answer query never touches correct_answers, so the result carries no
// correctness information.
func (s *SQLiteStore) GetQuiz(ctx context.Context, id string) (quiz.QuizWithQuestions, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT quiz_id, slug, name, owner, published, created_at_unix
		 FROM quizzes WHERE quiz_id = ?`,
		id,
	)

	result := quiz.QuizWithQuestions{}
	item, err := scanQuiz(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.QuizWithQuestions{}, quiz.ErrNotFound
		}
		return quiz.QuizWithQuestions{}, err
	}
	result.Quiz = item

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT q.question_id, q.content, a.answer_id, a.content
		 FROM questions q
		 JOIN answers a ON a.question_id = q.question_id
		 WHERE q.quiz_id = ?
		 ORDER BY q.position ASC, a.position ASC`,
		id,
	)
	if err != nil {
		return quiz.QuizWithQuestions{}, err
	}
	defer rows.Close()

	result.Questions = make([]quiz.Question, 0)
	for rows.Next() {
		var (
			questionID      string
			questionContent string
			answer          quiz.Answer
		)
		if err := rows.Scan(&questionID, &questionContent, &answer.ID, &answer.Content); err != nil {
			return quiz.QuizWithQuestions{}, err
		}

		last := len(result.Questions) - 1
		if last < 0 || result.Questions[last].ID != questionID {
			result.Questions = append(result.Questions, quiz.Question{
				ID:      questionID,
				Content: questionContent,
			})
			last++
		}
		result.Questions[last].Answers = append(result.Questions[last].Answers, answer)
	}

	return result, rows.Err()
}

func (s *SQLiteStore) CreateQuiz(ctx context.Context, q quiz.Quiz) error {
	published := 0
	if q.Published {
		published = 1
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO quizzes (quiz_id, slug, name, owner, published, created_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID,
		q.Slug,
		q.Name,
		q.Owner,
		published,
		q.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) PublishQuiz(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE quizzes SET published = 1 WHERE quiz_id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return quiz.ErrNotFound
	}
	return nil
}

// CreateQuestion appends a question at the next free position. Answers are
// stored in authored order; the one at correctIndex is recorded in
// correct_answers.
func (s *SQLiteStore) CreateQuestion(ctx context.Context, quizID string, question quiz.Question, correctIndex int) error {
	if correctIndex < 0 || correctIndex >= len(question.Answers) {
		return quiz.ErrInvalidQuestion
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE quiz_id = ?`, quizID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.ErrNotFound
		}
		return err
	}

	var position int
	if err := tx.QueryRowContext(
		ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM questions WHERE quiz_id = ?`,
		quizID,
	).Scan(&position); err != nil {
		return err
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO questions (question_id, quiz_id, content, position) VALUES (?, ?, ?, ?)`,
		question.ID,
		quizID,
		question.Content,
		position,
	); err != nil {
		return err
	}

	for idx, answer := range question.Answers {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO answers (answer_id, question_id, content, position) VALUES (?, ?, ?, ?)`,
			answer.ID,
			question.ID,
			answer.Content,
			idx,
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO correct_answers (answer_id) VALUES (?)`,
		question.Answers[correctIndex].ID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (quiz.Quiz, error) {
	var (
		item      quiz.Quiz
		published int
	)
	if err := row.Scan(&item.ID, &item.Slug, &item.Name, &item.Owner, &published, &item.CreatedAt); err != nil {
		return quiz.Quiz{}, err
	}
	item.Published = published != 0
	return item, nil
}
