package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	// Correctness lives in its own table instead of a flag on answers, so the
	// queries serving the session-taking side structurally cannot leak which
	// answer is correct.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			quiz_id TEXT PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			owner TEXT NOT NULL,
			published INTEGER NOT NULL DEFAULT 0,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			question_id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL,
			content TEXT NOT NULL,
			position INTEGER NOT NULL,
			UNIQUE (quiz_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS answers (
			answer_id TEXT PRIMARY KEY,
			question_id TEXT NOT NULL,
			content TEXT NOT NULL,
			position INTEGER NOT NULL,
			UNIQUE (question_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS correct_answers (
			answer_id TEXT PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			attempt_id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL,
			user_name TEXT NOT NULL,
			started_unix INTEGER NOT NULL,
			ended_unix INTEGER NOT NULL,
			correct_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_answers (
			attempt_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			chosen_answer_id TEXT NOT NULL,
			correct_answer_id TEXT NOT NULL,
			PRIMARY KEY (attempt_id, question_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_quiz ON questions(quiz_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_quiz ON attempts(quiz_id);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
