package httpapi

import "quizhub/internal/quiz"

type quizResponse struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Published bool   `json:"published"`
	CreatedAt int64  `json:"created_at"`
}

type quizListResponse struct {
	Quizzes []quizResponse `json:"quizzes"`
}

type answerResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type questionResponse struct {
	ID      string           `json:"id"`
	Content string           `json:"content"`
	Answers []answerResponse `json:"answers"`
}

type quizDetailResponse struct {
	quizResponse
	Questions []questionResponse `json:"questions"`
}

type createQuizRequest struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

type createQuestionRequest struct {
	Content      string   `json:"content"`
	Answers      []string `json:"answers"`
	CorrectIndex int      `json:"correct_index"`
}

type submitAttemptRequest struct {
	User    string   `json:"user"`
	Answers []string `json:"answers"`
	Started int64    `json:"started"`
}

type submitAttemptResponse struct {
	AttemptID string `json:"attempt_id"`
}

type resultQuestionResponse struct {
	QuestionID string         `json:"question_id"`
	Content    string         `json:"content"`
	Chosen     answerResponse `json:"chosen"`
	Correct    answerResponse `json:"correct"`
	WasCorrect bool           `json:"was_correct"`
}

type resultsResponse struct {
	AttemptID      string                   `json:"attempt_id"`
	Percent        int                      `json:"percent"`
	Grade          string                   `json:"grade"`
	ElapsedSeconds int64                    `json:"elapsed_seconds"`
	Questions      []resultQuestionResponse `json:"questions"`
}

type attemptSummaryResponse struct {
	AttemptID      string `json:"attempt_id"`
	QuizID         string `json:"quiz_id"`
	QuizSlug       string `json:"quiz_slug"`
	QuizName       string `json:"quiz_name"`
	Percent        int    `json:"percent"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
}

type userAttemptsResponse struct {
	User     string                   `json:"user"`
	Attempts []attemptSummaryResponse `json:"attempts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toQuizResponse(q quiz.Quiz) quizResponse {
	return quizResponse{
		ID:        q.ID,
		Slug:      q.Slug,
		Name:      q.Name,
		Owner:     q.Owner,
		Published: q.Published,
		CreatedAt: q.CreatedAt,
	}
}

func toQuizDetailResponse(q quiz.QuizWithQuestions) quizDetailResponse {
	detail := quizDetailResponse{
		quizResponse: toQuizResponse(q.Quiz),
		Questions:    make([]questionResponse, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		item := questionResponse{
			ID:      question.ID,
			Content: question.Content,
			Answers: make([]answerResponse, 0, len(question.Answers)),
		}
		for _, answer := range question.Answers {
			item.Answers = append(item.Answers, answerResponse(answer))
		}
		detail.Questions = append(detail.Questions, item)
	}
	return detail
}

func toResultsResponse(attemptID string, results quiz.Results) resultsResponse {
	response := resultsResponse{
		AttemptID:      attemptID,
		Percent:        results.Percent,
		Grade:          results.Grade,
		ElapsedSeconds: results.ElapsedSeconds,
		Questions:      make([]resultQuestionResponse, 0, len(results.Questions)),
	}
	for _, item := range results.Questions {
		response.Questions = append(response.Questions, resultQuestionResponse{
			QuestionID: item.Question.ID,
			Content:    item.Question.Content,
			Chosen:     answerResponse(item.Chosen),
			Correct:    answerResponse(item.Correct),
			WasCorrect: item.WasCorrect,
		})
	}
	return response
}
