package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"quizhub/internal/quiz"
)

func (a *API) HandleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := a.service.ListQuizzes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := quizListResponse{Quizzes: make([]quizResponse, 0, len(quizzes))}
	for _, item := range quizzes {
		response.Quizzes = append(response.Quizzes, toQuizResponse(item))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(request.Owner) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "owner is required"})
		return
	}

	created, err := a.service.CreateQuiz(r.Context(), request.Name, request.Owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toQuizResponse(created))
}

// HandleGetQuiz serves a quiz addressed by slug, falling back to the opaque
// id so results pages that only hold an id can still load the quiz.
func (a *API) HandleGetQuiz(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "quiz")

	detail, err := a.service.GetQuizBySlug(r.Context(), ref)
	if errors.Is(err, quiz.ErrNotFound) {
		detail, err = a.service.GetQuiz(r.Context(), ref)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuizDetailResponse(detail))
}

func (a *API) HandlePublishQuiz(w http.ResponseWriter, r *http.Request) {
	if err := a.service.PublishQuiz(r.Context(), chi.URLParam(r, "quiz")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	question, err := a.service.CreateQuestion(
		r.Context(),
		chi.URLParam(r, "quiz"),
		request.Content,
		request.Answers,
		request.CorrectIndex,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := questionResponse{
		ID:      question.ID,
		Content: question.Content,
		Answers: make([]answerResponse, 0, len(question.Answers)),
	}
	for _, answer := range question.Answers {
		response.Answers = append(response.Answers, answerResponse(answer))
	}
	writeJSON(w, http.StatusCreated, response)
}

func (a *API) HandleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var request submitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(request.User) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user is required"})
		return
	}
	if request.Answers == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "answers is required"})
		return
	}

	attemptID, err := a.service.SubmitAttempt(
		r.Context(),
		chi.URLParam(r, "quiz"),
		request.User,
		request.Answers,
		request.Started,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitAttemptResponse{AttemptID: attemptID})
}

// HandleUserAttempts serves a user's attempt history, the rows behind their
// dashboard. A user with no attempts gets an empty list, not a 404.
func (a *API) HandleUserAttempts(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	attempts, err := a.service.ListAttemptsByUser(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := userAttemptsResponse{
		User:     name,
		Attempts: make([]attemptSummaryResponse, 0, len(attempts)),
	}
	for _, item := range attempts {
		response.Attempts = append(response.Attempts, attemptSummaryResponse(item))
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleResults(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attempt_id")

	results, err := a.service.GetGradedResults(r.Context(), attemptID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResultsResponse(attemptID, results))
}
