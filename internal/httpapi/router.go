package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"quizhub/internal/quiz"
)

func NewRouter(service *quiz.Service, logger *zap.Logger) http.Handler {
	api := NewAPI(service, logger)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(api.logRequests)

	r.Route("/quizzes", func(r chi.Router) {
		r.Get("/", api.HandleListQuizzes)
		r.Post("/", api.HandleCreateQuiz)
		r.Route("/{quiz}", func(r chi.Router) {
			r.Get("/", api.HandleGetQuiz)
			r.Post("/publish", api.HandlePublishQuiz)
			r.Post("/questions", api.HandleCreateQuestion)
			r.Post("/attempts", api.HandleSubmitAttempt)
		})
	})
	r.Get("/attempts/{attempt_id}/results", api.HandleResults)
	r.Get("/users/{name}/attempts", api.HandleUserAttempts)

	return r
}
