package httpapi

import (
	"go.uber.org/zap"

	"quizhub/internal/quiz"
)

type API struct {
	service *quiz.Service
	logger  *zap.Logger
}

func NewAPI(service *quiz.Service, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		service: service,
		logger:  logger,
	}
}
