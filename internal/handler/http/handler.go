package http

import (
	"github.com/veridoc/signcore/internal/config"
	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/service"
)

type Handler struct {
	services *service.Services

	// operatorAPIKey authenticates service-to-service calls; the operator
	// routes reject requests presenting anything else.
	operatorAPIKey string

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		operatorAPIKey: cfg.OperatorAPIKey,
		logger:         logger,
	}
}
