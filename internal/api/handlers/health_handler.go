package handlers

import (
	"context"
	"time"

	"intentbot/internal/dto"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db       Pinger
	embedder string
	logger   *zap.Logger
}

func NewHealthHandler(db Pinger, embedderName string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		embedder: embedderName,
		logger:   logger,
	}
}

// Health godoc
// @Summary Health check
// @Description Reports database reachability and the active embedder
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "up", Embedder: h.embedder}
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Database ping failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "down"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
