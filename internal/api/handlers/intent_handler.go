package handlers

import (
	"intentbot/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type IntentHandler struct {
	intentService *service.IntentService
	seedService   *service.SeedService
	logger        *zap.Logger
}

func NewIntentHandler(intentService *service.IntentService, seedService *service.SeedService, logger *zap.Logger) *IntentHandler {
	return &IntentHandler{
		intentService: intentService,
		seedService:   seedService,
		logger:        logger,
	}
}

// ListIntents godoc
// @Summary List stored intents
// @Description Pattern and response counts per tag
// @Tags intents
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.IntentResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/intents [get]
func (h *IntentHandler) ListIntents(c *fiber.Ctx) error {
	intents, err := h.intentService.List(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to list intents", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list intents",
		})
	}
	return c.JSON(intents)
}

// ReloadIntents godoc
// @Summary Reload intents from the training file
// @Description Re-embeds every pattern of the training file and replaces the stored intents
// @Tags intents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SeedResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/intents/reload [post]
func (h *IntentHandler) ReloadIntents(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	res, err := h.seedService.Reload(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to reload intents", zap.String("username", username), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reload intents",
		})
	}

	h.logger.Info("Intents reloaded", zap.String("username", username), zap.Int("patterns", res.Patterns))
	return c.JSON(res)
}
