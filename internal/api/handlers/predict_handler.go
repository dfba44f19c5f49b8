package handlers

import (
	"strings"

	"intentbot/internal/dto"
	"intentbot/internal/service"
	"intentbot/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PredictHandler struct {
	predictService *service.PredictService
	logger         *zap.Logger
}

func NewPredictHandler(predictService *service.PredictService, logger *zap.Logger) *PredictHandler {
	return &PredictHandler{
		predictService: predictService,
		logger:         logger,
	}
}

// Root godoc
// @Summary API status
// @Tags chat
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router / [get]
func (h *PredictHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{Message: "Chatbot API is running"})
}

// Predict godoc
// @Summary Answer a user message
// @Description Embeds the text, finds the nearest known pattern and returns a random response of its intent
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.QueryInput true "User message"
// @Success 200 {object} dto.QueryResponse
// @Failure 400 {object} map[string]string
// @Router /predict [post]
func (h *PredictHandler) Predict(c *fiber.Ctx) error {
	var req dto.QueryInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "text is required",
		})
	}

	answer := h.predictService.Predict(c.UserContext(), req.Text)

	h.logger.Debug("Prediction served",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Int("text_len", len(req.Text)),
	)

	return c.JSON(dto.QueryResponse{ResponseText: answer})
}
