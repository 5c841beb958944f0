package handler

import (
	"errors"
	"net/http"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/response"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/service"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/validator"
	"github.com/gin-gonic/gin"
)

// AIHandler handles the AI assistant endpoints.
type AIHandler struct {
	aiService *service.AIService
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// GenerateQuestion godoc
// POST /api/v1/ai/generate-question
// Asks the assistant for a new question draft.
func (h *AIHandler) GenerateQuestion(c *gin.Context) {
	var req model.GenerateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	draft, err := h.aiService.GenerateQuestion(c.Request.Context(), req)
	if err != nil {
		h.failAI(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": draft})
}

// AnalyzeQuestion godoc
// POST /api/v1/ai/analyze-question
// Asks the assistant to review an existing question.
func (h *AIHandler) AnalyzeQuestion(c *gin.Context) {
	var req model.AnalyzeQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	analysis, err := h.aiService.AnalyzeQuestion(c.Request.Context(), req)
	if err != nil {
		h.failAI(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"analysis": analysis})
}

// GenerateRubric godoc
// POST /api/v1/ai/generate-rubric
// Asks the assistant for an evaluation rubric.
func (h *AIHandler) GenerateRubric(c *gin.Context) {
	var req model.GenerateRubricRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rubric, err := h.aiService.GenerateRubric(c.Request.Context(), req)
	if err != nil {
		h.failAI(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rubric": rubric})
}

// AdaptQuestion godoc
// POST /api/v1/ai/adapt-question
// Asks the assistant to rewrite a question for a student with special
// educational needs.
func (h *AIHandler) AdaptQuestion(c *gin.Context) {
	var req model.AdaptQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	adapted, err := h.aiService.AdaptQuestion(c.Request.Context(), req)
	if err != nil {
		h.failAI(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"adaptation": adapted})
}

func (h *AIHandler) failAI(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAIUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrAIUnavailable)
	case errors.Is(err, service.ErrAIInvalidResponse):
		response.Fail(c, http.StatusInternalServerError, response.ErrAIInvalidResponse)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrUpstreamService)
	}
}
