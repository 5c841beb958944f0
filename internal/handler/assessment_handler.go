package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/middleware"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/response"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/service"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AssessmentHandler handles assessment generation and management endpoints.
type AssessmentHandler struct {
	assessmentService *service.AssessmentService
	authService       *service.AuthService
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(assessmentService *service.AssessmentService, authService *service.AuthService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService, authService: authService}
}

// CreateAssessment godoc
// POST /api/v1/assessments
// Generates randomized forms and materializes each into a Google Doc and a
// Google Form, then persists the assessment record.
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateAssessmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questionIDs := make([]uuid.UUID, 0, len(req.QuestionIDs))
	for _, raw := range req.QuestionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		questionIDs = append(questionIDs, id)
	}

	// The generation workflow needs the creator's stored Google tokens.
	creator, err := h.authService.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	assessment, err := h.assessmentService.Create(c.Request.Context(), service.CreateAssessmentInput{
		Name:        req.Name,
		Objective:   req.Objective,
		QuestionIDs: questionIDs,
		FormCount:   req.FormCount,
		Creator:     creator,
	})
	if err != nil {
		var mErr *service.MaterializeError
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		case errors.Is(err, service.ErrTooManyForms):
			response.Fail(c, http.StatusBadRequest, response.ErrTooManyForms)
		case errors.Is(err, service.ErrQuestionsNotFound):
			response.Fail(c, http.StatusBadRequest, response.ErrQuestionsNotFound)
		case errors.Is(err, service.ErrGoogleNotLinked):
			response.Fail(c, http.StatusConflict, response.ErrGoogleNotLinked)
		case errors.As(err, &mErr):
			// Deliberately 500, same as a persistence failure: the client is
			// not told which backend broke, only that generation did not
			// complete. The artifact/stage detail stays in the logs.
			response.Fail(c, http.StatusInternalServerError, response.ErrUpstreamService)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assessment": assessment})
}

// ListAssessments godoc
// GET /api/v1/assessments
// Lists the authenticated teacher's assessments, newest first.
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	claims := middleware.GetClaims(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	assessments, total, err := h.assessmentService.ListByCreator(c.Request.Context(), claims.UserID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if assessments == nil {
		assessments = []model.Assessment{}
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"assessments": assessments}, pagination)
}

// GetAssessment godoc
// GET /api/v1/assessments/:id
// Retrieves one assessment with its generated links.
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	assessment, err := h.assessmentService.Get(c.Request.Context(), id, claims.UserID)
	if err != nil {
		h.failLookup(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment": assessment})
}

// UpdateAssessment godoc
// PUT /api/v1/assessments/:id
// Renames or re-describes an assessment. Links are immutable.
func (h *AssessmentHandler) UpdateAssessment(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateAssessmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assessment, err := h.assessmentService.Update(c.Request.Context(), id, claims.UserID, req.Name, req.Objective)
	if err != nil {
		h.failLookup(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assessment": assessment})
}

// DeleteAssessment godoc
// DELETE /api/v1/assessments/:id
// Removes the assessment record. Remote artifacts stay in the teacher's
// Google account.
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	claims := middleware.GetClaims(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.assessmentService.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		h.failLookup(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "evaluación eliminada"})
}

func (h *AssessmentHandler) failLookup(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
