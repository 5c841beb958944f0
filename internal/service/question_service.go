package service

import (
	"context"
	"errors"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/response"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrQuestionNotFound is returned when a question ID does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// QuestionBank abstracts question bank persistence.
type QuestionBank interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	List(ctx context.Context, filter model.QuestionFilter, limit, offset int) ([]model.Question, int, error)
	Create(ctx context.Context, q *model.Question) error
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuestionService handles question bank business logic.
type QuestionService struct {
	questionRepo QuestionBank
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo QuestionBank) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// List retrieves questions with optional filters and pagination.
func (s *QuestionService) List(ctx context.Context, filter model.QuestionFilter, page, perPage int) ([]model.Question, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	questions, total, err := s.questionRepo.List(ctx, filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return questions, pagination, nil
}

// Get retrieves a single question.
func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

// Create adds a question to the bank on behalf of the creator.
func (s *QuestionService) Create(ctx context.Context, req model.CreateQuestionRequest, creatorID uuid.UUID) (*model.Question, error) {
	q := &model.Question{
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: model.OptionLabel(req.CorrectOption),
		Weight:        req.Weight,
		Objective:     req.Objective,
		Skill:         req.Skill,
		Difficulty:    model.Difficulty(req.Difficulty),
		CreatorID:     creatorID,
	}
	if q.Weight == 0 {
		q.Weight = 1
	}

	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Update edits an existing question. Absent fields keep their stored value.
// Only the creator may edit it.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req model.UpdateQuestionRequest, requesterID uuid.UUID) (*model.Question, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.CreatorID != requesterID {
		return nil, ErrNotOwner
	}

	if req.QuestionText != "" {
		q.QuestionText = req.QuestionText
	}
	if req.OptionA != "" {
		q.OptionA = req.OptionA
	}
	if req.OptionB != "" {
		q.OptionB = req.OptionB
	}
	if req.OptionC != "" {
		q.OptionC = req.OptionC
	}
	if req.OptionD != "" {
		q.OptionD = req.OptionD
	}
	if req.CorrectOption != "" {
		q.CorrectOption = model.OptionLabel(req.CorrectOption)
	}
	if req.Weight != nil {
		q.Weight = *req.Weight
	}
	if req.Objective != "" {
		q.Objective = req.Objective
	}
	if req.Skill != "" {
		q.Skill = req.Skill
	}
	if req.Difficulty != "" {
		q.Difficulty = model.Difficulty(req.Difficulty)
	}

	if err := s.questionRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Delete removes a question owned by the requester.
func (s *QuestionService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	q, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if q.CreatorID != requesterID {
		return ErrNotOwner
	}
	return s.questionRepo.Delete(ctx, id)
}
