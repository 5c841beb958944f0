package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeQuestionBank struct {
	questions map[uuid.UUID]*model.Question

	lastLimit  int
	lastOffset int
	lastFilter model.QuestionFilter
}

func newFakeQuestionBank() *fakeQuestionBank {
	return &fakeQuestionBank{questions: make(map[uuid.UUID]*model.Question)}
}

func (f *fakeQuestionBank) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *q
	return &copied, nil
}

func (f *fakeQuestionBank) List(_ context.Context, filter model.QuestionFilter, limit, offset int) ([]model.Question, int, error) {
	f.lastFilter = filter
	f.lastLimit = limit
	f.lastOffset = offset
	return nil, 0, nil
}

func (f *fakeQuestionBank) Create(_ context.Context, q *model.Question) error {
	q.ID = uuid.New()
	copied := *q
	f.questions[q.ID] = &copied
	return nil
}

func (f *fakeQuestionBank) Update(_ context.Context, q *model.Question) error {
	if _, ok := f.questions[q.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *q
	f.questions[q.ID] = &copied
	return nil
}

func (f *fakeQuestionBank) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.questions, id)
	return nil
}

func seedQuestion(t *testing.T, svc *QuestionService, creatorID uuid.UUID) *model.Question {
	t.Helper()
	q, err := svc.Create(context.Background(), model.CreateQuestionRequest{
		QuestionText:  "¿Cuánto es 2+3?",
		OptionA:       "5",
		OptionB:       "6",
		OptionC:       "4",
		OptionD:       "23",
		CorrectOption: "A",
		Objective:     "Resolver adiciones",
	}, creatorID)
	if err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return q
}

func TestListClampsPagination(t *testing.T) {
	bank := newFakeQuestionBank()
	svc := NewQuestionService(bank)

	questions, pagination, err := svc.List(context.Background(), model.QuestionFilter{}, -3, 500)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if questions == nil {
		t.Fatal("empty result should be a non-nil slice")
	}
	if bank.lastLimit != 100 || bank.lastOffset != 0 {
		t.Fatalf("limit/offset = %d/%d, want 100/0", bank.lastLimit, bank.lastOffset)
	}
	if pagination.Page != 1 || pagination.PerPage != 100 {
		t.Fatalf("pagination not clamped: %+v", pagination)
	}
}

func TestListForwardsFilter(t *testing.T) {
	bank := newFakeQuestionBank()
	svc := NewQuestionService(bank)

	filter := model.QuestionFilter{Objective: "OA1", Difficulty: "Fácil", Search: "suma"}
	if _, _, err := svc.List(context.Background(), filter, 2, 25); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if bank.lastFilter != filter {
		t.Fatalf("filter not forwarded: %+v", bank.lastFilter)
	}
	if bank.lastOffset != 25 {
		t.Fatalf("offset = %d, want 25", bank.lastOffset)
	}
}

func TestCreateDefaultsWeight(t *testing.T) {
	bank := newFakeQuestionBank()
	svc := NewQuestionService(bank)

	q := seedQuestion(t, svc, uuid.New())
	if q.Weight != 1 {
		t.Fatalf("weight = %d, want default 1", q.Weight)
	}
}

func TestGetMapsMissingRow(t *testing.T) {
	svc := NewQuestionService(newFakeQuestionBank())

	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	bank := newFakeQuestionBank()
	svc := NewQuestionService(bank)
	creator := uuid.New()

	q := seedQuestion(t, svc, creator)

	weight := 5
	updated, err := svc.Update(context.Background(), q.ID, model.UpdateQuestionRequest{
		QuestionText: "¿Cuánto es 3+2?",
		Weight:       &weight,
	}, creator)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.QuestionText != "¿Cuánto es 3+2?" || updated.Weight != 5 {
		t.Fatalf("updated fields lost: %+v", updated)
	}
	if updated.OptionA != "5" || updated.CorrectOption != model.OptionA {
		t.Fatalf("absent fields overwritten: %+v", updated)
	}
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	bank := newFakeQuestionBank()
	svc := NewQuestionService(bank)

	q := seedQuestion(t, svc, uuid.New())

	_, err := svc.Update(context.Background(), q.ID, model.UpdateQuestionRequest{QuestionText: "x"}, uuid.New())
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestDeleteRejectsNonOwner(t *testing.T) {
	bank := newFakeQuestionBank()
	svc := NewQuestionService(bank)
	creator := uuid.New()

	q := seedQuestion(t, svc, creator)

	if err := svc.Delete(context.Background(), q.ID, uuid.New()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Delete(context.Background(), q.ID, creator); err != nil {
		t.Fatalf("creator delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), q.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatal("question still present after delete")
	}
}
