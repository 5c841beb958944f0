package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/google"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ────────────────────────────────────────────────────────────────────────────
// Fakes
// ────────────────────────────────────────────────────────────────────────────

type fakeQuestionRepo struct {
	questions map[uuid.UUID]model.Question
	findCalls int
}

func (f *fakeQuestionRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Question, error) {
	f.findCalls++
	var out []model.Question
	for _, id := range ids {
		if q, ok := f.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeAssessmentStore struct {
	inserted    []*model.Assessment
	insertCalls int
	insertErr   error

	byID map[uuid.UUID]*model.Assessment
}

func newFakeAssessmentStore() *fakeAssessmentStore {
	return &fakeAssessmentStore{byID: make(map[uuid.UUID]*model.Assessment)}
}

func (f *fakeAssessmentStore) Insert(_ context.Context, a *model.Assessment) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	a.ID = uuid.New()
	f.inserted = append(f.inserted, a)
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAssessmentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Assessment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return a, nil
}

func (f *fakeAssessmentStore) ListByCreator(_ context.Context, creatorID uuid.UUID, limit, offset int) ([]model.Assessment, int, error) {
	var out []model.Assessment
	for _, a := range f.inserted {
		if a.CreatorID == creatorID {
			out = append(out, *a)
		}
	}
	return out, len(out), nil
}

func (f *fakeAssessmentStore) UpdateInfo(_ context.Context, id uuid.UUID, name, objective string) error {
	a, ok := f.byID[id]
	if !ok {
		return errors.New("no rows")
	}
	a.Name = name
	a.Objective = objective
	return nil
}

func (f *fakeAssessmentStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

type fakeDocsAPI struct {
	createCalls int
	batchCalls  int
	createErr   error
	batchErr    error
	batches     map[string][]google.DocRequest
	nextID      int
}

func newFakeDocsAPI() *fakeDocsAPI {
	return &fakeDocsAPI{batches: make(map[string][]google.DocRequest)}
}

func (f *fakeDocsAPI) CreateDocument(_ context.Context, title string) (string, error) {
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	return fmt.Sprintf("doc-%d", f.nextID), nil
}

func (f *fakeDocsAPI) BatchUpdate(_ context.Context, documentID string, requests []google.DocRequest) error {
	f.batchCalls++
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batches[documentID] = requests
	return nil
}

type fakeFormsAPI struct {
	createCalls   int
	batchCalls    int
	failOnCreateN int // fail the Nth create call (1-based); 0 disables
	batches       map[string][]google.FormRequest
	nextID        int
}

func newFakeFormsAPI() *fakeFormsAPI {
	return &fakeFormsAPI{batches: make(map[string][]google.FormRequest)}
}

func (f *fakeFormsAPI) CreateForm(_ context.Context, title string) (string, error) {
	f.createCalls++
	if f.failOnCreateN != 0 && f.createCalls == f.failOnCreateN {
		return "", errors.New("forms api status 500")
	}
	f.nextID++
	return fmt.Sprintf("form-%d", f.nextID), nil
}

func (f *fakeFormsAPI) BatchUpdate(_ context.Context, formID string, requests []google.FormRequest) error {
	f.batchCalls++
	f.batches[formID] = requests
	return nil
}

type fakeGoogleFactory struct {
	docs  *fakeDocsAPI
	forms *fakeFormsAPI
}

func (f *fakeGoogleFactory) ClientsFor(_ context.Context, _ *model.GoogleTokens) (DocsAPI, FormsAPI) {
	return f.docs, f.forms
}

// ────────────────────────────────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────────────────────────────────

type harness struct {
	svc       *AssessmentService
	questions *fakeQuestionRepo
	store     *fakeAssessmentStore
	docs      *fakeDocsAPI
	forms     *fakeFormsAPI
	creator   *model.User
	ids       []uuid.UUID
}

func newHarness(t *testing.T, questionCount int, strict bool) *harness {
	t.Helper()

	questions := &fakeQuestionRepo{questions: make(map[uuid.UUID]model.Question)}
	var ids []uuid.UUID
	for i := 0; i < questionCount; i++ {
		q := model.Question{
			ID:            uuid.New(),
			QuestionText:  fmt.Sprintf("Pregunta %d", i+1),
			OptionA:       fmt.Sprintf("q%d opción a", i+1),
			OptionB:       fmt.Sprintf("q%d opción b", i+1),
			OptionC:       fmt.Sprintf("q%d opción c", i+1),
			OptionD:       fmt.Sprintf("q%d opción d", i+1),
			CorrectOption: model.OptionC,
			Weight:        2,
		}
		questions.questions[q.ID] = q
		ids = append(ids, q.ID)
	}

	store := newFakeAssessmentStore()
	docs := newFakeDocsAPI()
	forms := newFakeFormsAPI()

	svc := NewAssessmentService(
		questions,
		store,
		&fakeGoogleFactory{docs: docs, forms: forms},
		func() *rand.Rand { return rand.New(rand.NewSource(42)) },
		strict,
		zerolog.Nop(),
	)

	creator := &model.User{
		ID:           uuid.New(),
		GoogleTokens: &model.GoogleTokens{AccessToken: "at", RefreshToken: "rt"},
	}

	return &harness{svc: svc, questions: questions, store: store, docs: docs, forms: forms, creator: creator, ids: ids}
}

func (h *harness) input(formCount int) CreateAssessmentInput {
	return CreateAssessmentInput{
		Name:        "Quiz 1",
		Objective:   "Test addition",
		QuestionIDs: h.ids,
		FormCount:   formCount,
		Creator:     h.creator,
	}
}

// applyDocBatch simulates the Docs backend: a left-to-right pass over the
// batch, each insertText spliced in at its fixed character offset.
func applyDocBatch(requests []google.DocRequest) string {
	body := ""
	for _, req := range requests {
		if req.InsertText == nil {
			continue
		}
		// Offset 1 is the start of the body.
		pos := req.InsertText.Location.Index - 1
		if pos < 0 {
			pos = 0
		}
		if pos > len(body) {
			pos = len(body)
		}
		body = body[:pos] + req.InsertText.Text + body[pos:]
	}
	return body
}

// ────────────────────────────────────────────────────────────────────────────
// Validation
// ────────────────────────────────────────────────────────────────────────────

func TestCreateValidatesBeforeAnyIO(t *testing.T) {
	h := newHarness(t, 2, true)

	in := h.input(1)
	in.Name = ""

	_, err := h.svc.Create(context.Background(), in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if h.questions.findCalls != 0 || h.docs.createCalls != 0 || h.forms.createCalls != 0 || h.store.insertCalls != 0 {
		t.Fatalf("collaborators were called on invalid input: find=%d docs=%d forms=%d insert=%d",
			h.questions.findCalls, h.docs.createCalls, h.forms.createCalls, h.store.insertCalls)
	}
}

func TestCreateRejectsEmptyObjectiveAndIDs(t *testing.T) {
	h := newHarness(t, 2, true)

	in := h.input(1)
	in.Objective = "   "
	if _, err := h.svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank objective: expected ErrInvalidInput, got %v", err)
	}

	in = h.input(1)
	in.QuestionIDs = nil
	if _, err := h.svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("no question IDs: expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateRejectsFormCountAboveAlphabet(t *testing.T) {
	h := newHarness(t, 2, true)

	in := h.input(27)
	if _, err := h.svc.Create(context.Background(), in); !errors.Is(err, ErrTooManyForms) {
		t.Fatalf("expected ErrTooManyForms, got %v", err)
	}
	if h.questions.findCalls != 0 {
		t.Fatal("question store queried despite invalid form count")
	}
}

func TestCreateRequiresLinkedGoogleAccount(t *testing.T) {
	h := newHarness(t, 2, true)

	in := h.input(1)
	in.Creator = &model.User{ID: uuid.New()} // no tokens

	if _, err := h.svc.Create(context.Background(), in); !errors.Is(err, ErrGoogleNotLinked) {
		t.Fatalf("expected ErrGoogleNotLinked, got %v", err)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Missing-question policy
// ────────────────────────────────────────────────────────────────────────────

func TestCreateStrictLookupFailsOnMissingID(t *testing.T) {
	h := newHarness(t, 2, true)

	in := h.input(1)
	in.QuestionIDs = append(in.QuestionIDs, uuid.New()) // not in the bank

	_, err := h.svc.Create(context.Background(), in)
	if !errors.Is(err, ErrQuestionsNotFound) {
		t.Fatalf("expected ErrQuestionsNotFound, got %v", err)
	}
	if h.docs.createCalls != 0 || h.store.insertCalls != 0 {
		t.Fatal("remote or persistence calls issued despite missing question")
	}
}

func TestCreateLenientLookupDropsMissingID(t *testing.T) {
	h := newHarness(t, 3, false)

	in := h.input(1)
	in.QuestionIDs = append(in.QuestionIDs, uuid.New())

	a, err := h.svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	batch := h.forms.batches["form-1"]
	if len(batch) != 3 {
		t.Fatalf("expected 3 quiz items after dropping missing ID, got %d", len(batch))
	}
	if len(a.Links) != 1 {
		t.Fatalf("expected one link, got %d", len(a.Links))
	}
}

// ────────────────────────────────────────────────────────────────────────────
// End-to-end workflow
// ────────────────────────────────────────────────────────────────────────────

func TestCreateTwoFormScenario(t *testing.T) {
	h := newHarness(t, 2, true)

	a, err := h.svc.Create(context.Background(), h.input(2))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(a.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(a.Links))
	}
	if a.Links[0].Label != "Forma A" || a.Links[1].Label != "Forma B" {
		t.Fatalf("unexpected labels: %q, %q", a.Links[0].Label, a.Links[1].Label)
	}
	if a.Links[0].DocURL == a.Links[1].DocURL || a.Links[0].FormURL == a.Links[1].FormURL {
		t.Fatal("links of different forms share an artifact URL")
	}
	if !strings.HasPrefix(a.Links[0].DocURL, "https://docs.google.com/document/d/") {
		t.Fatalf("unexpected doc URL %q", a.Links[0].DocURL)
	}
	if !strings.HasPrefix(a.Links[0].FormURL, "https://docs.google.com/forms/d/") {
		t.Fatalf("unexpected form URL %q", a.Links[0].FormURL)
	}

	if h.store.insertCalls != 1 || len(h.store.inserted) != 1 {
		t.Fatalf("expected exactly one persistence write, got %d", h.store.insertCalls)
	}
	if h.docs.createCalls != 2 || h.docs.batchCalls != 2 || h.forms.createCalls != 2 || h.forms.batchCalls != 2 {
		t.Fatalf("unexpected call counts: docs %d/%d forms %d/%d",
			h.docs.createCalls, h.docs.batchCalls, h.forms.createCalls, h.forms.batchCalls)
	}
	if h.store.inserted[0].CreatorID != h.creator.ID {
		t.Fatal("creator not recorded on the stored assessment")
	}
}

func TestCreateSingleFormUsesBareName(t *testing.T) {
	h := newHarness(t, 2, true)

	a, err := h.svc.Create(context.Background(), h.input(0)) // defaults to 1
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(a.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(a.Links))
	}
	if a.Links[0].Label != "Quiz 1" {
		t.Fatalf("single form should use the assessment name as label, got %q", a.Links[0].Label)
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Batch construction properties
// ────────────────────────────────────────────────────────────────────────────

func TestDocumentBatchComposesReadingOrder(t *testing.T) {
	h := newHarness(t, 3, true)

	if _, err := h.svc.Create(context.Background(), h.input(1)); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	batch := h.docs.batches["doc-1"]
	if len(batch) != 5 { // title + objective + 3 items
		t.Fatalf("expected 5 insert operations, got %d", len(batch))
	}
	for i, req := range batch {
		if req.InsertText == nil || req.InsertText.Location.Index != 1 {
			t.Fatalf("operation %d does not insert at offset 1: %+v", i, req)
		}
	}

	body := applyDocBatch(batch)
	lines := strings.Split(body, "\n")
	if lines[0] != "Quiz 1" {
		t.Fatalf("first line should be the title, got %q", lines[0])
	}
	if lines[1] != "Objetivo: Test addition" {
		t.Fatalf("second line should be the objective, got %q", lines[1])
	}

	// The numbered items must appear in ascending order in the final body.
	last := -1
	for n := 1; n <= 3; n++ {
		idx := strings.Index(body, fmt.Sprintf("%d. Pregunta", n))
		if idx == -1 {
			t.Fatalf("item %d missing from document body:\n%s", n, body)
		}
		if idx < last {
			t.Fatalf("item %d appears out of order:\n%s", n, body)
		}
		last = idx
	}
}

func TestQuizBatchUsesNaturalIndices(t *testing.T) {
	h := newHarness(t, 3, true)

	if _, err := h.svc.Create(context.Background(), h.input(1)); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	batch := h.forms.batches["form-1"]
	if len(batch) != 3 {
		t.Fatalf("expected 3 quiz items, got %d", len(batch))
	}

	stems := make(map[string]model.Question)
	for _, q := range h.questions.questions {
		stems[q.QuestionText] = q
	}

	for i, req := range batch {
		item := req.CreateItem
		if item == nil {
			t.Fatalf("request %d is not a createItem", i)
		}
		if item.Location.Index != i {
			t.Fatalf("item %d has location index %d", i, item.Location.Index)
		}

		question := item.Item.QuestionItem.Question
		if !question.Required {
			t.Fatalf("item %d is not marked required", i)
		}
		if question.ChoiceQuestion.Type != "RADIO" {
			t.Fatalf("item %d type = %q", i, question.ChoiceQuestion.Type)
		}
		if len(question.ChoiceQuestion.Options) != 4 {
			t.Fatalf("item %d has %d options", i, len(question.ChoiceQuestion.Options))
		}

		// Grading must point at the correct text wherever shuffling put it.
		stem := strings.SplitN(item.Item.Title, ". ", 2)[1]
		source, ok := stems[stem]
		if !ok {
			t.Fatalf("item %d title %q does not match any bank question", i, item.Item.Title)
		}
		answers := question.Grading.CorrectAnswers.Answers
		if len(answers) != 1 || answers[0].Value != source.CorrectText() {
			t.Fatalf("item %d grading %v, want %q", i, answers, source.CorrectText())
		}
		if question.Grading.PointValue != source.Weight {
			t.Fatalf("item %d point value %d, want %d", i, question.Grading.PointValue, source.Weight)
		}

		found := false
		for _, opt := range question.ChoiceQuestion.Options {
			if opt.Value == answers[0].Value {
				found = true
			}
		}
		if !found {
			t.Fatalf("item %d correct answer %q not among its options", i, answers[0].Value)
		}
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Failure semantics
// ────────────────────────────────────────────────────────────────────────────

func TestCreateAbortsWithoutPersistingOnMidRequestFailure(t *testing.T) {
	h := newHarness(t, 2, true)
	h.forms.failOnCreateN = 2 // second form's quiz create fails

	_, err := h.svc.Create(context.Background(), h.input(2))
	if err == nil {
		t.Fatal("expected error when form B materialization fails")
	}

	var mErr *MaterializeError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected MaterializeError, got %T: %v", err, err)
	}
	if mErr.Artifact != ArtifactQuiz || mErr.Stage != StageCreate || mErr.FormLabel != "Forma B" {
		t.Fatalf("error not tagged correctly: %+v", mErr)
	}

	if h.store.insertCalls != 0 {
		t.Fatalf("assessment persisted despite failure: %d insert calls", h.store.insertCalls)
	}
}

func TestCreateDocumentFailureIsTagged(t *testing.T) {
	h := newHarness(t, 2, true)
	h.docs.batchErr = errors.New("docs api status 403")

	_, err := h.svc.Create(context.Background(), h.input(1))

	var mErr *MaterializeError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected MaterializeError, got %v", err)
	}
	if mErr.Artifact != ArtifactDocument || mErr.Stage != StagePopulate {
		t.Fatalf("error not tagged correctly: %+v", mErr)
	}
	if h.store.insertCalls != 0 {
		t.Fatal("assessment persisted despite document failure")
	}
}

func TestCreateSurfacesPersistenceFailure(t *testing.T) {
	h := newHarness(t, 2, true)
	h.store.insertErr = errors.New("connection lost")

	_, err := h.svc.Create(context.Background(), h.input(1))
	if err == nil {
		t.Fatal("expected persistence error")
	}
	var mErr *MaterializeError
	if errors.As(err, &mErr) {
		t.Fatal("persistence failure must not be reported as a materialization failure")
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Ownership
// ────────────────────────────────────────────────────────────────────────────

func TestGetEnforcesCreatorOnlyAccess(t *testing.T) {
	h := newHarness(t, 2, true)

	a, err := h.svc.Create(context.Background(), h.input(1))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := h.svc.Get(context.Background(), a.ID, uuid.New()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for stranger, got %v", err)
	}
	if _, err := h.svc.Get(context.Background(), a.ID, h.creator.ID); err != nil {
		t.Fatalf("creator should read own assessment: %v", err)
	}
}

func TestUpdateKeepsBlankFields(t *testing.T) {
	h := newHarness(t, 2, true)

	a, err := h.svc.Create(context.Background(), h.input(1))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := h.svc.Update(context.Background(), a.ID, h.creator.ID, "Nuevo nombre", "")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Nuevo nombre" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Objective != "Test addition" {
		t.Fatalf("blank objective overwrote stored value: %q", updated.Objective)
	}
}
