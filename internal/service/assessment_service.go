package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/config"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/generator"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/google"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrInvalidInput      = errors.New("name, objective and question IDs are required")
	ErrTooManyForms      = errors.New("form count must be between 1 and 26")
	ErrQuestionsNotFound = errors.New("one or more requested questions do not exist")
	ErrGoogleNotLinked   = errors.New("creator has no linked Google account")
	ErrNotOwner          = errors.New("not the creator of this assessment")
)

// ArtifactKind identifies which remote artifact a materialization error
// belongs to.
type ArtifactKind string

const (
	ArtifactDocument ArtifactKind = "document"
	ArtifactQuiz     ArtifactKind = "quiz"
)

// MaterializeStage distinguishes a failure creating the empty artifact from
// a failure populating it. A created-but-unpopulated artifact is a real
// state worth telling apart in logs.
type MaterializeStage string

const (
	StageCreate   MaterializeStage = "create"
	StagePopulate MaterializeStage = "populate"
)

// MaterializeError wraps a remote failure with which artifact, which form
// and which stage of the create→populate sequence failed.
type MaterializeError struct {
	Artifact  ArtifactKind
	Stage     MaterializeStage
	FormLabel string
	Err       error
}

func (e *MaterializeError) Error() string {
	return fmt.Sprintf("materialize %s for %q (%s): %v", e.Artifact, e.FormLabel, e.Stage, e.Err)
}

func (e *MaterializeError) Unwrap() error { return e.Err }

// ────────────────────────────────────────────────────────────────────────────
// Collaborator contracts
// ────────────────────────────────────────────────────────────────────────────

// QuestionFinder loads questions by identifier list. Missing IDs are absent
// from the result rather than errors.
type QuestionFinder interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error)
}

// AssessmentStore persists assessment records.
type AssessmentStore interface {
	Insert(ctx context.Context, a *model.Assessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Assessment, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]model.Assessment, int, error)
	UpdateInfo(ctx context.Context, id uuid.UUID, name, objective string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocsAPI is the slice of the Google Docs API the orchestrator drives.
type DocsAPI interface {
	CreateDocument(ctx context.Context, title string) (string, error)
	BatchUpdate(ctx context.Context, documentID string, requests []google.DocRequest) error
}

// FormsAPI is the slice of the Google Forms API the orchestrator drives.
type FormsAPI interface {
	CreateForm(ctx context.Context, title string) (string, error)
	BatchUpdate(ctx context.Context, formID string, requests []google.FormRequest) error
}

// GoogleClientFactory mints per-teacher API clients from stored OAuth tokens.
type GoogleClientFactory interface {
	ClientsFor(ctx context.Context, tokens *model.GoogleTokens) (DocsAPI, FormsAPI)
}

// RandFactory returns a fresh random source per generation request, so
// concurrent requests never share one and tests can substitute a seeded one.
type RandFactory func() *rand.Rand

// DefaultRandFactory seeds from the wall clock.
func DefaultRandFactory() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// ────────────────────────────────────────────────────────────────────────────
// Service
// ────────────────────────────────────────────────────────────────────────────

// AssessmentService runs the assessment-generation workflow: load questions,
// build N randomized forms, materialize a document and a quiz per form, then
// persist the whole result in one write.
type AssessmentService struct {
	questionRepo   QuestionFinder
	assessmentRepo AssessmentStore
	googleClients  GoogleClientFactory
	newRand        RandFactory
	strictLookup   bool
	log            zerolog.Logger
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(
	questionRepo QuestionFinder,
	assessmentRepo AssessmentStore,
	googleClients GoogleClientFactory,
	newRand RandFactory,
	strictLookup bool,
	log zerolog.Logger,
) *AssessmentService {
	return &AssessmentService{
		questionRepo:   questionRepo,
		assessmentRepo: assessmentRepo,
		googleClients:  googleClients,
		newRand:        newRand,
		strictLookup:   strictLookup,
		log:            log.With().Str("component", "assessment_service").Logger(),
	}
}

// CreateAssessmentInput carries everything the generation workflow needs.
type CreateAssessmentInput struct {
	Name        string
	Objective   string
	QuestionIDs []uuid.UUID
	FormCount   int
	Creator     *model.User
}

// Create validates the input, generates FormCount randomized forms and
// materializes each into a Google Doc and a Google Form, then persists one
// assessment record. Nothing is persisted unless every form succeeds.
func (s *AssessmentService) Create(ctx context.Context, in CreateAssessmentInput) (*model.Assessment, error) {
	if in.FormCount == 0 {
		in.FormCount = 1
	}

	// All validation happens before any I/O.
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Objective) == "" || len(in.QuestionIDs) == 0 {
		return nil, ErrInvalidInput
	}
	if in.FormCount < 1 || in.FormCount > 26 {
		return nil, ErrTooManyForms
	}
	if in.Creator == nil || in.Creator.GoogleTokens == nil {
		return nil, ErrGoogleNotLinked
	}

	questions, err := s.questionRepo.FindByIDs(ctx, in.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrQuestionsNotFound
	}
	if s.strictLookup && len(questions) != uniqueCount(in.QuestionIDs) {
		return nil, ErrQuestionsNotFound
	}

	docsAPI, formsAPI := s.googleClients.ClientsFor(ctx, in.Creator.GoogleTokens)
	builder := generator.NewBuilder(s.newRand())

	links := make([]model.GeneratedLink, 0, in.FormCount)
	for i := 0; i < in.FormCount; i++ {
		// A single form keeps the bare assessment name; multiple forms
		// get lettered labels and titles.
		label := in.Name
		title := in.Name
		if in.FormCount > 1 {
			label = "Forma " + generator.LabelFor(i)
			title = in.Name + " - " + label
		}

		form := builder.Build(questions)

		docID, err := s.materializeDocument(ctx, docsAPI, form, title, in.Objective, label)
		if err != nil {
			return nil, err
		}
		quizID, err := s.materializeQuiz(ctx, formsAPI, form, title, label)
		if err != nil {
			return nil, err
		}

		links = append(links, model.GeneratedLink{
			Label:   label,
			DocURL:  google.DocumentURL(docID),
			FormURL: google.FormURL(quizID),
		})

		s.log.Debug().
			Str("label", label).
			Str("doc_id", docID).
			Str("quiz_id", quizID).
			Msg("Form materialized")
	}

	assessment := &model.Assessment{
		Name:      in.Name,
		Objective: in.Objective,
		CreatorID: in.Creator.ID,
		Links:     links,
	}

	if err := s.assessmentRepo.Insert(ctx, assessment); err != nil {
		// The remote artifacts already exist; they stay orphaned in the
		// teacher's Google account rather than being compensated away.
		s.log.Error().Err(err).
			Int("orphaned_forms", len(links)).
			Msg("Assessment insert failed after artifacts were created")
		return nil, fmt.Errorf("persist assessment: %w", err)
	}

	s.log.Info().
		Str("assessment_id", assessment.ID.String()).
		Int("forms", len(links)).
		Msg("Assessment created")
	return assessment, nil
}

// materializeDocument drives the document create→populate sequence for one
// form and returns the new document ID.
func (s *AssessmentService) materializeDocument(ctx context.Context, api DocsAPI, form generator.Form, title, objective, label string) (string, error) {
	docID, err := api.CreateDocument(ctx, title)
	if err != nil {
		return "", &MaterializeError{Artifact: ArtifactDocument, Stage: StageCreate, FormLabel: label, Err: err}
	}

	if err := api.BatchUpdate(ctx, docID, buildDocRequests(form, title, objective)); err != nil {
		return "", &MaterializeError{Artifact: ArtifactDocument, Stage: StagePopulate, FormLabel: label, Err: err}
	}
	return docID, nil
}

// materializeQuiz drives the form create→populate sequence for one form and
// returns the new form ID.
func (s *AssessmentService) materializeQuiz(ctx context.Context, api FormsAPI, form generator.Form, title, label string) (string, error) {
	quizID, err := api.CreateForm(ctx, title)
	if err != nil {
		return "", &MaterializeError{Artifact: ArtifactQuiz, Stage: StageCreate, FormLabel: label, Err: err}
	}

	if err := api.BatchUpdate(ctx, quizID, buildQuizRequests(form)); err != nil {
		return "", &MaterializeError{Artifact: ArtifactQuiz, Stage: StagePopulate, FormLabel: label, Err: err}
	}
	return quizID, nil
}

// buildDocRequests assembles the document batch. The Docs API inserts at a
// fixed text offset, so submitting content in forward order at index 1 would
// come out bottom-to-top. The batch is therefore built in reading order and
// reversed before submission: the last item is inserted first and every
// earlier insert pushes it down, composing the correct top-to-bottom layout.
// This quirk belongs to the Docs backend alone; the Forms API takes explicit
// indices and needs no reversal.
func buildDocRequests(form generator.Form, title, objective string) []google.DocRequest {
	requests := make([]google.DocRequest, 0, len(form.Items)+2)

	insert := func(text string) {
		requests = append(requests, google.DocRequest{
			InsertText: &google.InsertTextRequest{
				Location: google.DocLocation{Index: 1},
				Text:     text,
			},
		})
	}

	insert(title + "\n")
	insert("Objetivo: " + objective + "\n\n")
	for i, item := range form.Items {
		insert(fmt.Sprintf("%d. %s\n   A) %s\n   B) %s\n   C) %s\n   D) %s\n\n",
			i+1, item.Question.QuestionText,
			item.Options[0], item.Options[1], item.Options[2], item.Options[3]))
	}

	for l, r := 0, len(requests)-1; l < r; l, r = l+1, r-1 {
		requests[l], requests[r] = requests[r], requests[l]
	}
	return requests
}

// buildQuizRequests assembles the quiz batch: one required single-choice
// item per form item, inserted at its natural index, with grading pointing
// at whichever shuffled slot holds the correct text.
func buildQuizRequests(form generator.Form) []google.FormRequest {
	requests := make([]google.FormRequest, 0, len(form.Items))

	for i, item := range form.Items {
		options := make([]google.ChoiceOption, len(item.Options))
		for j, opt := range item.Options {
			options[j] = google.ChoiceOption{Value: opt}
		}

		grading := &google.Grading{PointValue: item.Question.Weight}
		grading.CorrectAnswers.Answers = []google.CorrectAnswer{
			{Value: item.Options[item.CorrectIndex]},
		}

		requests = append(requests, google.FormRequest{
			CreateItem: &google.CreateItemRequest{
				Item: google.FormItem{
					Title: fmt.Sprintf("%d. %s", i+1, item.Question.QuestionText),
					QuestionItem: &google.QuestionItem{
						Question: google.FormQuestion{
							Required: true,
							Grading:  grading,
							ChoiceQuestion: &google.ChoiceQuestion{
								Type:    "RADIO",
								Options: options,
							},
						},
					},
				},
				Location: google.ItemLocation{Index: i},
			},
		})
	}
	return requests
}

// ────────────────────────────────────────────────────────────────────────────
// Read/edit operations outside the generation workflow
// ────────────────────────────────────────────────────────────────────────────

// ListByCreator retrieves the creator's assessments with pagination.
func (s *AssessmentService) ListByCreator(ctx context.Context, creatorID uuid.UUID, page, perPage int) ([]model.Assessment, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return s.assessmentRepo.ListByCreator(ctx, creatorID, perPage, (page-1)*perPage)
}

// Get retrieves an assessment, enforcing creator-only visibility.
func (s *AssessmentService) Get(ctx context.Context, id, requesterID uuid.UUID) (*model.Assessment, error) {
	a, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.CreatorID != requesterID {
		return nil, ErrNotOwner
	}
	return a, nil
}

// Update renames or re-describes an assessment. Blank fields keep their
// stored value; generated links are never touched.
func (s *AssessmentService) Update(ctx context.Context, id, requesterID uuid.UUID, name, objective string) (*model.Assessment, error) {
	a, err := s.Get(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		a.Name = name
	}
	if objective != "" {
		a.Objective = objective
	}

	if err := s.assessmentRepo.UpdateInfo(ctx, id, a.Name, a.Objective); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an assessment record owned by the requester.
func (s *AssessmentService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	if _, err := s.Get(ctx, id, requesterID); err != nil {
		return err
	}
	return s.assessmentRepo.Delete(ctx, id)
}

func uniqueCount(ids []uuid.UUID) int {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// ────────────────────────────────────────────────────────────────────────────
// Google client factory (production wiring)
// ────────────────────────────────────────────────────────────────────────────

type googleClientFactory struct {
	conf    *config.Config
	timeout time.Duration
}

// NewGoogleClientFactory builds the production GoogleClientFactory from
// application config.
func NewGoogleClientFactory(cfg *config.Config) GoogleClientFactory {
	return &googleClientFactory{conf: cfg, timeout: cfg.RemoteCallTimeout}
}

func (f *googleClientFactory) ClientsFor(ctx context.Context, tokens *model.GoogleTokens) (DocsAPI, FormsAPI) {
	httpClient := google.ClientFor(ctx, google.NewOAuthConfig(f.conf), tokens, f.timeout)
	return google.NewDocsClient(httpClient), google.NewFormsClient(httpClient)
}
