package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/rs/zerolog"
)

type fakeGenerator struct {
	available bool
	reply     string
	err       error
	prompts   []string
}

func (f *fakeGenerator) IsAvailable() bool { return f.available }

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestGenerateQuestionUnavailableWithoutKey(t *testing.T) {
	gen := &fakeGenerator{available: false}
	svc := NewAIService(gen, zerolog.Nop())

	_, err := svc.GenerateQuestion(context.Background(), model.GenerateQuestionRequest{
		Objective: "OA1", Difficulty: "Fácil", Context: "supermercado",
	})
	if !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}
	if len(gen.prompts) != 0 {
		t.Fatal("generator was called despite being unavailable")
	}
}

func TestGenerateQuestionParsesFencedJSON(t *testing.T) {
	gen := &fakeGenerator{
		available: true,
		reply: "```json\n" + `{
			"question_text": "¿Cuánto es 2+3?",
			"option_a": "5",
			"option_b": "6",
			"option_c": "4",
			"option_d": "23",
			"correct_option": "A"
		}` + "\n```",
	}
	svc := NewAIService(gen, zerolog.Nop())

	draft, err := svc.GenerateQuestion(context.Background(), model.GenerateQuestionRequest{
		Objective: "Resolver adiciones", Difficulty: "Fácil", Context: "compras",
	})
	if err != nil {
		t.Fatalf("GenerateQuestion returned error: %v", err)
	}
	if draft.QuestionText != "¿Cuánto es 2+3?" || draft.CorrectOption != "A" {
		t.Fatalf("unexpected draft: %+v", draft)
	}

	prompt := gen.prompts[0]
	for _, want := range []string{"Resolver adiciones", "Fácil", "compras", "Opción Múltiple"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGenerateQuestionRejectsBadShape(t *testing.T) {
	gen := &fakeGenerator{available: true, reply: `{"question_text": "x", "correct_option": "E"}`}
	svc := NewAIService(gen, zerolog.Nop())

	_, err := svc.GenerateQuestion(context.Background(), model.GenerateQuestionRequest{
		Objective: "OA", Difficulty: "Fácil", Context: "c",
	})
	if !errors.Is(err, ErrAIInvalidResponse) {
		t.Fatalf("expected ErrAIInvalidResponse, got %v", err)
	}
}

func TestGenerateQuestionRejectsNonJSON(t *testing.T) {
	gen := &fakeGenerator{available: true, reply: "Lo siento, no puedo ayudar con eso."}
	svc := NewAIService(gen, zerolog.Nop())

	_, err := svc.GenerateQuestion(context.Background(), model.GenerateQuestionRequest{
		Objective: "OA", Difficulty: "Fácil", Context: "c",
	})
	if !errors.Is(err, ErrAIInvalidResponse) {
		t.Fatalf("expected ErrAIInvalidResponse, got %v", err)
	}
}

func TestAnalyzeQuestionReturnsTrimmedText(t *testing.T) {
	gen := &fakeGenerator{available: true, reply: "\n## Claridad\nLa pregunta es clara.\n"}
	svc := NewAIService(gen, zerolog.Nop())

	analysis, err := svc.AnalyzeQuestion(context.Background(), model.AnalyzeQuestionRequest{
		Question: model.DraftQuestion{
			QuestionText: "¿Cuánto es 2+3?",
			OptionA:      "5", OptionB: "6", OptionC: "4", OptionD: "23",
		},
	})
	if err != nil {
		t.Fatalf("AnalyzeQuestion returned error: %v", err)
	}
	if analysis != "## Claridad\nLa pregunta es clara." {
		t.Fatalf("unexpected analysis: %q", analysis)
	}
	if !strings.Contains(gen.prompts[0], "No especificado") {
		t.Fatal("missing objective should be rendered as 'No especificado'")
	}
}

func TestGenerateRubricPropagatesUpstreamError(t *testing.T) {
	gen := &fakeGenerator{available: true, err: errors.New("status 429")}
	svc := NewAIService(gen, zerolog.Nop())

	_, err := svc.GenerateRubric(context.Background(), model.GenerateRubricRequest{
		Description: "Ensayo", Criteria: "Coherencia, Ortografía", Levels: "Logrado, Por Lograr",
	})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}

func TestAdaptQuestionParsesNestedDraft(t *testing.T) {
	gen := &fakeGenerator{
		available: true,
		reply: `{
			"adapted_question": {
				"question_text": "Paso 1: suma 2 y 3.",
				"option_a": "5", "option_b": "6", "option_c": "4", "option_d": "23"
			},
			"justification": "Pasos numerados para TDAH."
		}`,
	}
	svc := NewAIService(gen, zerolog.Nop())

	adapted, err := svc.AdaptQuestion(context.Background(), model.AdaptQuestionRequest{
		Question: model.DraftQuestion{
			QuestionText: "¿Cuánto es 2+3?",
			OptionA:      "5", OptionB: "6", OptionC: "4", OptionD: "23",
		},
		AdaptationType: "TDAH",
	})
	if err != nil {
		t.Fatalf("AdaptQuestion returned error: %v", err)
	}
	if adapted.AdaptedQuestion.QuestionText != "Paso 1: suma 2 y 3." {
		t.Fatalf("unexpected adapted question: %+v", adapted)
	}
	if adapted.Justification == "" {
		t.Fatal("justification missing")
	}
	if !strings.Contains(gen.prompts[0], "TDAH") {
		t.Fatal("adaptation type missing from prompt")
	}
}
