package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/gemini"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/rs/zerolog"
)

// AI assistant errors.
var (
	ErrAIUnavailable     = errors.New("AI assistant is not configured")
	ErrAIInvalidResponse = errors.New("AI assistant returned an unparseable response")
)

// TextGenerator produces free-form text from a prompt.
type TextGenerator interface {
	IsAvailable() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIService builds pedagogical prompts and parses the model's answers.
type AIService struct {
	client TextGenerator
	log    zerolog.Logger
}

// NewAIService creates a new AIService.
func NewAIService(client TextGenerator, log zerolog.Logger) *AIService {
	return &AIService{
		client: client,
		log:    log.With().Str("component", "ai_service").Logger(),
	}
}

// GenerateQuestion asks the assistant for a new multiple-choice question
// draft aligned with a learning objective.
func (s *AIService) GenerateQuestion(ctx context.Context, req model.GenerateQuestionRequest) (*model.DraftQuestion, error) {
	if !s.client.IsAvailable() {
		return nil, ErrAIUnavailable
	}

	questionType := req.QuestionType
	if questionType == "" {
		questionType = "Opción Múltiple"
	}

	prompt := fmt.Sprintf(`Rol: Eres un experto pedagógico y un asistente para la creación de evaluaciones escolares en Chile.
Tarea: Genera una pregunta de evaluación de tipo "%s" para estudiantes de educación básica/media.

Instrucciones Clave:
1. **Objetivo de Aprendizaje (OA):** La pregunta debe medir directamente el siguiente OA: "%s".
2. **Dificultad:** El nivel de dificultad debe ser "%s".
3. **Contexto:** La pregunta debe estar ambientada en el siguiente contexto: "%s".
4. **Formato de Respuesta:** La respuesta DEBE ser un objeto JSON válido, sin ningún texto o formato adicional. La estructura del JSON debe ser la siguiente:
   {
     "question_text": "El texto completo de la pregunta...",
     "option_a": "Texto de la alternativa A",
     "option_b": "Texto de la alternativa B",
     "option_c": "Texto de la alternativa C",
     "option_d": "Texto de la alternativa D",
     "correct_option": "A"
   }
   El campo correct_option debe ser "A", "B", "C" o "D".
5. **Calidad Pedagógica:**
   - La pregunta debe ser clara, concisa y bien redactada.
   - La respuesta correcta debe ser inequívocamente la mejor opción.
   - Los distractores deben ser plausibles y basarse en errores conceptuales comunes de los estudiantes.

Genera la pregunta ahora.`,
		questionType, req.Objective, req.Difficulty, req.Context)

	raw, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}

	var draft model.DraftQuestion
	if err := s.parseJSON(raw, &draft); err != nil {
		return nil, err
	}
	if draft.QuestionText == "" || !validOptionLabel(draft.CorrectOption) {
		s.log.Warn().Str("raw", raw).Msg("Generated question failed shape check")
		return nil, ErrAIInvalidResponse
	}
	return &draft, nil
}

// AnalyzeQuestion asks the assistant to review an existing question and
// returns its analysis as Markdown text.
func (s *AIService) AnalyzeQuestion(ctx context.Context, req model.AnalyzeQuestionRequest) (string, error) {
	if !s.client.IsAvailable() {
		return "", ErrAIUnavailable
	}

	objective := req.Objective
	if objective == "" {
		objective = "No especificado"
	}

	prompt := fmt.Sprintf(`Rol: Eres un experto en psicometría y pedagogía, especializado en la evaluación de ítems educativos.
Tarea: Analiza la siguiente pregunta de opción múltiple y proporciona retroalimentación constructiva.

Pregunta a Analizar:
- **Texto de la Pregunta:** "%s"
- **Alternativa A:** "%s"
- **Alternativa B:** "%s"
- **Alternativa C:** "%s"
- **Alternativa D:** "%s"
- **Objetivo de Aprendizaje (si se proporciona):** "%s"

Instrucciones de Análisis:
1. **Claridad y Redacción:** Evalúa si la pregunta está formulada de manera clara y sin ambigüedades.
2. **Calidad de los Distractores:** Analiza si las opciones incorrectas son plausibles y si representan errores comunes.
3. **Alineación con el OA:** Si se proporcionó un OA, evalúa qué tan bien la pregunta mide ese objetivo.
4. **Sugerencia de Mejora:** Ofrece una sugerencia concreta para mejorar la pregunta, si es posible.
5. **Clasificación (Taxonomía de Bloom):** Clasifica la pregunta en uno de los niveles de la Taxonomía de Bloom y justifica brevemente tu clasificación.

Formato de Respuesta: Proporciona la respuesta como un texto plano, bien estructurado con títulos para cada sección del análisis.`,
		req.Question.QuestionText,
		req.Question.OptionA, req.Question.OptionB, req.Question.OptionC, req.Question.OptionD,
		objective)

	analysis, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("analyze question: %w", err)
	}
	return strings.TrimSpace(analysis), nil
}

// GenerateRubric asks the assistant for an evaluation rubric in Markdown.
func (s *AIService) GenerateRubric(ctx context.Context, req model.GenerateRubricRequest) (string, error) {
	if !s.client.IsAvailable() {
		return "", ErrAIUnavailable
	}

	prompt := fmt.Sprintf(`Rol: Eres un experto en evaluación pedagógica.
Tarea: Crea una rúbrica de evaluación detallada para una tarea o pregunta de desarrollo.

Información Proporcionada por el Docente:
- **Descripción de la Tarea a Evaluar:** "%s"
- **Criterios de Evaluación (separados por comas):** "%s"
- **Niveles de Logro (separados por comas):** "%s"

Instrucciones para la Rúbrica:
1. **Estructura:** La rúbrica debe ser una tabla o una lista bien estructurada.
2. **Contenido:** Para cada criterio de evaluación, describe en detalle qué se espera del estudiante para cada uno de los niveles de logro definidos.
3. **Lenguaje:** Utiliza un lenguaje claro, preciso y orientado a la acción.

Formato de Respuesta: Proporciona la respuesta como un texto plano utilizando formato Markdown para crear una tabla o una lista clara y legible.

Genera la rúbrica ahora.`,
		req.Description, req.Criteria, req.Levels)

	rubric, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate rubric: %w", err)
	}
	return strings.TrimSpace(rubric), nil
}

// AdaptQuestion asks the assistant to rewrite a question for a student with
// special educational needs.
func (s *AIService) AdaptQuestion(ctx context.Context, req model.AdaptQuestionRequest) (*model.AdaptedQuestion, error) {
	if !s.client.IsAvailable() {
		return nil, ErrAIUnavailable
	}

	prompt := fmt.Sprintf(`Rol: Eres un experto en educación diferencial y diseño universal de aprendizaje (DUA).
Tarea: Adapta la siguiente pregunta de evaluación para que sea más accesible para un estudiante con una necesidad específica.

Pregunta Original:
- **Texto:** "%s"
- **Opciones:**
  A) %s
  B) %s
  C) %s
  D) %s

Necesidad Específica del Estudiante:
- **Adaptación Requerida:** "%s"

Instrucciones de Adaptación:
1. **Reescribir la Pregunta:** Modifica el enunciado y/o las alternativas para cumplir con la adaptación solicitada.
2. **Mantener el Objetivo:** La pregunta adaptada debe seguir evaluando el mismo objetivo de aprendizaje que la original.
3. **Justificación:** Explica brevemente por qué los cambios realizados ayudan al estudiante con la necesidad descrita.

Ejemplos de Adaptación:
- Para DEA: "Simplifica el lenguaje, usa frases más cortas y destaca las palabras clave."
- Para TDAH: "Divide el problema en pasos más pequeños y numerados."
- Para Espectro Autista: "Usa lenguaje literal, evita dobles sentidos y proporciona un contexto social explícito si es necesario."

Formato de Respuesta: Devuelve un objeto JSON válido con la siguiente estructura, sin texto adicional:
{
  "adapted_question": {
    "question_text": "El nuevo texto de la pregunta adaptada...",
    "option_a": "Texto de la alternativa A adaptada",
    "option_b": "Texto de la alternativa B adaptada",
    "option_c": "Texto de la alternativa C adaptada",
    "option_d": "Texto de la alternativa D adaptada"
  },
  "justification": "La breve explicación de los cambios realizados..."
}`,
		req.Question.QuestionText,
		req.Question.OptionA, req.Question.OptionB, req.Question.OptionC, req.Question.OptionD,
		req.AdaptationType)

	raw, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("adapt question: %w", err)
	}

	var adapted model.AdaptedQuestion
	if err := s.parseJSON(raw, &adapted); err != nil {
		return nil, err
	}
	if adapted.AdaptedQuestion.QuestionText == "" {
		s.log.Warn().Str("raw", raw).Msg("Adapted question failed shape check")
		return nil, ErrAIInvalidResponse
	}
	return &adapted, nil
}

// parseJSON strips Markdown code fences the model tends to wrap JSON in,
// then unmarshals into dest.
func (s *AIService) parseJSON(raw string, dest interface{}) error {
	cleaned := gemini.StripCodeFences(raw)
	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		s.log.Warn().Err(err).Str("raw", raw).Msg("AI response is not valid JSON")
		return ErrAIInvalidResponse
	}
	return nil
}

func validOptionLabel(label string) bool {
	switch label {
	case "A", "B", "C", "D":
		return true
	}
	return false
}
