package model

// DraftQuestion is an AI-produced question that has not been saved to the
// bank yet. Field names mirror Question so the frontend can hand it straight
// back to POST /questions after review.
type DraftQuestion struct {
	QuestionText  string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption string `json:"correct_option"`
}

// GenerateQuestionRequest asks the AI assistant for a new question draft.
type GenerateQuestionRequest struct {
	Objective    string `json:"objective" binding:"required,min=1,max=500"`
	Difficulty   string `json:"difficulty" binding:"required,oneof=Fácil Intermedio Adecuado Desafiante"`
	Context      string `json:"context" binding:"required,min=1,max=1000"`
	QuestionType string `json:"question_type" binding:"omitempty,max=100"`
}

// AnalyzeQuestionRequest asks the AI assistant to review an existing
// question. The analysis comes back as structured Markdown text.
type AnalyzeQuestionRequest struct {
	Question  DraftQuestion `json:"question" binding:"required"`
	Objective string        `json:"objective" binding:"omitempty,max=500"`
}

// GenerateRubricRequest asks the AI assistant for an evaluation rubric.
type GenerateRubricRequest struct {
	Description string `json:"description" binding:"required,min=1,max=2000"`
	Criteria    string `json:"criteria" binding:"required,min=1,max=1000"`
	Levels      string `json:"levels" binding:"required,min=1,max=500"`
}

// AdaptQuestionRequest asks for an accessibility adaptation of a question
// for a student with special educational needs.
type AdaptQuestionRequest struct {
	Question       DraftQuestion `json:"question" binding:"required"`
	AdaptationType string        `json:"adaptation_type" binding:"required,min=1,max=300"`
}

// AdaptedQuestion is the assistant's accessibility rewrite plus rationale.
type AdaptedQuestion struct {
	AdaptedQuestion DraftQuestion `json:"adapted_question"`
	Justification   string        `json:"justification"`
}
