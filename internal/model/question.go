package model

import (
	"time"

	"github.com/google/uuid"
)

// OptionLabel identifies one of the four fixed answer slots of a question.
type OptionLabel string

const (
	OptionA OptionLabel = "A"
	OptionB OptionLabel = "B"
	OptionC OptionLabel = "C"
	OptionD OptionLabel = "D"
)

// Difficulty levels follow the pedagogical scale used by the question bank.
type Difficulty string

const (
	DifficultyEasy        Difficulty = "Fácil"
	DifficultyMedium      Difficulty = "Intermedio"
	DifficultyAdequate    Difficulty = "Adecuado"
	DifficultyChallenging Difficulty = "Desafiante"
)

// Question is a multiple-choice question from the bank. The four options are
// stored in fixed authoring order; display order is randomized per generated
// form, never here.
type Question struct {
	ID            uuid.UUID   `json:"id"`
	QuestionText  string      `json:"question_text"`
	OptionA       string      `json:"option_a"`
	OptionB       string      `json:"option_b"`
	OptionC       string      `json:"option_c"`
	OptionD       string      `json:"option_d"`
	CorrectOption OptionLabel `json:"correct_option"`
	Weight        int         `json:"weight"`
	Objective     string      `json:"objective"`
	Skill         string      `json:"skill,omitempty"`
	Difficulty    Difficulty  `json:"difficulty"`
	CreatorID     uuid.UUID   `json:"creator_id"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Options returns the four option texts in authoring order (A, B, C, D).
func (q *Question) Options() [4]string {
	return [4]string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
}

// CorrectText returns the text of the correct option.
func (q *Question) CorrectText() string {
	switch q.CorrectOption {
	case OptionA:
		return q.OptionA
	case OptionB:
		return q.OptionB
	case OptionC:
		return q.OptionC
	default:
		return q.OptionD
	}
}

// CreateQuestionRequest is the payload for adding a question to the bank.
type CreateQuestionRequest struct {
	QuestionText  string `json:"question_text" binding:"required,min=1,max=2000"`
	OptionA       string `json:"option_a" binding:"required,min=1,max=1000"`
	OptionB       string `json:"option_b" binding:"required,min=1,max=1000"`
	OptionC       string `json:"option_c" binding:"required,min=1,max=1000"`
	OptionD       string `json:"option_d" binding:"required,min=1,max=1000"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=A B C D"`
	Weight        int    `json:"weight" binding:"omitempty,min=1,max=100"`
	Objective     string `json:"objective" binding:"required,min=1,max=500"`
	Skill         string `json:"skill" binding:"omitempty,max=200"`
	Difficulty    string `json:"difficulty" binding:"omitempty,oneof=Fácil Intermedio Adecuado Desafiante"`
}

// UpdateQuestionRequest is the payload for editing an existing question.
// All fields are optional; absent fields keep their stored value.
type UpdateQuestionRequest struct {
	QuestionText  string `json:"question_text" binding:"omitempty,min=1,max=2000"`
	OptionA       string `json:"option_a" binding:"omitempty,min=1,max=1000"`
	OptionB       string `json:"option_b" binding:"omitempty,min=1,max=1000"`
	OptionC       string `json:"option_c" binding:"omitempty,min=1,max=1000"`
	OptionD       string `json:"option_d" binding:"omitempty,min=1,max=1000"`
	CorrectOption string `json:"correct_option" binding:"omitempty,oneof=A B C D"`
	Weight        *int   `json:"weight" binding:"omitempty,min=1,max=100"`
	Objective     string `json:"objective" binding:"omitempty,min=1,max=500"`
	Skill         string `json:"skill" binding:"omitempty,max=200"`
	Difficulty    string `json:"difficulty" binding:"omitempty,oneof=Fácil Intermedio Adecuado Desafiante"`
}

// QuestionFilter narrows question bank listings.
type QuestionFilter struct {
	Objective  string
	Skill      string
	Difficulty string
	Search     string // Case-insensitive match on the question text.
}
