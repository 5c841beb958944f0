package model

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedLink records the two artifacts produced for one form of an
// assessment. Immutable once written; only replaced wholesale when the
// parent assessment is regenerated.
type GeneratedLink struct {
	Label   string `json:"label"`    // e.g. "Forma A"
	DocURL  string `json:"doc_url"`  // Google Docs viewer link
	FormURL string `json:"form_url"` // Google Forms viewer link
}

// Assessment is a persisted multi-form assessment. Links hold one entry per
// successfully materialized form; partial generations are never saved.
type Assessment struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Objective string          `json:"objective"`
	CreatorID uuid.UUID       `json:"creator_id"`
	Links     []GeneratedLink `json:"links"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateAssessmentRequest is the payload for generating a new assessment.
// FormCount defaults to 1 when omitted; values above 26 are rejected because
// form labels are drawn from a single letter sequence.
type CreateAssessmentRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=255"`
	Objective   string   `json:"objective" binding:"required,min=1,max=1000"`
	QuestionIDs []string `json:"question_ids" binding:"required,min=1,dive,uuid"`
	FormCount   int      `json:"form_count" binding:"omitempty,min=1,max=26"`
}

// UpdateAssessmentRequest renames or re-describes an existing assessment.
// Generated links are not editable.
type UpdateAssessmentRequest struct {
	Name      string `json:"name" binding:"omitempty,min=1,max=255"`
	Objective string `json:"objective" binding:"omitempty,min=1,max=1000"`
}
