package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	formsAPIBase  = "https://forms.googleapis.com/v1"
	formViewerFmt = "https://docs.google.com/forms/d/%s/edit"
)

// FormsClient is a thin client for the Google Forms REST API, covering the
// create + batchUpdate pair used to materialize a quiz.
type FormsClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFormsClient wraps an authorized HTTP client (see ClientFor).
func NewFormsClient(httpClient *http.Client) *FormsClient {
	return &FormsClient{httpClient: httpClient, baseURL: formsAPIBase}
}

// ItemLocation is the zero-based position of an item within the form.
type ItemLocation struct {
	Index int `json:"index"`
}

// ChoiceOption is one selectable answer.
type ChoiceOption struct {
	Value string `json:"value"`
}

// ChoiceQuestion is a single-choice (RADIO) question body.
type ChoiceQuestion struct {
	Type    string         `json:"type"`
	Options []ChoiceOption `json:"options"`
}

// CorrectAnswer marks one option value as correct for grading.
type CorrectAnswer struct {
	Value string `json:"value"`
}

// Grading configures auto-grading for a question.
type Grading struct {
	PointValue     int `json:"pointValue"`
	CorrectAnswers struct {
		Answers []CorrectAnswer `json:"answers"`
	} `json:"correctAnswers"`
}

// FormQuestion is the question body of a form item.
type FormQuestion struct {
	Required       bool            `json:"required"`
	Grading        *Grading        `json:"grading,omitempty"`
	ChoiceQuestion *ChoiceQuestion `json:"choiceQuestion,omitempty"`
}

// QuestionItem wraps a question inside a form item.
type QuestionItem struct {
	Question FormQuestion `json:"question"`
}

// FormItem is one item of the form body.
type FormItem struct {
	Title        string        `json:"title"`
	QuestionItem *QuestionItem `json:"questionItem,omitempty"`
}

// CreateItemRequest inserts an item at an explicit index.
type CreateItemRequest struct {
	Item     FormItem     `json:"item"`
	Location ItemLocation `json:"location"`
}

// FormRequest is one entry of a batchUpdate request body.
type FormRequest struct {
	CreateItem *CreateItemRequest `json:"createItem,omitempty"`
}

// CreateForm creates an empty form with the given title and returns its
// identifier.
func (c *FormsClient) CreateForm(ctx context.Context, title string) (string, error) {
	payload := map[string]interface{}{
		"info": map[string]string{"title": title},
	}

	var result struct {
		FormID string `json:"formId"`
	}
	if err := c.post(ctx, c.baseURL+"/forms", payload, &result); err != nil {
		return "", fmt.Errorf("create form: %w", err)
	}
	if result.FormID == "" {
		return "", fmt.Errorf("create form: response carried no formId")
	}
	return result.FormID, nil
}

// BatchUpdate applies the given item insertions to a form as one transaction.
func (c *FormsClient) BatchUpdate(ctx context.Context, formID string, requests []FormRequest) error {
	payload := map[string]interface{}{"requests": requests}
	url := fmt.Sprintf("%s/forms/%s:batchUpdate", c.baseURL, formID)
	if err := c.post(ctx, url, payload, nil); err != nil {
		return fmt.Errorf("batch update form: %w", err)
	}
	return nil
}

// FormURL returns the editor link for a form.
func FormURL(formID string) string {
	return fmt.Sprintf(formViewerFmt, formID)
}

func (c *FormsClient) post(ctx context.Context, url string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("forms api status %d: %s", resp.StatusCode, truncate(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode forms response: %w", err)
		}
	}
	return nil
}
