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
	docsAPIBase  = "https://docs.googleapis.com/v1"
	docViewerFmt = "https://docs.google.com/document/d/%s/edit"
)

// DocsClient is a thin client for the Google Docs REST API: create a
// document, then apply one batch of edits. Nothing else is needed here.
type DocsClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewDocsClient wraps an authorized HTTP client (see ClientFor).
func NewDocsClient(httpClient *http.Client) *DocsClient {
	return &DocsClient{httpClient: httpClient, baseURL: docsAPIBase}
}

// DocLocation is an absolute text offset inside the document body.
// Offset 1 is the start of the body; offset 0 belongs to the section break.
type DocLocation struct {
	Index int `json:"index"`
}

// InsertTextRequest inserts text at a fixed offset.
type InsertTextRequest struct {
	Location DocLocation `json:"location"`
	Text     string      `json:"text"`
}

// DocRequest is one entry of a batchUpdate request body.
type DocRequest struct {
	InsertText *InsertTextRequest `json:"insertText,omitempty"`
}

// CreateDocument creates an empty document with the given title and returns
// its identifier.
func (c *DocsClient) CreateDocument(ctx context.Context, title string) (string, error) {
	payload := map[string]string{"title": title}

	var result struct {
		DocumentID string `json:"documentId"`
	}
	if err := c.post(ctx, c.baseURL+"/documents", payload, &result); err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	if result.DocumentID == "" {
		return "", fmt.Errorf("create document: response carried no documentId")
	}
	return result.DocumentID, nil
}

// BatchUpdate applies the given edits to a document as one transaction.
func (c *DocsClient) BatchUpdate(ctx context.Context, documentID string, requests []DocRequest) error {
	payload := map[string]interface{}{"requests": requests}
	url := fmt.Sprintf("%s/documents/%s:batchUpdate", c.baseURL, documentID)
	if err := c.post(ctx, url, payload, nil); err != nil {
		return fmt.Errorf("batch update document: %w", err)
	}
	return nil
}

// DocumentURL returns the editor link for a document.
func DocumentURL(documentID string) string {
	return fmt.Sprintf(docViewerFmt, documentID)
}

func (c *DocsClient) post(ctx context.Context, url string, payload, result interface{}) error {
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
		return fmt.Errorf("docs api status %d: %s", resp.StatusCode, truncate(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode docs response: %w", err)
		}
	}
	return nil
}

// truncate keeps upstream error bodies loggable without dumping pages of
// provider HTML into logs.
func truncate(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
