package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"talentflow-api/internal/shared/metrics"
)

const (
	DefaultMistralBaseURL = "https://api.mistral.ai"
	DefaultOCRModel       = "mistral-ocr-latest"
)

var errMalformedOCR = errors.New("malformed OCR response")

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type ocrResponse struct {
	Pages *[]ocrPage `json:"pages"`
}

type ocrPage struct {
	Index    int     `json:"index"`
	Markdown *string `json:"markdown"`
}

// MistralOCR extracts PDF text through the Mistral OCR endpoint.
type MistralOCR struct {
	client *resty.Client
	model  string
}

// NewMistralOCR builds an OCR adapter. A zero timeout means 60s.
func NewMistralOCR(baseURL, apiKey, model string, timeout time.Duration) *MistralOCR {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultMistralBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultOCRModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &MistralOCR{client: client, model: model}
}

// ExtractPDF sends the document as a base64 data URL and joins page markdown with spaces.
func (m *MistralOCR) ExtractPDF(ctx context.Context, data []byte) (string, error) {
	body := ocrRequest{
		Model: m.model,
		Document: ocrDocument{
			Type:        "document_url",
			DocumentURL: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data),
		},
	}

	started := time.Now()
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/v1/ocr")
	metrics.ObserveModelCall("ocr", started)
	if err != nil {
		return "", fmt.Errorf("mistral ocr request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("mistral ocr status %d: %s", resp.StatusCode(), truncate(resp.String(), 300))
	}

	var parsed ocrResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", errMalformedOCR, err)
	}
	if parsed.Pages == nil {
		return "", fmt.Errorf("%w: missing pages", errMalformedOCR)
	}

	parts := make([]string, 0, len(*parsed.Pages))
	for _, p := range *parsed.Pages {
		md := ""
		if p.Markdown != nil {
			md = *p.Markdown
		}
		parts = append(parts, md)
	}
	return strings.Join(parts, " "), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
