// Package extract turns free-form listing text into a structured record by
// asking a generative model for schema-conformant JSON.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/propintel/internal/domain"
	"github.com/MrSnakeDoc/propintel/internal/utils"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
)

type Options struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Gemini calls the Google AI Studio generateContent endpoint.
type Gemini struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewGemini constructs a client with the provided API key.
func NewGemini(apiKey string, opts Options) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &Gemini{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		model:      strings.TrimPrefix(strings.TrimSpace(opts.Model), "models/"),
		httpClient: opts.HTTPClient,
	}, nil
}

// Extract sends the listing text with the extraction instructions and
// decodes the answer.
func (g *Gemini) Extract(ctx context.Context, text string) (domain.PropertyDetails, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: userPrompt(text)}},
		}},
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			Temperature:      0,
		},
	}

	var resp generateResponse
	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	if err := g.doJSON(ctx, url, reqBody, &resp); err != nil {
		return domain.PropertyDetails{}, fail("The extraction service request failed", err)
	}

	answer := resp.text()
	if answer == "" {
		reason := "empty response from gemini"
		if resp.PromptFeedback.BlockReason != "" {
			reason = "prompt blocked: " + resp.PromptFeedback.BlockReason
		}
		return domain.PropertyDetails{}, fail("The extraction service returned no result", fmt.Errorf("%s", reason))
	}

	rec, err := DecodeRecord(answer)
	if err != nil {
		return domain.PropertyDetails{}, fail("The extraction service returned an unusable result", err)
	}
	return rec, nil
}

// fail keeps the cause in Err only. Transport and API errors can carry
// request details that must not reach the user.
func fail(msg string, err error) *domain.ExtractionError {
	return &domain.ExtractionError{Message: msg + ".", Err: err}
}

func (g *Gemini) doJSON(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return fmt.Errorf("gemini api error: %s", errResp.Error.Message)
		}
		return fmt.Errorf("gemini api error: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	Temperature      float64 `json:"temperature"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// text concatenates the parts of the first candidate.
func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
