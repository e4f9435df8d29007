package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/models"
)

// HuggingFaceClient performs single, unretried calls against the Hugging Face
// Inference API. It keeps no state between calls.
type HuggingFaceClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHuggingFaceClient(cfg config.HuggingFaceConfig) *HuggingFaceClient {
	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.Duration("timeout", cfg.Timeout),
		slog.String("base_url", cfg.BaseURL))

	return &HuggingFaceClient{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Client:  NewBearerClient(cfg.APIKey, cfg.Timeout, nil),
	}
}

// Infer posts {"inputs": text} to BaseURL+model and returns the raw 200 body.
func (h *HuggingFaceClient) Infer(ctx context.Context, model, text string) (json.RawMessage, error) {
	if h.APIKey == "" {
		return nil, &models.ConfigurationError{Key: "HUGGING_FACE_API_KEY"}
	}

	endpoint := h.endpoint(model)
	body, err := json.Marshal(models.InferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to build request",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	start := time.Now()
	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Error("[HuggingFaceClient] Request failed",
			slog.String("model", model),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("model", model),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[HuggingFaceClient] Inference request rejected",
			slog.String("model", model),
			slog.Int("status", resp.StatusCode),
			slog.String("raw_response", getPreview(respBody)),
			slog.Duration("elapsed", time.Since(start)))
		return nil, &models.InferenceError{Status: resp.StatusCode, Body: string(respBody)}
	}

	slog.Info("[HuggingFaceClient] Inference request successful",
		slog.String("model", model),
		slog.Duration("elapsed", time.Since(start)))
	return respBody, nil
}

// ClassifyScores runs a text-classification model and returns its label scores.
func (h *HuggingFaceClient) ClassifyScores(ctx context.Context, model, text string) (models.ScoreList, error) {
	raw, err := h.Infer(ctx, model, text)
	if err != nil {
		return nil, err
	}
	if err := validate(scoreListValidator, raw); err != nil {
		return nil, malformed("sentiment analysis", raw, err)
	}

	// [[...]] carries one list per input; only one input is ever sent
	var nested []models.ScoreList
	if strings.HasPrefix(strings.TrimSpace(firstElement(raw)), "[") {
		if err := json.Unmarshal(raw, &nested); err != nil {
			return nil, malformed("sentiment analysis", raw, err)
		}
		return nested[0], nil
	}

	var scores models.ScoreList
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, malformed("sentiment analysis", raw, err)
	}
	return scores, nil
}

// GenerateSummary runs a summarization model and returns the first summary_text.
func (h *HuggingFaceClient) GenerateSummary(ctx context.Context, model, text string) (models.SummaryText, error) {
	raw, err := h.Infer(ctx, model, text)
	if err != nil {
		return "", err
	}
	if err := validate(summaryValidator, raw); err != nil {
		return "", malformed("summarization", raw, err)
	}

	var summaries []models.SummaryResponse
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return "", malformed("summarization", raw, err)
	}
	if len(summaries) == 0 || summaries[0].SummaryText == nil {
		return "", &models.MalformedResponseError{Operation: "summarization", Reason: "missing summary_text"}
	}
	return models.SummaryText(*summaries[0].SummaryText), nil
}

// IsHealthy reports whether the model endpoint answers a GET with 200.
func (h *HuggingFaceClient) IsHealthy(ctx context.Context, model string) bool {
	if h.APIKey == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint(model), nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (h *HuggingFaceClient) endpoint(model string) string {
	if strings.HasSuffix(h.BaseURL, "/") {
		return h.BaseURL + model
	}
	return h.BaseURL + "/" + model
}

func validate(schema *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}

func malformed(operation string, raw []byte, err error) error {
	slog.Warn("[HuggingFaceClient] Unexpected response shape",
		slog.String("operation", operation),
		slog.String("raw_response", getPreview(raw)),
		slog.String("error", err.Error()))
	return &models.MalformedResponseError{Operation: operation, Reason: err.Error()}
}

func firstElement(raw []byte) string {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || len(elems) == 0 {
		return ""
	}
	return string(elems[0])
}
