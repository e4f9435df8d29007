package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/models"
)

const airtableTimeout = 15 * time.Second

type AirtableClient struct {
	BaseURL   string
	BaseID    string
	APIKey    string
	TableName string
	Client    *http.Client
}

type airtableCreateRequest struct {
	Fields map[string]any `json:"fields"`
}

func NewAirtableClient(cfg config.AirtableConfig) *AirtableClient {
	return &AirtableClient{
		BaseURL:   cfg.BaseURL,
		BaseID:    cfg.BaseID,
		APIKey:    cfg.APIKey,
		TableName: cfg.TableName,
		Client:    NewBearerClient(cfg.APIKey, airtableTimeout, nil),
	}
}

// CreateRecord appends one row. Any 2xx is success; everything else is a
// PersistenceError carrying the response body.
func (a *AirtableClient) CreateRecord(ctx context.Context, fields map[string]any) error {
	switch {
	case a.BaseID == "":
		return &models.PersistenceError{Backend: "airtable", Err: &models.ConfigurationError{Key: "AIRTABLE_BASE_ID"}}
	case a.APIKey == "":
		return &models.PersistenceError{Backend: "airtable", Err: &models.ConfigurationError{Key: "AIRTABLE_API_KEY"}}
	}

	body, err := json.Marshal(airtableCreateRequest{Fields: fields})
	if err != nil {
		return &models.PersistenceError{Backend: "airtable", Err: fmt.Errorf("failed to marshal fields: %w", err)}
	}

	endpoint := a.tableURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &models.PersistenceError{Backend: "airtable", Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	start := time.Now()
	resp, err := a.Client.Do(req)
	if err != nil {
		return &models.PersistenceError{Backend: "airtable", Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &models.PersistenceError{Backend: "airtable", Status: resp.StatusCode, Body: string(respBody)}
	}

	slog.Info("[AirtableClient] Record created",
		slog.String("table", a.TableName),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (a *AirtableClient) tableURL() string {
	base := strings.TrimSuffix(a.BaseURL, "/")
	return base + "/" + url.PathEscape(a.BaseID) + "/" + url.PathEscape(a.TableName)
}
