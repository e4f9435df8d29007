package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("HUGGING_FACE_API_KEY", "")
	t.Setenv("PERSISTENCE_BACKENDS", "")
	t.Setenv("INFERENCE_TIMEOUT", "")

	cfg := FromEnv()

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, DEFAULT_HUGGING_FACE_BASE_URL, cfg.HuggingFace.BaseURL)
	assert.Equal(t, DEFAULT_SENTIMENT_MODEL, cfg.HuggingFace.SentimentModel)
	assert.Equal(t, DEFAULT_SUMMARY_MODEL, cfg.HuggingFace.SummaryModel)
	assert.Equal(t, 60*time.Second, cfg.HuggingFace.Timeout)
	assert.Equal(t, DEFAULT_AIRTABLE_TABLE_NAME, cfg.Airtable.TableName)
	assert.Equal(t, []string{"airtable"}, cfg.PersistenceBackends)
	assert.Empty(t, cfg.HuggingFace.APIKey)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HUGGING_FACE_API_KEY", "hf-key")
	t.Setenv("AIRTABLE_BASE_ID", "app123")
	t.Setenv("AIRTABLE_API_KEY", "at-key")
	t.Setenv("PERSISTENCE_BACKENDS", " Airtable, dynamodb ,,kafka")
	t.Setenv("API_RATE_LIMIT", "0.5")
	t.Setenv("API_RATE_BURST", "3")
	t.Setenv("INFERENCE_TIMEOUT", "")

	cfg := FromEnv()

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, 10*time.Second, cfg.HuggingFace.Timeout)
	assert.Equal(t, "hf-key", cfg.HuggingFace.APIKey)
	assert.Equal(t, "app123", cfg.Airtable.BaseID)
	assert.Equal(t, "at-key", cfg.Airtable.APIKey)
	assert.Equal(t, []string{"airtable", "dynamodb", "kafka"}, cfg.PersistenceBackends)
	assert.Equal(t, 0.5, cfg.API.RateLimit)
	assert.Equal(t, 3, cfg.API.RateBurst)
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("INFERENCE_TIMEOUT", "soon")
	t.Setenv("API_RATE_BURST", "many")

	cfg := FromEnv()

	assert.Equal(t, 60*time.Second, cfg.HuggingFace.Timeout)
	assert.Equal(t, 5, cfg.API.RateBurst)
}
