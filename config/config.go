package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_HUGGING_FACE_BASE_URL = "https://api-inference.huggingface.co/models/"
	DEFAULT_SENTIMENT_MODEL       = "nlptown/bert-base-multilingual-uncased-sentiment"
	DEFAULT_SUMMARY_MODEL         = "google/pegasus-large"
	DEFAULT_AIRTABLE_BASE_URL     = "https://api.airtable.com/v0/"
	DEFAULT_AIRTABLE_TABLE_NAME   = "Feedback"
	DEFAULT_DYNAMODB_TABLE_NAME   = "FeedbackResults"
	DEFAULT_OPENAI_MODEL          = "gpt-4o-mini"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HuggingFace HuggingFaceConfig
	Summary     SummaryConfig
	Airtable    AirtableConfig
	DynamoDB    DynamoDBConfig
	Valkey      ValkeyConfig
	Postgres    PostgresConfig
	Kafka       KafkaConfig
	API         APIConfig

	// PersistenceBackends lists the gateways every record is written to, in order.
	PersistenceBackends []string
	LexiconPath         string
}

type HuggingFaceConfig struct {
	APIKey         string
	BaseURL        string
	SentimentModel string
	SummaryModel   string
	Timeout        time.Duration
}

type SummaryConfig struct {
	Provider     string
	OpenAIAPIKey string
	OpenAIModel  string
}

type AirtableConfig struct {
	BaseID    string
	APIKey    string
	TableName string
	BaseURL   string
}

type DynamoDBConfig struct {
	TableName string
	Endpoint  string
	Region    string
}

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
}

type PostgresConfig struct {
	DSN string
}

type KafkaConfig struct {
	Broker       string
	GroupID      string
	IntakeTopic  string
	ResultsTopic string
}

type APIConfig struct {
	Addr      string
	RateLimit float64
	RateBurst int
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// FromEnv builds the configuration from the process environment. Missing
// credentials are left empty; the component that needs them reports a
// ConfigurationError when it is used.
func FromEnv() Config {
	appEnv := getEnv("APP_ENV", "dev")

	return Config{
		AppEnv:   appEnv,
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HuggingFace: HuggingFaceConfig{
			APIKey:         os.Getenv("HUGGING_FACE_API_KEY"),
			BaseURL:        getEnv("HUGGING_FACE_BASE_URL", DEFAULT_HUGGING_FACE_BASE_URL),
			SentimentModel: getEnv("SENTIMENT_MODEL", DEFAULT_SENTIMENT_MODEL),
			SummaryModel:   getEnv("SUMMARY_MODEL", DEFAULT_SUMMARY_MODEL),
			Timeout:        getDuration("INFERENCE_TIMEOUT", defaultInferenceTimeout(appEnv)),
		},
		Summary: SummaryConfig{
			Provider:     strings.ToLower(getEnv("SUMMARY_PROVIDER", "huggingface")),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:  getEnv("OPENAI_MODEL", DEFAULT_OPENAI_MODEL),
		},
		Airtable: AirtableConfig{
			BaseID:    os.Getenv("AIRTABLE_BASE_ID"),
			APIKey:    os.Getenv("AIRTABLE_API_KEY"),
			TableName: getEnv("AIRTABLE_TABLE_NAME", DEFAULT_AIRTABLE_TABLE_NAME),
			BaseURL:   getEnv("AIRTABLE_BASE_URL", DEFAULT_AIRTABLE_BASE_URL),
		},
		DynamoDB: DynamoDBConfig{
			TableName: getEnv("DYNAMODB_TABLE_NAME", DEFAULT_DYNAMODB_TABLE_NAME),
			Endpoint:  os.Getenv("AWS_ENDPOINT"),
			Region:    getEnv("AWS_REGION", "us-west-2"),
		},
		Valkey: ValkeyConfig{
			Address:  getEnv("VALKEY_INIT_ADDRESS", "localhost:6379"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      os.Getenv("VALKEY_TLS") == "true",
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("DATABASE_URL"),
		},
		Kafka: KafkaConfig{
			Broker:       getEnv("KAFKA_BROKER", "localhost:29092"),
			GroupID:      getEnv("KAFKA_CONSUMER_GROUP_ID", "feedbackflow-consumer-group"),
			IntakeTopic:  getEnv("KAFKA_INTAKE_TOPIC", "feedback-submissions"),
			ResultsTopic: getEnv("KAFKA_RESULTS_TOPIC", "feedback-results"),
		},
		API: APIConfig{
			Addr:      getEnv("API_ADDR", ":8080"),
			RateLimit: getFloat("API_RATE_LIMIT", 2),
			RateBurst: getInt("API_RATE_BURST", 5),
		},
		PersistenceBackends: splitList(getEnv("PERSISTENCE_BACKENDS", "airtable")),
		LexiconPath:         os.Getenv("LEXICON_PATH"),
	}
}

// the inference endpoint can be slow to warm a model, so dev gets more room
func defaultInferenceTimeout(env string) time.Duration {
	if env == "production" {
		return 10 * time.Second
	}
	return 60 * time.Second
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("[Config] Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", defaultValue))
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw))
		return defaultValue
	}
	return n
}

func getFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("[Config] Invalid number, using default",
			slog.String("key", key),
			slog.String("value", raw))
		return defaultValue
	}
	return f
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
