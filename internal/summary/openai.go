package summary

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spacesedan/feedbackflow/internal/models"
)

const summaryPrompt = `Summarize the following user feedback in one or two sentences.
Keep the user's main complaint or praise. Return only the summary text.`

// OpenAI summarizes with a chat completion model instead of a dedicated
// summarization model.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string, opts ...option.RequestOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, &models.ConfigurationError{Key: "OPENAI_API_KEY"}
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	slog.Info("[OpenAISummarizer] Initializing client", slog.String("model", model))
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (s *OpenAI) Summarize(ctx context.Context, feedback string) (string, error) {
	start := time.Now()
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summaryPrompt),
			openai.UserMessage(feedback),
		}),
		Model: openai.F(openai.ChatModel(s.model)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			slog.Error("[OpenAISummarizer] Completion rejected",
				slog.Int("status", apiErr.StatusCode),
				slog.Duration("elapsed", time.Since(start)))
			return "", &models.InferenceError{Status: apiErr.StatusCode, Body: apiErr.Error()}
		}
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", &models.MalformedResponseError{Operation: "summarization", Reason: "no completion choices"}
	}

	slog.Info("[OpenAISummarizer] Summary request successful",
		slog.Duration("elapsed", time.Since(start)))
	return completion.Choices[0].Message.Content, nil
}
