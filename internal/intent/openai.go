package intent

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIExtractor implements Extractor over the chat completions API.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func NewOpenAIExtractor(cfg OpenAIConfig) (*OpenAIExtractor, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("intent: openai api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		now:    time.Now,
	}, nil
}

func (e *OpenAIExtractor) Extract(ctx context.Context, query string, history []Message) (*Result, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(e.now(), history)},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		MaxTokens:   2000,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("intent: empty completion")
	}

	return ParseResult(resp.Choices[0].Message.Content)
}
