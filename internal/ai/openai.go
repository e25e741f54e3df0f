package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

func NewOpenAIAnalyzer(apiKey, model string) *OpenAIAnalyzer {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIAnalyzer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (a *OpenAIAnalyzer) Name() string { return "openai" }

func (a *OpenAIAnalyzer) AnalyzeSupplier(ctx context.Context, req Request) (*Result, error) {
	userPrompt := fmt.Sprintf("Supplier: %s\nDomain: %s\nCategory: %s\nNotes: %s",
		req.Name, req.Domain, req.Category, req.Notes)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai analyze: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai analyze: empty response")
	}

	result, err := parseAnalysisJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	result.Analysis.ModelVersion = a.model
	result.Analysis.AnalyzedAt = time.Now().UTC()
	return result, nil
}
