package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/civicresolve/backend/internal/models"
)

type AnthropicAnalyzer struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

func (a AnthropicAnalyzer) Analyze(ctx context.Context, req AnalysisRequest) (models.AIAnalysis, error) {
	if a.APIKey == "" {
		return models.AIAnalysis{}, fmt.Errorf("AI_API_KEY is not set")
	}
	maxTokens := a.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	client := anthropic.NewClient(option.WithAPIKey(a.APIKey))
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.Model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(req))),
		},
	})
	if err != nil {
		return models.AIAnalysis{}, fmt.Errorf("anthropic api error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return parseAnalysis(block.Text, req), nil
		}
	}
	return models.AIAnalysis{}, fmt.Errorf("no text content in anthropic response")
}
