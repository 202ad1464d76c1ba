package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	groqModel   = "meta-llama/llama-4-scout-17b-16e-instruct"

	anthropicModel = "claude-3-5-haiku-latest"

	systemPrompt = "You are an expert YouTube analytics specialist. Provide concise, professional analysis that would be valuable for influencer marketing assessments."
)

// Provider is one LLM inference backend. Implementations form a small closed
// set tried in fixed priority order by the Analyzer.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error)
}

// GroqProvider calls Groq's OpenAI-compatible chat completion endpoint. It is
// the primary (cheap, fast) provider and the one subject to rate limiting.
type GroqProvider struct {
	client *openai.Client
	model  string
}

// NewGroqProvider builds the primary provider for the given API key.
func NewGroqProvider(apiKey string) *GroqProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	return &GroqProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  groqModel,
	}
}

func (p *GroqProvider) Name() string { return "groq" }

func (p *GroqProvider) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("groq completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// AnthropicProvider is the secondary provider. It runs on a distinct quota,
// so the Analyzer calls it without rate limiting.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicProvider builds the fallback provider for the given API key.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		client: anthropic.NewClient(anthropicoption.WithAPIKey(apiKey)),
		model:  anthropic.Model(anthropicModel),
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       p.model,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(float64(temperature)),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("anthropic completion: empty response")
	}
	return text, nil
}
