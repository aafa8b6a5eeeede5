package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/report"
	"github.com/bryanwahyu/collegeplan-api/internal/infra/ai/prompt"
)

const maxTokens = 4096

// DefaultTimeout bounds the single generation call. The external endpoint has
// no contractual latency; expiry counts as a generation failure.
const DefaultTimeout = 60 * time.Second

type Client struct {
	*openai.Client
	Model   string
	Timeout time.Duration
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{Client: openai.NewClient(apiKey), Model: model, Timeout: timeout}
}

// Generate performs one chat completion and parses the response into
// ReportContent. No retries: a single attempt either succeeds or fails with
// ErrGenerationUnavailable.
func (c *Client) Generate(ctx context.Context, profile report.StudentProfile) (report.ReportContent, error) {
	model := c.Model
	if model == "" {
		model = openai.GPT4o
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(profile)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return report.ReportContent{}, fmt.Errorf("%w: %v", report.ErrGenerationUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return report.ReportContent{}, fmt.Errorf("%w: empty completion", report.ErrGenerationUnavailable)
	}

	return prompt.ParseContent(resp.Choices[0].Message.Content)
}
