package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultChatTimeout     = 30 * time.Second
	defaultChatTemperature = 0.2
)

// structuredInstruction is appended to the system prompt in structured mode.
// The Chat Completions API has no schema parameter equivalent to Gemini's
// responseSchema, so the shape is requested through the prompt instead.
const structuredInstruction = "Respond with only a JSON object containing exactly these fields: " +
	`"reasoning_steps" (array of strings), "final_summary" (string), ` +
	`"confidence_score" (number between 0 and 100). No prose outside the JSON.`

// OpenAIClient is an alternate provider behind the same Client interface.
// It does not support grounding; requests with Grounding set (and Structured
// unset) fail fast with ErrGroundingUnsupported. The SDK applies its own
// transport-level retries.
type OpenAIClient struct {
	model  openai.ChatModel
	client *openai.Client
}

// NewOpenAIClient builds a client with defaults against api.openai.com.
func NewOpenAIClient(apiKey string, model openai.ChatModel) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		model:  model,
		client: &cli,
	}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) (Result, error) {
	if c == nil || c.client == nil {
		return Result{}, fmt.Errorf("nil openai client")
	}
	if req.Grounding && !req.Structured {
		return Result{}, ErrGroundingUnsupported
	}
	system := req.SystemPrompt
	if req.Structured {
		if system != "" {
			system += "\n\n"
		}
		system += structuredInstruction
	}

	reqCtx, cancel := context.WithTimeout(ctx, defaultChatTimeout)
	defer cancel()
	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    buildMessages(system, req.Query),
		Temperature: openai.Float(defaultChatTemperature),
	})
	if err != nil {
		return Result{}, fmt.Errorf("transport: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, ErrNoCandidate
	}
	if resp.Choices[0].Message.Content == "" {
		return Result{}, ErrEmptyContent
	}
	return Result{Text: resp.Choices[0].Message.Content}, nil
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}
