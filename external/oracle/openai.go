package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/auberginewly/feihualing/internal/oracle"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const classifyPrompt = "你是古诗词鉴别助手。判断用户给出的文字是否是古诗词中的句子，只需回答“是”或“否”。"

// positiveIndicators are matched against the model's natural-language
// answer. Any hit counts as a classical-poem verdict.
var positiveIndicators = []string{"是", "yes", "古诗", "诗句", "诗词", "classical", "poem"}

type OpenAIClassifier struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIClassifier(apiKey, model string, timeout time.Duration) oracle.Classifier {
	return &OpenAIClassifier{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: timeout,
	}
}

func (c *OpenAIClassifier) Enabled() bool { return true }

func (c *OpenAIClassifier) ClassifyClassicalPoem(ctx context.Context, text string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classifyPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return false, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return false, fmt.Errorf("chat completion returned no choices")
	}
	answer := resp.Choices[0].Message.Content
	verdict := matchVerdict(answer)
	slog.Debug("oracle classified text", "verdict", verdict, "answer", answer)
	return verdict, nil
}

// matchVerdict keyword-matches the model's free-form answer. An empty
// answer is ambiguous and counts as accept so gameplay is never blocked.
func matchVerdict(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return true
	}
	for _, indicator := range positiveIndicators {
		if strings.Contains(answer, indicator) {
			return true
		}
	}
	return false
}

// disabledClassifier is bound when no API key is configured; the game
// engine skips the oracle entirely.
type disabledClassifier struct{}

func NewDisabledClassifier() oracle.Classifier { return disabledClassifier{} }

func (disabledClassifier) Enabled() bool { return false }

func (disabledClassifier) ClassifyClassicalPoem(context.Context, string) (bool, error) {
	return true, nil
}
