package chat

import (
	"context"
	"fmt"
	"time"

	"pdfvision/vars"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

const (
	visionMaxTokens   = 3000
	visionTemperature = float32(0.3)
)

// CreateVisionModel 按配置的提供方创建视觉模型
// apiKey 由用户每次会话传入（openai 必填），不落盘
func CreateVisionModel(ctx context.Context, apiKey string) (model.ToolCallingChatModel, error) {
	switch vars.VLM_PROVIDER {
	case vars.ProviderOllama:
		return createOllamaVisionModel(ctx)
	case vars.ProviderOpenAI:
		return createOpenAIVisionModel(ctx, apiKey)
	default:
		return nil, fmt.Errorf("unknown VLM provider: %s", vars.VLM_PROVIDER)
	}
}

func createOpenAIVisionModel(ctx context.Context, apiKey string) (model.ToolCallingChatModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is empty")
	}
	maxTokens := visionMaxTokens
	temp := visionTemperature
	cfg := &openai.ChatModelConfig{
		APIKey:      apiKey,
		Model:       vars.VLM_MODEL,
		MaxTokens:   &maxTokens,
		Temperature: &temp,
		Timeout:     120 * time.Second,
	}
	if vars.OPENAI_BASE != "" {
		cfg.BaseURL = vars.OPENAI_BASE
	}
	return openai.NewChatModel(ctx, cfg)
}

func createOllamaVisionModel(ctx context.Context) (model.ToolCallingChatModel, error) {
	return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: vars.OLLAMA_PATH, // Ollama 服务地址
		Model:   vars.VLM_MODEL,   // 模型名称
	})
}
