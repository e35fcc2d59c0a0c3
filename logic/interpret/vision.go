package interpret

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// describe 把裁剪图（PNG 字节）连同指令发给视觉模型，返回模型的自由文本
// 图像走 base64 data URL，和 OpenAI 多模态消息格式一致
func describe(ctx context.Context, m model.ToolCallingChatModel, pngData []byte, systemPrompt, taskPrompt string) (string, error) {
	b64 := base64.StdEncoding.EncodeToString(pngData)

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		{
			Role: schema.User,
			MultiContent: []schema.ChatMessagePart{
				{
					Type: schema.ChatMessagePartTypeText,
					Text: taskPrompt,
				},
				{
					Type: schema.ChatMessagePartTypeImageURL,
					ImageURL: &schema.ChatMessageImageURL{
						URL:    "data:image/png;base64," + b64,
						Detail: schema.ImageURLDetailAuto,
					},
				},
			},
		},
	}

	resp, err := m.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", fmt.Errorf("model returned empty content")
	}
	return content, nil
}
