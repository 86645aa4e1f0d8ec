package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"shift-pilot/backend/config"
)

// Oracle 生成式文本服务
// 输出视为不可信文本，由调用方做结构校验
type Oracle interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// GeminiOracle 基于 Gemini 的 Oracle 实现
type GeminiOracle struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiOracle 创建 Gemini 客户端
func NewGeminiOracle(ctx context.Context, cfg *config.GeneratorConfig) (*GeminiOracle, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("generator.api_key 未配置")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}

	return &GeminiOracle{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Complete 发起一次生成调用，要求以 JSON 返回
func (o *GeminiOracle) Complete(ctx context.Context, system, prompt string) (string, error) {
	temperature := o.temperature
	resp, err := o.client.Models.GenerateContent(ctx,
		o.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       &temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini 调用失败: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("Gemini 返回为空")
	}
	return text, nil
}
