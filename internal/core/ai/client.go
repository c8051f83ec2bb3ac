package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"freshmeal-bot/internal/infrastructure/config"
	"freshmeal-bot/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenAI 相容的 chat/completions 客戶端
type Client struct {
	config config.AIConfig
	client *resty.Client
}

// NewClient 創建客戶端；未啟用或缺少金鑰時回傳 nil
func NewClient(cfg config.AIConfig) *Client {
	if !cfg.Active() {
		common.LogInfo("AI 營養分析未啟用", zap.Bool("enabled", cfg.Enabled))
		return nil
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Model 目前使用的模型
func (c *Client) Model() string {
	return c.config.Model
}

// CompleteJSON 送出 system + user 兩則訊息，要求模型只回傳 JSON 物件，回傳第一個 choice 的內容
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	req := Request{
		Model: c.config.Model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:      c.config.MaxTokens,
		Temperature:    c.config.Temperature,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	common.LogDebug("Sending request to AI service",
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to AI service: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("AI service returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 300))
	}

	var result Response
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse AI service response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in AI service response")
	}

	content := result.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("empty content in AI service response")
	}

	common.LogDebug("AI service responded",
		zap.String("model", req.Model),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	return content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
