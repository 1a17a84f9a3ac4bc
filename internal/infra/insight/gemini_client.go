package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"restobill/internal/domain/model"

	"google.golang.org/genai"
)

var ErrNoAPIKey = errors.New("gemini api key not configured")

// GeminiClient は generateContent を1回呼んで JSON の分析結果を受け取る。
type GeminiClient struct {
	client *genai.Client
	model  string
}

type options struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*options)

// テストで httptest のサーバーに向ける
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, opts ...Option) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  o.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: o.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: c, model: modelName}, nil
}

// Generate はタイムアウトを ctx で受け取る。失敗はそのまま返す（固定文への置き換えは呼び出し側）。
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (model.Insight, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return model.Insight{}, fmt.Errorf("gemini generate: %w", err)
	}
	return parseInsight(res.Text())
}

func parseInsight(text string) (model.Insight, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Insight{}, errors.New("gemini returned no text")
	}

	// ```json ... ``` で返ってくることがある
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var out model.Insight
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err != nil {
		return model.Insight{}, fmt.Errorf("gemini insight json: %w", err)
	}
	if out.Summary == "" {
		return model.Insight{}, errors.New("gemini insight has no summary")
	}
	if out.Insights == nil {
		out.Insights = []string{}
	}
	out.Fallback = false
	return out, nil
}
