// Package generator talks to the xAI Grok API (OpenAI compatible) to write
// LinkedIn posts, research trending topics and suggest optimizations.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/cppla/linkpost/models"
)

var (
	// ErrNotConfigured is returned by calls that have no offline fallback.
	ErrNotConfigured = errors.New("generator: xAI API key not configured")
	// ErrEmptyResponse means the API answered without any choice.
	ErrEmptyResponse = errors.New("generator: empty completion")
)

// Service is what the HTTP layer needs from the generator.
type Service interface {
	Configured() bool
	Generate(ctx context.Context, req GenerateRequest) (GeneratedContent, error)
	ResearchTrends(ctx context.Context, industry string) (TrendResearch, error)
	Recommendations(ctx context.Context, samples []EngagementSample) ([]string, error)
}

// GenerateRequest describes the post the user wants written.
type GenerateRequest struct {
	ContentType    string `json:"contentType" binding:"required"`
	TargetAudience string `json:"targetAudience" binding:"required"`
	Keywords       string `json:"keywords" binding:"required"`
}

// GeneratedContent is a ready-to-schedule post plus posting advice.
type GeneratedContent struct {
	Content              string   `json:"content"`
	EngagementPrediction string   `json:"engagementPrediction"`
	BestTime             string   `json:"bestTime"`
	Hashtags             []string `json:"hashtags"`
}

// TrendTopic is one topic as returned by research.
type TrendTopic struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	TrendingScore      int    `json:"trendingScore"`
	EngagementEstimate string `json:"engagementEstimate"`
	PeakTime           string `json:"peakTime"`
	Status             string `json:"status"`
}

// TrendResearch is the result of a research run.
type TrendResearch struct {
	Topics []TrendTopic `json:"topics"`
}

// EngagementSample is one data point fed to the recommendation prompt.
// Engagement is a rate in percent for analytics rows; post samples carry
// raw Interactions instead.
type EngagementSample struct {
	Date         string  `json:"date"`
	Engagement   float64 `json:"engagement"`
	Interactions int     `json:"interactions,omitempty"`
	ContentType  string  `json:"contentType"`
	Time         string  `json:"time"`
}

// NewTopic converts a researched topic into a storable one, clamping the
// score to 0-100 and dropping unknown statuses so the store default applies.
func (t TrendTopic) NewTopic() models.NewTrendingTopic {
	score := t.TrendingScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	status := strings.ToLower(strings.TrimSpace(t.Status))
	switch status {
	case models.TopicStatusHot, models.TopicStatusRising, models.TopicStatusEmerging, models.TopicStatusActive:
	default:
		status = ""
	}
	return models.NewTrendingTopic{
		Title:              strings.TrimSpace(t.Title),
		Description:        strings.TrimSpace(t.Description),
		Category:           strings.TrimSpace(t.Category),
		TrendingScore:      score,
		EngagementEstimate: t.EngagementEstimate,
		PeakTime:           t.PeakTime,
		Status:             status,
	}
}

// Config configures the API client.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.SugaredLogger
}

// Client implements Service on top of go-openai.
type Client struct {
	api *openai.Client
	cfg Config
	log *zap.SugaredLogger
}

var _ Service = (*Client)(nil)

// New builds a client. Without an API key the client still works and
// Generate serves fallback content.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "grok-2-1212"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "placeholder"
	}
	oc := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{api: openai.NewClientWithConfig(oc), cfg: cfg, log: logger}
}

// Configured reports whether a real API key is set.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.APIKey != "default_key"
}

// Generate writes a LinkedIn post. It never fails: without a key, or when the
// API keeps failing, it returns template content built from the request.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GeneratedContent, error) {
	if !c.Configured() {
		return offlineContent(req), nil
	}

	var out GeneratedContent
	err := c.completeJSON(ctx, completion{
		system:      systemContentExpert,
		prompt:      contentPrompt(req),
		maxTokens:   1000,
		temperature: 0.8,
	}, &out)
	if err != nil {
		c.log.Errorf("generate linkedin content failed, serving fallback: %v", err)
		return failureContent(req), nil
	}

	if out.Content == "" {
		out.Content = "Failed to generate content"
	}
	if out.EngagementPrediction == "" {
		out.EngagementPrediction = "Medium"
	}
	if out.BestTime == "" {
		out.BestTime = "2:00 PM"
	}
	if out.Hashtags == nil {
		out.Hashtags = []string{}
	}
	return out, nil
}

// ResearchTrends asks the model for 5-8 trending LinkedIn topics.
func (c *Client) ResearchTrends(ctx context.Context, industry string) (TrendResearch, error) {
	if !c.Configured() {
		return TrendResearch{}, fmt.Errorf("research trending topics: %w", ErrNotConfigured)
	}
	var out TrendResearch
	err := c.completeJSON(ctx, completion{
		system:    systemTrendAnalyst,
		prompt:    trendPrompt(industry),
		maxTokens: 2000,
	}, &out)
	if err != nil {
		return TrendResearch{}, fmt.Errorf("research trending topics: %w", err)
	}
	if out.Topics == nil {
		out.Topics = []TrendTopic{}
	}
	return out, nil
}

// Recommendations returns 3-5 actionable suggestions for the engagement data.
func (c *Client) Recommendations(ctx context.Context, samples []EngagementSample) ([]string, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("generate optimization recommendations: %w", ErrNotConfigured)
	}
	data, err := json.Marshal(samples)
	if err != nil {
		return nil, err
	}
	var out struct {
		Recommendations []string `json:"recommendations"`
	}
	err = c.completeJSON(ctx, completion{
		system:    systemAnalyticsExpert,
		prompt:    recommendationPrompt(string(data)),
		maxTokens: 800,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("generate optimization recommendations: %w", err)
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return out.Recommendations, nil
}

type completion struct {
	system      string
	prompt      string
	maxTokens   int
	temperature float32
}

// completeJSON runs a JSON-mode chat completion and decodes the answer into out.
// Rate limiting, server errors and transport failures are retried.
func (c *Client) completeJSON(ctx context.Context, in completion, out any) error {
	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: in.system},
			{Role: openai.ChatMessageRoleUser, Content: in.prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		MaxTokens:      in.maxTokens,
		Temperature:    in.temperature,
	}

	var content string
	err := retry.Do(
		func() error {
			resp, err := c.api.CreateChatCompletion(ctx, req)
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return retry.Unrecoverable(ErrEmptyResponse)
			}
			content = resp.Choices[0].Message.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.cfg.MaxRetries+1)),
		retry.Delay(c.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warnf("xai request attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		return err
	}

	if strings.TrimSpace(content) == "" {
		content = "{}"
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	return nil
}

// retryable keeps client errors such as a bad key from being retried.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
