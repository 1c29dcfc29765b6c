package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"meridian/internal/pipeline/config"
	"meridian/internal/pipeline/dto"
	"meridian/pkg/logger"
	"meridian/pkg/ratelimit"

	"golang.org/x/time/rate"
)

// openaiAIRepository implements AIRepository against any OpenAI-compatible
// chat-completions endpoint.
type openaiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

// NewOpenAIRepository creates a new instance of openaiAIRepository.
func NewOpenAIRepository(cfg *config.Config, logger *logger.Logger) AIRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.OpenAI.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.OpenAI.MaxTokenPerMinute)

	return &openaiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         logger,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
	}
}

// GroupArticles asks the model to cluster the fetched set by underlying
// event.
func (r *openaiAIRepository) GroupArticles(ctx context.Context, articles []dto.FetchedArticle) (*dto.GroupingResult, error) {
	prompt := BuildGroupArticlesPrompt(articles)

	resp, err := r.sendRequest(ctx, prompt, GroupingMaxTokens)
	if err != nil {
		return nil, err
	}

	result := dto.GroupingResult{}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// SynthesizeStory asks the model for a full narrative synthesis of one
// cluster.
func (r *openaiAIRepository) SynthesizeStory(ctx context.Context, articles []dto.FetchedArticle) (*dto.SynthesisResult, error) {
	prompt := BuildSynthesizeStoryPrompt(articles)

	resp, err := r.sendRequest(ctx, prompt, SynthesisMaxTokens)
	if err != nil {
		return nil, err
	}

	result := dto.SynthesisResult{}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *openaiAIRepository) sendRequest(ctx context.Context, prompt string, maxTokens int) (*dto.OpenAPIRes, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.logger.Error("failed to wait for request limit", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.OpenAPIReq{
		Model: r.cfg.OpenAI.Model,
		Messages: []dto.Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		ResponseFormat:      &dto.ResponseFormat{Type: "json_object"},
		MaxCompletionTokens: maxTokens,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.cfg.OpenAI.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.cfg.OpenAI.APIKey))

	r.logger.Debug("Sending request to OpenAI API", logger.StringField("url", r.cfg.OpenAI.BaseURL), logger.StringField("model", r.cfg.OpenAI.Model))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Received non-OK response from OpenAI API", logger.IntField("status_code", resp.StatusCode), logger.StringField("model", r.cfg.OpenAI.Model))
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-OK response from OpenAI API: %d - %s", resp.StatusCode, string(body))
	}

	var openaiResp dto.OpenAPIRes
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	if openaiResp.Usage.TotalTokens > r.cfg.OpenAI.MaxTokenPerMinute/2 {
		r.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	if err := r.tokenLimiter.Wait(ctx, openaiResp.Usage.TotalTokens); err != nil {
		r.logger.Error("failed to wait for token limit", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	return &openaiResp, nil
}

func (r *openaiAIRepository) parseResponseJSON(resp *dto.OpenAPIRes, result interface{}) error {
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.Content) == 0 {
		return fmt.Errorf("no content found in completion response")
	}

	rawJSON := resp.Choices[0].Message.Content
	rawJSON = strings.Trim(rawJSON, "`json\n`")

	if err := json.Unmarshal([]byte(rawJSON), result); err != nil {
		return fmt.Errorf("failed to unmarshal completion response: %w", err)
	}

	return nil
}
