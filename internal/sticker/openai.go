package sticker

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chris-regnier/moodiary/internal/photo"
	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

// OpenAIConfig configures OpenAIGenerator.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// MaxRetries bounds retries of rate-limited or 5xx generation calls.
	MaxRetries int
	// RetryWait is the first backoff interval; it doubles per attempt.
	RetryWait time.Duration
}

// OpenAIGenerator calls an OpenAI-compatible images API.
type OpenAIGenerator struct {
	client     *resty.Client
	apiKey     string
	model      string
	maxRetries int
	retryWait  time.Duration
}

// NewOpenAIGenerator creates a generator. An empty BaseURL uses DefaultBaseURL.
func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "dall-e-3"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	c := resty.New().
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	wait := cfg.RetryWait
	if wait <= 0 {
		wait = time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &OpenAIGenerator{client: c, apiKey: cfg.APIKey, model: model, maxRetries: retries, retryWait: wait}
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Generate requests one square image for prompt and downloads it.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (image.Image, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	url, err := g.requestSheet(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// Absolute URL; the API key is not sent to the image host.
	img, err := g.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching generated image: %w", err)
	}
	if img.IsError() {
		return nil, fmt.Errorf("fetching generated image: status %d", img.StatusCode())
	}

	p, err := photo.Decode(img.Body())
	if err != nil {
		return nil, fmt.Errorf("generated image: %w", err)
	}
	return p.Image, nil
}

// requestSheet asks for one image and returns its download URL. Rate
// limits, server errors, and transport failures are retried with
// exponential backoff; other API errors are final.
func (g *OpenAIGenerator) requestSheet(ctx context.Context, prompt string) (string, error) {
	var url string
	op := func() error {
		var result imageResponse
		resp, err := g.client.R().
			SetContext(ctx).
			SetAuthToken(g.apiKey).
			SetBody(&imageRequest{
				Model:   g.model,
				Prompt:  prompt,
				N:       1,
				Size:    "1024x1024",
				Quality: "standard",
			}).
			SetResult(&result).
			Post("/images/generations")
		if err != nil {
			return fmt.Errorf("image request: %w", err)
		}
		if resp.IsError() {
			err := fmt.Errorf("image request status %d: %s", resp.StatusCode(), resp.String())
			if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError {
				return err
			}
			return backoff.Permanent(err)
		}
		if len(result.Data) == 0 || result.Data[0].URL == "" {
			return backoff.Permanent(fmt.Errorf("image response has no url"))
		}
		url = result.Data[0].URL
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = g.retryWait
	exp.Multiplier = 2
	exp.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(g.maxRetries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return url, nil
}
