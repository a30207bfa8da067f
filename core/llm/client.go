package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Options tune a single generation call.
type Options struct {
	Model       string
	Tier        Tier
	Temperature *float64
	MaxTokens   int
}

// Config holds Client construction settings.
type Config struct {
	Providers []Provider
	Retry     RetryPolicy
	Logger    *slog.Logger
}

func applyClientDefaults(config Config) Config {
	if config.Retry.MaxAttempts == 0 {
		config.Retry = DefaultRetryPolicy()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return config
}

// Client fans requests out across an ordered provider chain with
// bounded retries per provider. Auth failures skip straight to the next
// provider; everything else backs off and retries first.
type Client struct {
	providers []Provider
	retry     RetryPolicy
	logger    *slog.Logger
}

func NewClient(config Config) *Client {
	config = applyClientDefaults(config)

	return &Client{
		providers: config.Providers,
		retry:     config.Retry,
		logger:    config.Logger,
	}
}

// GenerateText produces a completion for a single user prompt.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, prompt string, opts Options) (string, error) {
	return c.Chat(ctx, systemPrompt, []Message{{Role: RoleUser, Content: prompt}}, opts)
}

// ClassifyText runs a bare prompt on the flash tier at low temperature.
// Used for routing decisions where determinism matters more than style.
func (c *Client) ClassifyText(ctx context.Context, prompt string) (string, error) {
	return c.GenerateText(ctx, "", prompt, Options{
		Tier:        TierFlash,
		Temperature: Ptr(0.1),
	})
}

// Chat produces a completion for a conversation history.
func (c *Client) Chat(ctx context.Context, systemPrompt string, messages []Message, opts Options) (string, error) {
	resp, err := c.generate(ctx, &Request{
		Messages:     messages,
		SystemPrompt: systemPrompt,
		Model:        opts.Model,
		Tier:         opts.Tier,
		Temperature:  opts.Temperature,
		MaxTokens:    opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// GenerateStructured produces a completion constrained to schema and
// unmarshals it into out. Code fences and surrounding prose are
// stripped before decoding.
func (c *Client) GenerateStructured(ctx context.Context, systemPrompt string, messages []Message, schema map[string]any, out any, opts Options) error {
	resp, err := c.generate(ctx, &Request{
		Messages:       messages,
		SystemPrompt:   systemPrompt,
		Model:          opts.Model,
		Tier:           opts.Tier,
		Temperature:    opts.Temperature,
		MaxTokens:      opts.MaxTokens,
		ResponseSchema: schema,
	})
	if err != nil {
		return err
	}

	payload := ExtractJSON(resp.Content)
	if payload == "" {
		return fmt.Errorf("llm: no JSON object in response")
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("llm: decode structured response: %w", err)
	}
	return nil
}

func (c *Client) generate(ctx context.Context, req *Request) (*Response, error) {
	if len(c.providers) == 0 {
		return nil, ErrNoProviders
	}

	var lastErr error
	for _, provider := range c.providers {
		resp, err := c.generateWithRetry(ctx, provider, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		c.logger.Warn("provider failed, falling through",
			"provider", provider.Name(),
			"error", err,
		)
	}

	return nil, fmt.Errorf("llm: all providers failed: %w", lastErr)
}

func (c *Client) generateWithRetry(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		resp, err := provider.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if IsAuthError(err) || ctx.Err() != nil {
			return nil, err
		}

		if attempt == c.retry.MaxAttempts-1 {
			break
		}

		delay := c.retry.CalculateDelay(attempt)
		c.logger.Debug("generation failed, backing off",
			"provider", provider.Name(),
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

// ExtractJSON pulls the JSON object out of a model response, tolerating
// markdown code fences and surrounding prose.
func ExtractJSON(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return cleaned[start : end+1]
}

// appendSchemaInstruction adds a JSON-only directive for providers
// without native schema-constrained output.
func appendSchemaInstruction(systemPrompt string, schema map[string]any) string {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return systemPrompt
	}

	instruction := "Respond with a single JSON object matching this schema, and nothing else: " + string(encoded)
	if systemPrompt == "" {
		return instruction
	}
	return systemPrompt + "\n\n" + instruction
}
