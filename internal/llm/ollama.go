// Package llm asks a local Ollama model for match commentary.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Defaults for a stock Ollama install.
const (
	DefaultURL   = "http://localhost:11434"
	DefaultModel = "llama3"
)

// SystemPrompt sets the coaching persona.
const SystemPrompt = "You are an AI assistant for the game 'Eternal Return'. " +
	"Your role is to provide strategic advice and commentary based on the current match status. " +
	"Speak in Japanese, be concise, and act like a knowledgeable coach or partner. " +
	"If an enemy has a high win rate (>20%), warn the user. " +
	"If an enemy is weak, encourage the user to attack."

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`
	Error   string  `json:"error"`
}

// Config configures a Client.
type Config struct {
	URL          string
	Model        string
	SystemPrompt string
	Client       *http.Client
	Logger       *slog.Logger
}

// Client is a non-streaming Ollama chat client.
type Client struct {
	url    string
	model  string
	system string
	client *http.Client
	logger *slog.Logger
}

// New creates a client, filling unset fields with defaults.
func New(config Config) *Client {
	c := &Client{
		url:    strings.TrimSuffix(config.URL, "/"),
		model:  config.Model,
		system: config.SystemPrompt,
		client: config.Client,
		logger: config.Logger,
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.system == "" {
		c.system = SystemPrompt
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.client == nil {
		// Local models can take a while to load on first use.
		c.client = &http.Client{Timeout: 2 * time.Minute}
	}
	return c
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.model }

// Commentary sends the match context as the user turn and returns the
// model's reply.
func (c *Client) Commentary(ctx context.Context, matchContext string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: c.system},
			{Role: "user", Content: matchContext},
		},
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach Ollama at %s: %w", c.url, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var out chatResponse
	if res.StatusCode != http.StatusOK {
		if json.Unmarshal(data, &out) == nil && out.Error != "" {
			return "", fmt.Errorf("ollama: %s (status %d)", out.Error, res.StatusCode)
		}
		return "", fmt.Errorf("ollama: status %d: %s", res.StatusCode, bytes.TrimSpace(data))
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	c.logger.Debug("commentary generated", "model", c.model, "duration", time.Since(start))
	return out.Message.Content, nil
}
