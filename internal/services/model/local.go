package model

import (
	"context"
	"fmt"

	"avesto/pkg/config"
	xhttp "avesto/pkg/http"
)

// localClient talks to an Ollama-compatible server running a small model on
// the device. No authentication: it only ever listens on localhost.
type localClient struct {
	baseURL string
	model   string
	client  *xhttp.Client
}

func newLocalClient(cfg *config.Config) *localClient {
	return &localClient{
		baseURL: cfg.Models.Local.URL,
		model:   cfg.Models.Local.Model,
		// context deadline enforces the per-call budget; the client timeout
		// is only a safety net
		client: xhttp.NewClient(xhttp.WithTimeout(cfg.Models.Local.Timeout * 2)),
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *localClient) generate(ctx context.Context, prompt string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("local model url not configured")
	}

	var resp generateResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/api/generate",
		Body: generateRequest{
			Model:  c.model,
			Prompt: prompt,
			Stream: false,
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("local generate: %w", err)
	}
	return resp.Response, nil
}
