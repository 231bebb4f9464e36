package model

import (
	"context"
	"fmt"

	"avesto/internal/domain/service"
	"avesto/pkg/config"
	xhttp "avesto/pkg/http"
)

const systemPrompt = "You are a careful personal-finance assistant for Indian users. " +
	"Answer concisely and concretely. Amounts in the query may be replaced by " +
	"placeholders like <AMOUNT>; never ask the user to reveal them."

// remoteClient talks to an OpenAI-compatible chat completions endpoint.
type remoteClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *xhttp.Client
}

func newRemoteClient(cfg *config.Config) *remoteClient {
	return &remoteClient{
		baseURL: cfg.Models.Remote.URL,
		apiKey:  cfg.Models.Remote.APIKey,
		model:   cfg.Models.Remote.Model,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Models.Remote.Timeout * 2)),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *remoteClient) complete(ctx context.Context, prompt string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("remote model url not configured")
	}

	var resp chatResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
		},
		Body: chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
			Temperature: 0.3,
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("remote complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", service.ErrInvalidModelResponse
	}
	return resp.Choices[0].Message.Content, nil
}
