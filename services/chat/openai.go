package chatsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/opennotes/opennotes/core"
)

// openAICompleter answers tutoring prompts via an OpenAI-compatible
// chat-completions endpoint.
type openAICompleter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

var _ core.ChatCompleter = (*openAICompleter)(nil)

func NewOpenAICompleter(conf *core.Config) *openAICompleter {
	return &openAICompleter{
		baseURL: conf.Chat.BaseURL,
		apiKey:  conf.Chat.APIKey,
		model:   conf.Chat.Model,
		client:  &http.Client{Timeout: conf.Chat.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *openAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	body := map[string]interface{}{
		"model": c.model,
		"messages": []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "encoding chat request")
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload),
	)
	if err != nil {
		return "", errors.Wrap(err, "building chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling chat endpoint")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading chat response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("chat endpoint returned %s: %s", resp.Status, respBody)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err = json.Unmarshal(respBody, &result); err != nil {
		return "", errors.Wrap(err, "decoding chat response")
	}
	if len(result.Choices) == 0 {
		return "", errors.New("chat endpoint returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}
