// Package volcengine implements the provider adapter for the Volcengine
// Ark chat-completion API, which returns generated images as inline data
// URIs inside a chat message.
package volcengine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/provider"
)

// Defaults used when the account carries no endpoint or model override.
const (
	DefaultEndpoint = "https://ark.cn-beijing.volces.com/api/v3/chat/completions"
	DefaultModelID  = "ep-20241223111111-xxxxx"
)

const defaultTimeout = 120 * time.Second

type imageURL struct {
	URL string `json:"url"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			// Content is a string when the model inlines an image, but
			// the API may also return structured part arrays; decode
			// lazily so unexpected shapes stay a successful empty result.
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Result wraps the raw chat-completion response.
type Result struct {
	resp chatResponse
}

// Images reads the produced images out of the chat response: a single
// message whose string content starts with an inline-image-data marker is
// the one produced image. Anything else, including non-string content
// shapes, normalizes to an empty list.
func (r Result) Images() []string {
	if len(r.resp.Choices) == 0 {
		return []string{}
	}
	var content string
	if err := json.Unmarshal(r.resp.Choices[0].Message.Content, &content); err != nil {
		return []string{}
	}
	if strings.HasPrefix(content, "data:image") {
		return []string{content}
	}
	return []string{}
}

// Adapter invokes the Volcengine chat-completion endpoint.
type Adapter struct {
	client *resty.Client
	logger *slog.Logger
}

// New creates a Volcengine adapter with its own HTTP client. The client
// performs no retries; retry policy belongs to the dispatcher.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{
		client: resty.New().SetTimeout(defaultTimeout),
		logger: logger.With("provider", domain.ProviderVolcengine),
	}
}

// Generate sends a non-streaming chat-completion request built from the
// prompt and the optional reference image, bearer-authenticated with the
// account's API key.
func (a *Adapter) Generate(ctx context.Context, account domain.Account, req provider.Request) (provider.Result, error) {
	endpoint := account.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	modelID := account.ModelID
	if modelID == "" {
		modelID = DefaultModelID
	}

	parts := []contentPart{{Type: "text", Text: req.Prompt}}
	if req.ReferenceImage != "" {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: req.ReferenceImage},
		})
	}

	body := chatRequest{
		Model:    modelID,
		Messages: []message{{Role: "user", Content: parts}},
		Stream:   false,
	}

	a.logger.Debug("calling volcengine", "endpoint", endpoint, "model", modelID)

	var out chatResponse
	var vendorErr apiError
	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(account.APIKey).
		SetBody(body).
		SetResult(&out).
		SetError(&vendorErr).
		Post(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", provider.ErrProviderCall, err.Error())
	}
	if resp.IsError() {
		msg := vendorErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("%w: %s", provider.ErrProviderCall, msg)
	}

	return Result{resp: out}, nil
}
