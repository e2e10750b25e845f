// Package jimeng implements the provider adapter for the Jimeng direct
// image-generation API, which returns produced images as a flat array.
package jimeng

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/inkforge/inkforge-api/internal/domain"
	"github.com/inkforge/inkforge-api/internal/provider"
)

// DefaultEndpoint is used when the account carries no endpoint override.
const DefaultEndpoint = "https://api.jimeng.jianying.com/prompt/generate"

const defaultTimeout = 120 * time.Second

type generateRequest struct {
	Prompt         string `json:"prompt"`
	Count          int    `json:"count"`
	BaseImage      string `json:"base_image,omitempty"`
	ReferenceImage string `json:"reference_image,omitempty"`
}

type generateResponse struct {
	// Images is an array on the documented path; decode lazily so a
	// missing or non-array value stays a successful empty result.
	Images json.RawMessage `json:"images"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Result wraps the raw generation response.
type Result struct {
	resp generateResponse
}

// Images returns the vendor's image array verbatim; a response without
// one, or with a non-array value, normalizes to an empty list.
func (r Result) Images() []string {
	var images []string
	if err := json.Unmarshal(r.resp.Images, &images); err != nil || images == nil {
		return []string{}
	}
	return images
}

// Adapter invokes the Jimeng generation endpoint.
type Adapter struct {
	client *resty.Client
	logger *slog.Logger
}

// New creates a Jimeng adapter with its own HTTP client. The client
// performs no retries; retry policy belongs to the dispatcher.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{
		client: resty.New().SetTimeout(defaultTimeout),
		logger: logger.With("provider", domain.ProviderJimeng),
	}
}

// Generate sends a flat prompt/count request, adding the base and style
// reference image keys only when those inputs are present,
// bearer-authenticated with the account's API key.
func (a *Adapter) Generate(ctx context.Context, account domain.Account, req provider.Request) (provider.Result, error) {
	endpoint := account.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	count := req.Count
	if count <= 0 {
		count = 1
	}

	body := generateRequest{
		Prompt:         req.Prompt,
		Count:          count,
		BaseImage:      req.BaseImage,
		ReferenceImage: req.RefStyleImage,
	}

	a.logger.Debug("calling jimeng", "endpoint", endpoint, "count", count)

	var out generateResponse
	var vendorErr generateResponse
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
