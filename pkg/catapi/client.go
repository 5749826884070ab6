package catapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/samvad-hq/billi-gallery/pkg/httpclient"
)

const (
	// DefaultBaseURL is the versioned root of TheCatAPI.
	DefaultBaseURL = "https://api.thecatapi.com/v1/"
	// APIKeyHeader carries the static credential on every request.
	APIKeyHeader = "X-API-KEY"

	defaultLimit = 4
)

// Config configures a Client.
type Config struct {
	BaseURL     string
	APIKey      string
	RandomLimit int
	UploadLimit int
	HTTP        httpclient.Client
}

// Client is a thin wrapper over the remote image service.
type Client struct {
	baseURL     string
	apiKey      string
	randomLimit int
	uploadLimit int
	http        httpclient.Client
}

// NewClient builds a client. The transport defaults to resty without a timeout.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("invalid base url %q", base)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("api key is required")
	}

	client := cfg.HTTP
	if client == nil {
		client = httpclient.NewRestyClient(0)
	}

	return &Client{
		baseURL:     base,
		apiKey:      key,
		randomLimit: positiveOr(cfg.RandomLimit, defaultLimit),
		uploadLimit: positiveOr(cfg.UploadLimit, defaultLimit),
		http:        client,
	}, nil
}

// MultipartBody is an opaque multipart form body holding one file.
type MultipartBody struct {
	Field    string
	FileName string
	Reader   io.Reader
}

// RequestOptions describe a call. At most one of JSONBody and Multipart may be set.
type RequestOptions struct {
	Method    string
	Headers   map[string]string
	JSONBody  any
	Multipart *MultipartBody
}

// Request issues a call against endpoint (relative to the base URL) and returns
// the raw JSON payload. A body that is not valid JSON yields a nil payload.
// Non-2xx statuses fail with *RequestError.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions) (json.RawMessage, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("catapi client is not initialized")
	}
	if opts.JSONBody != nil && opts.Multipart != nil {
		return nil, errors.New("request cannot carry both a json and a multipart body")
	}

	req := httpclient.Request{
		Method:  opts.Method,
		URL:     c.baseURL + strings.TrimLeft(endpoint, "/"),
		Headers: c.headers(opts.Headers),
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	if opts.JSONBody != nil {
		raw, err := json.Marshal(opts.JSONBody)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		req.Body = raw
		req.Headers["Content-Type"] = "application/json"
	}
	if opts.Multipart != nil {
		req.File = &httpclient.FileField{
			Param:    opts.Multipart.Field,
			FileName: opts.Multipart.FileName,
			Reader:   opts.Multipart.Reader,
		}
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, endpoint, err)
	}

	payload := parsePayload(resp.Body())
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, newRequestError(resp.StatusCode(), payload)
	}
	return payload, nil
}

// headers copies caller headers and adds the credential unless one is present.
func (c *Client) headers(custom map[string]string) map[string]string {
	out := make(map[string]string, len(custom)+2)
	hasKey := false
	for k, v := range custom {
		if strings.EqualFold(strings.TrimSpace(k), APIKeyHeader) {
			hasKey = true
		}
		out[k] = v
	}
	if !hasKey {
		out[APIKeyHeader] = c.apiKey
	}
	return out
}

func parsePayload(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil
	}
	out := make(json.RawMessage, len(trimmed))
	copy(out, trimmed)
	return out
}

func decode[T any](payload json.RawMessage, what string) (T, error) {
	var out T
	if payload == nil {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", what, err)
	}
	return out, nil
}

// decodeList decodes a list payload. A payload that is not a JSON array is
// an empty result.
func decodeList[T any](payload json.RawMessage, what string) ([]T, error) {
	if len(payload) == 0 || payload[0] != '[' {
		return nil, nil
	}
	return decode[[]T](payload, what)
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
