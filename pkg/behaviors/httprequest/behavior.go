// Package httprequest provides an HTTP request node behavior.
package httprequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	InputHandleBody = "body"

	OutputHandleStatus  = "status_code"
	OutputHandleBody    = "body"
	OutputHandleHeaders = "headers"

	defaultTimeoutSeconds = 30
)

// Config defines the configuration for HTTP request behaviors. Retry policy
// belongs here, in the node implementation, not in the engine.
type Config struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Timeout int               `json:"timeout"`
}

// Behavior performs one HTTP request. The request body comes from the "body"
// input handle when connected, otherwise from the configured properties.
type Behavior struct {
	id     string
	config Config
	client *http.Client
}

func NewBehavior(id string, properties map[string]any) (*Behavior, error) {
	config := Config{
		Method:  http.MethodGet,
		Headers: make(map[string]string),
		Timeout: defaultTimeoutSeconds,
	}

	url, ok := properties["url"].(string)
	if !ok {
		return nil, errors.New("missing required property 'url'")
	}

	config.URL = url

	if method, ok := properties["method"].(string); ok {
		config.Method = strings.ToUpper(method)
	}

	if headers, ok := properties["headers"].(map[string]any); ok {
		for k, v := range headers {
			if strVal, ok := v.(string); ok {
				config.Headers[k] = strVal
			}
		}
	}

	switch timeout := properties["timeout"].(type) {
	case int:
		config.Timeout = timeout
	case float64:
		config.Timeout = int(timeout)
	}

	return &Behavior{
		id:     id,
		config: config,
		client: &http.Client{Timeout: time.Duration(config.Timeout) * time.Second},
	}, nil
}

func (b *Behavior) ID() string {
	return b.id
}

func (b *Behavior) Type() string {
	return "httprequest"
}

func (b *Behavior) Execute(ctx context.Context, inputs map[string]any, _ map[string]any) (map[string]any, error) {
	var requestBody io.Reader

	if raw, ok := inputs[InputHandleBody]; ok {
		switch v := raw.(type) {
		case string:
			requestBody = strings.NewReader(v)
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}

			requestBody = strings.NewReader(string(encoded))
		}
	}

	req, err := http.NewRequestWithContext(ctx, b.config.Method, b.config.URL, requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for k, v := range b.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", b.config.URL, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	headers := make(map[string]any, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return map[string]any{
		OutputHandleStatus:  resp.StatusCode,
		OutputHandleBody:    decodeBody(body, resp.Header.Get("Content-Type")),
		OutputHandleHeaders: headers,
	}, nil
}

// decodeBody parses JSON responses into structured data and leaves everything
// else as a string.
func decodeBody(body []byte, contentType string) any {
	if strings.Contains(contentType, "application/json") {
		var decoded any
		if err := json.Unmarshal(body, &decoded); err == nil {
			return decoded
		}
	}

	return string(body)
}
