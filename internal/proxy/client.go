// Package proxy forwards verse questions to the public Bible API.
package proxy

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

const DefaultBaseURL = "https://bible-api.com"

var ErrUpstream = errors.New("upstream request failed")

// Passage is the subset of the Bible API response the proxy reads.
type Passage struct {
	Reference   string `json:"reference"`
	Text        string `json:"text"`
	Translation string `json:"translation_id"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Lookup asks the Bible API for question. The question is appended to the
// base URL as-is; the API itself interprets references such as "John 3:16".
func (c *Client) Lookup(ctx context.Context, question string) (*Passage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+question, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrUpstream, err)
	}

	// a successful reply that is not a passage carries no verse
	var p Passage
	if err := json.Unmarshal(body, &p); err != nil {
		return &Passage{}, nil
	}
	return &p, nil
}
