package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTPAnalyzer struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPAnalyzer posts to endpoint, e.g. http://127.0.0.1:8000/api/analyze.
// timeout bounds each call; zero means no client-side limit.
func NewHTTPAnalyzer(endpoint string, timeout time.Duration) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, req Request) (*Response, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build analysis request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analysis response failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Detail json.RawMessage `json:"detail"`
		}
		aerr := &Error{StatusCode: resp.StatusCode}
		if json.Unmarshal(raw, &payload) == nil {
			aerr.Detail = detailText(payload.Detail)
		}
		return nil, aerr
	}

	var parsed Response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse analysis json failed: %w", err)
	}
	return &parsed, nil
}

// detailText accepts a string detail and falls back to the raw JSON for
// structured details such as validation error lists.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
