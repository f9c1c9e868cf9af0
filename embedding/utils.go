package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a failed response is pulled into the
// error message. Inference gateways tend to return short JSON errors;
// anything longer is noise.
const maxErrorBody = 512

// postJSON sends a JSON POST to the inference API and optionally decodes
// the response into out. Non-2xx responses become errors carrying a
// truncated slice of the body, which is usually the gateway's reason
// (model not loaded, input too long, quota).
func (p *InferenceProvider) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("inference: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("inference: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.serviceToken)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if reason := strings.TrimSpace(string(detail)); reason != "" {
			return fmt.Errorf("inference: http %d for %s: %s", resp.StatusCode, url, reason)
		}
		return fmt.Errorf("inference: http %d for %s", resp.StatusCode, url)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("inference: decode response: %w", err)
		}
	}
	return nil
}
