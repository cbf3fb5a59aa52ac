package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"sllm/pkg/types"
)

// Version returns the server version from GET /api/version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var v types.VersionResponse
	if err := c.getJSON(ctx, "/api/version", &v); err != nil {
		return "", err
	}
	if v.Version == "" {
		return "unknown", nil
	}
	return v.Version, nil
}

// Models lists the models stored by the server (GET /api/tags).
func (c *Client) Models(ctx context.Context) ([]types.ModelTag, error) {
	var tags types.TagsResponse
	if err := c.getJSON(ctx, "/api/tags", &tags); err != nil {
		return nil, err
	}
	return tags.Models, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	rctx, cancel := context.WithTimeout(ctx, infoTimeout)
	defer cancel()
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(rctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.classify(ctx, rctx, "info", infoTimeout, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPStatusError{Status: resp.Status, Code: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
