package upwork

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	batchPath       = "/api/upwork/batch"
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

// StatusError reports a non-success HTTP status from the proxy.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

// BatchRequest is the outbound payload for a batch search.
type BatchRequest struct {
	Keywords []string `json:"keywords"`
	Limit    int      `json:"limit,omitempty"`
}

// BatchResponse is the proxy envelope: a success flag plus either an error
// message or per-keyword result groups.
type BatchResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Results []KeywordResult `json:"results,omitempty"`
}

// KeywordResult groups the raw records returned for one search keyword.
type KeywordResult struct {
	Keyword string
	Jobs    []*RawJob
}

type rawBatchResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Results []struct {
		Keyword string `json:"keyword"`
		Jobs    []any  `json:"jobs"`
	} `json:"results"`
}

// SearchBatch asks the proxy for raw job records matching the keyword plan.
func (c *Client) SearchBatch(ctx context.Context, keywords []string, limit int) (*BatchResponse, error) {
	payload, err := json.Marshal(&BatchRequest{Keywords: keywords, Limit: limit})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+batchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	c.logger.Debug("make request",
		zap.String("url", req.URL.String()),
		zap.Int("keywords", len(keywords)),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Status: resp.Status}
	}

	var body io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		body, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer body.Close()
	default:
		body = resp.Body
	}

	var raw rawBatchResponse
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}

	return c.decodeBatch(&raw)
}

func (c *Client) decodeBatch(raw *rawBatchResponse) (*BatchResponse, error) {
	out := &BatchResponse{Success: raw.Success, Error: raw.Error}

	for _, result := range raw.Results {
		var jobs []*RawJob
		cfg := &mapstructure.DecoderConfig{
			Result:           &jobs,
			TagName:          "json",
			WeaklyTypedInput: true,
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(result.Jobs); err != nil {
			c.logger.Warn("skipping undecodable result group",
				zap.String("keyword", result.Keyword),
				zap.Error(err),
			)
			continue
		}
		out.Results = append(out.Results, KeywordResult{Keyword: result.Keyword, Jobs: jobs})
	}

	return out, nil
}
