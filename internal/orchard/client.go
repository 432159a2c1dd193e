package orchard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"content-dashboard/internal/config"
	"content-dashboard/internal/domain/content"
	apperrors "content-dashboard/pkg/errors"
)

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "

	errBuildRequestFmt   = "failed to build content store request: %w"
	errRequestFailedFmt  = "content store request failed: %w"
	errDecodeRecordFmt   = "failed to decode content record: %w"
	errEncodePayloadFmt  = "failed to encode content payload: %w"
	errUnexpectedStatus  = "unexpected content store status"
	msgCreateOrUpdateErr = "content store rejected the record"
	msgDeleteRecordErr   = "content store rejected the delete"
)

// Client talks to the content store's REST and GraphQL endpoints. All
// relational filtering happens client-side; the store offers none for the
// containment relation.
type Client struct {
	contentURL string
	graphqlURL string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

func NewClient(cfg config.OrchardConfig, tokens TokenSource, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		contentURL: cfg.ContentAPIURL,
		graphqlURL: cfg.GraphQLURL,
		httpClient: httpClient,
		tokens:     tokens,
		logger:     logger,
	}
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf(errBuildRequestFmt, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set(headerAuthorization, bearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errRequestFailedFmt, err)
	}
	return resp, nil
}

// GetFolder fetches one folder record by id. An absent record yields
// (nil, nil), not an error.
func (c *Client) GetFolder(ctx context.Context, id string) (*content.Folder, error) {
	body, err := c.getRecordBody(ctx, id)
	if err != nil || body == nil {
		return nil, err
	}

	var folder content.Folder
	if err := json.Unmarshal(body, &folder); err != nil {
		return nil, fmt.Errorf(errDecodeRecordFmt, err)
	}
	if folder.ContentItemID == "" {
		return nil, nil
	}
	return &folder, nil
}

// GetRecord fetches one record by id in its raw wire shape, preserving every
// field so a later write-back can resubmit the whole record unchanged.
// An absent record yields (nil, nil).
func (c *Client) GetRecord(ctx context.Context, id string) (map[string]any, error) {
	body, err := c.getRecordBody(ctx, id)
	if err != nil || body == nil {
		return nil, err
	}

	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf(errDecodeRecordFmt, err)
	}
	if len(record) == 0 {
		return nil, nil
	}
	return record, nil
}

func (c *Client) getRecordBody(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentURL+"/"+id, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode >= http.StatusMultipleChoices:
		return nil, apperrors.StoreFailure(errUnexpectedStatus, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errRequestFailedFmt, err)
	}
	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}
	return body, nil
}

// CreateOrUpdate posts a record to the content base endpoint. The store
// treats a payload carrying a content item id as an update of that record
// and anything else as a create.
func (c *Client) CreateOrUpdate(ctx context.Context, payload any) (json.RawMessage, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf(errEncodePayloadFmt, err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.contentURL, bytes.NewReader(encoded), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.StoreFailure(msgCreateOrUpdateErr, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errRequestFailedFmt, err)
	}
	return json.RawMessage(body), nil
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.contentURL+"/"+id, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return apperrors.StoreFailure(msgDeleteRecordErr, fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}
