package orchard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"

	"content-dashboard/internal/domain/content"
	apperrors "content-dashboard/pkg/errors"
)

const (
	formFieldFile = "file"
	formFieldPath = "path"

	errBuildUploadFmt    = "failed to build upload request: %w"
	errMediaRequestFmt   = "media store request failed: %w"
	errDecodeMediaFmt    = "failed to decode media store response: %w"
	msgUploadRejected    = "media store rejected the upload"
	msgMediaListRejected = "media store rejected the listing"
	msgMediaMoveRejected = "media store rejected the move"
	msgMediaFileMissing  = "media file not found"
)

// MediaListing is the media store's directory listing.
type MediaListing struct {
	Path       string                   `json:"path"`
	Files      []content.MediaReference `json:"files"`
	TotalCount int                      `json:"totalCount"`
}

// MediaClient talks to the binary file store behind the media proxy API.
type MediaClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

func NewMediaClient(baseURL string, tokens TokenSource, httpClient *http.Client, logger *slog.Logger) *MediaClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MediaClient{baseURL: baseURL, httpClient: httpClient, tokens: tokens, logger: logger}
}

func (m *MediaClient) do(ctx context.Context, method, target string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf(errMediaRequestFmt, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if m.tokens != nil {
		token, err := m.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set(headerAuthorization, bearerPrefix+token)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errMediaRequestFmt, err)
	}
	return resp, nil
}

// Upload sends a binary payload plus its destination directory to the file
// store and returns the canonical descriptor the store assigned.
func (m *MediaClient) Upload(ctx context.Context, dir, filename string, payload io.Reader) (*content.MediaReference, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(formFieldFile, filename)
	if err != nil {
		return nil, fmt.Errorf(errBuildUploadFmt, err)
	}
	if _, err := io.Copy(part, payload); err != nil {
		return nil, fmt.Errorf(errBuildUploadFmt, err)
	}
	if err := writer.WriteField(formFieldPath, dir); err != nil {
		return nil, fmt.Errorf(errBuildUploadFmt, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf(errBuildUploadFmt, err)
	}

	resp, err := m.do(ctx, http.MethodPost, m.baseURL, &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, apperrors.MediaStoreFailure(msgUploadRejected, fmt.Errorf("status %d", resp.StatusCode))
	}

	var ref content.MediaReference
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf(errDecodeMediaFmt, err)
	}
	return &ref, nil
}

// List returns the file descriptors directly under dir.
func (m *MediaClient) List(ctx context.Context, dir string) (*MediaListing, error) {
	target := m.baseURL + "/list?path=" + url.QueryEscape(dir)

	resp, err := m.do(ctx, http.MethodGet, target, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.MediaStoreFailure(msgMediaListRejected, fmt.Errorf("status %d", resp.StatusCode))
	}

	var listing MediaListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf(errDecodeMediaFmt, err)
	}
	return &listing, nil
}

// Info fetches one file descriptor by path. A missing file yields (nil, nil).
func (m *MediaClient) Info(ctx context.Context, path string) (*content.MediaReference, error) {
	resp, err := m.do(ctx, http.MethodGet, m.baseURL+"/"+escapePath(path), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.MediaStoreFailure(msgMediaFileMissing, fmt.Errorf("status %d", resp.StatusCode))
	}

	var ref content.MediaReference
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf(errDecodeMediaFmt, err)
	}
	return &ref, nil
}

// Delete removes one file by path.
func (m *MediaClient) Delete(ctx context.Context, path string) error {
	resp, err := m.do(ctx, http.MethodDelete, m.baseURL+"/"+escapePath(path), nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NotFound(msgMediaFileMissing)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return apperrors.MediaStoreFailure(msgMediaFileMissing, fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

type moveRequest struct {
	SourcePath      string `json:"sourcePath"`
	DestinationPath string `json:"destinationPath"`
}

// Move relocates a file. The store implements this as copy-then-delete;
// there is no atomic rename contract.
func (m *MediaClient) Move(ctx context.Context, sourcePath, destinationPath string) error {
	payload, err := json.Marshal(moveRequest{SourcePath: sourcePath, DestinationPath: destinationPath})
	if err != nil {
		return fmt.Errorf(errMediaRequestFmt, err)
	}

	resp, err := m.do(ctx, http.MethodPut, m.baseURL+"/move", bytes.NewReader(payload), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NotFound(msgMediaFileMissing)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return apperrors.MediaStoreFailure(msgMediaMoveRejected, fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

// escapePath escapes each path segment while keeping separators intact.
func escapePath(path string) string {
	return (&url.URL{Path: path}).EscapedPath()
}
