package orchard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"content-dashboard/internal/domain/content"
	apperrors "content-dashboard/pkg/errors"
)

// The query engine exposes no filter on the containment relation, so the
// select set carries containedPart and taxonomyPart for client-side
// filtering instead.
const folderQueryFmt = `query QueryFolders {
  folder(first: %d) {
    contentItemId
    displayText
    owner
    author
    createdUtc
    modifiedUtc
    published
    containedPart {
      listContentItemId
      order
    }
    taxonomyPart {
      repository
    }
  }
}`

const (
	errEncodeQueryFmt   = "failed to encode folder query: %w"
	errDecodeQueryFmt   = "failed to decode folder query response: %w"
	msgFolderQueryErr   = "folder query rejected"
	defaultFolderFirstN = 100
)

type graphqlRequest struct {
	Query string `json:"query"`
}

type folderQueryResponse struct {
	Data struct {
		Folder []content.Folder `json:"folder"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// QueryFolders fetches up to first folder records from the query endpoint.
// A non-positive first falls back to the default page size.
func (c *Client) QueryFolders(ctx context.Context, first int) ([]content.Folder, error) {
	if first <= 0 {
		first = defaultFolderFirstN
	}

	payload, err := json.Marshal(graphqlRequest{Query: fmt.Sprintf(folderQueryFmt, first)})
	if err != nil {
		return nil, fmt.Errorf(errEncodeQueryFmt, err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.StoreFailure(msgFolderQueryErr, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errRequestFailedFmt, err)
	}

	var decoded folderQueryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf(errDecodeQueryFmt, err)
	}

	if len(decoded.Errors) > 0 {
		return nil, apperrors.StoreFailure(msgFolderQueryErr, fmt.Errorf("%s", decoded.Errors[0].Message))
	}

	return decoded.Data.Folder, nil
}
