package dashboard

import (
	"context"
	"io"
	"log/slog"

	"content-dashboard/internal/domain/content"
	apperrors "content-dashboard/pkg/errors"
)

const (
	errAttachFolderMissing = "folder to attach to not found"
)

// AttachInput describes one upload destined for a folder's media list.
type AttachInput struct {
	FolderID  string
	Directory string
	FileName  string
	Payload   io.Reader
}

// AttachResult reports the stored descriptor and which media-field shape
// the merge matched on the folder record.
type AttachResult struct {
	Reference content.MediaReference `json:"reference"`
	Shape     MediaFieldShape        `json:"-"`
}

// AttachService runs the upload-and-attach sequence. The binary store and
// the metadata store are independent systems with no server-side linkage,
// so attaching takes three sequential round-trips:
//
//  1. upload the payload to the file store,
//  2. re-fetch the owning folder record fresh (never from cached state),
//  3. merge the new reference into whichever media-field shape the record
//     carries and resubmit the entire record.
//
// The write-back is last-writer-wins over the whole record: two uploads
// racing between steps 2 and 3 lose the first one's appended reference.
// No optimistic-concurrency token exists on the store's update endpoint.
// A failure after step 1 leaves the uploaded blob orphaned in the file
// store; there is no compensating delete.
type AttachService struct {
	store  ContentStore
	media  MediaStore
	logger *slog.Logger
}

func NewAttachService(store ContentStore, media MediaStore, logger *slog.Logger) *AttachService {
	return &AttachService{store: store, media: media, logger: logger}
}

// Attach uploads input.Payload and appends the resulting reference to the
// folder's media collection. Failure at any step aborts the whole
// procedure; no retries.
func (s *AttachService) Attach(ctx context.Context, input AttachInput) (*AttachResult, error) {
	ref, err := s.media.Upload(ctx, input.Directory, input.FileName, input.Payload)
	if err != nil {
		return nil, err
	}

	record, err := s.store.GetRecord(ctx, input.FolderID)
	if err != nil {
		s.logger.Warn("orphaned media blob: folder fetch failed after upload",
			"folderId", input.FolderID, "path", ref.Path, "error", err)
		return nil, err
	}
	if record == nil {
		s.logger.Warn("orphaned media blob: folder vanished after upload",
			"folderId", input.FolderID, "path", ref.Path)
		return nil, apperrors.NotFound(errAttachFolderMissing)
	}

	shape := AppendMediaReference(record, *ref)

	if _, err := s.store.CreateOrUpdate(ctx, record); err != nil {
		s.logger.Warn("orphaned media blob: record write-back failed",
			"folderId", input.FolderID, "path", ref.Path, "error", err)
		return nil, err
	}

	return &AttachResult{Reference: *ref, Shape: shape}, nil
}
