package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"content-dashboard/internal/domain/content"
	apperrors "content-dashboard/pkg/errors"
	"content-dashboard/pkg/validator"
)

const (
	contentTypeFolder = "Folder"

	bulkMaxWorkers = 8

	errFolderNotFound       = "folder not found"
	errDecodeCreatedFmt     = "failed to decode created folder: %w"
	errBulkActionInvalid    = "unsupported bulk action"
	errBulkActionFailedFmt  = "bulk %s failed for %s: %w"
	errRecordMissingForBulk = "record not found"
)

// FolderList is the result of a folder listing.
type FolderList struct {
	Folders    []content.Folder `json:"folders"`
	TotalCount int              `json:"totalCount"`
}

// ContentList is the projected content of one folder.
type ContentList struct {
	Items      []content.ContentItem `json:"items"`
	TotalCount int                   `json:"totalCount"`
	TotalSize  int64                 `json:"totalSize"`
}

type CreateFolderInput struct {
	DisplayText string
	Partition   content.Partition
	ParentID    string
}

type BulkActionInput struct {
	IDs    []string
	Action content.BulkAction
}

// QueryService is the folder/content query layer. Reads degrade to empty
// results on store failure; writes propagate their errors.
type QueryService struct {
	store    ContentStore
	pageSize int
	logger   *slog.Logger
}

func NewQueryService(store ContentStore, pageSize int, logger *slog.Logger) *QueryService {
	return &QueryService{store: store, pageSize: pageSize, logger: logger}
}

// ListFolders returns the child folders under parentID, or the root set of
// the partition when parentID is empty. The query engine cannot filter on
// the containment relation, so filtering happens here.
//
// Partition scoping applies only to the root listing; a folder fetched by
// parent id is returned regardless of its partition. A failed query is
// indistinguishable from an empty one: both return an empty list.
func (s *QueryService) ListFolders(ctx context.Context, partition content.Partition, parentID string) *FolderList {
	folders, err := s.store.QueryFolders(ctx, s.pageSize)
	if err != nil {
		s.logger.Warn("folder query failed", "partition", partition, "parentId", parentID, "error", err)
		return &FolderList{Folders: []content.Folder{}}
	}

	filtered := make([]content.Folder, 0, len(folders))
	for _, f := range folders {
		if parentID != "" {
			if f.ParentID() == parentID {
				filtered = append(filtered, f)
			}
			continue
		}
		if f.IsRoot() && f.TaxonomyPart.Repository == partition {
			filtered = append(filtered, f)
		}
	}

	return &FolderList{Folders: filtered, TotalCount: len(filtered)}
}

// ListContent projects the media list embedded in folderID's record into
// read-only content items. TotalSize sums the known sizes; entries without
// a size count as zero. A missing folder or failed fetch yields an empty
// result.
func (s *QueryService) ListContent(ctx context.Context, folderID string) *ContentList {
	folder, err := s.store.GetFolder(ctx, folderID)
	if err != nil {
		s.logger.Warn("content fetch failed", "folderId", folderID, "error", err)
		return &ContentList{Items: []content.ContentItem{}}
	}
	if folder == nil {
		return &ContentList{Items: []content.ContentItem{}}
	}

	items := make([]content.ContentItem, len(folder.MediaItems))
	var totalSize int64
	for i, ref := range folder.MediaItems {
		items[i] = content.ProjectMediaItem(folder, ref, i)
		totalSize += ref.Size
	}

	return &ContentList{Items: items, TotalCount: len(items), TotalSize: totalSize}
}

// CreateFolder validates the name and submits a new folder record; the
// store assigns id, owner, and timestamps. Rejections propagate.
func (s *QueryService) CreateFolder(ctx context.Context, input CreateFolderInput) (*content.Folder, error) {
	if err := validator.FolderName(input.DisplayText); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	payload := map[string]any{
		"ContentType": contentTypeFolder,
		"DisplayText": input.DisplayText,
		"Published":   true,
		"TaxonomyPart": map[string]any{
			"Repository": []content.Partition{input.Partition},
		},
		"ListPart": map[string]any{},
	}
	if input.ParentID != "" {
		payload["ContainedPart"] = map[string]any{
			"ListContentItemId": input.ParentID,
			"Order":             0,
		}
	}

	raw, err := s.store.CreateOrUpdate(ctx, payload)
	if err != nil {
		return nil, err
	}

	var folder content.Folder
	if err := json.Unmarshal(raw, &folder); err != nil {
		return nil, fmt.Errorf(errDecodeCreatedFmt, err)
	}
	return &folder, nil
}

// ValidateFolderName is the pure validation entry point; no I/O.
func (s *QueryService) ValidateFolderName(name string) validator.NameValidation {
	return validator.ValidateFolderName(name)
}

// IsMaxDepthReached reports whether folder creation must be refused at the
// current breadcrumb depth.
func (s *QueryService) IsMaxDepthReached(path []content.BreadcrumbItem) bool {
	return IsMaxDepthReached(path)
}

// BulkAction applies one mutation per id concurrently and waits for all to
// settle. Any individual failure fails the whole bulk operation; there is
// no per-id outcome reporting.
func (s *QueryService) BulkAction(ctx context.Context, input BulkActionInput) error {
	if !input.Action.Valid() {
		return apperrors.BadRequest(errBulkActionInvalid)
	}
	if len(input.IDs) == 0 {
		return nil
	}

	workers := bulkMaxWorkers
	if workers > len(input.IDs) {
		workers = len(input.IDs)
	}

	jobs := make(chan string, len(input.IDs))
	results := make(chan error, len(input.IDs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				results <- s.applyAction(ctx, input.Action, id)
			}
		}()
	}

	for _, id := range input.IDs {
		jobs <- id
	}
	close(jobs)

	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrBulkActionFailed, err)
		}
	}
	return nil
}

func (s *QueryService) applyAction(ctx context.Context, action content.BulkAction, id string) error {
	switch action {
	case content.BulkDelete:
		if err := s.store.Delete(ctx, id); err != nil {
			return fmt.Errorf(errBulkActionFailedFmt, action, id, err)
		}
		return nil
	case content.BulkPublish:
		return s.setPublished(ctx, id, true)
	case content.BulkUnpublish:
		return s.setPublished(ctx, id, false)
	default:
		return apperrors.BadRequest(errBulkActionInvalid)
	}
}

// setPublished is a read-modify-write of the whole record; the store
// recognizes the embedded id and updates in place.
func (s *QueryService) setPublished(ctx context.Context, id string, published bool) error {
	record, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return fmt.Errorf(errBulkActionFailedFmt, publishVerb(published), id, err)
	}
	if record == nil {
		return apperrors.NotFound(errRecordMissingForBulk)
	}

	setRecordBool(record, "published", published)

	if _, err := s.store.CreateOrUpdate(ctx, record); err != nil {
		return fmt.Errorf(errBulkActionFailedFmt, publishVerb(published), id, err)
	}
	return nil
}

func publishVerb(published bool) content.BulkAction {
	if published {
		return content.BulkPublish
	}
	return content.BulkUnpublish
}

// setRecordBool updates key preserving whichever casing the record already
// uses.
func setRecordBool(record map[string]any, key string, value bool) {
	title := strings.ToUpper(key[:1]) + key[1:]
	if _, ok := record[title]; ok {
		record[title] = value
		return
	}
	record[key] = value
}
