package dashboard

import (
	"context"
	"log/slog"

	"content-dashboard/internal/domain/content"
)

// PathResolver turns a folder id into a root-first breadcrumb trail by
// following the containment back-reference, bounded by a maximum hop count.
type PathResolver struct {
	store    ContentStore
	maxDepth int
	logger   *slog.Logger
}

func NewPathResolver(store ContentStore, logger *slog.Logger) *PathResolver {
	return &PathResolver{
		store:    store,
		maxDepth: content.MaxBreadcrumbDepth,
		logger:   logger,
	}
}

// Resolve builds the breadcrumb trail for folderID, root-first with levels
// counting up from 0. An unknown folder resolves to an empty trail. Any
// broken link on the way up (a fetch failure or a dangling parent
// reference) collapses the whole trail to empty rather than truncating it.
func (r *PathResolver) Resolve(ctx context.Context, folderID string) []content.BreadcrumbItem {
	return r.ResolveDepth(ctx, folderID, r.maxDepth)
}

// ResolveDepth is Resolve with an explicit hop bound. The bound caps
// traversal cost on malformed data; hitting it truncates the trail at the
// fetched ancestors, it is not an error.
func (r *PathResolver) ResolveDepth(ctx context.Context, folderID string, maxDepth int) []content.BreadcrumbItem {
	folder, err := r.store.GetFolder(ctx, folderID)
	if err != nil {
		r.logger.Warn("breadcrumb resolution failed", "folderId", folderID, "error", err)
		return []content.BreadcrumbItem{}
	}
	if folder == nil {
		return []content.BreadcrumbItem{}
	}

	// Ordered current-to-root; reversed below. The visited set guards
	// against containment cycles shorter than the hop bound.
	chain := []*content.Folder{folder}
	visited := map[string]struct{}{folder.ContentItemID: {}}

	current := folder
	for hops := 0; hops < maxDepth && !current.IsRoot(); hops++ {
		parentID := current.ParentID()
		if _, seen := visited[parentID]; seen {
			r.logger.Warn("containment cycle detected", "folderId", parentID)
			break
		}

		parent, err := r.store.GetFolder(ctx, parentID)
		if err != nil {
			r.logger.Warn("breadcrumb resolution failed", "folderId", parentID, "error", err)
			return []content.BreadcrumbItem{}
		}
		if parent == nil {
			r.logger.Warn("dangling containment reference", "folderId", current.ContentItemID, "parentId", parentID)
			return []content.BreadcrumbItem{}
		}

		chain = append(chain, parent)
		visited[parent.ContentItemID] = struct{}{}
		current = parent
	}

	trail := make([]content.BreadcrumbItem, len(chain))
	for i, f := range chain {
		level := len(chain) - 1 - i
		trail[level] = content.BreadcrumbItem{
			ContentItemID: f.ContentItemID,
			DisplayText:   f.DisplayText,
			Level:         level,
		}
	}
	return trail
}

// IsMaxDepthReached reports whether a breadcrumb trail has hit the depth at
// which folder creation is refused.
func IsMaxDepthReached(path []content.BreadcrumbItem) bool {
	return len(path) >= content.MaxBreadcrumbDepth
}
