package content

import (
	"path/filepath"
	"strings"
	"time"
)

// MaxBreadcrumbDepth bounds how many containment hops a breadcrumb trail may
// follow. It is a safety valve against cycles in the containment graph, not a
// business rule on tree depth.
const MaxBreadcrumbDepth = 10

// Partition is a named scope folders belong to, used to segregate queries.
type Partition string

const (
	PartitionLocal  Partition = "Local"
	PartitionShared Partition = "Shared"
)

func (p Partition) Valid() bool {
	return p == PartitionLocal || p == PartitionShared
}

// Section is a navigation category of the dashboard.
type Section string

const (
	SectionSharedBlog Section = "shared-blog"
	SectionFile       Section = "file"
	SectionChangeLogs Section = "change-logs"
)

func (s Section) Valid() bool {
	return s == SectionSharedBlog || s == SectionFile || s == SectionChangeLogs
}

// ContainedPart is the containment back-reference of a content record.
// A nil ContainedPart marks a root node.
type ContainedPart struct {
	ListContentItemID string `json:"listContentItemId"`
	Order             int    `json:"order"`
}

// TaxonomyPart scopes a record to a repository partition.
type TaxonomyPart struct {
	Repository Partition `json:"repository"`
}

// MediaReference describes one uploaded asset attached to a folder.
type MediaReference struct {
	Path       string     `json:"path"`
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Size       int64      `json:"size,omitempty"`
	MimeType   string     `json:"mimeType,omitempty"`
	CreatedUtc *time.Time `json:"createdUtc,omitempty"`
}

// Folder is a node in the virtual tree. Its attached media live directly in
// MediaItems; there is no separate file record in the content store.
//
// The standard library's case-insensitive key matching accepts both the
// "mediaItems" and "MediaItems" casings the store has been observed to emit.
type Folder struct {
	ContentItemID string           `json:"contentItemId"`
	DisplayText   string           `json:"displayText"`
	Owner         string           `json:"owner"`
	Author        string           `json:"author,omitempty"`
	CreatedUtc    time.Time        `json:"createdUtc"`
	ModifiedUtc   time.Time        `json:"modifiedUtc"`
	Published     bool             `json:"published"`
	ContainedPart *ContainedPart   `json:"containedPart,omitempty"`
	TaxonomyPart  TaxonomyPart     `json:"taxonomyPart"`
	MediaItems    []MediaReference `json:"mediaItems,omitempty"`
}

// IsRoot reports whether the folder has no containment back-reference.
func (f *Folder) IsRoot() bool {
	return f.ContainedPart == nil || f.ContainedPart.ListContentItemID == ""
}

// ParentID returns the containing folder's id, or "" for root folders.
func (f *Folder) ParentID() string {
	if f.ContainedPart == nil {
		return ""
	}
	return f.ContainedPart.ListContentItemID
}

// ContentItem is a read-only view synthesized from a folder's media list.
// It is never persisted independently.
type ContentItem struct {
	ContentItemID string        `json:"contentItemId"`
	ContentType   string        `json:"contentType"`
	DisplayText   string        `json:"displayText"`
	Owner         string        `json:"owner"`
	Author        string        `json:"author,omitempty"`
	CreatedUtc    time.Time     `json:"createdUtc"`
	ModifiedUtc   time.Time     `json:"modifiedUtc"`
	Published     bool          `json:"published"`
	ContainedPart ContainedPart `json:"containedPart"`
	TaxonomyPart  TaxonomyPart  `json:"taxonomyPart"`
	ContentSize   int64         `json:"contentSize,omitempty"`
	MimeType      string        `json:"mimeType,omitempty"`
	FileExtension string        `json:"fileExtension,omitempty"`
	MediaPath     string        `json:"mediaPath,omitempty"`
	MediaURL      string        `json:"mediaUrl,omitempty"`
	DisplaySize   string        `json:"displaySize,omitempty"`
	FileType      string        `json:"fileType,omitempty"`
}

// ProjectMediaItem renders one media reference as if it were an independent
// content record owned by its folder. Index becomes the containment order.
func ProjectMediaItem(folder *Folder, ref MediaReference, index int) ContentItem {
	item := ContentItem{
		ContentItemID: ref.Path,
		ContentType:   "File",
		DisplayText:   ref.Name,
		Owner:         folder.Owner,
		Author:        folder.Author,
		ModifiedUtc:   folder.ModifiedUtc,
		Published:     folder.Published,
		ContainedPart: ContainedPart{
			ListContentItemID: folder.ContentItemID,
			Order:             index,
		},
		TaxonomyPart:  folder.TaxonomyPart,
		ContentSize:   ref.Size,
		MimeType:      ref.MimeType,
		FileExtension: strings.TrimPrefix(filepath.Ext(ref.Name), "."),
		MediaPath:     ref.Path,
		MediaURL:      ref.URL,
	}
	item.DisplaySize = FormatFileSize(ref.Size)
	item.FileType = FileTypeLabel(ref.MimeType, item.FileExtension)
	if ref.CreatedUtc != nil {
		item.CreatedUtc = *ref.CreatedUtc
	} else {
		item.CreatedUtc = folder.CreatedUtc
	}
	return item
}

// BreadcrumbItem is one entry of a root-to-current breadcrumb trail.
// Level is the distance from the trail's first entry.
type BreadcrumbItem struct {
	ContentItemID string `json:"contentItemId"`
	DisplayText   string `json:"displayText"`
	Level         int    `json:"level"`
}

// BulkAction is a publish/unpublish/delete operation applied to a selection.
type BulkAction string

const (
	BulkPublish   BulkAction = "publish"
	BulkUnpublish BulkAction = "unpublish"
	BulkDelete    BulkAction = "delete"
)

func (a BulkAction) Valid() bool {
	return a == BulkPublish || a == BulkUnpublish || a == BulkDelete
}
