package handler

import (
	"context"
	"io"

	"content-dashboard/internal/dashboard"
	"content-dashboard/internal/domain/content"
	"content-dashboard/internal/orchard"
	"content-dashboard/internal/storage/s3"
	"content-dashboard/pkg/validator"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*orchard.LoginOutcome, error)
}

// ContentHandler interfaces
type FolderQueries interface {
	ListFolders(ctx context.Context, partition content.Partition, parentID string) *dashboard.FolderList
	ListContent(ctx context.Context, folderID string) *dashboard.ContentList
	CreateFolder(ctx context.Context, input dashboard.CreateFolderInput) (*content.Folder, error)
	ValidateFolderName(name string) validator.NameValidation
	BulkAction(ctx context.Context, input dashboard.BulkActionInput) error
}

type BreadcrumbResolver interface {
	Resolve(ctx context.Context, folderID string) []content.BreadcrumbItem
}

type MediaAttacher interface {
	Attach(ctx context.Context, input dashboard.AttachInput) (*dashboard.AttachResult, error)
}

// MediaHandler interfaces
type MediaStorage interface {
	Upload(ctx context.Context, path string, payload io.Reader, contentType string) (*s3.FileInfo, error)
	Stat(ctx context.Context, path string) (*s3.FileInfo, error)
	List(ctx context.Context, dir string) ([]s3.FileInfo, error)
	Delete(ctx context.Context, path string) error
	Copy(ctx context.Context, sourcePath, destinationPath string) error
}
