package handler

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"content-dashboard/internal/domain/content"
	"content-dashboard/internal/storage/s3"
	"content-dashboard/pkg/validator"

	"github.com/labstack/echo/v4"
)

const (
	uniqueNameTimeLayout = "20060102150405"
	defaultUploadMime    = "application/octet-stream"
)

// MediaHandler is the thin proxy over the binary file store. It owns the
// naming scheme for stored objects and nothing else; folder attachment is
// the content handler's business.
type MediaHandler struct {
	storage   MediaStorage
	urlPrefix string
	maxSize   int64
	now       func() time.Time
}

func NewMediaHandler(storage MediaStorage, urlPrefix string, maxSize int64) *MediaHandler {
	return &MediaHandler{
		storage:   storage,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		maxSize:   maxSize,
		now:       time.Now,
	}
}

// MediaListResponse mirrors the listing shape upload clients consume.
type MediaListResponse struct {
	Path       string                   `json:"path"`
	Files      []content.MediaReference `json:"files"`
	TotalCount int                      `json:"totalCount"`
}

// Upload stores one multipart file under the requested directory. The
// stored name is the client's base name suffixed with an upload timestamp
// so repeated uploads of the same file never overwrite each other.
func (h *MediaHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile(formFieldFile)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgFileFieldRequired)
	}
	if h.maxSize > 0 && fileHeader.Size > h.maxSize {
		return respondError(c, http.StatusRequestEntityTooLarge, msgFileTooLarge)
	}

	dir := validator.SanitizeMediaPath(c.FormValue(formFieldPath))
	if err := validator.MediaPath(dir); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgFileFieldRequired)
	}
	defer src.Close()

	name := uniqueFileName(filepath.Base(fileHeader.Filename), h.now())
	key := name
	if dir != "" {
		key = dir + "/" + name
	}

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = guessMimeType(name)
	}

	info, err := h.storage.Upload(c.Request().Context(), key, src, contentType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, h.reference(info))
}

func (h *MediaHandler) List(c echo.Context) error {
	dir := validator.SanitizeMediaPath(c.QueryParam(queryParamPath))
	if err := validator.MediaPath(dir); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	infos, err := h.storage.List(c.Request().Context(), dir)
	if err != nil {
		return err
	}

	files := make([]content.MediaReference, 0, len(infos))
	for i := range infos {
		files = append(files, h.reference(&infos[i]))
	}

	return c.JSON(http.StatusOK, MediaListResponse{
		Path:       dir,
		Files:      files,
		TotalCount: len(files),
	})
}

func (h *MediaHandler) Info(c echo.Context) error {
	path := validator.SanitizeMediaPath(c.Param(paramWildcard))
	if err := validator.MediaPath(path); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	info, err := h.storage.Stat(c.Request().Context(), path)
	if err != nil {
		return err
	}
	if info == nil {
		return respondError(c, http.StatusNotFound, msgMediaFileNotFound)
	}

	return c.JSON(http.StatusOK, h.reference(info))
}

type MediaDeleteResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

func (h *MediaHandler) Delete(c echo.Context) error {
	path := validator.SanitizeMediaPath(c.Param(paramWildcard))
	if err := validator.MediaPath(path); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	info, err := h.storage.Stat(c.Request().Context(), path)
	if err != nil {
		return err
	}
	if info == nil {
		return respondError(c, http.StatusNotFound, msgMediaFileNotFound)
	}

	if err := h.storage.Delete(c.Request().Context(), path); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MediaDeleteResponse{
		Message: msgMediaFileDeleted,
		Path:    path,
	})
}

type MoveRequest struct {
	SourcePath      string `json:"sourcePath"`
	DestinationPath string `json:"destinationPath"`
}

type MediaMoveResponse struct {
	Message string `json:"message"`
	OldPath string `json:"oldPath"`
	NewPath string `json:"newPath"`
	URL     string `json:"url"`
}

// Move relocates an object as copy-then-delete. The two steps are not
// atomic; a failure between them leaves both objects in place.
func (h *MediaHandler) Move(c echo.Context) error {
	var req MoveRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	source := validator.SanitizeMediaPath(req.SourcePath)
	destination := validator.SanitizeMediaPath(req.DestinationPath)
	if source == "" || destination == "" {
		return respondError(c, http.StatusBadRequest, msgMovePathsRequired)
	}
	if err := validator.MediaPath(source); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.MediaPath(destination); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	info, err := h.storage.Stat(c.Request().Context(), source)
	if err != nil {
		return err
	}
	if info == nil {
		return respondError(c, http.StatusNotFound, msgMediaFileNotFound)
	}

	if err := h.storage.Copy(c.Request().Context(), source, destination); err != nil {
		return err
	}
	if err := h.storage.Delete(c.Request().Context(), source); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MediaMoveResponse{
		Message: msgMediaFileMoved,
		OldPath: source,
		NewPath: destination,
		URL:     h.urlPrefix + "/" + destination,
	})
}

func (h *MediaHandler) reference(info *s3.FileInfo) content.MediaReference {
	ref := content.MediaReference{
		Path:     info.Path,
		Name:     info.Name,
		URL:      h.urlPrefix + "/" + info.Path,
		Size:     info.Size,
		MimeType: info.MimeType,
	}
	if !info.LastModified.IsZero() {
		created := info.LastModified.UTC()
		ref.CreatedUtc = &created
	}
	return ref
}

// uniqueFileName suffixes the base name with a second-resolution
// timestamp, preserving the extension.
func uniqueFileName(original string, at time.Time) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(original, ext)
	return base + "_" + at.UTC().Format(uniqueNameTimeLayout) + ext
}

func guessMimeType(name string) string {
	if mimeType := mime.TypeByExtension(filepath.Ext(name)); mimeType != "" {
		return mimeType
	}
	return defaultUploadMime
}
