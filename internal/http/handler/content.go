package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"content-dashboard/internal/dashboard"
	"content-dashboard/internal/domain/content"
	apperrors "content-dashboard/pkg/errors"

	"github.com/labstack/echo/v4"
)

type ContentHandler struct {
	queries     FolderQueries
	breadcrumbs BreadcrumbResolver
	attacher    MediaAttacher
}

func NewContentHandler(queries FolderQueries, breadcrumbs BreadcrumbResolver, attacher MediaAttacher) *ContentHandler {
	return &ContentHandler{
		queries:     queries,
		breadcrumbs: breadcrumbs,
		attacher:    attacher,
	}
}

// ListFolders returns the folders under parentId, or the partition's root
// set when parentId is absent. A backend failure still yields 200 with an
// empty list; reads never surface store errors to the client.
func (h *ContentHandler) ListFolders(c echo.Context) error {
	partition := content.Partition(c.QueryParam(queryParamPartition))
	if partition == "" {
		partition = content.PartitionLocal
	}
	if !partition.Valid() {
		return respondError(c, http.StatusBadRequest, msgInvalidPartition)
	}

	parentID := strings.TrimSpace(c.QueryParam(queryParamParentID))
	list := h.queries.ListFolders(c.Request().Context(), partition, parentID)
	return c.JSON(http.StatusOK, list)
}

func (h *ContentHandler) ListContent(c echo.Context) error {
	folderID := c.Param(paramID)
	if folderID == "" {
		return respondError(c, http.StatusBadRequest, msgFolderIDRequired)
	}

	list := h.queries.ListContent(c.Request().Context(), folderID)
	return c.JSON(http.StatusOK, list)
}

type BreadcrumbResponse struct {
	Path            []content.BreadcrumbItem `json:"path"`
	MaxDepthReached bool                     `json:"maxDepthReached"`
}

// Breadcrumb resolves the ancestor trail of a folder. A broken ancestor
// link collapses the whole trail to empty rather than erroring.
func (h *ContentHandler) Breadcrumb(c echo.Context) error {
	folderID := c.Param(paramID)
	if folderID == "" {
		return respondError(c, http.StatusBadRequest, msgFolderIDRequired)
	}

	path := h.breadcrumbs.Resolve(c.Request().Context(), folderID)
	return c.JSON(http.StatusOK, BreadcrumbResponse{
		Path:            path,
		MaxDepthReached: dashboard.IsMaxDepthReached(path),
	})
}

type CreateFolderRequest struct {
	DisplayText string `json:"displayText"`
	Partition   string `json:"partition"`
	ParentID    string `json:"parentId"`
}

func (h *ContentHandler) CreateFolder(c echo.Context) error {
	var req CreateFolderRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if check := h.queries.ValidateFolderName(req.DisplayText); !check.Valid {
		return respondError(c, http.StatusBadRequest, check.Error)
	}

	partition := content.Partition(req.Partition)
	if partition == "" {
		partition = content.PartitionLocal
	}
	if !partition.Valid() {
		return respondError(c, http.StatusBadRequest, msgInvalidPartition)
	}

	parentID := strings.TrimSpace(req.ParentID)
	if parentID != "" {
		// The client greys out "New folder" at the depth limit, but the
		// limit holds here too so a stale or hand-crafted request cannot
		// nest past it.
		trail := h.breadcrumbs.Resolve(c.Request().Context(), parentID)
		if dashboard.IsMaxDepthReached(trail) {
			return apperrors.MaxDepthReached(msgMaxDepthReached)
		}
	}

	folder, err := h.queries.CreateFolder(c.Request().Context(), dashboard.CreateFolderInput{
		DisplayText: strings.TrimSpace(req.DisplayText),
		Partition:   partition,
		ParentID:    parentID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, folder)
}

type ValidateNameRequest struct {
	Name string `json:"name"`
}

func (h *ContentHandler) ValidateFolderName(c echo.Context) error {
	var req ValidateNameRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, h.queries.ValidateFolderName(req.Name))
}

type BulkActionRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
}

// BulkAction applies publish, unpublish or delete to a selection. The
// whole batch either completes or reports the first failure; there is no
// per-item result list.
func (h *ContentHandler) BulkAction(c echo.Context) error {
	var req BulkActionRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	if len(req.IDs) == 0 {
		return respondError(c, http.StatusBadRequest, msgNoItemsSelected)
	}

	action := content.BulkAction(req.Action)
	if !action.Valid() {
		return respondError(c, http.StatusBadRequest, msgInvalidBulkAction)
	}

	if err := h.queries.BulkAction(c.Request().Context(), dashboard.BulkActionInput{
		IDs:    req.IDs,
		Action: action,
	}); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, msgBulkActionDone)
}

// AttachMedia uploads one file from a multipart form and appends its
// reference to the folder's media collection.
func (h *ContentHandler) AttachMedia(c echo.Context) error {
	folderID := c.Param(paramID)
	if folderID == "" {
		return respondError(c, http.StatusBadRequest, msgFolderIDRequired)
	}

	fileHeader, err := c.FormFile(formFieldFile)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgFileFieldRequired)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgFileFieldRequired)
	}
	defer src.Close()

	directory := strings.TrimSpace(c.FormValue(formFieldPath))

	result, err := h.attacher.Attach(c.Request().Context(), dashboard.AttachInput{
		FolderID:  folderID,
		Directory: directory,
		FileName:  filepath.Base(fileHeader.Filename),
		Payload:   src,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}
