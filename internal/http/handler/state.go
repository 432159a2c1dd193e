package handler

import (
	"log/slog"
	"net/http"
	"time"

	"content-dashboard/internal/dashboard"
	"content-dashboard/internal/domain/content"
	"content-dashboard/internal/http/middleware"

	"github.com/labstack/echo/v4"
)

// StateHandler exposes the session's navigation state and the user's
// durable preferences. State is keyed by session, preferences by user, so
// two tabs share preferences but not their place in the tree.
type StateHandler struct {
	states dashboard.StateStore
	prefs  dashboard.PreferenceStore
	logger *slog.Logger
}

func NewStateHandler(states dashboard.StateStore, prefs dashboard.PreferenceStore, logger *slog.Logger) *StateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateHandler{states: states, prefs: prefs, logger: logger}
}

// GetState returns the stored session state, or a fresh one derived from
// the user's preferences when the session has none yet.
func (h *StateHandler) GetState(c echo.Context) error {
	ctx := c.Request().Context()

	state, err := h.states.LoadState(ctx, middleware.GetSessionID(c))
	if err != nil {
		return err
	}
	if state == nil {
		prefs, err := h.loadPreferences(c)
		if err != nil {
			return err
		}
		state = &dashboard.DashboardState{
			CurrentSection: prefs.DefaultSection,
			Partition:      prefs.DefaultPartition,
			BreadcrumbPath: []content.BreadcrumbItem{},
			LastUpdated:    time.Now(),
		}
	}

	return c.JSON(http.StatusOK, state)
}

func (h *StateHandler) PutState(c echo.Context) error {
	var state dashboard.DashboardState
	if err := bindStrictJSON(c, &state); err != nil {
		return handleHTTPError(c, err)
	}

	if !state.CurrentSection.Valid() {
		return respondError(c, http.StatusBadRequest, msgInvalidSection)
	}
	if !state.Partition.Valid() {
		return respondError(c, http.StatusBadRequest, msgInvalidPartition)
	}
	if state.BreadcrumbPath == nil {
		state.BreadcrumbPath = []content.BreadcrumbItem{}
	}
	state.LastUpdated = time.Now()

	if err := h.states.SaveState(c.Request().Context(), middleware.GetSessionID(c), state); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, msgStateSaved)
}

const (
	navActionSection     = "section"
	navActionPartition   = "partition"
	navActionEnterFolder = "enterFolder"
	navActionBreadcrumb  = "breadcrumb"
	navActionHome        = "home"
)

type NavigateRequest struct {
	Action      string            `json:"action"`
	Section     content.Section   `json:"section,omitempty"`
	Partition   content.Partition `json:"partition,omitempty"`
	FolderID    string            `json:"folderId,omitempty"`
	DisplayText string            `json:"displayText,omitempty"`
}

// Navigate applies one navigation transition to the session's state and
// returns the resulting snapshot. The transition rules live in
// dashboard.StateManager: switching section or partition lands at that
// root, entering a folder extends the breadcrumb trail, clicking a
// breadcrumb entry truncates it, and every transition clears the
// selection and persists before responding.
func (h *StateHandler) Navigate(c echo.Context) error {
	var req NavigateRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	ctx := c.Request().Context()
	m := dashboard.NewStateManager(ctx, middleware.GetSessionID(c), middleware.GetUserID(c), h.states, h.prefs, h.logger)

	switch req.Action {
	case navActionSection:
		if !req.Section.Valid() {
			return respondError(c, http.StatusBadRequest, msgInvalidSection)
		}
		m.SetSection(ctx, req.Section)
	case navActionPartition:
		if !req.Partition.Valid() {
			return respondError(c, http.StatusBadRequest, msgInvalidPartition)
		}
		m.SetPartition(ctx, req.Partition)
	case navActionEnterFolder:
		if req.FolderID == "" {
			return respondError(c, http.StatusBadRequest, msgFolderIDRequired)
		}
		m.EnterFolder(ctx, &content.Folder{ContentItemID: req.FolderID, DisplayText: req.DisplayText})
	case navActionBreadcrumb:
		if req.FolderID == "" {
			return respondError(c, http.StatusBadRequest, msgFolderIDRequired)
		}
		m.NavigateToBreadcrumb(ctx, req.FolderID)
	case navActionHome:
		m.NavigateHome(ctx)
	default:
		return respondError(c, http.StatusBadRequest, msgInvalidNavigateAction)
	}

	return c.JSON(http.StatusOK, m.State())
}

func (h *StateHandler) GetPreferences(c echo.Context) error {
	prefs, err := h.loadPreferences(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

func (h *StateHandler) PutPreferences(c echo.Context) error {
	var prefs dashboard.Preferences
	if err := bindStrictJSON(c, &prefs); err != nil {
		return handleHTTPError(c, err)
	}

	if prefs.Theme != dashboard.ThemeLight && prefs.Theme != dashboard.ThemeDark {
		return respondError(c, http.StatusBadRequest, msgInvalidTheme)
	}
	if prefs.ContentViewMode != dashboard.ViewModeList && prefs.ContentViewMode != dashboard.ViewModeGrid {
		return respondError(c, http.StatusBadRequest, msgInvalidViewMode)
	}
	if !prefs.DefaultPartition.Valid() {
		return respondError(c, http.StatusBadRequest, msgInvalidPartition)
	}
	if !prefs.DefaultSection.Valid() {
		return respondError(c, http.StatusBadRequest, msgInvalidSection)
	}

	if err := h.prefs.SavePreferences(c.Request().Context(), middleware.GetUserID(c), prefs); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, msgPreferencesSaved)
}

func (h *StateHandler) loadPreferences(c echo.Context) (dashboard.Preferences, error) {
	stored, err := h.prefs.LoadPreferences(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return dashboard.Preferences{}, err
	}
	if stored == nil {
		return dashboard.DefaultPreferences(), nil
	}
	return *stored, nil
}
