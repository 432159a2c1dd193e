package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"content-dashboard/internal/dashboard"
	"content-dashboard/internal/domain/content"
	"content-dashboard/internal/http/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStateStore struct {
	states map[string]dashboard.DashboardState
	saves  int
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: map[string]dashboard.DashboardState{}}
}

func (f *fakeStateStore) SaveState(ctx context.Context, sessionID string, state dashboard.DashboardState) error {
	f.states[sessionID] = state
	f.saves++
	return nil
}

func (f *fakeStateStore) LoadState(ctx context.Context, sessionID string) (*dashboard.DashboardState, error) {
	state, ok := f.states[sessionID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

type fakePreferenceStore struct {
	prefs map[string]dashboard.Preferences
}

func newFakePreferenceStore() *fakePreferenceStore {
	return &fakePreferenceStore{prefs: map[string]dashboard.Preferences{}}
}

func (f *fakePreferenceStore) SavePreferences(ctx context.Context, userID string, prefs dashboard.Preferences) error {
	f.prefs[userID] = prefs
	return nil
}

func (f *fakePreferenceStore) LoadPreferences(ctx context.Context, userID string) (*dashboard.Preferences, error) {
	prefs, ok := f.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &prefs, nil
}

func newStateTestHandler() (*StateHandler, *fakeStateStore, *fakePreferenceStore) {
	states := newFakeStateStore()
	prefs := newFakePreferenceStore()
	return NewStateHandler(states, prefs, nil), states, prefs
}

func sessionContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, sessionID, userID string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeySessionID, sessionID)
	c.Set(middleware.ContextKeyUserID, userID)
	return c
}

func TestStateHandler_GetState_DefaultsFromPreferences(t *testing.T) {
	h, _, prefs := newStateTestHandler()
	prefs.prefs["alice"] = dashboard.Preferences{
		Theme:            dashboard.ThemeDark,
		DefaultPartition: content.PartitionShared,
		DefaultSection:   content.SectionFile,
		ContentViewMode:  dashboard.ViewModeGrid,
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/state", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.GetState(sessionContext(e, req, rec, "s1", "alice")))
	require.Equal(t, http.StatusOK, rec.Code)

	var state dashboard.DashboardState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, content.PartitionShared, state.Partition)
	assert.Equal(t, content.SectionFile, state.CurrentSection)
	assert.Empty(t, state.BreadcrumbPath)
}

func TestStateHandler_Navigate_EnterFolderExtendsTrail(t *testing.T) {
	h, states, _ := newStateTestHandler()

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/api/dashboard/navigate", NavigateRequest{
		Action:      navActionEnterFolder,
		FolderID:    "f1",
		DisplayText: "Docs",
	})
	rec := httptest.NewRecorder()

	require.NoError(t, h.Navigate(sessionContext(e, req, rec, "s1", "alice")))
	require.Equal(t, http.StatusOK, rec.Code)

	var state dashboard.DashboardState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Len(t, state.BreadcrumbPath, 1)
	assert.Equal(t, "f1", state.BreadcrumbPath[0].ContentItemID)
	assert.Equal(t, "Docs", state.BreadcrumbPath[0].DisplayText)
	assert.Equal(t, "f1", state.CurrentFolderID())

	// The transition is persisted before the response goes out.
	saved, ok := states.states["s1"]
	require.True(t, ok)
	assert.Equal(t, "f1", saved.CurrentFolderID())
}

func TestStateHandler_Navigate_BreadcrumbTruncatesTrail(t *testing.T) {
	h, states, _ := newStateTestHandler()
	states.states["s1"] = dashboard.DashboardState{
		CurrentSection: content.SectionFile,
		Partition:      content.PartitionLocal,
		BreadcrumbPath: []content.BreadcrumbItem{
			{ContentItemID: "a", DisplayText: "A", Level: 0},
			{ContentItemID: "b", DisplayText: "B", Level: 1},
			{ContentItemID: "c", DisplayText: "C", Level: 2},
		},
	}

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/api/dashboard/navigate", NavigateRequest{
		Action:   navActionBreadcrumb,
		FolderID: "b",
	})
	rec := httptest.NewRecorder()

	require.NoError(t, h.Navigate(sessionContext(e, req, rec, "s1", "alice")))
	require.Equal(t, http.StatusOK, rec.Code)

	var state dashboard.DashboardState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Len(t, state.BreadcrumbPath, 2)
	assert.Equal(t, "b", state.CurrentFolderID())
}

func TestStateHandler_Navigate_PartitionSwitchResetsToRoot(t *testing.T) {
	h, states, _ := newStateTestHandler()
	states.states["s1"] = dashboard.DashboardState{
		CurrentSection: content.SectionFile,
		Partition:      content.PartitionLocal,
		BreadcrumbPath: []content.BreadcrumbItem{
			{ContentItemID: "a", DisplayText: "A", Level: 0},
		},
	}

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/api/dashboard/navigate", NavigateRequest{
		Action:    navActionPartition,
		Partition: content.PartitionShared,
	})
	rec := httptest.NewRecorder()

	require.NoError(t, h.Navigate(sessionContext(e, req, rec, "s1", "alice")))
	require.Equal(t, http.StatusOK, rec.Code)

	var state dashboard.DashboardState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, content.PartitionShared, state.Partition)
	assert.Empty(t, state.BreadcrumbPath)
}

func TestStateHandler_Navigate_RejectsBadInput(t *testing.T) {
	h, _, _ := newStateTestHandler()
	e := echo.New()

	tests := []struct {
		name    string
		payload NavigateRequest
	}{
		{"unknown action", NavigateRequest{Action: "teleport"}},
		{"section without value", NavigateRequest{Action: navActionSection, Section: "Nope"}},
		{"enter folder without id", NavigateRequest{Action: navActionEnterFolder}},
		{"breadcrumb without id", NavigateRequest{Action: navActionBreadcrumb}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(http.MethodPost, "/api/dashboard/navigate", tt.payload)
			rec := httptest.NewRecorder()
			require.NoError(t, h.Navigate(sessionContext(e, req, rec, "s1", "alice")))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestStateHandler_PutPreferences_RejectsUnknownTheme(t *testing.T) {
	h, _, prefs := newStateTestHandler()

	e := echo.New()
	req := jsonRequest(http.MethodPut, "/api/dashboard/preferences", dashboard.Preferences{
		Theme:           "sepia",
		ContentViewMode: dashboard.ViewModeList,
	})
	rec := httptest.NewRecorder()

	require.NoError(t, h.PutPreferences(sessionContext(e, req, rec, "s1", "alice")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, prefs.prefs)
}
