package dashboard

import (
	"context"
	"testing"

	"content-dashboard/internal/domain/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*StateManager, *fakeStateStore, *fakePrefStore) {
	t.Helper()
	states := newFakeStateStore()
	prefs := newFakePrefStore()
	m := NewStateManager(context.Background(), "session-1", "user-1", states, prefs, testLogger())
	return m, states, prefs
}

func TestStateManager_FreshSessionUsesPreferenceDefaults(t *testing.T) {
	prefs := newFakePrefStore()
	prefs.prefs["user-1"] = Preferences{
		Theme:            ThemeDark,
		DefaultPartition: content.PartitionShared,
		DefaultSection:   content.SectionSharedBlog,
		ContentViewMode:  ViewModeGrid,
	}

	m := NewStateManager(context.Background(), "s", "user-1", newFakeStateStore(), prefs, testLogger())

	state := m.State()
	assert.Equal(t, content.SectionSharedBlog, state.CurrentSection)
	assert.Equal(t, content.PartitionShared, state.Partition)
	assert.Empty(t, state.BreadcrumbPath)
	assert.Equal(t, ThemeDark, m.Preferences().Theme)
}

func TestStateManager_RestoresStoredSession(t *testing.T) {
	states := newFakeStateStore()
	states.states["session-1"] = DashboardState{
		CurrentSection: content.SectionChangeLogs,
		Partition:      content.PartitionShared,
		BreadcrumbPath: []content.BreadcrumbItem{{ContentItemID: "f1", Level: 0}},
	}

	m := NewStateManager(context.Background(), "session-1", "user-1", states, newFakePrefStore(), testLogger())

	state := m.State()
	assert.Equal(t, content.SectionChangeLogs, state.CurrentSection)
	assert.Equal(t, "f1", state.CurrentFolderID())
}

func TestStateManager_StoreFailuresFallBackToDefaults(t *testing.T) {
	states := newFakeStateStore()
	states.fail = true
	prefs := newFakePrefStore()
	prefs.fail = true

	m := NewStateManager(context.Background(), "s", "u", states, prefs, testLogger())

	assert.Equal(t, DefaultPreferences(), m.Preferences())
	assert.Equal(t, content.SectionFile, m.State().CurrentSection)
}

func TestStateManager_SectionSwitchResetsPathAndSelection(t *testing.T) {
	m, states, _ := newTestManager(t)
	ctx := context.Background()

	m.EnterFolder(ctx, folderFixture("f1", "Docs", "", content.PartitionLocal))
	m.Select("item-1")

	m.SetSection(ctx, content.SectionChangeLogs)

	state := m.State()
	assert.Equal(t, content.SectionChangeLogs, state.CurrentSection)
	assert.Empty(t, state.BreadcrumbPath)
	assert.Empty(t, m.SelectedIDs())

	// Every mutation persisted synchronously.
	assert.Equal(t, 2, states.saves)
	assert.Equal(t, state.CurrentSection, states.states["session-1"].CurrentSection)
}

func TestStateManager_PartitionSwitchResetsPath(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	m.EnterFolder(ctx, folderFixture("f1", "Docs", "", content.PartitionLocal))
	m.SetPartition(ctx, content.PartitionShared)

	state := m.State()
	assert.Equal(t, content.PartitionShared, state.Partition)
	assert.Empty(t, state.BreadcrumbPath)
}

func TestStateManager_EnterFolderAppendsWithLevel(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	m.EnterFolder(ctx, folderFixture("a", "A", "", content.PartitionLocal))
	m.EnterFolder(ctx, folderFixture("b", "B", "a", content.PartitionLocal))

	path := m.State().BreadcrumbPath
	require.Len(t, path, 2)
	assert.Equal(t, 0, path[0].Level)
	assert.Equal(t, 1, path[1].Level)
	assert.Equal(t, "b", m.State().CurrentFolderID())
}

func TestStateManager_NavigateToBreadcrumbTruncates(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	m.EnterFolder(ctx, folderFixture("a", "A", "", content.PartitionLocal))
	m.EnterFolder(ctx, folderFixture("b", "B", "a", content.PartitionLocal))
	m.EnterFolder(ctx, folderFixture("c", "C", "b", content.PartitionLocal))
	m.Select("x")

	m.NavigateToBreadcrumb(ctx, "b")

	path := m.State().BreadcrumbPath
	require.Len(t, path, 2)
	assert.Equal(t, "b", m.State().CurrentFolderID())
	assert.Empty(t, m.SelectedIDs())
}

func TestStateManager_NavigateToUnknownBreadcrumbIsNoop(t *testing.T) {
	m, states, _ := newTestManager(t)
	ctx := context.Background()

	m.EnterFolder(ctx, folderFixture("a", "A", "", content.PartitionLocal))
	savesBefore := states.saves

	m.NavigateToBreadcrumb(ctx, "nope")

	require.Len(t, m.State().BreadcrumbPath, 1)
	assert.Equal(t, savesBefore, states.saves)
}

func TestStateManager_NavigateHome(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	m.EnterFolder(ctx, folderFixture("a", "A", "", content.PartitionLocal))
	m.NavigateHome(ctx)

	assert.Empty(t, m.State().BreadcrumbPath)
	assert.Equal(t, "", m.State().CurrentFolderID())
}

func TestStateManager_SelectionSetOrderedAndIdempotent(t *testing.T) {
	m, _, _ := newTestManager(t)

	m.Select("b")
	m.Select("a")
	m.Select("b")
	assert.Equal(t, []string{"a", "b"}, m.SelectedIDs())

	m.Deselect("a")
	assert.Equal(t, []string{"b"}, m.SelectedIDs())

	m.ClearSelection()
	assert.Empty(t, m.SelectedIDs())
}

func TestStateManager_PreferenceMutationsPersist(t *testing.T) {
	m, _, prefs := newTestManager(t)
	ctx := context.Background()

	m.SetTheme(ctx, ThemeDark)
	m.ToggleSidebar(ctx)
	m.SetContentViewMode(ctx, ViewModeGrid)
	m.SetDefaults(ctx, content.SectionSharedBlog, content.PartitionShared)

	stored := prefs.prefs["user-1"]
	assert.Equal(t, ThemeDark, stored.Theme)
	assert.True(t, stored.SidebarCollapsed)
	assert.Equal(t, ViewModeGrid, stored.ContentViewMode)
	assert.Equal(t, content.SectionSharedBlog, stored.DefaultSection)
	assert.Equal(t, content.PartitionShared, stored.DefaultPartition)
	assert.Equal(t, 4, prefs.saves)
}

func TestStateManager_PersistenceFailureDoesNotFailMutation(t *testing.T) {
	states := newFakeStateStore()
	prefs := newFakePrefStore()
	m := NewStateManager(context.Background(), "s", "u", states, prefs, testLogger())

	states.fail = true
	prefs.fail = true

	m.EnterFolder(context.Background(), folderFixture("a", "A", "", content.PartitionLocal))
	m.SetTheme(context.Background(), ThemeDark)

	// In-memory state still advanced.
	assert.Equal(t, "a", m.State().CurrentFolderID())
	assert.Equal(t, ThemeDark, m.Preferences().Theme)
}

func TestDashboardState_CurrentFolderID(t *testing.T) {
	state := DashboardState{}
	assert.Equal(t, "", state.CurrentFolderID())

	state.BreadcrumbPath = []content.BreadcrumbItem{
		{ContentItemID: "a"}, {ContentItemID: "b"},
	}
	assert.Equal(t, "b", state.CurrentFolderID())
}
