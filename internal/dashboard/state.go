package dashboard

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"content-dashboard/internal/domain/content"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	ViewModeList = "list"
	ViewModeGrid = "grid"
)

// DashboardState is the per-session navigation state. It is recomputed, not
// authoritative: dropping it only loses the user's place, never content.
type DashboardState struct {
	CurrentSection content.Section          `json:"currentSection"`
	Partition      content.Partition        `json:"repositoryLocation"`
	BreadcrumbPath []content.BreadcrumbItem `json:"breadcrumbPath"`
	Loading        bool                     `json:"isLoading"`
	LastUpdated    time.Time                `json:"lastUpdated"`
}

// CurrentFolderID returns the id of the folder the session is inside, or ""
// at a partition root.
func (s DashboardState) CurrentFolderID() string {
	if len(s.BreadcrumbPath) == 0 {
		return ""
	}
	return s.BreadcrumbPath[len(s.BreadcrumbPath)-1].ContentItemID
}

// Preferences are durable cross-session UI preferences, independent of
// navigation state.
type Preferences struct {
	Theme            string            `json:"theme"`
	SidebarCollapsed bool              `json:"sidebarCollapsed"`
	DefaultPartition content.Partition `json:"defaultRepository"`
	DefaultSection   content.Section   `json:"defaultSection"`
	ContentViewMode  string            `json:"contentViewMode"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:            ThemeLight,
		SidebarCollapsed: false,
		DefaultPartition: content.PartitionLocal,
		DefaultSection:   content.SectionFile,
		ContentViewMode:  ViewModeList,
	}
}

// StateManager holds one session's navigation/selection state and that
// user's preferences. Every mutation persists synchronously through the
// attached stores before returning; persistence failures are logged and do
// not fail the mutation.
//
// The selection set is scoped to the currently displayed list: it is
// cleared by any navigation and after a bulk action commits.
type StateManager struct {
	mu        sync.Mutex
	sessionID string
	userID    string
	state     DashboardState
	prefs     Preferences
	selected  map[string]struct{}

	states     StateStore
	prefsStore PreferenceStore
	logger     *slog.Logger
}

// NewStateManager restores the session's state and the user's preferences,
// falling back to preference-derived defaults for a fresh session.
func NewStateManager(ctx context.Context, sessionID, userID string, states StateStore, prefsStore PreferenceStore, logger *slog.Logger) *StateManager {
	m := &StateManager{
		sessionID:  sessionID,
		userID:     userID,
		selected:   make(map[string]struct{}),
		states:     states,
		prefsStore: prefsStore,
		logger:     logger,
	}

	m.prefs = DefaultPreferences()
	if prefsStore != nil {
		if stored, err := prefsStore.LoadPreferences(ctx, userID); err != nil {
			logger.Warn("failed to load preferences, using defaults", "userId", userID, "error", err)
		} else if stored != nil {
			m.prefs = *stored
		}
	}

	m.state = DashboardState{
		CurrentSection: m.prefs.DefaultSection,
		Partition:      m.prefs.DefaultPartition,
		BreadcrumbPath: []content.BreadcrumbItem{},
		LastUpdated:    time.Now(),
	}
	if states != nil {
		if stored, err := states.LoadState(ctx, sessionID); err != nil {
			logger.Warn("failed to load session state, using defaults", "sessionId", sessionID, "error", err)
		} else if stored != nil {
			m.state = *stored
		}
	}

	return m
}

// State returns a snapshot of the navigation state.
func (m *StateManager) State() DashboardState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *StateManager) snapshotLocked() DashboardState {
	snap := m.state
	snap.BreadcrumbPath = append([]content.BreadcrumbItem(nil), m.state.BreadcrumbPath...)
	return snap
}

// Preferences returns a snapshot of the user's preferences.
func (m *StateManager) Preferences() Preferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs
}

// SetSection switches the navigation section. Navigating to a section
// always lands at that section's root: the breadcrumb resets and the
// selection clears.
func (m *StateManager) SetSection(ctx context.Context, section content.Section) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.CurrentSection = section
	m.state.BreadcrumbPath = []content.BreadcrumbItem{}
	m.clearSelectionLocked()
	m.persistStateLocked(ctx)
}

// SetPartition switches the repository partition and returns to its root.
func (m *StateManager) SetPartition(ctx context.Context, partition content.Partition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Partition = partition
	m.state.BreadcrumbPath = []content.BreadcrumbItem{}
	m.clearSelectionLocked()
	m.persistStateLocked(ctx)
}

// EnterFolder appends the folder to the breadcrumb trail.
func (m *StateManager) EnterFolder(ctx context.Context, folder *content.Folder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.BreadcrumbPath = append(m.state.BreadcrumbPath, content.BreadcrumbItem{
		ContentItemID: folder.ContentItemID,
		DisplayText:   folder.DisplayText,
		Level:         len(m.state.BreadcrumbPath),
	})
	m.clearSelectionLocked()
	m.persistStateLocked(ctx)
}

// SetBreadcrumbPath replaces the whole trail, e.g. with a resolver-computed
// one on deep-link entry.
func (m *StateManager) SetBreadcrumbPath(ctx context.Context, path []content.BreadcrumbItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.BreadcrumbPath = append([]content.BreadcrumbItem(nil), path...)
	m.clearSelectionLocked()
	m.persistStateLocked(ctx)
}

// NavigateToBreadcrumb truncates the trail at the clicked entry, discarding
// everything after it. There is no forward history. An id not on the trail
// leaves the state untouched.
func (m *StateManager) NavigateToBreadcrumb(ctx context.Context, folderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.state.BreadcrumbPath {
		if item.ContentItemID == folderID {
			m.state.BreadcrumbPath = m.state.BreadcrumbPath[:i+1]
			m.clearSelectionLocked()
			m.persistStateLocked(ctx)
			return
		}
	}
}

// NavigateHome clears the trail back to the partition root.
func (m *StateManager) NavigateHome(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.BreadcrumbPath = []content.BreadcrumbItem{}
	m.clearSelectionLocked()
	m.persistStateLocked(ctx)
}

// SetLoading flips the loading flag.
func (m *StateManager) SetLoading(ctx context.Context, loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = loading
	m.persistStateLocked(ctx)
}

// Select adds an id to the selection set.
func (m *StateManager) Select(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected[id] = struct{}{}
}

// Deselect removes an id from the selection set.
func (m *StateManager) Deselect(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selected, id)
}

// SelectedIDs returns the current selection in stable order.
func (m *StateManager) SelectedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearSelection empties the selection set, e.g. after a bulk action
// commits.
func (m *StateManager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearSelectionLocked()
}

func (m *StateManager) clearSelectionLocked() {
	m.selected = make(map[string]struct{})
}

// SetTheme updates and persists the theme preference.
func (m *StateManager) SetTheme(ctx context.Context, theme string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.Theme = theme
	m.persistPreferencesLocked(ctx)
}

// ToggleSidebar flips and persists the sidebar preference.
func (m *StateManager) ToggleSidebar(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.SidebarCollapsed = !m.prefs.SidebarCollapsed
	m.persistPreferencesLocked(ctx)
}

// SetContentViewMode updates and persists the list/grid preference.
func (m *StateManager) SetContentViewMode(ctx context.Context, mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.ContentViewMode = mode
	m.persistPreferencesLocked(ctx)
}

// SetDefaults updates and persists the default section and partition.
func (m *StateManager) SetDefaults(ctx context.Context, section content.Section, partition content.Partition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.DefaultSection = section
	m.prefs.DefaultPartition = partition
	m.persistPreferencesLocked(ctx)
}

// SetPreferences replaces the whole preference blob.
func (m *StateManager) SetPreferences(ctx context.Context, prefs Preferences) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = prefs
	m.persistPreferencesLocked(ctx)
}

func (m *StateManager) persistStateLocked(ctx context.Context) {
	m.state.LastUpdated = time.Now()
	if m.states == nil {
		return
	}
	if err := m.states.SaveState(ctx, m.sessionID, m.snapshotLocked()); err != nil {
		m.logger.Error("failed to persist session state", "sessionId", m.sessionID, "error", err)
	}
}

func (m *StateManager) persistPreferencesLocked(ctx context.Context) {
	if m.prefsStore == nil {
		return
	}
	if err := m.prefsStore.SavePreferences(ctx, m.userID, m.prefs); err != nil {
		m.logger.Error("failed to persist preferences", "userId", m.userID, "error", err)
	}
}
