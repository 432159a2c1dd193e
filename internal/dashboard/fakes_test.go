package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"content-dashboard/internal/domain/content"
)

var errStoreDown = errors.New("store unreachable")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory ContentStore. Folders and raw records are kept
// separately so tests can exercise both the typed and the raw read paths.
type fakeStore struct {
	mu      sync.Mutex
	folders map[string]*content.Folder
	records map[string]map[string]any
	queried []content.Folder

	failGetFolder    bool
	failQuery        bool
	failCreate       bool
	failDelete       map[string]bool
	deleted          []string
	createOrUpdated  []map[string]any
	createResponse   json.RawMessage
	getFolderCalls   int
	createOrUpdCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		folders:    make(map[string]*content.Folder),
		records:    make(map[string]map[string]any),
		failDelete: make(map[string]bool),
	}
}

func (s *fakeStore) addFolder(f *content.Folder) {
	s.folders[f.ContentItemID] = f
	s.queried = append(s.queried, *f)
}

func (s *fakeStore) GetFolder(ctx context.Context, id string) (*content.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getFolderCalls++
	if s.failGetFolder {
		return nil, errStoreDown
	}
	return s.folders[id], nil
}

func (s *fakeStore) GetRecord(ctx context.Context, id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGetFolder {
		return nil, errStoreDown
	}
	return s.records[id], nil
}

func (s *fakeStore) CreateOrUpdate(ctx context.Context, payload any) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createOrUpdCalls++
	if s.failCreate {
		return nil, errStoreDown
	}
	if record, ok := payload.(map[string]any); ok {
		s.createOrUpdated = append(s.createOrUpdated, record)
	}
	if s.createResponse != nil {
		return s.createResponse, nil
	}
	return json.Marshal(payload)
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete[id] {
		return errStoreDown
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeStore) QueryFolders(ctx context.Context, first int) ([]content.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failQuery {
		return nil, errStoreDown
	}
	return s.queried, nil
}

// fakeMediaStore records uploads and hands back a canned reference.
type fakeMediaStore struct {
	uploads []string
	fail    bool
	ref     *content.MediaReference
}

func (m *fakeMediaStore) Upload(ctx context.Context, dir, filename string, payload io.Reader) (*content.MediaReference, error) {
	if m.fail {
		return nil, errStoreDown
	}
	path := filename
	if dir != "" {
		path = dir + "/" + filename
	}
	m.uploads = append(m.uploads, path)
	if m.ref != nil {
		return m.ref, nil
	}
	return &content.MediaReference{Path: path, Name: filename, URL: "/media/" + path}, nil
}

// fakeStateStore and fakePrefStore capture persistence calls.
type fakeStateStore struct {
	mu     sync.Mutex
	states map[string]DashboardState
	saves  int
	fail   bool
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[string]DashboardState)}
}

func (s *fakeStateStore) SaveState(ctx context.Context, sessionID string, state DashboardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.states[sessionID] = state
	s.saves++
	return nil
}

func (s *fakeStateStore) LoadState(ctx context.Context, sessionID string) (*DashboardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	state, ok := s.states[sessionID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

type fakePrefStore struct {
	mu    sync.Mutex
	prefs map[string]Preferences
	saves int
	fail  bool
}

func newFakePrefStore() *fakePrefStore {
	return &fakePrefStore{prefs: make(map[string]Preferences)}
}

func (s *fakePrefStore) SavePreferences(ctx context.Context, userID string, prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.prefs[userID] = prefs
	s.saves++
	return nil
}

func (s *fakePrefStore) LoadPreferences(ctx context.Context, userID string) (*Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	prefs, ok := s.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &prefs, nil
}

func folderFixture(id, displayText, parentID string, partition content.Partition) *content.Folder {
	f := &content.Folder{
		ContentItemID: id,
		DisplayText:   displayText,
		Owner:         "editor",
		Published:     true,
		TaxonomyPart:  content.TaxonomyPart{Repository: partition},
	}
	if parentID != "" {
		f.ContainedPart = &content.ContainedPart{ListContentItemID: parentID}
	}
	return f
}
