package dashboard

import (
	"context"
	"encoding/json"
	"io"

	"content-dashboard/internal/domain/content"
)

// ContentStore is the slice of the content store the dashboard core consumes.
type ContentStore interface {
	GetFolder(ctx context.Context, id string) (*content.Folder, error)
	GetRecord(ctx context.Context, id string) (map[string]any, error)
	CreateOrUpdate(ctx context.Context, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, id string) error
	QueryFolders(ctx context.Context, first int) ([]content.Folder, error)
}

// MediaStore uploads binary payloads to the media file store.
type MediaStore interface {
	Upload(ctx context.Context, dir, filename string, payload io.Reader) (*content.MediaReference, error)
}

// StateStore persists per-session navigation state.
type StateStore interface {
	SaveState(ctx context.Context, sessionID string, state DashboardState) error
	LoadState(ctx context.Context, sessionID string) (*DashboardState, error)
}

// PreferenceStore persists durable per-user preferences.
type PreferenceStore interface {
	SavePreferences(ctx context.Context, userID string, prefs Preferences) error
	LoadPreferences(ctx context.Context, userID string) (*Preferences, error)
}
