package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"content-dashboard/internal/http/middleware"
	"content-dashboard/pkg/logger"
)

// Action identifies what a dashboard user did.
type Action string

const (
	ActionCreateFolder    Action = "create_folder"
	ActionBulkAction      Action = "bulk_action"
	ActionAttachMedia     Action = "attach_media"
	ActionUploadMedia     Action = "upload_media"
	ActionMoveMedia       Action = "move_media"
	ActionDeleteMedia     Action = "delete_media"
	ActionSaveState       Action = "save_state"
	ActionSavePreferences Action = "save_preferences"
	ActionUnknown         Action = "unknown"
)

// Event is one recorded dashboard activity entry.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	Subject   string         `json:"subject"`
	Action    Action         `json:"action"`
	Method    string         `json:"method"`
	Route     string         `json:"route"`
	Status    int            `json:"status"`
	RequestID string         `json:"requestId"`
	IPAddress string         `json:"-"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdUtc"`
}

// Recorder persists activity events to Postgres. A nil Recorder is a
// no-op, so callers never have to guard the audit path.
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewRecorder(pool *pgxpool.Pool, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{pool: pool, logger: log}
}

// Record inserts a single event. Metadata is sanitized before it is
// stored so credentials in request payloads never reach the table.
func (r *Recorder) Record(ctx context.Context, event *Event) error {
	if r == nil || r.pool == nil {
		return nil
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	var metadataJSON []byte
	if event.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(logger.SanitizeMap(event.Metadata))
		if err != nil {
			return err
		}
	}

	const query = `
		INSERT INTO activity_events (
			id, subject, action, method, route, status, request_id, ip_address, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Subject,
		event.Action,
		event.Method,
		event.Route,
		event.Status,
		event.RequestID,
		event.IPAddress,
		metadataJSON,
		event.CreatedAt,
	)
	return err
}

// Middleware records every mutating request on the routes it wraps.
// Recording happens off the request goroutine; a failed insert is
// logged and never affects the response.
func (r *Recorder) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if r == nil || r.pool == nil {
				return err
			}
			if c.Request().Method == http.MethodGet {
				return err
			}

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}

			event := &Event{
				Subject:   middleware.GetUserID(c),
				Action:    routeAction(c.Request().Method, c.Path()),
				Method:    c.Request().Method,
				Route:     c.Path(),
				Status:    status,
				RequestID: middleware.GetRequestID(c),
				IPAddress: c.RealIP(),
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			go func() {
				defer cancel()
				if recErr := r.Record(ctx, event); recErr != nil {
					r.logger.Warn("activity record failed",
						"action", event.Action,
						"route", event.Route,
						"error", recErr)
				}
			}()

			return err
		}
	}
}

// Recent returns the newest events for one subject, newest first.
func (r *Recorder) Recent(ctx context.Context, subject string, limit int) ([]Event, error) {
	if r == nil || r.pool == nil {
		return []Event{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	const query = `
		SELECT id, subject, action, method, route, status, request_id, ip_address, metadata, created_at
		FROM activity_events
		WHERE subject = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, subject, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var event Event
		var metadataJSON []byte
		if err := rows.Scan(
			&event.ID,
			&event.Subject,
			&event.Action,
			&event.Method,
			&event.Route,
			&event.Status,
			&event.RequestID,
			&event.IPAddress,
			&metadataJSON,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, err
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

var routeActions = map[string]Action{
	"POST /api/dashboard/folders":           ActionCreateFolder,
	"POST /api/dashboard/bulk":              ActionBulkAction,
	"POST /api/dashboard/folders/:id/media": ActionAttachMedia,
	"PUT /api/dashboard/state":              ActionSaveState,
	"PUT /api/dashboard/preferences":        ActionSavePreferences,
	"POST /api/media":                       ActionUploadMedia,
	"PUT /api/media/move":                   ActionMoveMedia,
	"DELETE /api/media/*":                   ActionDeleteMedia,
}

func routeAction(method, route string) Action {
	if action, ok := routeActions[method+" "+route]; ok {
		return action
	}
	return ActionUnknown
}
