package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteAction(t *testing.T) {
	tests := []struct {
		method string
		route  string
		want   Action
	}{
		{http.MethodPost, "/api/dashboard/folders", ActionCreateFolder},
		{http.MethodPost, "/api/dashboard/bulk", ActionBulkAction},
		{http.MethodPost, "/api/dashboard/folders/:id/media", ActionAttachMedia},
		{http.MethodPut, "/api/dashboard/state", ActionSaveState},
		{http.MethodPut, "/api/dashboard/preferences", ActionSavePreferences},
		{http.MethodPost, "/api/media", ActionUploadMedia},
		{http.MethodPut, "/api/media/move", ActionMoveMedia},
		{http.MethodDelete, "/api/media/*", ActionDeleteMedia},
		{http.MethodPost, "/somewhere/else", ActionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, routeAction(tt.method, tt.route))
		})
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var rec *Recorder

	require.NoError(t, rec.Record(context.Background(), &Event{Subject: "alice"}))

	events, err := rec.Recent(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRecorder_MiddlewarePassesThrough(t *testing.T) {
	var rec *Recorder

	e := echo.New()
	e.Use(rec.Middleware())
	e.POST("/api/dashboard/bulk", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/bulk", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
