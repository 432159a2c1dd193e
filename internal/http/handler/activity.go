package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"content-dashboard/internal/audit"
	"content-dashboard/internal/http/middleware"
)

// ActivityLog reads back recorded dashboard activity.
type ActivityLog interface {
	Recent(ctx context.Context, subject string, limit int) ([]audit.Event, error)
}

type ActivityHandler struct {
	log ActivityLog
}

func NewActivityHandler(log ActivityLog) *ActivityHandler {
	return &ActivityHandler{log: log}
}

// Recent returns the caller's newest activity entries.
func (h *ActivityHandler) Recent(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam(queryParamLimit); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return respondError(c, http.StatusBadRequest, msgInvalidLimit)
		}
		limit = parsed
	}

	events, err := h.log.Recent(c.Request().Context(), middleware.GetUserID(c), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ActivityResponse{
		Events:     events,
		TotalCount: len(events),
	})
}

type ActivityResponse struct {
	Events     []audit.Event `json:"events"`
	TotalCount int           `json:"totalCount"`
}
