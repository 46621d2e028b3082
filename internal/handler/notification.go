package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-crowdfund/internal/store"
)

// NotificationHandler serves the notification feed.
type NotificationHandler struct {
	Notifications store.NotificationStore
}

func NewNotificationHandler(notifications store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications}
}

// List returns notifications for the user named by the userId query
// parameter, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	notes, err := h.Notifications.ListNotifications(ctx, strings.TrimSpace(c.QueryParam("userId")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch notifications"})
	}
	return c.JSON(http.StatusOK, notes)
}
