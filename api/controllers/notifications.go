package controllers

import (
	"net/http"

	"github.com/angelmondragon/rocketshoes-cart/api/responses"
	"github.com/angelmondragon/rocketshoes-cart/api/validators"
	"github.com/angelmondragon/rocketshoes-cart/internal/notifications"
	pkgerrors "github.com/angelmondragon/rocketshoes-cart/pkg/errors"
	"github.com/angelmondragon/rocketshoes-cart/pkg/logger"
)

const (
	defaultNotificationsLimit = 20
	maxNotificationsLimit     = 100
)

// NotificationsService is the notice feed as seen by the API.
type NotificationsService interface {
	List(params notifications.ListParams) []notifications.Notice
	MarkAllRead() int
}

// ListNotifications returns recent cart notices, newest first.
func ListNotifications(svc NotificationsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultNotificationsLimit, 1, maxNotificationsLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		unreadOnly, err := validators.ParseQueryBool(r, "unreadOnly")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := svc.List(notifications.ListParams{Limit: limit, UnreadOnly: unreadOnly})
		if items == nil {
			items = []notifications.Notice{}
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// MarkAllNotificationsRead flags every notice as read.
func MarkAllNotificationsRead(svc NotificationsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]int{"updated": svc.MarkAllRead()})
	}
}
