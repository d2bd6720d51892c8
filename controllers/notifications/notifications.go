package notifications

import (
	"context"
	"log"
	"net/http"

	"github.com/wensaqt/twitter-clone/controllers/authentication"
	"github.com/wensaqt/twitter-clone/controllers/httpjson"
	"github.com/wensaqt/twitter-clone/models"
	"github.com/wensaqt/twitter-clone/storage"
)

// Send создает уведомление и взводит флаг непрочитанного. Вызывается
// после успешной основной мутации: ошибки логируются и не всплывают,
// частичный эффект допустим.
func Send(ctx context.Context, store storage.Storage, recipientID, body, postID, notificationType string) {
	notification := &models.Notification{
		UserID: recipientID,
		Body:   body,
		PostID: postID,
		Type:   notificationType,
	}
	if _, err := store.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to create notification for user %s: %v", recipientID, err)
		return
	}
	if err := store.SetHasNewNotifications(ctx, recipientID, true); err != nil {
		log.Printf("failed to set notification flag for user %s: %v", recipientID, err)
	}
}

// Handle — GET список уведомлений (новые первыми), DELETE очистка.
func Handle(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		list, err := store.ListNotifications(r.Context(), claims.UserID)
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error fetching notifications")
			return
		}
		httpjson.Respond(w, http.StatusOK, map[string]interface{}{"notifications": list})

	case http.MethodDelete:
		// Очистка и сброс флага — одна логическая единица.
		if err := store.ClearNotifications(r.Context(), claims.UserID); err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error clearing notifications")
			return
		}
		if err := store.SetHasNewNotifications(r.Context(), claims.UserID, false); err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error resetting notification flag")
			return
		}
		httpjson.Respond(w, http.StatusOK, map[string]bool{"success": true})

	default:
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
	}
}
