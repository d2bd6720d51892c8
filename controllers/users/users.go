package users

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/wensaqt/twitter-clone/controllers/authentication"
	"github.com/wensaqt/twitter-clone/controllers/httpjson"
	"github.com/wensaqt/twitter-clone/controllers/notifications"
	"github.com/wensaqt/twitter-clone/models"
	"github.com/wensaqt/twitter-clone/services"
	"github.com/wensaqt/twitter-clone/storage"
)

const defaultPageSize = 10

func buildItem(ctx context.Context, store storage.Storage, user *models.User, viewerID string) (models.UserItem, error) {
	followers, err := store.CountFollowers(ctx, user.ID)
	if err != nil {
		return models.UserItem{}, err
	}
	following, err := store.CountFollowing(ctx, user.ID)
	if err != nil {
		return models.UserItem{}, err
	}

	item := models.UserItem{
		ID:           user.ID,
		Name:         user.Name,
		Username:     user.Username,
		Email:        user.Email,
		Bio:          user.Bio,
		Location:     user.Location,
		ProfileImage: user.ProfileImage,
		CoverImage:   user.CoverImage,
		Followers:    followers,
		Following:    following,
		CreatedAt:    user.CreatedAt,
	}
	if viewerID != "" {
		if item.IsFollowing, err = store.IsFollowing(ctx, viewerID, user.ID); err != nil {
			return models.UserItem{}, err
		}
	}
	return item, nil
}

// List — GET поиск пользователей по имени, username и email.
func List(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	if r.Method != http.MethodGet {
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	params := storage.ListParams{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
		Query:  r.URL.Query().Get("searchQuery"),
	}
	viewerID := authentication.OptionalUserID(r)

	list, total, err := store.ListUsers(r.Context(), params)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error fetching users")
		return
	}

	items := make([]models.UserItem, 0, len(list))
	for _, user := range list {
		item, err := buildItem(r.Context(), store, user, viewerID)
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error fetching users")
			return
		}
		items = append(items, item)
	}
	httpjson.Respond(w, http.StatusOK, models.UsersResponse{
		Users:  items,
		IsNext: total > int64(params.Offset+len(list)),
	})
}

// ByID — GET профиль пользователя, id из пути /api/users/{id}.
func ByID(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	if r.Method != http.MethodGet {
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if id == "" || strings.Contains(id, "/") {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := store.GetUserByID(r.Context(), id)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}
	item, err := buildItem(r.Context(), store, user, authentication.OptionalUserID(r))
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error fetching user")
		return
	}
	httpjson.Respond(w, http.StatusOK, item)
}

// ByUsername — GET разрешение упоминания @username в профиль.
func ByUsername(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	if r.Method != http.MethodGet {
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}

	username := r.URL.Query().Get("username")
	if strings.TrimPrefix(username, "@") == "" {
		httpjson.Error(w, http.StatusBadRequest, "Username is required")
		return
	}

	user, err := services.ResolveMention(r.Context(), store, username)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}
	item, err := buildItem(r.Context(), store, user, authentication.OptionalUserID(r))
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error fetching user")
		return
	}
	httpjson.Respond(w, http.StatusOK, item)
}

// FollowHandler — PUT подписка, DELETE отписка. Цель в ?id=.
// Строка подписки покрывает обе стороны: following актора и
// followers цели читаются из нее же.
func FollowHandler(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "You must be logged in to follow a user")
		return
	}

	target, err := store.GetUserByID(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if target.ID == claims.UserID {
		httpjson.Error(w, http.StatusBadRequest, "You cannot follow yourself")
		return
	}

	isFollowing, err := store.IsFollowing(r.Context(), claims.UserID, target.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error checking follow state")
		return
	}

	switch r.Method {
	case http.MethodPut:
		if isFollowing {
			httpjson.Error(w, http.StatusBadRequest, "You are already following this user")
			return
		}
		if err := store.Follow(r.Context(), claims.UserID, target.ID); err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error following user")
			return
		}
		actor, err := store.GetUserByID(r.Context(), claims.UserID)
		if err == nil {
			notifications.Send(r.Context(), store, target.ID,
				fmt.Sprintf("%s started following you!", actor.Name),
				"", models.NotificationTypeFollow)
		}
		httpjson.Respond(w, http.StatusOK, map[string]bool{"success": true})

	case http.MethodDelete:
		if !isFollowing {
			httpjson.Error(w, http.StatusBadRequest, "You are not following this user")
			return
		}
		if err := store.Unfollow(r.Context(), claims.UserID, target.ID); err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error unfollowing user")
			return
		}
		httpjson.Respond(w, http.StatusOK, map[string]bool{"success": true})

	default:
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
	}
}
