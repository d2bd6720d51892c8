package posts

import (
	"context"
	"encoding/json"
	"errors"
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

func listParams(r *http.Request) (storage.ListParams, int, int) {
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
	return params, page, pageSize
}

// buildItem собирает проекцию поста: сниппет автора, счетчики,
// hasLiked/hasSaved для зрителя.
func buildItem(ctx context.Context, store storage.Storage, post *models.Post, viewerID string) (models.PostItem, error) {
	author, err := store.GetUserByID(ctx, post.UserID)
	if err != nil {
		return models.PostItem{}, err
	}
	likes, err := store.CountLikes(ctx, post.ID)
	if err != nil {
		return models.PostItem{}, err
	}
	comments, err := store.CountComments(ctx, post.ID)
	if err != nil {
		return models.PostItem{}, err
	}

	item := models.PostItem{
		ID:        post.ID,
		Body:      post.Body,
		MediaURL:  post.MediaURL,
		MediaType: post.MediaType,
		User:      models.Snippet(author),
		Likes:     likes,
		Comments:  comments,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if viewerID != "" {
		if item.HasLiked, err = store.HasLiked(ctx, post.ID, viewerID); err != nil {
			return models.PostItem{}, err
		}
		if item.HasSaved, err = store.HasSaved(ctx, viewerID, post.ID); err != nil {
			return models.PostItem{}, err
		}
	}
	return item, nil
}

func buildFeed(ctx context.Context, store storage.Storage, posts []*models.Post, total int64, offset int, viewerID string) (*models.FeedResponse, error) {
	items := make([]models.PostItem, 0, len(posts))
	for _, post := range posts {
		item, err := buildItem(ctx, store, post, viewerID)
		if err != nil {
			// Автор мог быть удален, пост без автора в ленту не попадает.
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, item)
	}
	return &models.FeedResponse{
		Posts:  items,
		IsNext: total > int64(offset+len(posts)),
	}, nil
}

// notifyMentions уведомляет упомянутых в тексте пользователей.
// Самоупоминания и повторы одного адресата пропускаются.
func notifyMentions(ctx context.Context, store storage.Storage, post *models.Post) {
	actor, err := store.GetUserByID(ctx, post.UserID)
	if err != nil {
		return
	}
	notified := map[string]bool{}
	for _, name := range services.Mentions(post.Body) {
		mentioned, err := services.ResolveMention(ctx, store, name)
		if err != nil || mentioned.ID == post.UserID || notified[mentioned.ID] {
			continue
		}
		notified[mentioned.ID] = true
		notifications.Send(ctx, store, mentioned.ID,
			fmt.Sprintf("%s mentioned you in a post!", actor.Name),
			post.ID, models.NotificationTypeMention)
	}
}

type createPostRequest struct {
	Body      string `json:"body"`
	MediaURL  string `json:"mediaUrl"`
	MediaType string `json:"mediaType"`
}

// Collection — GET лента с пагинацией и поиском, POST создание поста.
func Collection(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	switch r.Method {
	case http.MethodGet:
		params, _, _ := listParams(r)
		viewerID := authentication.OptionalUserID(r)

		posts, total, err := store.ListPosts(r.Context(), params)
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error fetching posts")
			return
		}
		feed, err := buildFeed(r.Context(), store, posts, total, params.Offset, viewerID)
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error fetching posts")
			return
		}
		httpjson.Respond(w, http.StatusOK, feed)

	case http.MethodPost:
		claims, err := authentication.ValidateToken(r)
		if err != nil {
			httpjson.Error(w, http.StatusUnauthorized, "You must be logged in to create a post")
			return
		}

		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if strings.TrimSpace(req.Body) == "" && req.MediaURL == "" {
			httpjson.Error(w, http.StatusBadRequest, "Post body cannot be empty")
			return
		}
		switch req.MediaType {
		case "", models.MediaTypeImage, models.MediaTypeGif, models.MediaTypeVideo:
		default:
			httpjson.Error(w, http.StatusBadRequest, "Invalid media type")
			return
		}

		post := &models.Post{
			Body:      req.Body,
			UserID:    claims.UserID,
			MediaURL:  req.MediaURL,
			MediaType: req.MediaType,
		}
		post, err = store.CreatePost(r.Context(), post)
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error creating post")
			return
		}
		notifyMentions(r.Context(), store, post)
		httpjson.Respond(w, http.StatusOK, post)

	default:
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
	}
}

// ByID — GET проекция одного поста, DELETE удаление владельцем.
// Идентификатор берется из пути /api/posts/{id}.
func ByID(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	id := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	if id == "" || strings.Contains(id, "/") {
		httpjson.Error(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		post, err := store.GetPostByID(r.Context(), id)
		if err != nil {
			httpjson.Error(w, http.StatusNotFound, "Post not found")
			return
		}
		item, err := buildItem(r.Context(), store, post, authentication.OptionalUserID(r))
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error fetching post")
			return
		}
		httpjson.Respond(w, http.StatusOK, item)

	case http.MethodDelete:
		claims, err := authentication.ValidateToken(r)
		if err != nil {
			httpjson.Error(w, http.StatusUnauthorized, "You must be logged in to delete a post")
			return
		}
		post, err := store.GetPostByID(r.Context(), id)
		if err != nil {
			httpjson.Error(w, http.StatusNotFound, "Post not found")
			return
		}
		if post.UserID != claims.UserID {
			httpjson.Error(w, http.StatusForbidden, "You do not have permission to delete this post")
			return
		}
		if err := store.DeletePost(r.Context(), id); err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error deleting post")
			return
		}
		httpjson.Respond(w, http.StatusOK, map[string]bool{"success": true})

	default:
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
	}
}

// LikeHandler — PUT лайк, DELETE снятие лайка. Пост в ?id=.
func LikeHandler(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "You must be logged in to like a post")
		return
	}

	post, err := store.GetPostByID(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Post not found")
		return
	}

	hasLiked, err := store.HasLiked(r.Context(), post.ID, claims.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error checking like state")
		return
	}

	switch r.Method {
	case http.MethodPut:
		if hasLiked {
			httpjson.Error(w, http.StatusBadRequest, "You have already liked this post")
			return
		}
		if err := store.AddLike(r.Context(), post.ID, claims.UserID); err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error liking post")
			return
		}
		actor, err := store.GetUserByID(r.Context(), claims.UserID)
		if err == nil {
			notifications.Send(r.Context(), store, post.UserID,
				fmt.Sprintf("%s liked your post!", actor.Name),
				post.ID, models.NotificationTypeLike)
		}
		httpjson.Respond(w, http.StatusOK, map[string]bool{"success": true})

	case http.MethodDelete:
		if !hasLiked {
			httpjson.Error(w, http.StatusBadRequest, "You have not liked this post")
			return
		}
		if err := store.RemoveLike(r.Context(), post.ID, claims.UserID); err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error unliking post")
			return
		}
		httpjson.Respond(w, http.StatusOK, map[string]bool{"success": true})

	default:
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
	}
}

// SaveHandler — PUT сохранить пост в закладки, DELETE убрать. Пост в ?id=.
func SaveHandler(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "You must be logged in to save a post")
		return
	}

	post, err := store.GetPostByID(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Post not found")
		return
	}

	hasSaved, err := store.HasSaved(r.Context(), claims.UserID, post.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error checking save state")
		return
	}

	switch r.Method {
	case http.MethodPut:
		if hasSaved {
			httpjson.Error(w, http.StatusBadRequest, "You have already saved this post")
			return
		}
		if err := store.SavePost(r.Context(), claims.UserID, post.ID); err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error saving post")
			return
		}
		httpjson.Respond(w, http.StatusOK, map[string]bool{"success": true})

	case http.MethodDelete:
		if !hasSaved {
			httpjson.Error(w, http.StatusBadRequest, "You have not saved this post")
			return
		}
		if err := store.UnsavePost(r.Context(), claims.UserID, post.ID); err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error unsaving post")
			return
		}
		httpjson.Respond(w, http.StatusOK, map[string]bool{"success": true})

	default:
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
	}
}

// Saved — GET закладки текущего пользователя, свежие первыми.
func Saved(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	if r.Method != http.MethodGet {
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "You must be logged in to view saved posts")
		return
	}

	params, _, _ := listParams(r)
	posts, total, err := store.ListSavedPosts(r.Context(), claims.UserID, params)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error fetching saved posts")
		return
	}
	feed, err := buildFeed(r.Context(), store, posts, total, params.Offset, claims.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error fetching saved posts")
		return
	}
	httpjson.Respond(w, http.StatusOK, feed)
}

// ByUser — GET посты одного пользователя (страница профиля).
func ByUser(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	if r.Method != http.MethodGet {
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}
	userID := r.URL.Query().Get("userId")
	if _, err := store.GetUserByID(r.Context(), userID); err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}

	params, _, _ := listParams(r)
	posts, total, err := store.ListPostsByUser(r.Context(), userID, params)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error fetching posts")
		return
	}
	feed, err := buildFeed(r.Context(), store, posts, total, params.Offset, authentication.OptionalUserID(r))
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error fetching posts")
		return
	}
	httpjson.Respond(w, http.StatusOK, feed)
}
