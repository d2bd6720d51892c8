package comments

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/wensaqt/twitter-clone/controllers/authentication"
	"github.com/wensaqt/twitter-clone/controllers/httpjson"
	"github.com/wensaqt/twitter-clone/controllers/notifications"
	"github.com/wensaqt/twitter-clone/models"
	"github.com/wensaqt/twitter-clone/services"
	"github.com/wensaqt/twitter-clone/storage"
)

type createCommentRequest struct {
	Body      string `json:"body"`
	PostID    string `json:"postId"`
	ImageData string `json:"imageData"`
}

type commentLikeRequest struct {
	CommentID string `json:"commentId"`
}

// Handle — POST создание комментария или реакции, PUT лайк,
// DELETE снятие лайка, GET список комментариев поста.
func Handle(w http.ResponseWriter, r *http.Request, store storage.Storage, classifier services.Classifier) {
	switch r.Method {
	case http.MethodPost:
		create(w, r, store, classifier)
	case http.MethodPut:
		like(w, r, store)
	case http.MethodDelete:
		unlike(w, r, store)
	case http.MethodGet:
		list(w, r, store)
	default:
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
	}
}

func create(w http.ResponseWriter, r *http.Request, store storage.Storage, classifier services.Classifier) {
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "You must be logged in to comment")
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	post, err := store.GetPostByID(r.Context(), req.PostID)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Post not found")
		return
	}

	actor, err := store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "User not found")
		return
	}

	var comment *models.Comment
	if req.ImageData != "" {
		comment = reactionComment(r.Context(), claims.UserID, req, classifier)
	} else {
		if strings.TrimSpace(req.Body) == "" {
			httpjson.Error(w, http.StatusBadRequest, "Comment body cannot be empty")
			return
		}
		comment = &models.Comment{
			Body:   req.Body,
			PostID: req.PostID,
			UserID: claims.UserID,
		}
	}

	comment, err = store.CreateComment(r.Context(), comment)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Error creating comment")
		return
	}

	if comment.IsEmotionReaction {
		notifications.Send(r.Context(), store, post.UserID,
			fmt.Sprintf("%s shared a reaction to your post!", actor.Name),
			post.ID, models.NotificationTypeReaction)
	} else {
		notifications.Send(r.Context(), store, post.UserID,
			"Someone replied to your post!",
			post.ID, models.NotificationTypeComment)
	}

	httpjson.Respond(w, http.StatusOK, comment)
}

// reactionComment распознает эмоцию на снимке. Сбой или таймаут
// распознавателя не валит запрос: метка деградирует до neutral.
func reactionComment(ctx context.Context, userID string, req createCommentRequest, classifier services.Classifier) *models.Comment {
	label, err := classifier.Classify(ctx, req.ImageData)
	if err != nil {
		log.Printf("emotion classification failed, falling back to neutral: %v", err)
		label = services.EmotionNeutral
	}
	return &models.Comment{
		Body:              services.ReactionBody(label),
		PostID:            req.PostID,
		UserID:            userID,
		ImageData:         req.ImageData,
		Emotion:           label,
		IsEmotionReaction: true,
	}
}

func like(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "You must be logged in to like a comment")
		return
	}

	var req commentLikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	comment, err := store.GetCommentByID(r.Context(), req.CommentID)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Comment not found")
		return
	}

	hasLiked, err := store.HasLikedComment(r.Context(), comment.ID, claims.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error checking like state")
		return
	}
	if hasLiked {
		httpjson.Error(w, http.StatusBadRequest, "You have already liked this comment")
		return
	}

	if err := store.AddCommentLike(r.Context(), comment.ID, claims.UserID); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error liking comment")
		return
	}

	notifications.Send(r.Context(), store, comment.UserID,
		"Someone liked your reply!",
		comment.PostID, models.NotificationTypeCommentLike)

	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "Comment liked"})
}

func unlike(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	claims, err := authentication.ValidateToken(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "You must be logged in to unlike a comment")
		return
	}

	var req commentLikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	comment, err := store.GetCommentByID(r.Context(), req.CommentID)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Comment not found")
		return
	}

	hasLiked, err := store.HasLikedComment(r.Context(), comment.ID, claims.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error checking like state")
		return
	}
	if !hasLiked {
		httpjson.Error(w, http.StatusBadRequest, "You have not liked this comment")
		return
	}

	if err := store.RemoveCommentLike(r.Context(), comment.ID, claims.UserID); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error unliking comment")
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "Comment unliked"})
}

func list(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	postID := r.URL.Query().Get("postId")
	if _, err := store.GetPostByID(r.Context(), postID); err != nil {
		httpjson.Error(w, http.StatusNotFound, "Post not found")
		return
	}

	viewerID := authentication.OptionalUserID(r)
	comments, err := store.ListCommentsByPost(r.Context(), postID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error fetching comments")
		return
	}

	items := make([]models.CommentItem, 0, len(comments))
	for _, comment := range comments {
		author, err := store.GetUserByID(r.Context(), comment.UserID)
		if err != nil {
			continue
		}
		likes, err := store.CountCommentLikes(r.Context(), comment.ID)
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, "Error fetching comments")
			return
		}
		item := models.CommentItem{
			ID:                comment.ID,
			Body:              comment.Body,
			User:              models.Snippet(author),
			Likes:             likes,
			ImageData:         comment.ImageData,
			Emotion:           comment.Emotion,
			IsEmotionReaction: comment.IsEmotionReaction,
			CreatedAt:         comment.CreatedAt,
		}
		if viewerID != "" {
			if item.HasLiked, err = store.HasLikedComment(r.Context(), comment.ID, viewerID); err != nil {
				httpjson.Error(w, http.StatusInternalServerError, "Error fetching comments")
				return
			}
		}
		items = append(items, item)
	}
	httpjson.Respond(w, http.StatusOK, map[string]interface{}{"comments": items})
}

// ByID — DELETE удаление собственного комментария, id из пути.
func ByID(w http.ResponseWriter, r *http.Request, store storage.Storage) {
	if r.Method != http.MethodDelete {
		httpjson.Error(w, http.StatusMethodNotAllowed, "Invalid request method")
		return
	}

	claims, err := authentication.ValidateToken(r)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "You must be logged in to delete a comment")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/comments/")
	comment, err := store.GetCommentByID(r.Context(), id)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Comment not found")
		return
	}
	if comment.UserID != claims.UserID {
		httpjson.Error(w, http.StatusForbidden, "You do not have permission to delete this comment")
		return
	}

	if err := store.DeleteComment(r.Context(), id); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Error deleting comment")
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]bool{"success": true})
}
