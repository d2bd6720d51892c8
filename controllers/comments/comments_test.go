package comments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wensaqt/twitter-clone/controllers/authentication"
	"github.com/wensaqt/twitter-clone/models"
	"github.com/wensaqt/twitter-clone/services"
	"github.com/wensaqt/twitter-clone/storage/inmemory"
)

// stubClassifier подменяет распознаватель эмоций в тестах.
type stubClassifier struct {
	label string
	err   error
}

func (s stubClassifier) Classify(ctx context.Context, imageData string) (string, error) {
	return s.label, s.err
}

func newTestUser(t *testing.T, store *inmemory.Store, username string) (*models.User, string) {
	t.Helper()
	user, err := store.CreateUser(context.Background(), &models.User{
		Name:     username,
		Email:    username + "@example.com",
		Username: username,
		Password: "hashed",
	})
	require.NoError(t, err)
	token, err := authentication.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func newTestPost(t *testing.T, store *inmemory.Store, userID string) *models.Post {
	t.Helper()
	post, err := store.CreatePost(context.Background(), &models.Post{
		Body: "commentable #post", UserID: userID,
	})
	require.NoError(t, err)
	return post
}

func doJSON(t *testing.T, method, target, token, body string, store *inmemory.Store, classifier services.Classifier) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	Handle(rec, req, store, classifier)
	return rec
}

func TestCreateComment(t *testing.T) {
	store := inmemory.New()
	author, _ := newTestUser(t, store, "alice")
	_, commenterToken := newTestUser(t, store, "bob")
	post := newTestPost(t, store, author.ID)

	// Без токена комментировать нельзя.
	rec := doJSON(t, http.MethodPost, "/api/comments", "",
		`{"body":"nice","postId":"`+post.ID+`"}`, store, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Несуществующий пост.
	rec = doJSON(t, http.MethodPost, "/api/comments", commenterToken,
		`{"body":"nice","postId":"missing"}`, store, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Пустое тело без снимка отклоняется.
	rec = doJSON(t, http.MethodPost, "/api/comments", commenterToken,
		`{"body":"   ","postId":"`+post.ID+`"}`, store, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Обычный комментарий: создан, владелец поста уведомлен.
	rec = doJSON(t, http.MethodPost, "/api/comments", commenterToken,
		`{"body":"great post","postId":"`+post.ID+`"}`, store, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var comment models.Comment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&comment))
	assert.Equal(t, "great post", comment.Body)
	assert.False(t, comment.IsEmotionReaction)

	list, err := store.ListNotifications(context.Background(), author.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationTypeComment, list[0].Type)
	assert.Equal(t, "Someone replied to your post!", list[0].Body)
}

func TestCreateReaction(t *testing.T) {
	store := inmemory.New()
	author, _ := newTestUser(t, store, "alice")
	_, commenterToken := newTestUser(t, store, "bob")
	post := newTestPost(t, store, author.ID)

	rec := doJSON(t, http.MethodPost, "/api/comments", commenterToken,
		`{"postId":"`+post.ID+`","imageData":"aGVsbG8="}`, store,
		stubClassifier{label: services.EmotionHappy})
	require.Equal(t, http.StatusOK, rec.Code)

	var comment models.Comment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&comment))
	assert.True(t, comment.IsEmotionReaction)
	assert.Equal(t, services.EmotionHappy, comment.Emotion)
	assert.Equal(t, services.ReactionBody(services.EmotionHappy), comment.Body)

	list, err := store.ListNotifications(context.Background(), author.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationTypeReaction, list[0].Type)
	assert.Equal(t, "bob shared a reaction to your post!", list[0].Body)
}

func TestCreateReaction_ClassifierFailure(t *testing.T) {
	store := inmemory.New()
	author, _ := newTestUser(t, store, "alice")
	_, commenterToken := newTestUser(t, store, "bob")
	post := newTestPost(t, store, author.ID)

	// Сбой распознавателя не валит запрос: метка деградирует до neutral.
	rec := doJSON(t, http.MethodPost, "/api/comments", commenterToken,
		`{"postId":"`+post.ID+`","imageData":"aGVsbG8="}`, store,
		stubClassifier{err: errors.New("model unavailable")})
	require.Equal(t, http.StatusOK, rec.Code)

	var comment models.Comment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&comment))
	assert.True(t, comment.IsEmotionReaction)
	assert.Equal(t, services.EmotionNeutral, comment.Emotion)
}

func TestCommentLike_StateMachine(t *testing.T) {
	store := inmemory.New()
	author, _ := newTestUser(t, store, "alice")
	_, viewerToken := newTestUser(t, store, "bob")
	post := newTestPost(t, store, author.ID)

	comment, err := store.CreateComment(context.Background(), &models.Comment{
		Body: "reply", PostID: post.ID, UserID: author.ID,
	})
	require.NoError(t, err)
	body := `{"commentId":"` + comment.ID + `"}`

	rec := doJSON(t, http.MethodPut, "/api/comments", viewerToken, body, store, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Повторный лайк — отказ, счетчик ровно 1.
	rec = doJSON(t, http.MethodPut, "/api/comments", viewerToken, body, store, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	count, err := store.CountCommentLikes(context.Background(), comment.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Автору комментария пришло уведомление.
	list, err := store.ListNotifications(context.Background(), author.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationTypeCommentLike, list[0].Type)

	rec = doJSON(t, http.MethodDelete, "/api/comments", viewerToken, body, store, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, http.MethodDelete, "/api/comments", viewerToken, body, store, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Лайк несуществующего комментария.
	rec = doJSON(t, http.MethodPut, "/api/comments", viewerToken,
		`{"commentId":"missing"}`, store, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListComments(t *testing.T) {
	store := inmemory.New()
	author, _ := newTestUser(t, store, "alice")
	viewer, viewerToken := newTestUser(t, store, "bob")
	post := newTestPost(t, store, author.ID)

	first, err := store.CreateComment(context.Background(), &models.Comment{
		Body: "first", PostID: post.ID, UserID: author.ID,
	})
	require.NoError(t, err)
	_, err = store.CreateComment(context.Background(), &models.Comment{
		Body: "second", PostID: post.ID, UserID: viewer.ID,
	})
	require.NoError(t, err)
	require.NoError(t, store.AddCommentLike(context.Background(), first.ID, viewer.ID))

	rec := doJSON(t, http.MethodGet, "/api/comments?postId="+post.ID, viewerToken, "", store, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Comments []models.CommentItem `json:"comments"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Comments, 2)

	// Старые первыми, hasLiked и счетчик считаются для зрителя.
	assert.Equal(t, "first", resp.Comments[0].Body)
	assert.Equal(t, "alice", resp.Comments[0].User.Username)
	assert.EqualValues(t, 1, resp.Comments[0].Likes)
	assert.True(t, resp.Comments[0].HasLiked)
	assert.False(t, resp.Comments[1].HasLiked)

	rec = doJSON(t, http.MethodGet, "/api/comments?postId=missing", "", "", store, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteComment(t *testing.T) {
	store := inmemory.New()
	author, authorToken := newTestUser(t, store, "alice")
	_, otherToken := newTestUser(t, store, "bob")
	post := newTestPost(t, store, author.ID)

	comment, err := store.CreateComment(context.Background(), &models.Comment{
		Body: "mine", PostID: post.ID, UserID: author.ID,
	})
	require.NoError(t, err)

	del := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/comments/"+comment.ID, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		ByID(rec, req, store)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, del("").Code)
	assert.Equal(t, http.StatusForbidden, del(otherToken).Code)
	assert.Equal(t, http.StatusOK, del(authorToken).Code)
	assert.Equal(t, http.StatusNotFound, del(authorToken).Code)
}
