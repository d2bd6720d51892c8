package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wensaqt/twitter-clone/controllers/authentication"
	"github.com/wensaqt/twitter-clone/models"
	"github.com/wensaqt/twitter-clone/storage/inmemory"
)

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

func do(t *testing.T, method, token string, store *inmemory.Store) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/notifications", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	Handle(rec, req, store)
	return rec
}

func TestSend(t *testing.T) {
	store := inmemory.New()
	recipient, _ := newTestUser(t, store, "alice")

	Send(context.Background(), store, recipient.ID, "Someone replied to your post!", "post-1", models.NotificationTypeComment)

	list, err := store.ListNotifications(context.Background(), recipient.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Someone replied to your post!", list[0].Body)
	assert.Equal(t, "post-1", list[0].PostID)

	user, err := store.GetUserByID(context.Background(), recipient.ID)
	require.NoError(t, err)
	assert.True(t, user.HasNewNotifications)
}

func TestSend_UnknownRecipient(t *testing.T) {
	store := inmemory.New()

	// Ошибка глотается, паники и следов нет.
	Send(context.Background(), store, "missing", "hello", "", models.NotificationTypeLike)
}

func TestHandle_List(t *testing.T) {
	store := inmemory.New()
	recipient, token := newTestUser(t, store, "alice")

	Send(context.Background(), store, recipient.ID, "older", "", models.NotificationTypeLike)
	Send(context.Background(), store, recipient.ID, "newer", "", models.NotificationTypeFollow)

	rec := do(t, http.MethodGet, token, store)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, "newer", resp.Notifications[0].Body)
	assert.Equal(t, "older", resp.Notifications[1].Body)

	assert.Equal(t, http.StatusUnauthorized, do(t, http.MethodGet, "", store).Code)
}

func TestHandle_Clear(t *testing.T) {
	store := inmemory.New()
	recipient, token := newTestUser(t, store, "alice")

	// Очистка пустого журнала тоже успех.
	assert.Equal(t, http.StatusOK, do(t, http.MethodDelete, token, store).Code)

	Send(context.Background(), store, recipient.ID, "hello", "", models.NotificationTypeLike)
	assert.Equal(t, http.StatusOK, do(t, http.MethodDelete, token, store).Code)

	list, err := store.ListNotifications(context.Background(), recipient.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	user, err := store.GetUserByID(context.Background(), recipient.ID)
	require.NoError(t, err)
	assert.False(t, user.HasNewNotifications)
}
